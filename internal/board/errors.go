package board

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned for a position that names no real list
	// or card, including the add-list slot.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMutationInFlight is returned when a round trip is already pending.
	ErrMutationInFlight = errors.New("another change is still being saved")

	// ErrSessionClosed is returned once the session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrAlreadyMember is returned when inviting a user already on the board.
	ErrAlreadyMember = errors.New("user is already a member of this board")
)

// IndexError describes an out-of-range position.
type IndexError struct {
	Pos int
	Len int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index out of range: %d (have %d)", e.Pos, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
