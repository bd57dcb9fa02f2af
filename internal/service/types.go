// Package service defines the backend-agnostic interface for board operations.
package service

import "time"

// Board is the aggregate loaded by a board screen: its members and the
// ordered task lists it owns.
type Board struct {
	ID         string
	Name       string
	Image      string
	CreatedBy  string
	AssignedTo []string
	TaskLists  []TaskList

	// Version is the opaque token the board was read at. Writes must send it
	// back; the backend rejects them with ErrConflict if it moved on.
	Version string
}

// TaskList is a titled column of cards.
type TaskList struct {
	Title     string
	CreatedBy string
	Cards     []Card
}

// Card is a single item in a task list.
type Card struct {
	Title      string
	CreatedBy  string
	AssignedTo []string
	LabelColor string
}

// User is a member profile.
type User struct {
	ID    string
	Name  string
	Email string
	Image string

	// Selected is transient picker state and is never persisted.
	Selected bool
}

// Credentials identify a signed-in user.
type Credentials struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// IsMember reports whether userID is assigned to the board.
func (b Board) IsMember(userID string) bool {
	for _, id := range b.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
