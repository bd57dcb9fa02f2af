package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"tboard/internal/service"
)

// Store is the persistence side a Session talks to.
type Store interface {
	FetchBoard(ctx context.Context, boardID string) (service.Board, error)
	SaveTaskLists(ctx context.Context, boardID, version string, lists []service.TaskList) error
	SaveMembers(ctx context.Context, boardID, version string, assignedTo []string) error
}

// Mutation computes the lists to persist from the current display.
type Mutation func(ed Editor, d Display) ([]service.TaskList, error)

// Session owns one loaded board for as long as it is open. It runs at most one
// save round trip at a time and leaves the loaded board untouched when a
// mutation or round trip fails.
type Session struct {
	store  Store
	editor Editor

	mu       sync.Mutex
	board    service.Board
	display  Display
	inFlight bool
	closed   bool
}

// Open fetches boardID and returns a session editing it as actor.
func Open(ctx context.Context, store Store, actor, boardID string) (*Session, error) {
	b, err := store.FetchBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"board": b.ID, "lists": len(b.TaskLists), "version": b.Version}).Debug("board loaded")
	return NewSession(store, actor, b), nil
}

// NewSession returns a session over an already fetched board.
func NewSession(store Store, actor string, b service.Board) *Session {
	return &Session{
		store:   store,
		editor:  NewEditor(actor),
		board:   cloneBoard(b),
		display: PrepareForDisplay(b.TaskLists),
	}
}

// Board returns a copy of the loaded board.
func (s *Session) Board() service.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBoard(s.board)
}

// Display returns the loaded board's displayed sequence.
func (s *Session) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// Apply runs m against the current display, saves the result with the version
// the board was read at and reloads the board.
func (s *Session) Apply(ctx context.Context, m Mutation) error {
	s.mu.Lock()
	if err := s.checkIdle(); err != nil {
		s.mu.Unlock()
		return err
	}
	lists, err := m(s.editor, s.display)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	id, version := s.board.ID, s.board.Version
	s.inFlight = true
	s.mu.Unlock()

	log.WithFields(log.Fields{"board": id, "lists": len(lists), "version": version}).Debug("saving task lists")
	return s.roundTrip(ctx, func() error {
		return s.store.SaveTaskLists(ctx, id, version, lists)
	})
}

// Invite adds userID to the board's members.
func (s *Session) Invite(ctx context.Context, userID string) error {
	s.mu.Lock()
	if err := s.checkIdle(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.board.IsMember(userID) {
		s.mu.Unlock()
		return ErrAlreadyMember
	}
	id, version := s.board.ID, s.board.Version
	members := append(append([]string(nil), s.board.AssignedTo...), userID)
	s.inFlight = true
	s.mu.Unlock()

	log.WithFields(log.Fields{"board": id, "user": userID, "version": version}).Debug("saving members")
	return s.roundTrip(ctx, func() error {
		return s.store.SaveMembers(ctx, id, version, members)
	})
}

// Refresh reloads the board, for example after a conflict.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkIdle(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.inFlight = true
	s.mu.Unlock()

	return s.roundTrip(ctx, func() error { return nil })
}

// Close discards the session. Round trips that complete afterwards leave it
// as it was.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) checkIdle() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.inFlight {
		return ErrMutationInFlight
	}
	return nil
}

// roundTrip runs write, then fetches the board again and installs it.
// s.inFlight must already be set.
func (s *Session) roundTrip(ctx context.Context, write func() error) error {
	s.mu.Lock()
	id := s.board.ID
	s.mu.Unlock()

	var fresh service.Board
	err := write()
	if err == nil {
		fresh, err = s.store.FetchBoard(ctx, id)
		if err != nil {
			err = fmt.Errorf("saved, but reloading failed: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		log.WithField("board", id).Warn("discarding completion for closed session")
		return ErrSessionClosed
	}
	if errors.Is(err, service.ErrConflict) {
		log.WithField("board", id).Warn("board changed since it was loaded")
		return err
	}
	if err != nil {
		log.WithField("board", id).WithError(err).Debug("round trip failed")
		return err
	}
	s.board = cloneBoard(fresh)
	s.display = PrepareForDisplay(fresh.TaskLists)
	return nil
}

func cloneBoard(b service.Board) service.Board {
	b.AssignedTo = append([]string(nil), b.AssignedTo...)
	b.TaskLists = cloneLists(b.TaskLists)
	return b
}
