// Package service defines the backend-agnostic interface for board operations.
package service

import "context"

// Service defines the persistence operations available to a signed-in user.
// Commands never import a storage SDK directly.
type Service interface {
	// CurrentUserID returns the id of the signed-in user.
	CurrentUserID() string

	// FetchBoard returns the full current board aggregate.
	// Returns ErrNotFound if the id does not name a board.
	FetchBoard(ctx context.Context, boardID string) (Board, error)

	// ListBoards returns the boards the current user is a member of.
	ListBoards(ctx context.Context) ([]Board, error)

	// CreateBoard creates a board owned by the current user, who also
	// becomes its first member.
	CreateBoard(ctx context.Context, name string) (Board, error)

	// SaveTaskLists overwrites the whole task list sequence of a board.
	// Returns ErrConflict if the board is no longer at version.
	SaveTaskLists(ctx context.Context, boardID, version string, lists []TaskList) error

	// SaveMembers overwrites the member ids of a board.
	// Returns ErrConflict if the board is no longer at version.
	SaveMembers(ctx context.Context, boardID, version string, assignedTo []string) error

	// FetchUsers resolves member ids to profiles in the order given.
	// Unknown ids are skipped.
	FetchUsers(ctx context.Context, ids []string) ([]User, error)

	// FindUserByEmail finds a profile by email (case-insensitive).
	FindUserByEmail(ctx context.Context, email string) (User, error)
}

// Authenticator signs users in and up. It is used before a Service exists.
type Authenticator interface {
	// SignIn verifies an email and password.
	// Empty fields are rejected with a ValidationError before any round trip.
	SignIn(ctx context.Context, email, password string) (Credentials, error)

	// SignUp registers a new account and its profile.
	SignUp(ctx context.Context, name, email, password string) (Credentials, error)
}
