// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"tboard/internal/service"
)

// DefaultUserID is the signed-in user of a new FakeService.
const DefaultUserID = "u1"

// FakeService is an in-memory implementation of service.Service for testing.
// Boards carry a version counter checked on every save.
type FakeService struct {
	mu       sync.RWMutex
	userID   string
	boards   []service.Board
	versions map[string]int
	users    []service.User
	nextID   int

	// Saves records every successful SaveTaskLists payload.
	Saves [][]service.TaskList

	// Error injection for testing
	FetchBoardErr      error
	ListBoardsErr      error
	CreateBoardErr     error
	SaveTaskListsErr   error
	SaveMembersErr     error
	FetchUsersErr      error
	FindUserByEmailErr error
}

// NewFakeService creates a FakeService signed in as DefaultUserID, with a
// matching user profile.
func NewFakeService() *FakeService {
	return &FakeService{
		userID:   DefaultUserID,
		versions: make(map[string]int),
		users:    []service.User{{ID: DefaultUserID, Name: "Test User", Email: "test@example.com"}},
	}
}

// SetUserID changes the signed-in user (for testing).
func (f *FakeService) SetUserID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userID = id
}

// AddBoard stores b at version 1. The signed-in user is added as a member if
// b has none.
func (f *FakeService) AddBoard(b service.Board) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(b.AssignedTo) == 0 {
		b.AssignedTo = []string{f.userID}
	}
	if b.CreatedBy == "" {
		b.CreatedBy = f.userID
	}
	f.boards = append(f.boards, clone(b))
	f.versions[b.ID] = 1
}

// AddUser stores a user profile.
func (f *FakeService) AddUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
}

// BumpVersion simulates a write by another client.
func (f *FakeService) BumpVersion(boardID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[boardID]++
}

// Board returns the stored board (for assertions).
func (f *FakeService) Board(boardID string) (service.Board, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.find(boardID)
	if i < 0 {
		return service.Board{}, false
	}
	return f.withVersion(i), true
}

func (f *FakeService) find(boardID string) int {
	for i, b := range f.boards {
		if b.ID == boardID {
			return i
		}
	}
	return -1
}

func (f *FakeService) withVersion(i int) service.Board {
	b := clone(f.boards[i])
	b.Version = strconv.Itoa(f.versions[b.ID])
	return b
}

// CurrentUserID implements service.Service.
func (f *FakeService) CurrentUserID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.userID
}

// FetchBoard implements service.Service.
func (f *FakeService) FetchBoard(ctx context.Context, boardID string) (service.Board, error) {
	if f.FetchBoardErr != nil {
		return service.Board{}, f.FetchBoardErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.find(boardID)
	if i < 0 {
		return service.Board{}, fmt.Errorf("%w: board %s", service.ErrNotFound, boardID)
	}
	return f.withVersion(i), nil
}

// ListBoards implements service.Service.
func (f *FakeService) ListBoards(ctx context.Context) ([]service.Board, error) {
	if f.ListBoardsErr != nil {
		return nil, f.ListBoardsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []service.Board
	for i, b := range f.boards {
		if b.IsMember(f.userID) {
			result = append(result, f.withVersion(i))
		}
	}
	return result, nil
}

// CreateBoard implements service.Service.
func (f *FakeService) CreateBoard(ctx context.Context, name string) (service.Board, error) {
	if f.CreateBoardErr != nil {
		return service.Board{}, f.CreateBoardErr
	}
	if err := service.Required("a board name", name); err != nil {
		return service.Board{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b := service.Board{
		ID:         fmt.Sprintf("board-%d", f.nextID),
		Name:       name,
		CreatedBy:  f.userID,
		AssignedTo: []string{f.userID},
	}
	f.boards = append(f.boards, b)
	f.versions[b.ID] = 1
	return f.withVersion(len(f.boards) - 1), nil
}

func (f *FakeService) checkVersion(boardID, version string) (int, error) {
	i := f.find(boardID)
	if i < 0 {
		return -1, fmt.Errorf("%w: board %s", service.ErrNotFound, boardID)
	}
	if strconv.Itoa(f.versions[boardID]) != version {
		return -1, fmt.Errorf("%w: version %s is stale", service.ErrConflict, version)
	}
	return i, nil
}

// SaveTaskLists implements service.Service.
func (f *FakeService) SaveTaskLists(ctx context.Context, boardID, version string, lists []service.TaskList) error {
	if f.SaveTaskListsErr != nil {
		return f.SaveTaskListsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.checkVersion(boardID, version)
	if err != nil {
		return err
	}
	f.boards[i].TaskLists = clone(service.Board{TaskLists: lists}).TaskLists
	f.versions[boardID]++
	f.Saves = append(f.Saves, clone(service.Board{TaskLists: lists}).TaskLists)
	return nil
}

// SaveMembers implements service.Service.
func (f *FakeService) SaveMembers(ctx context.Context, boardID, version string, assignedTo []string) error {
	if f.SaveMembersErr != nil {
		return f.SaveMembersErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.checkVersion(boardID, version)
	if err != nil {
		return err
	}
	f.boards[i].AssignedTo = append([]string(nil), assignedTo...)
	f.versions[boardID]++
	return nil
}

// FetchUsers implements service.Service.
func (f *FakeService) FetchUsers(ctx context.Context, ids []string) ([]service.User, error) {
	if f.FetchUsersErr != nil {
		return nil, f.FetchUsersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := []service.User{}
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id {
				result = append(result, u)
				break
			}
		}
	}
	return result, nil
}

// FindUserByEmail implements service.Service.
func (f *FakeService) FindUserByEmail(ctx context.Context, email string) (service.User, error) {
	if f.FindUserByEmailErr != nil {
		return service.User{}, f.FindUserByEmailErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return service.User{}, fmt.Errorf("%w: no user with email %s", service.ErrNotFound, email)
}

func clone(b service.Board) service.Board {
	b.AssignedTo = append([]string(nil), b.AssignedTo...)
	if b.TaskLists != nil {
		lists := make([]service.TaskList, len(b.TaskLists))
		for i, l := range b.TaskLists {
			if l.Cards != nil {
				cards := make([]service.Card, len(l.Cards))
				for j, c := range l.Cards {
					c.AssignedTo = append([]string(nil), c.AssignedTo...)
					cards[j] = c
				}
				l.Cards = cards
			}
			lists[i] = l
		}
		b.TaskLists = lists
	}
	return b
}

// FakeAuthenticator accepts a fixed set of email/password pairs.
type FakeAuthenticator struct {
	mu       sync.Mutex
	accounts map[string]account

	// Error injection for testing
	SignInErr error
	SignUpErr error
}

type account struct {
	userID   string
	name     string
	password string
}

// NewFakeAuthenticator creates an authenticator that knows
// test@example.com / secret as DefaultUserID.
func NewFakeAuthenticator() *FakeAuthenticator {
	return &FakeAuthenticator{accounts: map[string]account{
		"test@example.com": {userID: DefaultUserID, name: "Test User", password: "secret"},
	}}
}

// SignIn implements service.Authenticator.
func (a *FakeAuthenticator) SignIn(ctx context.Context, email, password string) (service.Credentials, error) {
	if err := service.Required("an email", email); err != nil {
		return service.Credentials{}, err
	}
	if err := service.Required("a password", password); err != nil {
		return service.Credentials{}, err
	}
	if a.SignInErr != nil {
		return service.Credentials{}, a.SignInErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	acct, ok := a.accounts[email]
	if !ok || acct.password != password {
		return service.Credentials{}, fmt.Errorf("%w: invalid email or password", service.ErrAuth)
	}
	return service.Credentials{UserID: acct.userID, Email: email, IDToken: "token-" + acct.userID}, nil
}

// SignUp implements service.Authenticator.
func (a *FakeAuthenticator) SignUp(ctx context.Context, name, email, password string) (service.Credentials, error) {
	for _, f := range [][2]string{{"a name", name}, {"an email", email}, {"a password", password}} {
		if err := service.Required(f[0], f[1]); err != nil {
			return service.Credentials{}, err
		}
	}
	if a.SignUpErr != nil {
		return service.Credentials{}, a.SignUpErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := a.accounts[email]; exists {
		return service.Credentials{}, fmt.Errorf("%w: email already registered", service.ErrAuth)
	}
	id := fmt.Sprintf("u%d", len(a.accounts)+1)
	a.accounts[email] = account{userID: id, name: name, password: password}
	return service.Credentials{UserID: id, Email: email, IDToken: "token-" + id}, nil
}
