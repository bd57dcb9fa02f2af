// Package firestore implements service.Service on the Firestore REST API and
// service.Authenticator on the Firebase Identity Toolkit.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	fs "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"tboard/internal/config"
	"tboard/internal/credentials"
	"tboard/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	secureTokenURL = "https://securetoken.googleapis.com/v1/token"
)

// Client implements service.Service using Firestore.
type Client struct {
	docs     *fs.ProjectsDatabasesDocumentsService
	http     *http.Client
	basePath string
	root     string
	userID   string
}

// New creates a Firestore client for the signed-in user. The ID token is
// refreshed through the secure token endpoint and saved back to the session
// file.
func New(ctx context.Context, cfg *config.Config, creds service.Credentials) (*Client, error) {
	oauthConfig := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  secureTokenURL + "?key=" + cfg.Firestore.APIKey,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ts := credentials.NewSavingTokenSource(cfg.SessionPath(), oauthConfig.TokenSource(ctx, credentials.Token(creds)), creds)
	httpClient := oauth2.NewClient(ctx, ts)

	return NewWithHTTPClient(ctx, httpClient, cfg.Firestore.ProjectID, creds.UserID, cfg.Firestore.Endpoint)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// endpoint may be empty for the production API.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, projectID, userID, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := fs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}
	return &Client{
		docs:     svc.Projects.Databases.Documents,
		http:     httpClient,
		basePath: svc.BasePath,
		root:     fmt.Sprintf("projects/%s/databases/(default)/documents", projectID),
		userID:   userID,
	}, nil
}

// CurrentUserID returns the signed-in user's id.
func (c *Client) CurrentUserID() string {
	return c.userID
}

func (c *Client) docName(collection, id string) string {
	return c.root + "/" + collection + "/" + id
}

// FetchBoard returns the board document with its update time as version.
func (c *Client) FetchBoard(ctx context.Context, boardID string) (service.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc, err := c.docs.Get(c.docName(boardsCollection, boardID)).Context(ctx).Do()
	if err != nil {
		return service.Board{}, wrapError(err)
	}
	b := decodeBoard(doc)
	log.WithFields(log.Fields{"board": b.ID, "version": b.Version}).Debug("firestore: fetched board")
	return b, nil
}

// ListBoards returns the boards whose assignedTo array contains the current
// user. The filter runs on the server.
func (c *Client) ListBoards(ctx context.Context) ([]service.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	docs, err := c.runQuery(ctx, boardsCollection, fieldAssignedTo, "ARRAY_CONTAINS", c.userID, 0)
	if err != nil {
		return nil, err
	}
	boards := make([]service.Board, 0, len(docs))
	for _, doc := range docs {
		boards = append(boards, decodeBoard(doc))
	}
	log.WithFields(log.Fields{"user": c.userID, "boards": len(boards)}).Debug("firestore: listed boards")
	return boards, nil
}

// CreateBoard creates a board with the current user as creator and member.
func (c *Client) CreateBoard(ctx context.Context, name string) (service.Board, error) {
	if err := service.Required("a board name", name); err != nil {
		return service.Board{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc := encodeBoard(service.Board{
		Name:       name,
		CreatedBy:  c.userID,
		AssignedTo: []string{c.userID},
	})
	created, err := c.docs.CreateDocument(c.root, boardsCollection, doc).DocumentId(uuid.NewString()).Context(ctx).Do()
	if err != nil {
		return service.Board{}, wrapError(err)
	}
	return decodeBoard(created), nil
}

// SaveTaskLists overwrites the taskList field if the board is still at version.
func (c *Client) SaveTaskLists(ctx context.Context, boardID, version string, lists []service.TaskList) error {
	return c.patchBoard(ctx, boardID, version, fieldTaskList, encodeTaskLists(lists))
}

// SaveMembers overwrites the assignedTo field if the board is still at version.
func (c *Client) SaveMembers(ctx context.Context, boardID, version string, assignedTo []string) error {
	return c.patchBoard(ctx, boardID, version, fieldAssignedTo, strs(assignedTo))
}

func (c *Client) patchBoard(ctx context.Context, boardID, version, field string, v fs.Value) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc := &fs.Document{Fields: map[string]fs.Value{field: v}}
	call := c.docs.Patch(c.docName(boardsCollection, boardID), doc).UpdateMaskFieldPaths(field)
	if version != "" {
		call = call.CurrentDocumentUpdateTime(version)
	} else {
		call = call.CurrentDocumentExists(true)
	}
	if _, err := call.Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	log.WithFields(log.Fields{"board": boardID, "field": field, "version": version}).Debug("firestore: patched board")
	return nil
}

// FetchUsers fetches each profile in turn, skipping missing ones.
func (c *Client) FetchUsers(ctx context.Context, ids []string) ([]service.User, error) {
	users := make([]service.User, 0, len(ids))
	for _, id := range ids {
		u, err := c.fetchUser(ctx, id)
		if errors.Is(err, service.ErrNotFound) {
			log.WithField("user", id).Debug("firestore: skipping unknown user")
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Client) fetchUser(ctx context.Context, id string) (service.User, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc, err := c.docs.Get(c.docName(usersCollection, id)).Context(ctx).Do()
	if err != nil {
		return service.User{}, wrapError(err)
	}
	return decodeUser(doc), nil
}

// FindUserByEmail queries the users collection for an exact email match.
// Firebase Auth stores emails lowercased, so a miss is retried lowercased.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (service.User, error) {
	if err := service.Required("an email", email); err != nil {
		return service.User{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	email = strings.TrimSpace(email)
	candidates := []string{email}
	if lower := strings.ToLower(email); lower != email {
		candidates = append(candidates, lower)
	}
	for _, e := range candidates {
		docs, err := c.runQuery(ctx, usersCollection, fieldEmail, "EQUAL", e, 1)
		if err != nil {
			return service.User{}, err
		}
		if len(docs) > 0 {
			return decodeUser(docs[0]), nil
		}
	}
	return service.User{}, fmt.Errorf("%w: no user with email %s", service.ErrNotFound, email)
}

// runQuery runs a single field filter against collection. limit 0 means no
// limit.
//
// The REST endpoint streams a JSON array of RunQueryResponse, which the
// generated RunQuery call cannot decode, so the request is posted on the
// authorized client and decoded here.
func (c *Client) runQuery(ctx context.Context, collection, field, op, val string, limit int64) ([]*fs.Document, error) {
	q := &fs.StructuredQuery{
		From: []*fs.CollectionSelector{{CollectionId: collection}},
		Where: &fs.Filter{FieldFilter: &fs.FieldFilter{
			Field: &fs.FieldReference{FieldPath: field},
			Op:    op,
			Value: &fs.Value{StringValue: val},
		}},
		Limit: limit,
	}
	body, err := json.Marshal(&fs.RunQueryRequest{StructuredQuery: q})
	if err != nil {
		return nil, err
	}
	url := googleapi.ResolveRelative(c.basePath, "v1/"+c.root+":runQuery")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer googleapi.CloseBody(res)
	if err := googleapi.CheckResponse(res); err != nil {
		return nil, wrapError(err)
	}

	var results []*fs.RunQueryResponse
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding %s query: %w", collection, err)
	}
	docs := make([]*fs.Document, 0, len(results))
	for _, r := range results {
		if r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs, nil
}

// createUser writes the profile document users/{id}.
func (c *Client) createUser(ctx context.Context, u service.User) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.docs.CreateDocument(c.root, usersCollection, encodeUser(u)).DocumentId(u.ID).Context(ctx).Do()
	return wrapError(err)
}

// wrapError maps API errors onto the service error sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrAuth) {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		switch {
		case gerr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %s", service.ErrNotFound, msg)
		case gerr.Code == http.StatusUnauthorized:
			return fmt.Errorf("%w: session expired or revoked (run: tboard login)", service.ErrAuth)
		case gerr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", service.ErrPermissionDenied, msg)
		case gerr.Code == http.StatusConflict, isFailedPrecondition(gerr):
			return fmt.Errorf("%w: %s", service.ErrConflict, msg)
		case gerr.Code == http.StatusTooManyRequests, gerr.Code >= 500:
			return fmt.Errorf("%w: %s", service.ErrUnavailable, msg)
		}
		return fmt.Errorf("firestore: %s", msg)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrUnavailable)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	return err
}

func isFailedPrecondition(gerr *googleapi.Error) bool {
	return gerr.Code == http.StatusBadRequest &&
		(strings.Contains(gerr.Body, "FAILED_PRECONDITION") || strings.Contains(gerr.Message, "FAILED_PRECONDITION"))
}
