// Package mongostore implements service.Service and service.Authenticator on
// MongoDB, for self-hosted deployments.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tboard/internal/config"
	"tboard/internal/service"
)

// APITimeout is the timeout for each database operation.
const APITimeout = 10 * time.Second

// Connect opens a client for cfg.Mongo and pings the primary.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(APITimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to MongoDB: %v", service.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to ping MongoDB: %v", service.ErrUnavailable, err)
	}
	return client, nil
}

// Client implements service.Service using MongoDB.
type Client struct {
	db     *mongo.Database
	userID string
	conn   *mongo.Client
}

// New verifies the stored session token and connects.
func New(ctx context.Context, cfg *config.Config, creds service.Credentials) (*Client, error) {
	claims, err := NewTokenIssuer(cfg.Mongo.TokenSecret).Verify(creds.IDToken)
	if err != nil {
		return nil, err
	}
	conn, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := NewWithDatabase(conn.Database(cfg.Mongo.Database), claims.UserID)
	c.conn = conn
	return c, nil
}

// NewWithDatabase creates a client over an open database (for testing).
func NewWithDatabase(db *mongo.Database, userID string) *Client {
	return &Client{db: db, userID: userID}
}

// Close disconnects if the client owns the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), APITimeout)
	defer cancel()
	return c.conn.Disconnect(ctx)
}

// CurrentUserID returns the signed-in user's id.
func (c *Client) CurrentUserID() string {
	return c.userID
}

func (c *Client) boards() *mongo.Collection { return c.db.Collection(boardsCollection) }
func (c *Client) users() *mongo.Collection  { return c.db.Collection(usersCollection) }

// memberFilter matches boardID only if the current user is assigned to it.
func (c *Client) memberFilter(boardID string) bson.M {
	return bson.M{"_id": boardID, "assignedTo": c.userID}
}

// explainMiss reports why a member-scoped match of boardID found nothing:
// ErrNotFound if the board is gone, ErrPermissionDenied if the user is not
// a member. It returns nil when the user is a member.
func (c *Client) explainMiss(ctx context.Context, boardID string) error {
	var d struct {
		AssignedTo []string `bson:"assignedTo"`
	}
	opts := options.FindOne().SetProjection(bson.M{"assignedTo": 1})
	if err := c.boards().FindOne(ctx, bson.M{"_id": boardID}, opts).Decode(&d); err != nil {
		return wrapError(err)
	}
	if !slices.Contains(d.AssignedTo, c.userID) {
		return fmt.Errorf("%w: not a member of board %s", service.ErrPermissionDenied, boardID)
	}
	return nil
}

// FetchBoard returns the board with its version counter. Boards the current
// user is not assigned to are not returned.
func (c *Client) FetchBoard(ctx context.Context, boardID string) (service.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var d boardDoc
	if err := c.boards().FindOne(ctx, c.memberFilter(boardID)).Decode(&d); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return service.Board{}, wrapError(err)
		}
		if merr := c.explainMiss(ctx, boardID); merr != nil {
			return service.Board{}, merr
		}
		return service.Board{}, wrapError(err)
	}
	log.WithFields(log.Fields{"board": d.ID, "version": d.Version}).Debug("mongo: fetched board")
	return d.toBoard(), nil
}

// ListBoards returns the current user's boards sorted by name.
func (c *Client) ListBoards(ctx context.Context) ([]service.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	cur, err := c.boards().Find(ctx, bson.M{"assignedTo": c.userID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, wrapError(err)
	}
	var docs []boardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrapError(err)
	}
	boards := make([]service.Board, len(docs))
	for i, d := range docs {
		boards[i] = d.toBoard()
	}
	return boards, nil
}

// CreateBoard inserts a board at version 1.
func (c *Client) CreateBoard(ctx context.Context, name string) (service.Board, error) {
	if err := service.Required("a board name", name); err != nil {
		return service.Board{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	d := boardDoc{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedBy:  c.userID,
		AssignedTo: []string{c.userID},
		TaskList:   []taskListDoc{},
		Version:    1,
	}
	if _, err := c.boards().InsertOne(ctx, d); err != nil {
		return service.Board{}, wrapError(err)
	}
	return d.toBoard(), nil
}

// SaveTaskLists replaces taskList if the board is still at version.
func (c *Client) SaveTaskLists(ctx context.Context, boardID, version string, lists []service.TaskList) error {
	return c.updateBoard(ctx, boardID, version, bson.M{"taskList": toTaskListDocs(lists)})
}

// SaveMembers replaces assignedTo if the board is still at version.
func (c *Client) SaveMembers(ctx context.Context, boardID, version string, assignedTo []string) error {
	return c.updateBoard(ctx, boardID, version, bson.M{"assignedTo": nonNil(assignedTo)})
}

func (c *Client) updateBoard(ctx context.Context, boardID, version string, set bson.M) error {
	v, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q", service.ErrConflict, version)
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	filter := c.memberFilter(boardID)
	filter["version"] = v
	res, err := c.boards().UpdateOne(ctx, filter, bson.M{"$set": set, "$inc": bson.M{"version": 1}})
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		if err := c.explainMiss(ctx, boardID); err != nil {
			return err
		}
		return fmt.Errorf("%w: version %d is stale", service.ErrConflict, v)
	}
	log.WithFields(log.Fields{"board": boardID, "version": v + 1}).Debug("mongo: updated board")
	return nil
}

// FetchUsers loads the profiles for ids, in the order of ids.
func (c *Client) FetchUsers(ctx context.Context, ids []string) ([]service.User, error) {
	if len(ids) == 0 {
		return []service.User{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	cur, err := c.users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"passwordHash": 0}))
	if err != nil {
		return nil, wrapError(err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrapError(err)
	}
	byID := make(map[string]userDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	users := make([]service.User, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			users = append(users, d.toUser())
		}
	}
	return users, nil
}

// FindUserByEmail looks up a profile by its lowercased email.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (service.User, error) {
	if err := service.Required("an email", email); err != nil {
		return service.User{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var d userDoc
	err := c.users().FindOne(ctx, bson.M{"email": normalizeEmail(email)}, options.FindOne().SetProjection(bson.M{"passwordHash": 0})).Decode(&d)
	if err != nil {
		return service.User{}, wrapError(err)
	}
	return d.toUser(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// wrapError maps driver errors onto the service error sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", service.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", service.ErrConflict, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(13) || se.HasErrorCode(18)) {
		return fmt.Errorf("%w: %v", service.ErrPermissionDenied, err)
	}
	return err
}
