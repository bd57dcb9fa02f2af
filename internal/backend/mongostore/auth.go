package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"tboard/internal/config"
	"tboard/internal/service"
)

const (
	// TokenLifetime is how long an issued session token is valid.
	TokenLifetime = 7 * 24 * time.Hour

	tokenIssuer = "tboard"
)

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer returns an issuer for secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenClaims identify the holder of a verified token.
type TokenClaims struct {
	UserID string
	Email  string
	Expiry time.Time
}

// Issue signs a token for userID.
func (t *TokenIssuer) Issue(userID, email string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, errors.New("token secret is not set")
	}
	now := t.now()
	exp := now.Add(TokenLifetime)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return s, exp.Truncate(time.Second), nil
}

// Verify checks the signature and expiry of token.
func (t *TokenIssuer) Verify(token string) (TokenClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return TokenClaims{}, fmt.Errorf("%w: session expired (run: tboard login)", service.ErrAuth)
	}
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: invalid session token", service.ErrAuth)
	}
	tc := TokenClaims{UserID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		tc.Expiry = claims.ExpiresAt.Time
	}
	return tc, nil
}

// Authenticator signs users in against the users collection.
type Authenticator struct {
	db     *mongo.Database
	tokens *TokenIssuer
	conn   *mongo.Client
}

// NewAuthenticator connects and makes sure the unique email index exists.
func NewAuthenticator(ctx context.Context, cfg *config.Config) (*Authenticator, error) {
	conn, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := NewAuthenticatorWithDatabase(conn.Database(cfg.Mongo.Database), NewTokenIssuer(cfg.Mongo.TokenSecret))
	a.conn = conn
	if err := EnsureIndexes(ctx, a.db); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// NewAuthenticatorWithDatabase creates an authenticator over an open database.
func NewAuthenticatorWithDatabase(db *mongo.Database, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{db: db, tokens: tokens}
}

// Close disconnects if the authenticator owns the connection.
func (a *Authenticator) Close() error {
	if a.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), APITimeout)
	defer cancel()
	return a.conn.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return wrapError(err)
	}
	_, err = db.Collection(boardsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "assignedTo", Value: 1}},
	})
	return wrapError(err)
}

// SignIn checks the password against the stored bcrypt hash.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (service.Credentials, error) {
	if err := service.Required("an email", email); err != nil {
		return service.Credentials{}, err
	}
	if err := service.Required("a password", password); err != nil {
		return service.Credentials{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var d userDoc
	err := a.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return service.Credentials{}, fmt.Errorf("%w: invalid email or password", service.ErrAuth)
	}
	if err != nil {
		return service.Credentials{}, wrapError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return service.Credentials{}, fmt.Errorf("%w: invalid email or password", service.ErrAuth)
	}
	return a.credentials(d)
}

// SignUp stores a new user with a bcrypt password hash.
func (a *Authenticator) SignUp(ctx context.Context, name, email, password string) (service.Credentials, error) {
	if err := service.Required("a name", name); err != nil {
		return service.Credentials{}, err
	}
	if err := service.Required("an email", email); err != nil {
		return service.Credentials{}, err
	}
	if err := service.Required("a password", password); err != nil {
		return service.Credentials{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return service.Credentials{}, fmt.Errorf("failed to hash password: %w", err)
	}
	d := userDoc{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	if _, err := a.db.Collection(usersCollection).InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return service.Credentials{}, fmt.Errorf("%w: email already registered", service.ErrAuth)
		}
		return service.Credentials{}, wrapError(err)
	}
	log.WithField("user", d.ID).Debug("mongo: created user")
	return a.credentials(d)
}

func (a *Authenticator) credentials(d userDoc) (service.Credentials, error) {
	tok, exp, err := a.tokens.Issue(d.ID, d.Email)
	if err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{UserID: d.ID, Email: d.Email, IDToken: tok, Expiry: exp}, nil
}
