package firestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	idt "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"tboard/internal/config"
	"tboard/internal/credentials"
	"tboard/internal/service"
)

// defaultTokenLifetime is used when the ID token carries no expiry.
const defaultTokenLifetime = time.Hour

// Authenticator signs users in with Firebase email/password accounts.
type Authenticator struct {
	rp        *idt.RelyingpartyService
	projectID string
	endpoint  string
	http      *http.Client
}

// NewAuthenticator creates an authenticator for the configured project.
func NewAuthenticator(ctx context.Context, cfg *config.Config) (*Authenticator, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.Firestore.APIKey)}
	if cfg.Firestore.AuthEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Firestore.AuthEndpoint))
	}
	svc, err := idt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
	}
	return &Authenticator{
		rp:        svc.Relyingparty,
		projectID: cfg.Firestore.ProjectID,
		endpoint:  cfg.Firestore.Endpoint,
		http:      http.DefaultClient,
	}, nil
}

// NewAuthenticatorWithHTTPClient points both APIs at endpoint (for testing).
func NewAuthenticatorWithHTTPClient(ctx context.Context, httpClient *http.Client, projectID, endpoint string) (*Authenticator, error) {
	svc, err := idt.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Authenticator{rp: svc.Relyingparty, projectID: projectID, endpoint: endpoint, http: httpClient}, nil
}

// SignIn verifies email and password.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (service.Credentials, error) {
	if err := service.Required("an email", email); err != nil {
		return service.Credentials{}, err
	}
	if err := service.Required("a password", password); err != nil {
		return service.Credentials{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := a.rp.VerifyPassword(&idt.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return service.Credentials{}, wrapAuthError(err)
	}
	return newCredentials(resp.LocalId, resp.Email, resp.IdToken, resp.RefreshToken), nil
}

// SignUp creates the account and its users/{id} profile document.
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

	signupCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	resp, err := a.rp.SignupNewUser(&idt.IdentitytoolkitRelyingpartySignupNewUserRequest{
		DisplayName: name,
		Email:       strings.TrimSpace(email),
		Password:    password,
	}).Context(signupCtx).Do()
	if err != nil {
		return service.Credentials{}, wrapAuthError(err)
	}
	creds := newCredentials(resp.LocalId, resp.Email, resp.IdToken, resp.RefreshToken)
	if creds.Email == "" {
		creds.Email = strings.TrimSpace(email)
	}

	client, err := NewWithHTTPClient(ctx, a.bearerClient(ctx, creds.IDToken), a.projectID, creds.UserID, a.endpoint)
	if err != nil {
		return service.Credentials{}, err
	}
	if err := client.createUser(ctx, service.User{ID: creds.UserID, Name: name, Email: creds.Email}); err != nil {
		return service.Credentials{}, fmt.Errorf("account created, but saving the profile failed: %w", err)
	}
	log.WithField("user", creds.UserID).Debug("firestore: created user profile")
	return creds, nil
}

// bearerClient authorizes requests with the fresh ID token over a.http.
func (a *Authenticator) bearerClient(ctx context.Context, idToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: idToken, TokenType: "Bearer"}))
}

func newCredentials(userID, email, idToken, refreshToken string) service.Credentials {
	creds := service.Credentials{
		UserID:       userID,
		Email:        email,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(defaultTokenLifetime),
	}
	if claims, err := credentials.ParseClaims(idToken); err == nil && !claims.Expiry.IsZero() {
		creds.Expiry = claims.Expiry
	}
	return creds
}

// wrapAuthError maps Identity Toolkit errors. Credential problems come back
// as 400 with a code such as INVALID_PASSWORD in the message.
func wrapAuthError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
		switch {
		case strings.Contains(gerr.Message, "EMAIL_EXISTS"):
			return fmt.Errorf("%w: email already registered", service.ErrAuth)
		case strings.Contains(gerr.Message, "WEAK_PASSWORD"):
			return fmt.Errorf("%w: password is too weak", service.ErrAuth)
		case strings.Contains(gerr.Message, "TOO_MANY_ATTEMPTS"):
			return fmt.Errorf("%w: too many attempts, try again later", service.ErrUnavailable)
		default:
			return fmt.Errorf("%w: invalid email or password", service.ErrAuth)
		}
	}
	return wrapError(err)
}
