// Package credentials stores the signed-in session and adapts it to oauth2.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"tboard/internal/service"
)

// expiryDelta is how early a token is considered expired.
const expiryDelta = 30 * time.Second

// ErrNotLoggedIn is returned by Load when no session is stored.
var ErrNotLoggedIn = fmt.Errorf("%w: not logged in (run: tboard login)", service.ErrAuth)

// Save writes creds to path with mode 0600.
func Save(path string, creds service.Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Load reads the session stored at path.
func Load(path string) (service.Credentials, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return service.Credentials{}, ErrNotLoggedIn
	}
	if err != nil {
		return service.Credentials{}, err
	}
	var creds service.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return service.Credentials{}, fmt.Errorf("%w: invalid session file: %v", service.ErrAuth, err)
	}
	if creds.UserID == "" || creds.IDToken == "" {
		return service.Credentials{}, fmt.Errorf("%w: incomplete session file", service.ErrAuth)
	}
	return creds, nil
}

// Expired reports whether the ID token is expired at now and cannot be
// refreshed.
func Expired(creds service.Credentials, now time.Time) bool {
	if creds.RefreshToken != "" || creds.Expiry.IsZero() {
		return false
	}
	return !now.Add(expiryDelta).Before(creds.Expiry)
}

// Claims are the fields read from an ID token.
type Claims struct {
	UserID string
	Email  string
	Expiry time.Time
}

// ParseClaims reads the claims of a JWT without verifying its signature.
// The issuer verifies tokens; the client only needs to know who it is.
func ParseClaims(idToken string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: malformed token: %v", service.ErrAuth, err)
	}
	var c Claims
	c.UserID, _ = claims.GetSubject()
	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		c.UserID = uid
	}
	c.Email, _ = claims["email"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.Expiry = exp.Time
	}
	return c, nil
}

// Token converts creds to an oauth2 bearer token.
func Token(creds service.Credentials) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  creds.IDToken,
		TokenType:    "Bearer",
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.Expiry,
	}
}

// FromToken merges a refreshed token into prev. An "id_token" extra field
// takes precedence over the access token.
func FromToken(tok *oauth2.Token, prev service.Credentials) service.Credentials {
	next := prev
	next.IDToken = tok.AccessToken
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		next.IDToken = id
	}
	if tok.RefreshToken != "" {
		next.RefreshToken = tok.RefreshToken
	}
	next.Expiry = tok.Expiry
	return next
}

// SavingTokenSource persists every token base hands out that differs from
// the last one seen.
type SavingTokenSource struct {
	path string
	base oauth2.TokenSource

	mu   sync.Mutex
	last service.Credentials
}

// NewSavingTokenSource wraps base, starting from the stored creds.
func NewSavingTokenSource(path string, base oauth2.TokenSource, creds service.Credentials) *SavingTokenSource {
	return &SavingTokenSource{path: path, base: base, last: creds}
}

// Token implements oauth2.TokenSource.
func (s *SavingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refreshing session: %v", service.ErrAuth, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := FromToken(tok, s.last)
	if next.IDToken != s.last.IDToken {
		if err := Save(s.path, next); err != nil {
			log.WithError(err).Warn("failed to save refreshed session")
		}
		s.last = next
	}
	return &oauth2.Token{AccessToken: next.IDToken, TokenType: "Bearer", Expiry: next.Expiry}, nil
}
