// Package backend selects the persistence and authentication implementation
// named in the configuration.
package backend

import (
	"context"
	"fmt"
	"time"

	"tboard/internal/backend/firestore"
	"tboard/internal/backend/mongostore"
	"tboard/internal/config"
	"tboard/internal/credentials"
	"tboard/internal/service"
)

// NewService loads the stored session and opens the configured backend for
// it. Reads are retried with service.DefaultRetryPolicy.
func NewService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	creds, err := credentials.Load(cfg.SessionPath())
	if err != nil {
		return nil, err
	}
	if credentials.Expired(creds, time.Now()) {
		return nil, fmt.Errorf("%w: session expired (run: tboard login)", service.ErrAuth)
	}

	var svc service.Service
	switch cfg.Backend {
	case config.BackendMongo:
		svc, err = mongostore.New(ctx, cfg, creds)
	default:
		svc, err = firestore.New(ctx, cfg, creds)
	}
	if err != nil {
		return nil, err
	}
	return service.WithRetry(svc, service.DefaultRetryPolicy), nil
}

// NewAuthenticator returns the configured backend's authenticator.
func NewAuthenticator(ctx context.Context, cfg *config.Config) (service.Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendMongo:
		return mongostore.NewAuthenticator(ctx, cfg)
	default:
		return firestore.NewAuthenticator(ctx, cfg)
	}
}
