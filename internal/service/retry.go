package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// RetryPolicy bounds the retries applied to reads.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is used by the CLI.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}

// WithRetry wraps svc so that reads failing with ErrUnavailable are retried
// with exponential backoff. Writes pass straight through.
func WithRetry(svc Service, policy RetryPolicy) Service {
	return &retrying{Service: svc, policy: policy}
}

type retrying struct {
	Service
	policy RetryPolicy
}

// Close closes the wrapped service if it holds a connection.
func (r *retrying) Close() error {
	if c, ok := r.Service.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *retrying) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		b.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		b.MaxInterval = r.policy.MaxInterval
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, r.policy.MaxRetries), ctx)
}

func (r *retrying) do(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return backoff.Permanent(err)
		}
		log.WithFields(log.Fields{"op": op, "attempt": attempt}).WithError(err).Debug("read failed, retrying")
		return err
	}, r.backOff(ctx))
}

func (r *retrying) FetchBoard(ctx context.Context, boardID string) (Board, error) {
	var b Board
	err := r.do(ctx, "FetchBoard", func() error {
		var err error
		b, err = r.Service.FetchBoard(ctx, boardID)
		return err
	})
	return b, err
}

func (r *retrying) ListBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	err := r.do(ctx, "ListBoards", func() error {
		var err error
		boards, err = r.Service.ListBoards(ctx)
		return err
	})
	return boards, err
}

func (r *retrying) FetchUsers(ctx context.Context, ids []string) ([]User, error) {
	var users []User
	err := r.do(ctx, "FetchUsers", func() error {
		var err error
		users, err = r.Service.FetchUsers(ctx, ids)
		return err
	})
	return users, err
}

func (r *retrying) FindUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.do(ctx, "FindUserByEmail", func() error {
		var err error
		u, err = r.Service.FindUserByEmail(ctx, email)
		return err
	})
	return u, err
}
