// Package store accesses the hosted Supabase datastore through its
// PostgREST query layer. Every call is one request/response round trip;
// calls are independently atomic but never jointly transactional, so
// callers own their own retry-on-next-tick semantics.
package store

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"github.com/supabase-community/gotrue-go"
	gotypes "github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"buyers-backend/internal/config"
	appErrors "buyers-backend/pkg/errors"
	"buyers-backend/pkg/observability"
)

// Client wraps the Supabase client with a circuit breaker and metrics.
// Any failed round trip, including a rejected call while the breaker is
// open, surfaces as a store-unavailable error; nothing here retries.
type Client struct {
	sb      *supabase.Client
	breaker *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClient creates a store client from configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) (*Client, error) {
	sb, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, appErrors.NewInternal("failed to create supabase client", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "supabase",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		sb:      sb,
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Auth exposes the Supabase auth client for token verification.
func (c *Client) Auth() gotrue.Client {
	return c.sb.Auth
}

// From starts a PostgREST query against one table or view.
func (c *Client) From(table string) *postgrest.QueryBuilder {
	return c.sb.From(table)
}

// SignIn performs an email+password sign-in and returns the session.
func (c *Client) SignIn(email, password string) (gotypes.Session, error) {
	session, err := c.sb.SignInWithEmailPassword(email, password)
	if err != nil {
		return gotypes.Session{}, err
	}
	return session, nil
}

// execute runs one store round trip through the circuit breaker.
// The PostgREST client carries its own HTTP timeouts, so the context is
// only consulted for early cancellation before the call is issued.
func (c *Client) execute(ctx context.Context, operation string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return appErrors.NewUnavailable(operation+" canceled", err)
	}

	start := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	c.metrics.RecordStoreCall(operation, time.Since(start), err)

	if err != nil {
		c.logger.Warn("store call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return appErrors.NewUnavailable(operation+" failed", err)
	}
	return nil
}
