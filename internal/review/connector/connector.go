// Package connector owns the process-wide document store connection.
//
// A Connector is built once per process. The first EnsureReady opens the
// store; every later call returns the cached store without reconnecting. A
// failed attempt caches nothing, so the next call retries. Concurrent first
// calls share a single attempt.
package connector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"profilr/internal/platform/metrics"
	"profilr/internal/review/store"
	"profilr/pkg/platform/sentinel"
	"profilr/pkg/requestcontext"
)

// Opener connects to the document store. store.Open bound to the process
// configuration is the production opener.
type Opener func(ctx context.Context) (store.Store, error)

// Connector memoizes the store connection for the life of the process.
type Connector struct {
	open    Opener
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	store  store.Store
	closed bool

	group singleflight.Group
}

type Option func(c *Connector)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Connector) {
		c.metrics = m
	}
}

// New constructs a Connector around open. Nothing is dialed until the first
// EnsureReady.
func New(open Opener, opts ...Option) *Connector {
	c := &Connector{open: open, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureReady returns the connected store, connecting on first use.
// Connection failures wrap sentinel.ErrUnavailable.
func (c *Connector) EnsureReady(ctx context.Context) (store.Store, error) {
	if s, err := c.cached(); s != nil || err != nil {
		return s, err
	}

	v, err, _ := c.group.Do("connect", func() (any, error) {
		if s, err := c.cached(); s != nil || err != nil {
			return s, err
		}
		return c.connect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(store.Store), nil
}

// Ready reports whether a connection has been established.
func (c *Connector) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store != nil
}

// Close releases the cached connection. Later EnsureReady calls fail with
// sentinel.ErrClosed; a closed connector is only replaced by a new process.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	s := c.store
	c.store = nil
	c.closed = true
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	if err := s.Close(ctx); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (c *Connector) cached() (store.Store, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, sentinel.ErrClosed
	}
	return c.store, nil
}

func (c *Connector) connect(ctx context.Context) (store.Store, error) {
	// The attempt is shared by every waiter, so one caller's cancellation must
	// not abort it; the opener bounds itself with the connect timeout.
	start := time.Now()
	s, err := c.open(context.WithoutCancel(ctx))
	c.metrics.ObserveConnect(err)
	if err != nil {
		c.logger.ErrorContext(ctx, "store connection failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		_ = s.Close(context.WithoutCancel(ctx))
		return nil, sentinel.ErrClosed
	}
	c.store = s
	c.logger.InfoContext(ctx, "store connected",
		"request_id", requestcontext.RequestID(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s, nil
}
