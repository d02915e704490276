// Package store holds the review persistence backends. The backend is picked
// from the connection string scheme; every backend returns reviews newest
// first with ties broken by descending ID.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"profilr/internal/platform/config"
	"profilr/internal/platform/mongo"
	"profilr/internal/platform/postgres"
	"profilr/internal/platform/redis"
	"profilr/internal/review/models"
)

// Store is a connected review backend.
type Store interface {
	// List returns every review, newest first. An empty store yields an empty,
	// non-nil slice.
	List(ctx context.Context) ([]*models.Review, error)
	// Insert persists review, assigning its ID, and returns the stored record.
	Insert(ctx context.Context, review *models.Review) (*models.Review, error)
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// Backend names, as reported by Kind.
const (
	KindMemory   = "memory"
	KindMongo    = "mongodb"
	KindPostgres = "postgres"
	KindRedis    = "redis"
)

// Kind resolves the backend for a connection string.
func Kind(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse store uri: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "memory":
		return KindMemory, nil
	case "mongodb", "mongodb+srv":
		return KindMongo, nil
	case "postgres", "postgresql":
		return KindPostgres, nil
	case "redis", "rediss":
		return KindRedis, nil
	default:
		return "", fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}

// Open connects to the backend named by cfg.URI and prepares it for use. The
// Postgres table must exist, so a schema failure fails Open; Mongo indexes are
// best-effort and only logged. It is the production opener handed to the
// connector.
func Open(ctx context.Context, cfg config.Store, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	kind, err := Kind(cfg.URI)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindMongo:
		client, err := mongo.Connect(ctx, cfg.URI, cfg.Database, cfg.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return withIndexes(ctx, NewMongo(client, cfg.Collection), logger), nil
	case KindPostgres:
		db, err := postgres.Open(ctx, cfg.URI, cfg.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		s := NewPostgres(db, cfg.Collection)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	case KindRedis:
		client, err := redis.Connect(ctx, cfg.URI, cfg.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, cfg.Collection), nil
	default:
		return NewInMemory(), nil
	}
}

// indexedStore is a Store with an optional index step.
type indexedStore interface {
	Store
	EnsureIndexes(ctx context.Context) error
}

// withIndexes runs the index step and returns s whether or not it succeeded.
// Reads stay correct without the index, just slower.
func withIndexes(ctx context.Context, s indexedStore, logger *slog.Logger) Store {
	if err := s.EnsureIndexes(ctx); err != nil {
		logger.WarnContext(ctx, "review index not ensured", "error", err)
	}
	return s
}

// ceilTime rounds t up to the backend's timestamp precision, so the returned
// record equals what a later List reads back and never predates the request.
func ceilTime(t time.Time, precision time.Duration) time.Time {
	truncated := t.Truncate(precision)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(precision)
}
