package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"profilr/internal/review/models"
)

// PostgresStore persists reviews in a single PostgreSQL table.
type PostgresStore struct {
	db    *sql.DB
	table string
	index string
}

// NewPostgres constructs a PostgreSQL-backed review store. table is quoted,
// so any configured collection name is safe to interpolate.
func NewPostgres(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		table: pq.QuoteIdentifier(table),
		index: pq.QuoteIdentifier(table + "_created_at_idx"),
	}
}

// EnsureSchema creates the reviews table and its ordering index when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         uuid PRIMARY KEY,
			name       text NOT NULL,
			role       text NOT NULL,
			comment    text NOT NULL,
			created_at timestamptz NOT NULL
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC, id DESC)`, s.index, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure review schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Review, error) {
	query := fmt.Sprintf(`
		SELECT id, name, role, comment, created_at
		FROM %s
		ORDER BY created_at DESC, id DESC
	`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Review, 0)
	for rows.Next() {
		var (
			r  models.Review
			id uuid.UUID
		)
		if err := rows.Scan(&id, &r.Name, &r.Role, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.ID = id.String()
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, review *models.Review) (*models.Review, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate review id: %w", err)
	}
	stored := *review
	stored.ID = id.String()
	stored.CreatedAt = ceilTime(review.CreatedAt, time.Microsecond).UTC()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, role, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.table)
	if _, err := s.db.ExecContext(ctx, query, id, stored.Name, stored.Role, stored.Comment, stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return &stored, nil
}

func (s *PostgresStore) Close(_ context.Context) error {
	return s.db.Close()
}

