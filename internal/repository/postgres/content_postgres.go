package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sitecms/internal/repository"
)

// currentRowID is the primary key of the single row holding the live document.
const currentRowID = "current"

// ContentPostgres is a PostgreSQL implementation of repository.ContentRepository.
// The document lives in one JSONB row that is upserted on every save.
type ContentPostgres struct {
	db *sql.DB
}

// NewContentPostgres creates a new ContentPostgres repository.
func NewContentPostgres(db *sql.DB) *ContentPostgres {
	return &ContentPostgres{db: db}
}

var _ repository.ContentRepository = (*ContentPostgres)(nil)

// Load returns the stored document body.
func (r *ContentPostgres) Load(ctx context.Context) ([]byte, error) {
	const q = `
		SELECT body
		FROM site_content
		WHERE id = $1
	`
	var body []byte
	if err := r.db.QueryRowContext(ctx, q, currentRowID).Scan(&body); err != nil {
		if IsNoRowsError(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return body, nil
}

// Save replaces the stored document body. Last writer wins.
func (r *ContentPostgres) Save(ctx context.Context, body []byte) error {
	const q = `
		INSERT INTO site_content (id, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, q, currentRowID, string(body))
	return err
}

// Ping checks database connectivity.
func (r *ContentPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// IsNoRowsError reports whether err means the query matched no row.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
