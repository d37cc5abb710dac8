// Package storage persists build history in Postgres.
package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/brigantine-ci/brigantine/internal/core"
)

// Store defines the build history operations. The orchestration core writes
// through it best-effort; the operator surface reads from it.
type Store interface {
	SaveBuildRecord(ctx context.Context, record *core.BuildRecord) error
	RecentBuilds(ctx context.Context, limit int) ([]core.BuildRecord, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// SaveBuildRecord inserts one build history row.
func (s *postgresStore) SaveBuildRecord(ctx context.Context, record *core.BuildRecord) error {
	query := `INSERT INTO builds (build_id, category, action, ref, commit, job_name, conclusion, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, query,
		record.BuildID, record.Category, record.Action, record.Ref, record.Commit,
		record.JobName, string(record.Conclusion), record.DurationMS, time.Now())
	return err
}

// RecentBuilds returns the newest build records, newest first.
func (s *postgresStore) RecentBuilds(ctx context.Context, limit int) ([]core.BuildRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, build_id, category, action, ref, commit, job_name, conclusion, duration_ms, created_at
		FROM builds
		ORDER BY created_at DESC
		LIMIT $1`

	var records []core.BuildRecord
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, err
	}
	return records, nil
}
