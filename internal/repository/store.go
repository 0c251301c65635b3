package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Store bundles the check-in repositories behind one value so services can depend on a single store.
type Store struct {
	*SubmissionRepository
	*ClassificationRepository
	db *sqlx.DB
}

// NewStore builds the Postgres-backed store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		SubmissionRepository:     NewSubmissionRepository(db),
		ClassificationRepository: NewClassificationRepository(db),
		db:                       db,
	}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
