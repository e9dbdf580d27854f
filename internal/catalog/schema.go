package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when schema.sql changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// uniqueIdentifierIndex enforces one title per identifier once a run has
// resolved every conflict. It cannot exist while duplicates remain.
const uniqueIdentifierIndex = "isbns_injective"

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (re-import into a fresh database)",
			ErrSchemaMismatch, version, schemaVersion)
	}

	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// AddUniqueIdentifierConstraint creates the unique index on isbns(isbn). It
// fails while any identifier still maps to more than one title.
func (s *Store) AddUniqueIdentifierConstraint(ctx context.Context) error {
	query := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON isbns(isbn)", uniqueIdentifierIndex)
	if err := s.execWithoutResultRetry(ctx, query); err != nil {
		return fmt.Errorf("constrain isbns: %w", err)
	}
	return nil
}

// HasUniqueIdentifierConstraint reports whether the post-run index exists.
func (s *Store) HasUniqueIdentifierConstraint(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT COUNT(1) FROM sqlite_master WHERE type='index' AND name=?", uniqueIdentifierIndex,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check isbns constraint: %w", err)
	}
	return count > 0, nil
}
