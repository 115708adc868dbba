package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/imgvault/imgvault/internal/model"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ ResultReader = (*Store)(nil)
	_ ResultWriter = (*Store)(nil)
)

// Store provides data access to the SQLite metadata database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	// Ensure the schema_version table exists.
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// Fresh database: initialize to version 0.
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// migrations is an ordered list of migration functions.
	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		s.migrateV1, // v0 → v1: initial schema
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema (v0 → v1).
//
// ts is stored as Unix nanoseconds rather than a formatted string so the
// "latest" ordering stays exact when inserts land microseconds apart.
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		op   TEXT NOT NULL,
		mode TEXT NOT NULL,
		ts   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_ts ON results(ts DESC, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateResult inserts a new result row.
func (s *Store) CreateResult(ctx context.Context, r model.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, name, op, mode, ts)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Op, r.Mode, r.CreatedAt.UnixNano(),
	)
	return err
}

// LatestResultID returns the id of the row with the greatest ts. Ties are
// broken by id ordering so concurrent pollers see a stable answer. Returns
// sql.ErrNoRows when nothing has been registered yet.
func (s *Store) LatestResultID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM results ORDER BY ts DESC, id DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetResult returns the metadata row for an id, or sql.ErrNoRows.
func (s *Store) GetResult(ctx context.Context, id string) (*model.Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, op, mode, ts FROM results WHERE id = ?`, id)
	var r model.Result
	var ts int64
	if err := row.Scan(&r.ID, &r.Name, &r.Op, &r.Mode, &ts); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, ts).UTC()
	return &r, nil
}

// CountResults returns the number of registered results.
func (s *Store) CountResults(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
