// Package postgres implements the Login Directory on a PostgreSQL table.
//
// Rows are append-only: every successful login inserts a new row, mirroring the
// behaviour of the spreadsheet backend.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store implements directory.Directory backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ directory.Directory = (*Store)(nil)

// New returns a Store backed by the given pgx connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

// Open creates a connection pool from a DSN, ensures the schema exists and
// returns a new Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return New(pool), nil
}

// EnsureSchema creates the login_records table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) CreateRecord(ctx context.Context, identity domain.Identity) error {
	record := directory.NewRecord(identity, s.now())
	_, err := s.pool.Exec(ctx,
		`INSERT INTO login_records (username, logged_in_at) VALUES ($1, $2)`,
		record.Username, record.Time)
	return err
}

func (s *Store) Exists(ctx context.Context, identity domain.Identity) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM login_records WHERE username = $1)`,
		identity.String()).Scan(&exists)
	return exists, err
}

func (s *Store) DeleteRecord(ctx context.Context, identity domain.Identity) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM login_records WHERE username = $1`, identity.String())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
