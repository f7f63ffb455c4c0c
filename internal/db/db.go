// Package db provides role model storage on PostgreSQL or SQLite.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/types"
)

//go:embed schema_postgres.sql
var postgresSchema string

// Store is what the CLI needs from either backend
type Store interface {
	ListEnhancementCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.RoleModelRecord, error)
	SaveRoleModelEnhancement(ctx context.Context, roleModelID string, enhancement *types.RoleModelEnhancement) error
	UpsertRoleModel(ctx context.Context, record types.RoleModelRecord) error
	GetEnhancement(ctx context.Context, roleModelID string) ([]byte, error)
	EnsureSchema(ctx context.Context) error
	Close() error
}

// Pool is the subset of pgxpool.Pool used by DB, so tests can use pgxmock
type Pool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool Pool
	log  *zap.Logger
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db, err := New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// New wraps an existing pool and verifies the connection
func New(ctx context.Context, pool Pool, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool, log: logger.Named("db")}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// EnsureSchema creates the role_models table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Open connects to the store named by url. postgres:// and postgresql://
// select PostgreSQL; sqlite:// and file: select SQLite.
func Open(ctx context.Context, url string, logger *zap.Logger) (Store, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Connect(ctx, url, logger)
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"), logger)
	case strings.HasPrefix(url, "file:"):
		return OpenSQLite(ctx, url, logger)
	default:
		return nil, &UnsupportedURLError{URL: url}
	}
}
