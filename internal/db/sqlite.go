package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/lightwalker/dailydo/internal/types"
)

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS role_models (
		id                  TEXT PRIMARY KEY,
		full_name           TEXT NOT NULL,
		core_attributes     TEXT,
		enhanced_attributes TEXT,
		is_active           INTEGER NOT NULL DEFAULT 1,
		created_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_role_models_active ON role_models (is_active)`,
}

const sqliteEnhancedNull = "(enhanced_attributes IS NULL OR enhanced_attributes = '' OR enhanced_attributes = 'null')"

// SQLiteStore keeps role models in a local SQLite file, for development
// runs and tests
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens the database at path, creating its directory and schema.
// ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	memory := path == ":memory:" || strings.Contains(path, "mode=memory")
	if !memory && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if !memory {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db, log: logger.Named("sqlite")}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema runs the migrations; each statement is idempotent
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for i, stmt := range sqliteMigrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListEnhancementCandidates returns the role models matching filter, ordered by name
func (s *SQLiteStore) ListEnhancementCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.RoleModelRecord, error) {
	query, args := candidateQuery(filter, questionPlaceholder, sqliteEnhancedNull, false)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list role models: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []types.RoleModelRecord
	for rows.Next() {
		var (
			rec      types.RoleModelRecord
			enhanced sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SourceAttributes, &enhanced, &rec.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan role model: %w", err)
		}
		if enhanced.Valid {
			rec.EnhancedAttributes = []byte(enhanced.String)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role models: %w", err)
	}

	s.log.Debug("listed enhancement candidates", zap.Int("count", len(records)))
	return records, nil
}

// SaveRoleModelEnhancement overwrites the stored enhancement for a role model
func (s *SQLiteStore) SaveRoleModelEnhancement(ctx context.Context, roleModelID string, enhancement *types.RoleModelEnhancement) error {
	payload, err := json.Marshal(enhancement)
	if err != nil {
		return fmt.Errorf("failed to marshal enhancement: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE role_models SET enhanced_attributes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(payload), roleModelID,
	)
	if err != nil {
		return fmt.Errorf("failed to save enhancement for %s: %w", roleModelID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save enhancement for %s: %w", roleModelID, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to save enhancement for %s: %w", roleModelID, ErrRoleModelNotFound)
	}
	return nil
}

// UpsertRoleModel inserts or replaces a role model's source data. A stored
// enhancement is kept.
func (s *SQLiteStore) UpsertRoleModel(ctx context.Context, record types.RoleModelRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO role_models (id, full_name, core_attributes, is_active)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     full_name = excluded.full_name,
		     core_attributes = excluded.core_attributes,
		     is_active = excluded.is_active,
		     updated_at = CURRENT_TIMESTAMP`,
		record.ID, record.Name, record.SourceAttributes, record.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert role model %s: %w", record.ID, err)
	}
	return nil
}

// GetEnhancement returns the raw stored enhancement JSON, or nil when none is stored
func (s *SQLiteStore) GetEnhancement(ctx context.Context, roleModelID string) ([]byte, error) {
	var enhanced sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT enhanced_attributes FROM role_models WHERE id = ?`, roleModelID,
	).Scan(&enhanced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoleModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enhancement for %s: %w", roleModelID, err)
	}
	if !enhanced.Valid {
		return nil, nil
	}
	return []byte(enhanced.String), nil
}
