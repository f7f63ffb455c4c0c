package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/types"
)

// placeholder renders the n-th (1-based) bind parameter for a SQL dialect
type placeholder func(n int) string

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func questionPlaceholder(int) string { return "?" }

// candidateQuery builds the SELECT for filter. enhancedNull is the dialect's
// predicate for "no enhancement stored".
func candidateQuery(filter types.CandidateFilter, ph placeholder, enhancedNull string, idsAsArray bool) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.ActiveOnly {
		where = append(where, "is_active")
	}
	if filter.RequireAttributes {
		where = append(where, "core_attributes IS NOT NULL AND core_attributes <> ''")
	}
	if filter.ExcludeEnhanced {
		where = append(where, enhancedNull)
	}
	if len(filter.IDs) > 0 {
		if idsAsArray {
			args = append(args, filter.IDs)
			where = append(where, "id = ANY("+ph(len(args))+")")
		} else {
			marks := make([]string, len(filter.IDs))
			for i, id := range filter.IDs {
				args = append(args, id)
				marks[i] = ph(len(args))
			}
			where = append(where, "id IN ("+strings.Join(marks, ", ")+")")
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, full_name, COALESCE(core_attributes, ''), enhanced_attributes, is_active FROM role_models")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY full_name, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT " + ph(len(args)))
	}
	return sb.String(), args
}

const pgEnhancedNull = "(enhanced_attributes IS NULL OR enhanced_attributes = 'null'::jsonb)"

// ListEnhancementCandidates returns the role models matching filter, ordered by name
func (db *DB) ListEnhancementCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.RoleModelRecord, error) {
	query, args := candidateQuery(filter, dollarPlaceholder, pgEnhancedNull, true)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list role models: %w", err)
	}
	defer rows.Close()

	var records []types.RoleModelRecord
	for rows.Next() {
		var rec types.RoleModelRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SourceAttributes, &rec.EnhancedAttributes, &rec.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan role model: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role models: %w", err)
	}

	db.log.Debug("listed enhancement candidates", zap.Int("count", len(records)))
	return records, nil
}

// SaveRoleModelEnhancement overwrites the stored enhancement for a role model
func (db *DB) SaveRoleModelEnhancement(ctx context.Context, roleModelID string, enhancement *types.RoleModelEnhancement) error {
	payload, err := json.Marshal(enhancement)
	if err != nil {
		return fmt.Errorf("failed to marshal enhancement: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE role_models SET enhanced_attributes = $2, updated_at = NOW() WHERE id = $1`,
		roleModelID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save enhancement for %s: %w", roleModelID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to save enhancement for %s: %w", roleModelID, ErrRoleModelNotFound)
	}
	return nil
}

// UpsertRoleModel inserts or replaces a role model's source data. A stored
// enhancement is kept.
func (db *DB) UpsertRoleModel(ctx context.Context, record types.RoleModelRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO role_models (id, full_name, core_attributes, is_active, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		     full_name = EXCLUDED.full_name,
		     core_attributes = EXCLUDED.core_attributes,
		     is_active = EXCLUDED.is_active,
		     updated_at = NOW()`,
		record.ID, record.Name, record.SourceAttributes, record.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert role model %s: %w", record.ID, err)
	}
	return nil
}

// GetEnhancement returns the raw stored enhancement JSON, or nil when none is stored
func (db *DB) GetEnhancement(ctx context.Context, roleModelID string) ([]byte, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT enhanced_attributes FROM role_models WHERE id = $1`, roleModelID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleModelNotFound
		}
		return nil, fmt.Errorf("failed to get enhancement for %s: %w", roleModelID, err)
	}
	if string(payload) == "null" {
		return nil, nil
	}
	return payload, nil
}
