// ABOUTME: Resolves full UUIDs from user supplied ID prefixes.
// ABOUTME: Shared by every entity table with a TEXT id column.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
)

// tables maps entity names to their table. Only these names reach SQL.
var tables = map[string]string{
	"player":  "players",
	"drill":   "drills",
	"session": "sessions",
	"result":  "drill_results",
}

// resolveID finds the full ID for an entity from an ID or unique prefix.
func (d *DB) resolveID(ctx context.Context, ex execer, entity, idOrPrefix string) (uuid.UUID, error) {
	table, ok := tables[entity]
	if !ok {
		return uuid.Nil, fmt.Errorf("resolve %s ID: unknown entity", entity)
	}

	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if idOrPrefix == "" {
		return uuid.Nil, errs.NotFound(entity, idOrPrefix)
	}

	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		id, err := uuid.Parse(idOrPrefix)
		if err != nil {
			return uuid.Nil, errs.NotFound(entity, idOrPrefix)
		}
		var exists int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table)
		if err := ex.QueryRowContext(ctx, query, id.String()).Scan(&exists); err != nil {
			return uuid.Nil, fmt.Errorf("resolve %s ID: %w", entity, err)
		}
		if exists == 0 {
			return uuid.Nil, errs.NotFound(entity, idOrPrefix)
		}
		return id, nil
	}

	if !isIDPrefix(idOrPrefix) {
		return uuid.Nil, errs.NotFound(entity, idOrPrefix)
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE substr(id, 1, length(?)) = ? LIMIT 2", table)
	rows, err := ex.QueryContext(ctx, query, idOrPrefix, idOrPrefix)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s ID: %w", entity, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("scan %s ID: %w", entity, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s ID: %w", entity, err)
	}

	if len(matches) == 0 {
		return uuid.Nil, errs.NotFound(entity, idOrPrefix)
	}
	if len(matches) > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple %ss", idOrPrefix, entity)
	}

	return uuid.Parse(matches[0])
}

// isIDPrefix reports whether s can be the start of a lowercase UUID.
func isIDPrefix(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && c != '-' {
			return false
		}
	}
	return true
}

// countRows counts rows of table whose column equals id.
func countRows(ctx context.Context, ex execer, table, column string, id uuid.UUID) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, column)
	if err := ex.QueryRowContext(ctx, query, id.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
