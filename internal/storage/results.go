// ABOUTME: DrillResult operations for SQLite storage.
// ABOUTME: A result and its secondary targets are written in one transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
)

const resultColumns = `id, session_id, drill_id, player_id, success_count, total_count, primary_target, notes, created_at`

// ResultFilter narrows ListResults. Zero values match everything.
type ResultFilter struct {
	SessionID *uuid.UUID
	DrillID   *uuid.UUID
	PlayerID  *uuid.UUID
	Since     *time.Time
	Limit     int
}

// CreateResult stores a result together with its secondary targets.
func (d *DB) CreateResult(ctx context.Context, r *models.DrillResult) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return insertResult(ctx, tx, r)
	})
	if isForeignKeyErr(err) {
		return &errs.ReferentialIntegrityError{Entity: "result", ID: r.ID.String(), Dependent: "session, drill or player"}
	}
	if err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	d.log.Debug("created result", "id", r.ID, "success", r.SuccessCount, "total", r.TotalCount)
	return nil
}

func insertResult(ctx context.Context, ex execer, r *models.DrillResult) error {
	query := `
		INSERT INTO drill_results (id, session_id, drill_id, player_id, success_count, total_count, primary_target, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		r.ID.String(),
		r.SessionID.String(),
		r.DrillID.String(),
		r.PlayerID.String(),
		r.SuccessCount,
		r.TotalCount,
		r.PrimaryTarget,
		r.Notes,
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return err
	}

	for i, t := range models.NormalizeTargets(r.SecondaryTargets) {
		_, err := ex.ExecContext(ctx,
			"INSERT INTO result_targets (result_id, position, target) VALUES (?, ?, ?)",
			r.ID.String(), i+1, t)
		if err != nil {
			return fmt.Errorf("insert target %q: %w", t, err)
		}
	}
	return nil
}

// GetResult retrieves a result by ID or ID prefix.
func (d *DB) GetResult(ctx context.Context, idOrPrefix string) (*models.DrillResult, error) {
	id, err := d.resolveID(ctx, d.db, "result", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + resultColumns + ` FROM drill_results WHERE id = ?`
	r, err := scanResult(d.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("result", idOrPrefix)
	}
	if err != nil {
		return nil, err
	}

	targets, err := d.loadTargets(ctx, []*models.DrillResult{r})
	if err != nil {
		return nil, err
	}
	r.SecondaryTargets = targets[r.ID]
	return r, nil
}

// ListResults retrieves results newest first, narrowed by filter.
func (d *DB) ListResults(ctx context.Context, filter ResultFilter) ([]*models.DrillResult, error) {
	query := `SELECT ` + prefixed("r", resultColumns) + ` FROM drill_results r`
	var where []string
	var args []any

	if filter.Since != nil {
		query += ` JOIN sessions s ON s.id = r.session_id`
		where = append(where, "s.session_date >= ?")
		args = append(args, filter.Since.Format(models.DateLayout))
	}
	if filter.SessionID != nil {
		where = append(where, "r.session_id = ?")
		args = append(args, filter.SessionID.String())
	}
	if filter.DrillID != nil {
		where = append(where, "r.drill_id = ?")
		args = append(args, filter.DrillID.String())
	}
	if filter.PlayerID != nil {
		where = append(where, "r.player_id = ?")
		args = append(args, filter.PlayerID.String())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []*models.DrillResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	targets, err := d.loadTargets(ctx, results)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		r.SecondaryTargets = targets[r.ID]
	}
	return results, nil
}

// DeleteResult removes a result and its secondary targets.
func (d *DB) DeleteResult(ctx context.Context, idOrPrefix string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		id, err := d.resolveID(ctx, tx, "result", idOrPrefix)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM drill_results WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete result: %w", err)
		}
		d.log.Debug("deleted result", "id", id)
		return nil
	})
}

// loadTargets fetches secondary targets for the given results in position order.
func (d *DB) loadTargets(ctx context.Context, results []*models.DrillResult) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(results))
	if len(results) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(results))
	args := make([]any, len(results))
	for i, r := range results {
		placeholders[i] = "?"
		args[i] = r.ID.String()
	}
	query := `SELECT result_id, target FROM result_targets WHERE result_id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY result_id, position`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rid, target string
		if err := rows.Scan(&rid, &target); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		id, _ := uuid.Parse(rid)
		out[id] = append(out[id], target)
	}
	return out, rows.Err()
}

// prefixed qualifies a comma separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// scanResult scans a single row into a DrillResult struct.
func scanResult(row rowScanner) (*models.DrillResult, error) {
	var r models.DrillResult
	var idStr, sessionID, drillID, playerID, createdAt string

	err := row.Scan(&idStr, &sessionID, &drillID, &playerID, &r.SuccessCount, &r.TotalCount,
		&r.PrimaryTarget, &r.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}

	r.ID, _ = uuid.Parse(idStr)
	r.SessionID, _ = uuid.Parse(sessionID)
	r.DrillID, _ = uuid.Parse(drillID)
	r.PlayerID, _ = uuid.Parse(playerID)
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}
