// ABOUTME: Drill CRUD operations for SQLite storage.
// ABOUTME: Includes soft hiding and the session summary sentinel drill.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
)

const drillColumns = `id, name, category, objective, difficulty, min_players, neuro_load, hidden, created_at`

// SummaryDrillID is the fixed identity of the session summary sentinel.
var SummaryDrillID = seedID("drill", models.SummaryDrillName)

// CreateDrill stores a new drill in the database.
func (d *DB) CreateDrill(ctx context.Context, dr *models.Drill) error {
	if err := insertDrill(ctx, d.db, dr); err != nil {
		return fmt.Errorf("create drill: %w", err)
	}
	d.log.Debug("created drill", "id", dr.ID, "name", dr.Name)
	return nil
}

func insertDrill(ctx context.Context, ex execer, dr *models.Drill) error {
	query := `
		INSERT INTO drills (id, name, category, objective, difficulty, min_players, neuro_load, hidden, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		dr.ID.String(),
		dr.Name,
		string(dr.Category),
		dr.Objective,
		dr.Difficulty,
		nullInt(dr.MinPlayers),
		nullInt(dr.NeuroLoad),
		dr.Hidden,
		formatTime(dr.CreatedAt),
	)
	return err
}

// GetDrill retrieves a drill by ID or ID prefix.
func (d *DB) GetDrill(ctx context.Context, idOrPrefix string) (*models.Drill, error) {
	id, err := d.resolveID(ctx, d.db, "drill", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + drillColumns + ` FROM drills WHERE id = ?`
	dr, err := scanDrill(d.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("drill", idOrPrefix)
	}
	return dr, err
}

// ListDrills retrieves drills newest first. Hidden drills and the summary
// sentinel are only included when includeHidden is set.
func (d *DB) ListDrills(ctx context.Context, includeHidden bool) ([]*models.Drill, error) {
	query := `SELECT ` + drillColumns + ` FROM drills`
	var args []any
	if !includeHidden {
		query += ` WHERE hidden = 0 AND id <> ?`
		args = append(args, SummaryDrillID.String())
	}
	query += ` ORDER BY created_at DESC, name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drills: %w", err)
	}
	defer rows.Close()

	var drills []*models.Drill
	for rows.Next() {
		dr, err := scanDrill(rows)
		if err != nil {
			return nil, err
		}
		drills = append(drills, dr)
	}
	return drills, rows.Err()
}

// UpdateDrill overwrites the mutable fields of an existing drill.
func (d *DB) UpdateDrill(ctx context.Context, dr *models.Drill) error {
	query := `
		UPDATE drills
		SET name = ?, category = ?, objective = ?, difficulty = ?, min_players = ?, neuro_load = ?, hidden = ?
		WHERE id = ?
	`
	result, err := d.db.ExecContext(ctx, query,
		dr.Name, string(dr.Category), dr.Objective, dr.Difficulty,
		nullInt(dr.MinPlayers), nullInt(dr.NeuroLoad), dr.Hidden, dr.ID.String())
	if err != nil {
		return fmt.Errorf("update drill: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errs.NotFound("drill", dr.ID.String())
	}
	return nil
}

// SetDrillHidden hides or restores a drill in pick-lists.
func (d *DB) SetDrillHidden(ctx context.Context, idOrPrefix string, hidden bool) error {
	id, err := d.resolveID(ctx, d.db, "drill", idOrPrefix)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, "UPDATE drills SET hidden = ? WHERE id = ?", hidden, id.String()); err != nil {
		return fmt.Errorf("hide drill: %w", err)
	}
	return nil
}

// DeleteDrill removes a drill and its session plan rows. It fails with a
// ReferentialIntegrityError while any result references the drill.
func (d *DB) DeleteDrill(ctx context.Context, idOrPrefix string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		id, err := d.resolveID(ctx, tx, "drill", idOrPrefix)
		if err != nil {
			return err
		}

		n, err := countRows(ctx, tx, "drill_results", "drill_id", id)
		if err != nil {
			return fmt.Errorf("delete drill: %w", err)
		}
		if n > 0 {
			return &errs.ReferentialIntegrityError{Entity: "drill", ID: id.String(), Dependent: "result", Count: n}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM drills WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete drill: %w", err)
		}
		d.log.Debug("deleted drill", "id", id)
		return nil
	})
}

// EnsureSummaryDrill returns the session summary sentinel, creating it on
// first use.
func (d *DB) EnsureSummaryDrill(ctx context.Context) (*models.Drill, error) {
	query := `
		INSERT INTO drills (id, name, category, objective, difficulty, hidden, created_at)
		VALUES (?, ?, ?, ?, 1, 1, ?)
		ON CONFLICT(id) DO NOTHING
	`
	_, err := d.db.ExecContext(ctx, query,
		SummaryDrillID.String(),
		models.SummaryDrillName,
		string(models.CategoryMixed),
		"qualitative per-session observations",
		formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure summary drill: %w", err)
	}
	return d.GetDrill(ctx, SummaryDrillID.String())
}

// scanDrill scans a single row into a Drill struct.
func scanDrill(row rowScanner) (*models.Drill, error) {
	var dr models.Drill
	var idStr, category, createdAt string
	var minPlayers, neuroLoad sql.NullInt64

	err := row.Scan(&idStr, &dr.Name, &category, &dr.Objective, &dr.Difficulty,
		&minPlayers, &neuroLoad, &dr.Hidden, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan drill: %w", err)
	}

	dr.ID, _ = uuid.Parse(idStr)
	dr.Category = models.Category(category)
	dr.MinPlayers = intPtr(minPlayers)
	dr.NeuroLoad = intPtr(neuroLoad)
	dr.CreatedAt = parseTime(createdAt)
	return &dr, nil
}
