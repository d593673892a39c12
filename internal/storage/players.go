// ABOUTME: Player CRUD operations for SQLite storage.
// ABOUTME: Deletes are restricted while results reference the player.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
)

const playerColumns = `id, name, position, class_year, jersey, notes, created_at`

// CreatePlayer stores a new player in the database.
func (d *DB) CreatePlayer(ctx context.Context, p *models.Player) error {
	if err := insertPlayer(ctx, d.db, p); err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	d.log.Debug("created player", "id", p.ID, "name", p.Name)
	return nil
}

func insertPlayer(ctx context.Context, ex execer, p *models.Player) error {
	query := `
		INSERT INTO players (id, name, position, class_year, jersey, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		p.ID.String(),
		p.Name,
		string(p.Position),
		p.ClassYear,
		nullInt(p.Jersey),
		p.Notes,
		formatTime(p.CreatedAt),
	)
	return err
}

// GetPlayer retrieves a player by ID or ID prefix.
func (d *DB) GetPlayer(ctx context.Context, idOrPrefix string) (*models.Player, error) {
	id, err := d.resolveID(ctx, d.db, "player", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + playerColumns + ` FROM players WHERE id = ?`
	p, err := scanPlayer(d.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("player", idOrPrefix)
	}
	return p, err
}

// ListPlayers retrieves all players, newest first.
func (d *DB) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY created_at DESC, name ASC`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// UpdatePlayer overwrites the mutable fields of an existing player.
func (d *DB) UpdatePlayer(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players
		SET name = ?, position = ?, class_year = ?, jersey = ?, notes = ?
		WHERE id = ?
	`
	result, err := d.db.ExecContext(ctx, query,
		p.Name, string(p.Position), p.ClassYear, nullInt(p.Jersey), p.Notes, p.ID.String())
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errs.NotFound("player", p.ID.String())
	}
	return nil
}

// DeletePlayer removes a player and their attendance rows. It fails with a
// ReferentialIntegrityError while any result references the player.
func (d *DB) DeletePlayer(ctx context.Context, idOrPrefix string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		id, err := d.resolveID(ctx, tx, "player", idOrPrefix)
		if err != nil {
			return err
		}

		n, err := countRows(ctx, tx, "drill_results", "player_id", id)
		if err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
		if n > 0 {
			return &errs.ReferentialIntegrityError{Entity: "player", ID: id.String(), Dependent: "result", Count: n}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
		d.log.Debug("deleted player", "id", id)
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlayer scans a single row into a Player struct.
func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var idStr, position, createdAt string
	var jersey sql.NullInt64

	err := row.Scan(&idStr, &p.Name, &position, &p.ClassYear, &jersey, &p.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}

	p.ID, _ = uuid.Parse(idStr)
	p.Position = models.Position(position)
	p.Jersey = intPtr(jersey)
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
