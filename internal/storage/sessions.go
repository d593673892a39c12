// ABOUTME: Session, SessionDrill and Attendance operations for SQLite storage.
// ABOUTME: Join rows use explicit insert-or-update keyed by their composite key.
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

const sessionColumns = `id, session_date, duration_min, target_min, theme, notes, phase, created_at`

// CreateSession stores a new session in the database.
func (d *DB) CreateSession(ctx context.Context, s *models.Session) error {
	if err := insertSession(ctx, d.db, s); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	d.log.Debug("created session", "id", s.ID, "date", s.Date.Format(models.DateLayout))
	return nil
}

// CreateSessions stores many sessions in a single transaction.
func (d *DB) CreateSessions(ctx context.Context, sessions []*models.Session) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		for _, s := range sessions {
			if err := insertSession(ctx, tx, s); err != nil {
				return fmt.Errorf("create session %s: %w", s.Date.Format(models.DateLayout), err)
			}
		}
		d.log.Debug("created sessions", "count", len(sessions))
		return nil
	})
}

func insertSession(ctx context.Context, ex execer, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, session_date, duration_min, target_min, theme, notes, phase, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		s.ID.String(),
		s.Date.Format(models.DateLayout),
		s.DurationMinutes,
		nullInt(s.TargetMinutes),
		s.Theme,
		s.Notes,
		string(s.Phase),
		formatTime(s.CreatedAt),
	)
	return err
}

// GetSession retrieves a session by ID or ID prefix.
func (d *DB) GetSession(ctx context.Context, idOrPrefix string) (*models.Session, error) {
	id, err := d.resolveID(ctx, d.db, "session", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	s, err := scanSession(d.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("session", idOrPrefix)
	}
	return s, err
}

// ListSessions retrieves sessions sorted by date descending.
func (d *DB) ListSessions(ctx context.Context, limit int) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY session_date DESC, created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateSession overwrites the mutable fields of an existing session.
func (d *DB) UpdateSession(ctx context.Context, s *models.Session) error {
	query := `
		UPDATE sessions
		SET session_date = ?, duration_min = ?, target_min = ?, theme = ?, notes = ?, phase = ?
		WHERE id = ?
	`
	result, err := d.db.ExecContext(ctx, query,
		s.Date.Format(models.DateLayout), s.DurationMinutes, nullInt(s.TargetMinutes),
		s.Theme, s.Notes, string(s.Phase), s.ID.String())
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errs.NotFound("session", s.ID.String())
	}
	return nil
}

// DeleteSession removes a session together with its planned drills and
// attendance. It fails with a ReferentialIntegrityError while any result
// references the session.
func (d *DB) DeleteSession(ctx context.Context, idOrPrefix string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		id, err := d.resolveID(ctx, tx, "session", idOrPrefix)
		if err != nil {
			return err
		}

		n, err := countRows(ctx, tx, "drill_results", "session_id", id)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if n > 0 {
			return &errs.ReferentialIntegrityError{Entity: "session", ID: id.String(), Dependent: "result", Count: n}
		}

		// CASCADE is enabled, so session_drills and attendance go with it
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		d.log.Debug("deleted session", "id", id)
		return nil
	})
}

// UpsertSessionDrill plans a drill into a session. A second call for the
// same (session, drill) pair updates the existing row in place.
func (d *DB) UpsertSessionDrill(ctx context.Context, sd *models.SessionDrill) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return upsertSessionDrill(ctx, tx, sd)
	})
	if isForeignKeyErr(err) {
		return &errs.ReferentialIntegrityError{Entity: "session drill", ID: sd.SessionID.String(), Dependent: "session or drill"}
	}
	if err != nil {
		return fmt.Errorf("upsert session drill: %w", err)
	}
	return nil
}

func upsertSessionDrill(ctx context.Context, ex execer, sd *models.SessionDrill) error {
	result, err := ex.ExecContext(ctx, `
		UPDATE session_drills
		SET sequence_no = ?, planned_minutes = ?, planned_reps = ?
		WHERE session_id = ? AND drill_id = ?
	`, sd.Sequence, nullInt(sd.PlannedMinutes), sd.PlannedReps, sd.SessionID.String(), sd.DrillID.String())
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		return nil
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO session_drills (session_id, drill_id, sequence_no, planned_minutes, planned_reps)
		VALUES (?, ?, ?, ?, ?)
	`, sd.SessionID.String(), sd.DrillID.String(), sd.Sequence, nullInt(sd.PlannedMinutes), sd.PlannedReps)
	return err
}

// ListSessionDrills returns the plan of a session ordered by sequence.
func (d *DB) ListSessionDrills(ctx context.Context, sessionID uuid.UUID) ([]*models.SessionDrill, error) {
	query := `
		SELECT sd.session_id, sd.drill_id, sd.sequence_no, sd.planned_minutes, sd.planned_reps, d.name
		FROM session_drills sd
		JOIN drills d ON d.id = sd.drill_id
		WHERE sd.session_id = ?
		ORDER BY sd.sequence_no ASC, d.name ASC
	`
	rows, err := d.db.QueryContext(ctx, query, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list session drills: %w", err)
	}
	defer rows.Close()

	var plan []*models.SessionDrill
	for rows.Next() {
		var sd models.SessionDrill
		var sid, did string
		var minutes sql.NullInt64
		if err := rows.Scan(&sid, &did, &sd.Sequence, &minutes, &sd.PlannedReps, &sd.DrillName); err != nil {
			return nil, fmt.Errorf("scan session drill: %w", err)
		}
		sd.SessionID, _ = uuid.Parse(sid)
		sd.DrillID, _ = uuid.Parse(did)
		sd.PlannedMinutes = intPtr(minutes)
		plan = append(plan, &sd)
	}
	return plan, rows.Err()
}

// NextSequence suggests the sequence number after the current maximum of
// the session's plan.
func (d *DB) NextSequence(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var maxSeq sql.NullInt64
	err := d.db.QueryRowContext(ctx,
		"SELECT MAX(sequence_no) FROM session_drills WHERE session_id = ?", sessionID.String()).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return int(maxSeq.Int64) + 1, nil
}

// DeleteSessionDrill removes a drill from a session plan.
func (d *DB) DeleteSessionDrill(ctx context.Context, sessionID, drillID uuid.UUID) error {
	result, err := d.db.ExecContext(ctx,
		"DELETE FROM session_drills WHERE session_id = ? AND drill_id = ?", sessionID.String(), drillID.String())
	if err != nil {
		return fmt.Errorf("delete session drill: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errs.NotFound("session drill", drillID.String())
	}
	return nil
}

// UpsertAttendance records a player's status at a session, overwriting any
// previous status for the same pair.
func (d *DB) UpsertAttendance(ctx context.Context, a *models.Attendance) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		return upsertAttendance(ctx, tx, a)
	})
	if isForeignKeyErr(err) {
		return &errs.ReferentialIntegrityError{Entity: "attendance", ID: a.SessionID.String(), Dependent: "session or player"}
	}
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

func upsertAttendance(ctx context.Context, ex execer, a *models.Attendance) error {
	result, err := ex.ExecContext(ctx,
		"UPDATE attendance SET status = ? WHERE session_id = ? AND player_id = ?",
		string(a.Status), a.SessionID.String(), a.PlayerID.String())
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		return nil
	}
	_, err = ex.ExecContext(ctx,
		"INSERT INTO attendance (session_id, player_id, status) VALUES (?, ?, ?)",
		a.SessionID.String(), a.PlayerID.String(), string(a.Status))
	return err
}

// ListAttendance returns the recorded attendance of a session by player name.
func (d *DB) ListAttendance(ctx context.Context, sessionID uuid.UUID) ([]*models.Attendance, error) {
	query := `
		SELECT a.session_id, a.player_id, a.status, p.name
		FROM attendance a
		JOIN players p ON p.id = a.player_id
		WHERE a.session_id = ?
		ORDER BY p.name ASC
	`
	rows, err := d.db.QueryContext(ctx, query, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var out []*models.Attendance
	for rows.Next() {
		var a models.Attendance
		var sid, pid, status string
		if err := rows.Scan(&sid, &pid, &status, &a.PlayerName); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		a.SessionID, _ = uuid.Parse(sid)
		a.PlayerID, _ = uuid.Parse(pid)
		a.Status = models.AttendanceStatus(status)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// IsEligible reports whether results may be recorded for the player in the
// session. Sessions without any attendance admit every player; otherwise
// only present or late players qualify.
func (d *DB) IsEligible(ctx context.Context, sessionID, playerID uuid.UUID) (bool, error) {
	var recorded int
	var status sql.NullString
	err := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM attendance WHERE session_id = ?),
			(SELECT status FROM attendance WHERE session_id = ? AND player_id = ?)
	`, sessionID.String(), sessionID.String(), playerID.String()).Scan(&recorded, &status)
	if err != nil {
		return false, fmt.Errorf("check eligibility: %w", err)
	}
	if recorded == 0 {
		return true, nil
	}
	return status.Valid && models.AttendanceStatus(status.String).Eligible(), nil
}

// scanSession scans a single row into a Session struct.
func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var idStr, date, phase, createdAt string
	var target sql.NullInt64

	err := row.Scan(&idStr, &date, &s.DurationMinutes, &target, &s.Theme, &s.Notes, &phase, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	s.Date, _ = time.Parse(models.DateLayout, date)
	s.TargetMinutes = intPtr(target)
	s.Phase = models.Phase(phase)
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}
