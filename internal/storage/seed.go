// ABOUTME: Deterministic demo dataset and the destructive reset operation.
// ABOUTME: Seed rows use name-derived UUIDs so repeated seeding is stable.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
)

var seedNamespace = uuid.MustParse("6f1d2c1e-3b7a-4e0b-9a51-0c6ad3f2b8e4")

// seedID derives a stable UUID for a seed row of the given kind.
func seedID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+name))
}

// seedEpoch is the created_at stamp of every seed row.
var seedEpoch = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

type seedResult struct {
	session, drill, player string
	success, total         int
	primary                string
	secondary              []string
}

// seed loads the demo dataset. It is only called inside a transaction on
// an empty store.
//
//nolint:funlen // Seed data is a flat list.
func seed(ctx context.Context, tx *sql.Tx) error {
	players := []*models.Player{
		seedPlayer("小涵", models.PositionOutsideHitter, "sophomore", 0),
		seedPlayer("Mina Park", models.PositionSetter, "junior", 3),
		seedPlayer("Lea Santos", models.PositionLibero, "freshman", 12),
		seedPlayer("Ava Chen", models.PositionMiddleBlocker, "senior", 9),
	}
	for _, p := range players {
		if err := insertPlayer(ctx, tx, p); err != nil {
			return fmt.Errorf("seed player %s: %w", p.Name, err)
		}
	}

	drills := []*models.Drill{
		seedDrill("Serve Accuracy", models.CategoryServe, 2, "hit zones 1, 5 and 6 on call"),
		seedDrill("Serve Receive Triangle", models.CategoryServeReceive, 3, "platform angle to target"),
		seedDrill("Dig Pursuit", models.CategoryDefense, 4, "read hitter shoulder, pursue tips"),
		seedDrill("Quick Set Tempo", models.CategorySet, 3, "consistent release point for the quick"),
		seedDrill("Read Block", models.CategoryBlock, 4, "footwork and hand position on the read"),
		seedDrill("Outside Attack Chain", models.CategoryAttack, 3, "approach timing against a two-person block"),
	}
	summary := models.NewDrill(models.SummaryDrillName, models.CategoryMixed, 1).
		WithObjective("qualitative per-session observations")
	summary.ID = SummaryDrillID
	summary.Hidden = true
	summary.CreatedAt = seedEpoch
	drills = append(drills, summary)
	for _, dr := range drills {
		if err := insertDrill(ctx, tx, dr); err != nil {
			return fmt.Errorf("seed drill %s: %w", dr.Name, err)
		}
	}

	sessions := []*models.Session{
		seedSession("2025-09-02", "serve receive focus", 90, models.PhaseBase),
		seedSession("2025-09-04", "transition offense", 85, models.PhaseBase),
		seedSession("2025-09-09", "serve receive focus", 95, models.PhaseBuild),
	}
	for _, s := range sessions {
		if err := insertSession(ctx, tx, s); err != nil {
			return fmt.Errorf("seed session %s: %w", s.Date.Format(models.DateLayout), err)
		}
	}

	plans := []struct {
		session, drill string
		minutes        int
		reps           string
	}{
		{"2025-09-02", "Serve Accuracy", 15, "3x10"},
		{"2025-09-02", "Serve Receive Triangle", 25, "5x6"},
		{"2025-09-04", "Quick Set Tempo", 20, "4x8"},
		{"2025-09-04", "Outside Attack Chain", 30, "6 rounds"},
		{"2025-09-09", "Serve Receive Triangle", 25, "5x6"},
		{"2025-09-09", "Dig Pursuit", 20, "4x10"},
	}
	seq := map[string]int{}
	for _, pl := range plans {
		seq[pl.session]++
		minutes := pl.minutes
		sd := &models.SessionDrill{
			SessionID:      seedID("session", pl.session),
			DrillID:        seedID("drill", pl.drill),
			Sequence:       seq[pl.session],
			PlannedMinutes: &minutes,
			PlannedReps:    pl.reps,
		}
		if err := upsertSessionDrill(ctx, tx, sd); err != nil {
			return fmt.Errorf("seed plan %s/%s: %w", pl.session, pl.drill, err)
		}
	}

	results := []seedResult{
		{"2025-09-02", "Serve Accuracy", "Mina Park", 7, 10, "toss height", nil},
		{"2025-09-02", "Serve Receive Triangle", "Lea Santos", 14, 18, "platform angle", []string{"footwork"}},
		{"2025-09-02", "Serve Receive Triangle", "小涵", 9, 15, "footwork", []string{"platform angle", "communication"}},
		{"2025-09-04", "Quick Set Tempo", "Mina Park", 11, 16, "release point", nil},
		{"2025-09-04", "Outside Attack Chain", "小涵", 8, 14, "approach timing", []string{"arm swing"}},
		{"2025-09-09", "Serve Receive Triangle", "Lea Santos", 16, 18, "", nil},
		{"2025-09-09", "Dig Pursuit", "Ava Chen", 5, 12, "read", []string{"footwork"}},
	}
	for i, sr := range results {
		r := &models.DrillResult{
			ID:           seedID("result", fmt.Sprintf("%02d", i+1)),
			SessionID:    seedID("session", sr.session),
			DrillID:      seedID("drill", sr.drill),
			PlayerID:     seedID("player", sr.player),
			SuccessCount: sr.success,
			TotalCount:   sr.total,
			CreatedAt:    seedEpoch.Add(time.Duration(i) * time.Minute),
		}
		r.WithTargets(sr.primary, sr.secondary)
		if err := insertResult(ctx, tx, r); err != nil {
			return fmt.Errorf("seed result %d: %w", i+1, err)
		}
	}

	return nil
}

func seedPlayer(name string, pos models.Position, year string, jersey int) *models.Player {
	p := models.NewPlayer(name).WithPosition(pos).WithClassYear(year)
	if jersey > 0 {
		p.WithJersey(jersey)
	}
	p.ID = seedID("player", name)
	p.CreatedAt = seedEpoch
	return p
}

func seedDrill(name string, cat models.Category, difficulty int, objective string) *models.Drill {
	dr := models.NewDrill(name, cat, difficulty).WithObjective(objective)
	dr.ID = seedID("drill", name)
	dr.CreatedAt = seedEpoch
	return dr
}

func seedSession(date, theme string, minutes int, phase models.Phase) *models.Session {
	day, _ := time.Parse(models.DateLayout, date)
	s := models.NewSession(day, theme).WithDuration(minutes).WithTarget(90).WithPhase(phase)
	s.ID = seedID("session", date)
	s.CreatedAt = seedEpoch
	return s
}

// Reset deletes every row, children first, and reloads the seed dataset in
// a single transaction. A failure leaves the previous data untouched.
func (d *DB) Reset(ctx context.Context) error {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{
			"result_targets",
			"drill_results",
			"attendance",
			"session_drills",
			"sessions",
			"drills",
			"players",
		} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if !d.seed {
			return nil
		}
		return seed(ctx, tx)
	})
	if err != nil {
		return &errs.StorageResetError{Err: err}
	}
	d.log.Info("store reset", "path", d.dbPath, "seeded", d.seed)
	return nil
}
