// ABOUTME: Read-only aggregation reports over the training store.
// ABOUTME: Every ratio guards a zero denominator and reports it as nil.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/storage"
)

const (
	// DefaultWindowDays is the trailing window of the recent load report.
	DefaultWindowDays = 28
	// DefaultMinSample is the attempt threshold of the weakest drills report.
	DefaultMinSample = 30
	// Unfilled labels results without a primary target.
	Unfilled = "(unfilled)"
)

// Engine runs reports against a Querier.
type Engine struct {
	q   storage.Querier
	now func() time.Time
}

// NewEngine creates a report engine reading through q.
func NewEngine(q storage.Querier) *Engine {
	return &Engine{q: q, now: time.Now}
}

// WithClock overrides the time source used for "today".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// LoadRow is one player's training volume in the recent window.
type LoadRow struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Sessions   int       `json:"sessions"`
	Attempts   int       `json:"attempts"`
}

// DrillRateRow is one drill's aggregate success rate.
type DrillRateRow struct {
	DrillID   uuid.UUID       `json:"drill_id"`
	DrillName string          `json:"drill_name"`
	Category  models.Category `json:"category"`
	Success   int             `json:"success"`
	Attempts  int             `json:"attempts"`
	Rate      *float64        `json:"rate"`
}

// TrendRow is one (year, week) bucket of a player's drill results.
type TrendRow struct {
	Year     int      `json:"year"`
	Week     int      `json:"week"`
	Success  int      `json:"success"`
	Attempts int      `json:"attempts"`
	Rate     *float64 `json:"rate"`
}

// ThemeRow is one theme's aggregate over its sessions.
type ThemeRow struct {
	Theme    string   `json:"theme"`
	Sessions int      `json:"sessions"`
	Success  int      `json:"success"`
	Attempts int      `json:"attempts"`
	Rate     *float64 `json:"rate"`
}

// ErrorRow is one primary target label and how often it was recorded.
type ErrorRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RecentLoad returns, per player, the distinct sessions with a result and the
// total attempts for sessions dated within [today-windowDays, today].
func (e *Engine) RecentLoad(ctx context.Context, windowDays int) ([]LoadRow, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	today := models.Day(e.now())
	from := today.AddDate(0, 0, -windowDays)

	query := `
		SELECT p.id, p.name, COUNT(DISTINCT r.session_id), COALESCE(SUM(r.total_count), 0) AS attempts
		FROM drill_results r
		JOIN players p ON p.id = r.player_id
		JOIN sessions s ON s.id = r.session_id
		WHERE s.session_date >= ? AND s.session_date <= ?
		GROUP BY p.id, p.name
		ORDER BY attempts DESC, p.name ASC
	`
	rows, err := e.q.QueryContext(ctx, query, from.Format(models.DateLayout), today.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("recent load: %w", err)
	}
	defer rows.Close()

	var out []LoadRow
	for rows.Next() {
		var r LoadRow
		var id string
		if err := rows.Scan(&id, &r.PlayerName, &r.Sessions, &r.Attempts); err != nil {
			return nil, fmt.Errorf("scan recent load: %w", err)
		}
		r.PlayerID, _ = uuid.Parse(id)
		out = append(out, r)
	}
	return out, rows.Err()
}

// WeakestDrills ranks drills by success rate, worst first, among drills with
// at least minSample attempts. The session summary sentinel is excluded.
func (e *Engine) WeakestDrills(ctx context.Context, minSample int) ([]DrillRateRow, error) {
	if minSample <= 0 {
		minSample = DefaultMinSample
	}

	query := `
		SELECT d.id, d.name, d.category,
			SUM(r.success_count), SUM(r.total_count),
			1.0 * SUM(r.success_count) / NULLIF(SUM(r.total_count), 0) AS rate
		FROM drill_results r
		JOIN drills d ON d.id = r.drill_id
		WHERE d.id <> ?
		GROUP BY d.id, d.name, d.category
		HAVING SUM(r.total_count) >= ?
		ORDER BY rate ASC, d.name ASC
	`
	rows, err := e.q.QueryContext(ctx, query, storage.SummaryDrillID.String(), minSample)
	if err != nil {
		return nil, fmt.Errorf("weakest drills: %w", err)
	}
	defer rows.Close()

	var out []DrillRateRow
	for rows.Next() {
		var r DrillRateRow
		var id, category string
		var rate sql.NullFloat64
		if err := rows.Scan(&id, &r.DrillName, &category, &r.Success, &r.Attempts, &rate); err != nil {
			return nil, fmt.Errorf("scan weakest drills: %w", err)
		}
		r.DrillID, _ = uuid.Parse(id)
		r.Category = models.Category(category)
		r.Rate = floatPtr(rate)
		out = append(out, r)
	}
	return out, rows.Err()
}

// WeeklyTrend buckets one player's results on one drill by the (year,
// Monday-based week) of the session date, oldest first.
func (e *Engine) WeeklyTrend(ctx context.Context, playerID, drillID uuid.UUID) ([]TrendRow, error) {
	if err := e.mustExist(ctx, "player", "players", playerID); err != nil {
		return nil, err
	}
	if err := e.mustExist(ctx, "drill", "drills", drillID); err != nil {
		return nil, err
	}

	query := `
		SELECT
			CAST(strftime('%Y', s.session_date) AS INTEGER) AS yr,
			CAST(strftime('%W', s.session_date) AS INTEGER) AS wk,
			SUM(r.success_count), SUM(r.total_count),
			1.0 * SUM(r.success_count) / NULLIF(SUM(r.total_count), 0)
		FROM drill_results r
		JOIN sessions s ON s.id = r.session_id
		WHERE r.player_id = ? AND r.drill_id = ?
		GROUP BY yr, wk
		ORDER BY yr ASC, wk ASC
	`
	rows, err := e.q.QueryContext(ctx, query, playerID.String(), drillID.String())
	if err != nil {
		return nil, fmt.Errorf("weekly trend: %w", err)
	}
	defer rows.Close()

	var out []TrendRow
	for rows.Next() {
		var r TrendRow
		var rate sql.NullFloat64
		if err := rows.Scan(&r.Year, &r.Week, &r.Success, &r.Attempts, &rate); err != nil {
			return nil, fmt.Errorf("scan weekly trend: %w", err)
		}
		r.Rate = floatPtr(rate)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ThemeRollup groups sessions that have results by theme.
func (e *Engine) ThemeRollup(ctx context.Context) ([]ThemeRow, error) {
	query := `
		SELECT s.theme, COUNT(DISTINCT s.id) AS sessions,
			SUM(r.success_count), SUM(r.total_count),
			1.0 * SUM(r.success_count) / NULLIF(SUM(r.total_count), 0)
		FROM sessions s
		JOIN drill_results r ON r.session_id = s.id
		GROUP BY s.theme
		ORDER BY sessions DESC, s.theme ASC
	`
	rows, err := e.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("theme rollup: %w", err)
	}
	defer rows.Close()

	var out []ThemeRow
	for rows.Next() {
		var r ThemeRow
		var rate sql.NullFloat64
		if err := rows.Scan(&r.Theme, &r.Sessions, &r.Success, &r.Attempts, &rate); err != nil {
			return nil, fmt.Errorf("scan theme rollup: %w", err)
		}
		r.Rate = floatPtr(rate)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ErrorRanking counts results per primary target. Blank and whitespace-only
// labels share the Unfilled bucket. Session summary notes are not counted.
func (e *Engine) ErrorRanking(ctx context.Context) ([]ErrorRow, error) {
	query := `
		SELECT COALESCE(NULLIF(TRIM(primary_target, ' ' || char(9) || char(10) || char(13)), ''), ?) AS label,
			COUNT(*) AS events
		FROM drill_results
		WHERE drill_id <> ?
		GROUP BY label
		ORDER BY events DESC, label ASC
	`
	rows, err := e.q.QueryContext(ctx, query, Unfilled, storage.SummaryDrillID.String())
	if err != nil {
		return nil, fmt.Errorf("error ranking: %w", err)
	}
	defer rows.Close()

	var out []ErrorRow
	for rows.Next() {
		var r ErrorRow
		if err := rows.Scan(&r.Label, &r.Count); err != nil {
			return nil, fmt.Errorf("scan error ranking: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (e *Engine) mustExist(ctx context.Context, entity, table string, id uuid.UUID) error {
	rows, err := e.q.QueryContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("lookup %s: %w", entity, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("lookup %s: %w", entity, err)
		}
		return errs.NotFound(entity, id.String())
	}
	return nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
