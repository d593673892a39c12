// ABOUTME: Tabular report results with named columns and ordered rows.
// ABOUTME: Converts report rows to display strings and formats rates.
package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
)

// Table is a rendered-agnostic report: a title, column names and rows of
// display strings in report order.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FormatRate renders a rate as a percentage with one decimal, rounding half
// up. A nil rate renders as "n/a".
func FormatRate(rate *float64) string {
	if rate == nil {
		return "n/a"
	}
	// The epsilon absorbs binary representation error like 0.0625*1000.
	tenths := math.Floor(*rate*1000 + 0.5 + 1e-9)
	return fmt.Sprintf("%.1f%%", tenths/10)
}

// LoadTable renders the recent load report.
func LoadTable(rows []LoadRow, windowDays int) Table {
	t := Table{
		Title:   fmt.Sprintf("Recent load (last %d days)", windowDays),
		Columns: []string{"Player", "Sessions", "Attempts"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.PlayerName, strconv.Itoa(r.Sessions), strconv.Itoa(r.Attempts)})
	}
	return t
}

// WeakestTable renders the weakest drills report.
func WeakestTable(rows []DrillRateRow, minSample int) Table {
	t := Table{
		Title:   fmt.Sprintf("Weakest drills (min %d attempts)", minSample),
		Columns: []string{"Drill", "Category", "Success", "Attempts", "Rate"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.DrillName, string(r.Category), strconv.Itoa(r.Success), strconv.Itoa(r.Attempts), FormatRate(r.Rate),
		})
	}
	return t
}

// TrendTable renders a weekly trend for the named player and drill.
func TrendTable(rows []TrendRow, player, drill string) Table {
	t := Table{
		Title:   fmt.Sprintf("Weekly trend: %s / %s", player, drill),
		Columns: []string{"Week", "Success", "Attempts", "Rate"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%04d-W%02d", r.Year, r.Week), strconv.Itoa(r.Success), strconv.Itoa(r.Attempts), FormatRate(r.Rate),
		})
	}
	return t
}

// ThemeTable renders the per-theme rollup.
func ThemeTable(rows []ThemeRow) Table {
	t := Table{
		Title:   "Theme rollup",
		Columns: []string{"Theme", "Sessions", "Attempts", "Rate"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Theme, strconv.Itoa(r.Sessions), strconv.Itoa(r.Attempts), FormatRate(r.Rate)})
	}
	return t
}

// ErrorTable renders the error-type ranking.
func ErrorTable(rows []ErrorRow) Table {
	t := Table{
		Title:   "Error ranking",
		Columns: []string{"Target", "Count"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Label, strconv.Itoa(r.Count)})
	}
	return t
}

// Options parameterises Summary.
type Options struct {
	WindowDays int
	MinSample  int

	// Trend is included when both ids are set.
	PlayerID   *uuid.UUID
	DrillID    *uuid.UUID
	PlayerName string
	DrillName  string
}

// Summary runs every report and returns their tables in a fixed order.
func (e *Engine) Summary(ctx context.Context, opts Options) ([]Table, error) {
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultWindowDays
	}
	if opts.MinSample <= 0 {
		opts.MinSample = DefaultMinSample
	}

	load, err := e.RecentLoad(ctx, opts.WindowDays)
	if err != nil {
		return nil, err
	}
	weakest, err := e.WeakestDrills(ctx, opts.MinSample)
	if err != nil {
		return nil, err
	}
	themes, err := e.ThemeRollup(ctx)
	if err != nil {
		return nil, err
	}
	ranking, err := e.ErrorRanking(ctx)
	if err != nil {
		return nil, err
	}

	tables := []Table{
		LoadTable(load, opts.WindowDays),
		WeakestTable(weakest, opts.MinSample),
		ThemeTable(themes),
		ErrorTable(ranking),
	}

	if opts.PlayerID != nil && opts.DrillID != nil {
		trend, err := e.WeeklyTrend(ctx, *opts.PlayerID, *opts.DrillID)
		if err != nil {
			return nil, err
		}
		tables = append(tables, TrendTable(trend, opts.PlayerName, opts.DrillName))
	}
	return tables, nil
}

// Names lists the report names accepted by Run.
var Names = []string{"summary", "load", "weakest", "trend", "themes", "errors"}

// Run executes one named report. An empty name runs the summary. The trend
// report requires both PlayerID and DrillID.
func (e *Engine) Run(ctx context.Context, name string, opts Options) ([]Table, error) {
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultWindowDays
	}
	if opts.MinSample <= 0 {
		opts.MinSample = DefaultMinSample
	}

	switch name {
	case "", "summary":
		return e.Summary(ctx, opts)
	case "load":
		rows, err := e.RecentLoad(ctx, opts.WindowDays)
		if err != nil {
			return nil, err
		}
		return []Table{LoadTable(rows, opts.WindowDays)}, nil
	case "weakest":
		rows, err := e.WeakestDrills(ctx, opts.MinSample)
		if err != nil {
			return nil, err
		}
		return []Table{WeakestTable(rows, opts.MinSample)}, nil
	case "trend":
		if opts.PlayerID == nil || opts.DrillID == nil {
			return nil, errs.Invalid("trend", "needs both a player and a drill")
		}
		rows, err := e.WeeklyTrend(ctx, *opts.PlayerID, *opts.DrillID)
		if err != nil {
			return nil, err
		}
		return []Table{TrendTable(rows, opts.PlayerName, opts.DrillName)}, nil
	case "themes":
		rows, err := e.ThemeRollup(ctx)
		if err != nil {
			return nil, err
		}
		return []Table{ThemeTable(rows)}, nil
	case "errors":
		rows, err := e.ErrorRanking(ctx)
		if err != nil {
			return nil, err
		}
		return []Table{ErrorTable(rows)}, nil
	default:
		return nil, errs.Invalid("report", fmt.Sprintf("unknown report %q (use %s)", name, strings.Join(Names, ", ")))
	}
}
