// ABOUTME: Export and import functionality for training records.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/volley/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for training records.
type ExportData struct {
	Version       string                 `json:"version" yaml:"version"`
	ExportedAt    time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool          string                 `json:"tool" yaml:"tool"`
	Players       []*models.Player       `json:"players" yaml:"players"`
	Drills        []*models.Drill        `json:"drills" yaml:"drills"`
	Sessions      []*models.Session      `json:"sessions" yaml:"sessions"`
	SessionDrills []*models.SessionDrill `json:"session_drills" yaml:"session_drills"`
	Attendance    []*models.Attendance   `json:"attendance" yaml:"attendance"`
	Results       []*models.DrillResult  `json:"results" yaml:"results"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	players, err := d.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	drills, err := d.ListDrills(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list drills: %w", err)
	}

	sessions, err := d.ListSessions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "volley",
		Players:    players,
		Drills:     drills,
		Sessions:   sessions,
	}

	// Populate per-session plans and attendance
	for _, s := range sessions {
		plan, err := d.ListSessionDrills(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("list session drills: %w", err)
		}
		data.SessionDrills = append(data.SessionDrills, plan...)

		att, err := d.ListAttendance(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("list attendance: %w", err)
		}
		data.Attendance = append(data.Attendance, att...)
	}

	data.Results, err = d.ListResults(ctx, ResultFilter{})
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	return data, nil
}

// ImportData imports data from an export file in a single transaction.
// Rows whose ID already exists are skipped; plan and attendance rows are
// upserted.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range data.Players {
			if err := importRow(ctx, tx, "players", p.ID.String(), func() error {
				return insertPlayer(ctx, tx, p)
			}); err != nil {
				return fmt.Errorf("import player %s: %w", p.Name, err)
			}
		}

		for _, dr := range data.Drills {
			category, ok := models.ParseCategory(string(dr.Category))
			if !ok {
				return fmt.Errorf("import drill %s: unknown category %q", dr.Name, dr.Category)
			}
			dr.Category = category
			if err := importRow(ctx, tx, "drills", dr.ID.String(), func() error {
				return insertDrill(ctx, tx, dr)
			}); err != nil {
				return fmt.Errorf("import drill %s: %w", dr.Name, err)
			}
		}

		for _, s := range data.Sessions {
			if err := importRow(ctx, tx, "sessions", s.ID.String(), func() error {
				return insertSession(ctx, tx, s)
			}); err != nil {
				return fmt.Errorf("import session %s: %w", s.Date.Format(models.DateLayout), err)
			}
		}

		for _, sd := range data.SessionDrills {
			if err := upsertSessionDrill(ctx, tx, sd); err != nil {
				return fmt.Errorf("import session drill: %w", err)
			}
		}

		for _, a := range data.Attendance {
			if err := upsertAttendance(ctx, tx, a); err != nil {
				return fmt.Errorf("import attendance: %w", err)
			}
		}

		for _, r := range data.Results {
			if r.SuccessCount > r.TotalCount {
				return fmt.Errorf("import result %s: success %d exceeds total %d", r.ID, r.SuccessCount, r.TotalCount)
			}
			r.WithTargets(r.PrimaryTarget, r.SecondaryTargets)
			if err := importRow(ctx, tx, "drill_results", r.ID.String(), func() error {
				return insertResult(ctx, tx, r)
			}); err != nil {
				return fmt.Errorf("import result %s: %w", r.ID, err)
			}
		}

		d.log.Info("imported data",
			"players", len(data.Players), "drills", len(data.Drills),
			"sessions", len(data.Sessions), "results", len(data.Results))
		return nil
	})
}

// importRow runs insert unless a row with id already exists in table.
func importRow(ctx context.Context, tx *sql.Tx, table, id string, insert func() error) error {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return insert()
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, with results nested under their
// session for readability.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	names := newNameIndex(data)

	yamlData := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Players    []yamlPlayer  `yaml:"players"`
		Drills     []yamlDrill   `yaml:"drills"`
		Sessions   []yamlSession `yaml:"sessions"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Players:    make([]yamlPlayer, 0, len(data.Players)),
		Drills:     make([]yamlDrill, 0, len(data.Drills)),
		Sessions:   make([]yamlSession, 0, len(data.Sessions)),
	}

	for _, p := range data.Players {
		yp := yamlPlayer{ID: p.ID.String()[:8], Name: p.Name, Position: string(p.Position), ClassYear: p.ClassYear}
		if p.Jersey != nil {
			yp.Jersey = *p.Jersey
		}
		yamlData.Players = append(yamlData.Players, yp)
	}

	for _, dr := range data.Drills {
		yamlData.Drills = append(yamlData.Drills, yamlDrill{
			ID:         dr.ID.String()[:8],
			Name:       dr.Name,
			Category:   string(dr.Category),
			Difficulty: dr.Difficulty,
			Hidden:     dr.Hidden,
		})
	}

	bySession := make(map[string][]yamlResult)
	for _, r := range data.Results {
		yr := yamlResult{
			Drill:     names.drills[r.DrillID.String()],
			Player:    names.players[r.PlayerID.String()],
			Success:   r.SuccessCount,
			Total:     r.TotalCount,
			Primary:   r.PrimaryTarget,
			Secondary: r.SecondaryTargets,
			Notes:     r.Notes,
		}
		sid := r.SessionID.String()
		bySession[sid] = append(bySession[sid], yr)
	}

	for _, s := range data.Sessions {
		yamlData.Sessions = append(yamlData.Sessions, yamlSession{
			ID:       s.ID.String()[:8],
			Date:     s.Date.Format(models.DateLayout),
			Theme:    s.Theme,
			Duration: s.DurationMinutes,
			Phase:    string(s.Phase),
			Results:  bySession[s.ID.String()],
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlPlayer struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Position  string `yaml:"position,omitempty"`
	ClassYear string `yaml:"class_year,omitempty"`
	Jersey    int    `yaml:"jersey,omitempty"`
}

type yamlDrill struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category"`
	Difficulty int    `yaml:"difficulty"`
	Hidden     bool   `yaml:"hidden,omitempty"`
}

type yamlSession struct {
	ID       string       `yaml:"id"`
	Date     string       `yaml:"date"`
	Theme    string       `yaml:"theme"`
	Duration int          `yaml:"duration_minutes,omitempty"`
	Phase    string       `yaml:"phase,omitempty"`
	Results  []yamlResult `yaml:"results,omitempty"`
}

type yamlResult struct {
	Drill     string   `yaml:"drill"`
	Player    string   `yaml:"player"`
	Success   int      `yaml:"success"`
	Total     int      `yaml:"total"`
	Primary   string   `yaml:"primary_target,omitempty"`
	Secondary []string `yaml:"secondary_targets,omitempty"`
	Notes     string   `yaml:"notes,omitempty"`
}

type nameIndex struct {
	players map[string]string
	drills  map[string]string
}

func newNameIndex(data *ExportData) nameIndex {
	idx := nameIndex{players: map[string]string{}, drills: map[string]string{}}
	for _, p := range data.Players {
		idx.players[p.ID.String()] = p.Name
	}
	for _, dr := range data.Drills {
		idx.drills[dr.ID.String()] = dr.Name
	}
	return idx
}

// ExportMarkdown exports a session log as Markdown, oldest session first.
// A non-nil since limits the log to sessions on or after that date.
func (d *DB) ExportMarkdown(ctx context.Context, since *time.Time) (string, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return "", err
	}
	names := newNameIndex(data)

	sessions := data.Sessions
	if since != nil {
		var filtered []*models.Session
		for _, s := range sessions {
			if !s.Date.Before(models.Day(*since)) {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})

	bySession := make(map[string][]*models.DrillResult)
	for _, r := range data.Results {
		bySession[r.SessionID.String()] = append(bySession[r.SessionID.String()], r)
	}
	planBySession := make(map[string][]*models.SessionDrill)
	for _, sd := range data.SessionDrills {
		planBySession[sd.SessionID.String()] = append(planBySession[sd.SessionID.String()], sd)
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Training Log - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, s := range sessions {
		sb.WriteString(fmt.Sprintf("## %s %s\n\n", s.Date.Format(models.DateLayout), s.Theme))
		if s.DurationMinutes > 0 {
			sb.WriteString(fmt.Sprintf("Duration: %d min", s.DurationMinutes))
			if s.Phase != models.PhaseNone {
				sb.WriteString(fmt.Sprintf(" | Phase: %s", s.Phase))
			}
			sb.WriteString("\n\n")
		}

		if plan := planBySession[s.ID.String()]; len(plan) > 0 {
			sb.WriteString("| # | Drill | Minutes | Reps |\n")
			sb.WriteString("|---|-------|---------|------|\n")
			for _, sd := range plan {
				minutes := ""
				if sd.PlannedMinutes != nil {
					minutes = fmt.Sprintf("%d", *sd.PlannedMinutes)
				}
				sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", sd.Sequence, sd.DrillName, minutes, sd.PlannedReps))
			}
			sb.WriteString("\n")
		}

		if results := bySession[s.ID.String()]; len(results) > 0 {
			sb.WriteString("| Player | Drill | Result | Target |\n")
			sb.WriteString("|--------|-------|--------|--------|\n")
			for _, r := range results {
				score := fmt.Sprintf("%d/%d", r.SuccessCount, r.TotalCount)
				if r.TotalCount == 0 {
					score = "notes"
				}
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
					names.players[r.PlayerID.String()], names.drills[r.DrillID.String()], score, r.PrimaryTarget))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}
