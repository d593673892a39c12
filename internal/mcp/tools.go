// ABOUTME: MCP tool implementations for volleyball training records.
// ABOUTME: Entry tools go through the entry controller; run_report renders tables.
package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/harperreed/volley/internal/entry"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_players",
		Description: "List the roster, sorted by name",
	}, s.handleListPlayers)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_player",
		Description: "Add a player to the roster",
	}, s.handleAddPlayer)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_drills",
		Description: "List drills, newest first",
	}, s.handleListDrills)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_drill",
		Description: "Add a drill to the library",
	}, s.handleAddDrill)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List practice sessions, most recent date first",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_session",
		Description: "Schedule a practice session",
	}, s.handleAddSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "plan_drill",
		Description: "Add or update a drill in a session plan",
	}, s.handlePlanDrill)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_attendance",
		Description: "Mark a player present, late, excused or absent for a session",
	}, s.handleSetAttendance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_result",
		Description: "Record a player's success and attempt counts for a drill in a session",
	}, s.handleRecordResult)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_result",
		Description: "Delete a drill result by ID or ID prefix",
	}, s.handleDeleteResult)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_options",
		Description: "List id and label pairs for picking players, drills or sessions; with session_id, players are limited to those eligible for that session",
	}, s.handleListOptions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_report",
		Description: "Run training reports: load, weakest, trend, themes, errors, or summary for all of them",
	}, s.handleRunReport)
}

// Tool input/output types

type listInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listDrillsInput struct {
	IncludeHidden bool `json:"include_hidden,omitempty" jsonschema:"Include drills hidden from pick-lists"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Full ID or unique prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type createdOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type playerOut struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Position  string `json:"position,omitempty"`
	ClassYear string `json:"class_year,omitempty"`
	Jersey    *int   `json:"jersey,omitempty"`
}

type playersOutput struct {
	Count   int         `json:"count"`
	Players []playerOut `json:"players,omitempty"`
}

type drillOut struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
	Objective  string `json:"objective,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
}

type drillsOutput struct {
	Count  int        `json:"count"`
	Drills []drillOut `json:"drills,omitempty"`
}

type sessionOut struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Theme           string `json:"theme"`
	Label           string `json:"label"`
	DurationMinutes int    `json:"duration_minutes"`
	Phase           string `json:"phase,omitempty"`
}

type sessionsOutput struct {
	Count    int          `json:"count"`
	Sessions []sessionOut `json:"sessions,omitempty"`
}

type listOptionsInput struct {
	Kind      string `json:"kind" jsonschema:"players, drills or sessions"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Limit players to those eligible for this session"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max sessions (default 20)"`
}

type optionOut struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type optionsOutput struct {
	Count   int         `json:"count"`
	Options []optionOut `json:"options,omitempty"`
}

type addPlayerInput struct {
	Name      string `json:"name" jsonschema:"Player name"`
	Position  string `json:"position,omitempty" jsonschema:"outside_hitter, middle_blocker, opposite, setter or libero"`
	ClassYear string `json:"class_year,omitempty" jsonschema:"Class year label, e.g. junior"`
	Jersey    *int   `json:"jersey,omitempty" jsonschema:"Jersey number 1-99"`
	Notes     string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type addDrillInput struct {
	Name       string `json:"name" jsonschema:"Drill name"`
	Category   string `json:"category" jsonschema:"attack, serve_receive, defense, serve, set, block or mixed"`
	Difficulty int    `json:"difficulty" jsonschema:"Difficulty from 1 to 5"`
	Objective  string `json:"objective,omitempty" jsonschema:"What the drill trains"`
	MinPlayers *int   `json:"min_players,omitempty" jsonschema:"Minimum number of players"`
	NeuroLoad  *int   `json:"neuro_load,omitempty" jsonschema:"Neuromuscular load from 1 to 5"`
}

type addSessionInput struct {
	Date            string `json:"date" jsonschema:"Session date as YYYY-MM-DD"`
	Theme           string `json:"theme" jsonschema:"Session theme"`
	DurationMinutes int    `json:"duration_minutes,omitempty" jsonschema:"Actual duration in minutes"`
	TargetMinutes   *int   `json:"target_minutes,omitempty" jsonschema:"Planned duration in minutes"`
	Phase           string `json:"phase,omitempty" jsonschema:"base, build, peak or recovery"`
	Notes           string `json:"notes,omitempty" jsonschema:"Session notes"`
}

type planDrillInput struct {
	SessionID      string `json:"session_id" jsonschema:"Session ID or prefix"`
	DrillID        string `json:"drill_id" jsonschema:"Drill ID or prefix"`
	Sequence       int    `json:"sequence,omitempty" jsonschema:"Position in the plan; omitted means next"`
	PlannedMinutes *int   `json:"planned_minutes,omitempty" jsonschema:"Planned minutes"`
	PlannedReps    string `json:"planned_reps,omitempty" jsonschema:"Planned reps, e.g. 50x2"`
}

type planOutput struct {
	Sequence int    `json:"sequence"`
	Message  string `json:"message"`
}

type attendanceInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID or prefix"`
	PlayerID  string `json:"player_id" jsonschema:"Player ID or prefix"`
	Status    string `json:"status" jsonschema:"present, late, excused or absent"`
}

type recordResultInput struct {
	SessionID        string   `json:"session_id" jsonschema:"Session ID or prefix"`
	DrillID          string   `json:"drill_id" jsonschema:"Drill ID or prefix"`
	PlayerID         string   `json:"player_id" jsonschema:"Player ID or prefix"`
	Success          int      `json:"success" jsonschema:"Successful attempts"`
	Total            int      `json:"total" jsonschema:"Total attempts"`
	PrimaryTarget    string   `json:"primary_target,omitempty" jsonschema:"Main correction target or error type"`
	SecondaryTargets []string `json:"secondary_targets,omitempty" jsonschema:"Further correction targets"`
	Notes            string   `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type runReportInput struct {
	Report     string `json:"report,omitempty" jsonschema:"summary (default), load, weakest, trend, themes or errors"`
	WindowDays int    `json:"window_days,omitempty" jsonschema:"Recent load window in days"`
	MinSample  int    `json:"min_sample,omitempty" jsonschema:"Minimum attempts for weakest drills"`
	PlayerID   string `json:"player_id,omitempty" jsonschema:"Player for the weekly trend"`
	DrillID    string `json:"drill_id,omitempty" jsonschema:"Drill for the weekly trend"`
}

type tableOut struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows,omitempty"`
}

type reportOutput struct {
	Tables []tableOut `json:"tables"`
}

// Tool handlers

func (s *Server) handleListPlayers(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, playersOutput, error) {
	players, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, playersOutput{}, fmt.Errorf("failed to list players: %w", err)
	}
	sortPlayers(players)
	players = limit(players, input.Limit)

	out := playersOutput{Count: len(players)}
	for _, p := range players {
		out.Players = append(out.Players, toPlayerOut(p))
	}
	return nil, out, nil
}

func (s *Server) handleAddPlayer(ctx context.Context, req *mcp.CallToolRequest, input addPlayerInput) (*mcp.CallToolResult, createdOutput, error) {
	id, err := s.entry.CreatePlayer(ctx, entry.PlayerForm{
		Name:      input.Name,
		Position:  input.Position,
		ClassYear: input.ClassYear,
		Jersey:    input.Jersey,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, createdOutput{}, err
	}
	return nil, createdOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Added player %s (ID: %s)", input.Name, id.String()[:8]),
	}, nil
}

func (s *Server) handleListDrills(ctx context.Context, req *mcp.CallToolRequest, input listDrillsInput) (*mcp.CallToolResult, drillsOutput, error) {
	drills, err := s.repo.ListDrills(ctx, input.IncludeHidden)
	if err != nil {
		return nil, drillsOutput{}, fmt.Errorf("failed to list drills: %w", err)
	}

	out := drillsOutput{}
	for _, d := range drills {
		if d.IsSummary() {
			continue
		}
		out.Drills = append(out.Drills, drillOut{
			ID:         d.ID.String(),
			Name:       d.Name,
			Category:   string(d.Category),
			Difficulty: d.Difficulty,
			Objective:  d.Objective,
			Hidden:     d.Hidden,
		})
	}
	out.Count = len(out.Drills)
	return nil, out, nil
}

func (s *Server) handleAddDrill(ctx context.Context, req *mcp.CallToolRequest, input addDrillInput) (*mcp.CallToolResult, createdOutput, error) {
	id, err := s.entry.CreateDrill(ctx, entry.DrillForm{
		Name:       input.Name,
		Category:   input.Category,
		Objective:  input.Objective,
		Difficulty: input.Difficulty,
		MinPlayers: input.MinPlayers,
		NeuroLoad:  input.NeuroLoad,
	})
	if err != nil {
		return nil, createdOutput{}, err
	}
	return nil, createdOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Added drill %s (ID: %s)", input.Name, id.String()[:8]),
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, sessionsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	sessions, err := s.repo.ListSessions(ctx, input.Limit)
	if err != nil {
		return nil, sessionsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := sessionsOutput{Count: len(sessions)}
	for _, sess := range sessions {
		out.Sessions = append(out.Sessions, toSessionOut(sess))
	}
	return nil, out, nil
}

func (s *Server) handleAddSession(ctx context.Context, req *mcp.CallToolRequest, input addSessionInput) (*mcp.CallToolResult, createdOutput, error) {
	id, err := s.entry.CreateSession(ctx, entry.SessionForm{
		Date:            input.Date,
		Theme:           input.Theme,
		DurationMinutes: input.DurationMinutes,
		TargetMinutes:   input.TargetMinutes,
		Phase:           input.Phase,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, createdOutput{}, err
	}
	return nil, createdOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Added session on %s (ID: %s)", input.Date, id.String()[:8]),
	}, nil
}

func (s *Server) handlePlanDrill(ctx context.Context, req *mcp.CallToolRequest, input planDrillInput) (*mcp.CallToolResult, planOutput, error) {
	seq, err := s.entry.PlanDrill(ctx, entry.PlanForm{
		SessionID:      input.SessionID,
		DrillID:        input.DrillID,
		Sequence:       input.Sequence,
		PlannedMinutes: input.PlannedMinutes,
		PlannedReps:    input.PlannedReps,
	})
	if err != nil {
		return nil, planOutput{}, err
	}
	return nil, planOutput{
		Sequence: seq,
		Message:  fmt.Sprintf("Planned drill at position %d", seq),
	}, nil
}

func (s *Server) handleSetAttendance(ctx context.Context, req *mcp.CallToolRequest, input attendanceInput) (*mcp.CallToolResult, simpleOutput, error) {
	err := s.entry.SetAttendance(ctx, entry.AttendanceForm{
		SessionID: input.SessionID,
		PlayerID:  input.PlayerID,
		Status:    input.Status,
	})
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "Attendance set to " + input.Status}, nil
}

func (s *Server) handleRecordResult(ctx context.Context, req *mcp.CallToolRequest, input recordResultInput) (*mcp.CallToolResult, createdOutput, error) {
	id, err := s.entry.RecordResult(ctx, entry.ResultForm{
		SessionID: input.SessionID,
		DrillID:   input.DrillID,
		PlayerID:  input.PlayerID,
		Success:   input.Success,
		Total:     input.Total,
		Primary:   input.PrimaryTarget,
		Secondary: input.SecondaryTargets,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, createdOutput{}, err
	}
	rate := report.FormatRate(models.SuccessRate(input.Success, input.Total))
	return nil, createdOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Recorded %d/%d (%s) (ID: %s)", input.Success, input.Total, rate, id.String()[:8]),
	}, nil
}

func (s *Server) handleDeleteResult(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.entry.DeleteResult(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted result: %s", input.ID)}, nil
}

func (s *Server) handleListOptions(ctx context.Context, req *mcp.CallToolRequest, input listOptionsInput) (*mcp.CallToolResult, optionsOutput, error) {
	var opts []models.Option
	var err error
	switch input.Kind {
	case "players":
		if input.SessionID == "" {
			opts, err = s.repo.PlayerOptions(ctx)
			break
		}
		sess, serr := s.repo.GetSession(ctx, input.SessionID)
		if serr != nil {
			return nil, optionsOutput{}, serr
		}
		opts, err = s.repo.EligiblePlayerOptions(ctx, sess.ID)
	case "drills":
		opts, err = s.repo.DrillOptions(ctx)
	case "sessions":
		if input.Limit <= 0 {
			input.Limit = 20
		}
		opts, err = s.repo.SessionOptions(ctx, input.Limit)
	default:
		return nil, optionsOutput{}, fmt.Errorf("unknown kind %q (use players, drills or sessions)", input.Kind)
	}
	if err != nil {
		return nil, optionsOutput{}, fmt.Errorf("failed to list %s: %w", input.Kind, err)
	}

	out := optionsOutput{Count: len(opts)}
	for _, o := range opts {
		out.Options = append(out.Options, optionOut{ID: o.ID.String(), Label: o.Label})
	}
	return nil, out, nil
}

func (s *Server) handleRunReport(ctx context.Context, req *mcp.CallToolRequest, input runReportInput) (*mcp.CallToolResult, reportOutput, error) {
	tables, err := s.runReport(ctx, input)
	if err != nil {
		return nil, reportOutput{}, err
	}

	out := reportOutput{Tables: make([]tableOut, 0, len(tables))}
	for _, t := range tables {
		out.Tables = append(out.Tables, tableOut{Title: t.Title, Columns: t.Columns, Rows: t.Rows})
	}
	return nil, out, nil
}

func (s *Server) runReport(ctx context.Context, input runReportInput) ([]report.Table, error) {
	opts := s.defaults
	if input.WindowDays > 0 {
		opts.WindowDays = input.WindowDays
	}
	if input.MinSample > 0 {
		opts.MinSample = input.MinSample
	}
	if input.PlayerID != "" && input.DrillID != "" {
		p, err := s.repo.GetPlayer(ctx, input.PlayerID)
		if err != nil {
			return nil, err
		}
		d, err := s.repo.GetDrill(ctx, input.DrillID)
		if err != nil {
			return nil, err
		}
		opts.PlayerID, opts.DrillID = &p.ID, &d.ID
		opts.PlayerName, opts.DrillName = p.Name, d.Name
	}

	return s.reports.Run(ctx, input.Report, opts)
}

func toPlayerOut(p *models.Player) playerOut {
	return playerOut{
		ID:        p.ID.String(),
		Name:      p.Name,
		Label:     p.Label(),
		Position:  string(p.Position),
		ClassYear: p.ClassYear,
		Jersey:    p.Jersey,
	}
}

func toSessionOut(s *models.Session) sessionOut {
	return sessionOut{
		ID:              s.ID.String(),
		Date:            s.Date.Format(models.DateLayout),
		Theme:           s.Theme,
		Label:           s.Label(),
		DurationMinutes: s.DurationMinutes,
		Phase:           string(s.Phase),
	}
}

func sortPlayers(players []*models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
