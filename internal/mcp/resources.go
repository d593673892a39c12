// ABOUTME: MCP resource implementations for volleyball training records.
// ABOUTME: Provides volley://reports/summary and volley://sessions/recent.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI        = "volley://reports/summary"
	recentSessionsURI = "volley://sessions/recent"
	recentSessions    = 10
)

func (s *Server) registerResources() {
	// volley://reports/summary - every report with configured thresholds
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Training Report Summary",
		Description: "Recent load, weakest drills, theme rollup and error ranking",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// volley://sessions/recent - last sessions with plan, attendance and results
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentSessionsURI,
		Name:        "Recent Sessions",
		Description: "Last 10 sessions with their drill plan, attendance and results",
		MIMEType:    "application/json",
	}, s.handleRecentSessionsResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	tables, err := s.runReport(ctx, runReportInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to run reports: %w", err)
	}

	data, err := report.JSON(tables)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reports: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      summaryURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

type resultView struct {
	Player  string   `json:"player"`
	Drill   string   `json:"drill"`
	Success int      `json:"success"`
	Total   int      `json:"total"`
	Rate    string   `json:"rate"`
	Target  string   `json:"primary_target,omitempty"`
	Others  []string `json:"secondary_targets,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

type sessionView struct {
	sessionOut
	Plan       []*models.SessionDrill `json:"plan"`
	Attendance []*models.Attendance   `json:"attendance"`
	Results    []resultView           `json:"results"`
}

func (s *Server) handleRecentSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions(ctx, recentSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		v := sessionView{sessionOut: toSessionOut(sess), Results: []resultView{}}

		if v.Plan, err = s.repo.ListSessionDrills(ctx, sess.ID); err != nil {
			return nil, fmt.Errorf("failed to list plan: %w", err)
		}
		if v.Attendance, err = s.repo.ListAttendance(ctx, sess.ID); err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}

		id := sess.ID
		results, err := s.repo.ListResults(ctx, storage.ResultFilter{SessionID: &id})
		if err != nil {
			return nil, fmt.Errorf("failed to list results: %w", err)
		}
		for _, r := range results {
			v.Results = append(v.Results, resultView{
				Player:  names[r.PlayerID.String()],
				Drill:   names[r.DrillID.String()],
				Success: r.SuccessCount,
				Total:   r.TotalCount,
				Rate:    report.FormatRate(r.SuccessRate()),
				Target:  r.PrimaryTarget,
				Others:  r.SecondaryTargets,
				Notes:   r.Notes,
			})
		}
		views = append(views, v)
	}

	result := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"sessions":     views,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      recentSessionsURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// names maps player and drill ids to display names.
func (s *Server) names(ctx context.Context) (map[string]string, error) {
	names := make(map[string]string)

	players, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for _, p := range players {
		names[p.ID.String()] = p.Name
	}

	drills, err := s.repo.ListDrills(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list drills: %w", err)
	}
	for _, d := range drills {
		names[d.ID.String()] = d.Name
	}
	return names, nil
}
