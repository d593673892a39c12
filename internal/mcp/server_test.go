// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, resource handlers and an in-memory client.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestDB creates an empty test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "volley.db")
	db, err := storage.Open(dbPath, nil, storage.WithoutSeed())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(setupTestDB(t), nil, report.Options{WindowDays: 28, MinSample: 30})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

// ids holds one player, drill and session created through the tools.
type ids struct {
	player, drill, session string
}

func addBasics(t *testing.T, server *Server) ids {
	t.Helper()
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	_, p, err := server.handleAddPlayer(ctx, req, addPlayerInput{Name: "Mina Park", Position: "setter"})
	if err != nil {
		t.Fatalf("add_player failed: %v", err)
	}
	_, d, err := server.handleAddDrill(ctx, req, addDrillInput{Name: "Serve Accuracy", Category: "serve", Difficulty: 2})
	if err != nil {
		t.Fatalf("add_drill failed: %v", err)
	}
	_, s, err := server.handleAddSession(ctx, req, addSessionInput{Date: "2025-09-02", Theme: "serve receive focus", DurationMinutes: 90})
	if err != nil {
		t.Fatalf("add_session failed: %v", err)
	}
	return ids{player: p.ID, drill: d.ID, session: s.ID}
}

func TestNewServer(t *testing.T) {
	server := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.entry == nil || server.reports == nil {
		t.Error("Expected entry controller and report engine")
	}
}

func TestHandleAddPlayer(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addPlayerInput
		wantErr   bool
		errSubstr string
	}{
		{name: "valid player", input: addPlayerInput{Name: "Ava Chen", Position: "middle_blocker"}},
		{name: "jersey and notes", input: addPlayerInput{Name: "Lea Santos", Jersey: intPtr(12), Notes: "captain"}},
		{name: "blank name", input: addPlayerInput{Name: "  "}, wantErr: true, errSubstr: "invalid name"},
		{name: "unknown position", input: addPlayerInput{Name: "X", Position: "goalie"}, wantErr: true, errSubstr: "invalid position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddPlayer(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.ID == "" {
				t.Error("Expected non-empty ID")
			}
			if !strings.Contains(output.Message, tt.input.Name) {
				t.Errorf("Message %q should mention %q", output.Message, tt.input.Name)
			}
		})
	}

	_, list, err := server.handleListPlayers(ctx, &mcp.CallToolRequest{}, listInput{})
	if err != nil {
		t.Fatalf("list_players failed: %v", err)
	}
	if list.Count != 2 {
		t.Fatalf("Count = %d, want 2", list.Count)
	}
	if list.Players[0].Name != "Ava Chen" {
		t.Errorf("Players should be sorted by name, got %q first", list.Players[0].Name)
	}
	if list.Players[0].Label != "Ava Chen (middle blocker)" {
		t.Errorf("Label = %q", list.Players[0].Label)
	}
}

func TestHandleListDrillsHidesSummary(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	addBasics(t, server)

	if _, err := server.repo.EnsureSummaryDrill(ctx); err != nil {
		t.Fatalf("EnsureSummaryDrill failed: %v", err)
	}

	_, out, err := server.handleListDrills(ctx, &mcp.CallToolRequest{}, listDrillsInput{IncludeHidden: true})
	if err != nil {
		t.Fatalf("list_drills failed: %v", err)
	}
	if out.Count != 1 || out.Drills[0].Name != "Serve Accuracy" {
		t.Errorf("Expected only Serve Accuracy, got %+v", out.Drills)
	}
}

func TestHandleSessionsAndPlan(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	b := addBasics(t, server)

	_, plan, err := server.handlePlanDrill(ctx, &mcp.CallToolRequest{}, planDrillInput{SessionID: b.session[:8], DrillID: b.drill, PlannedReps: "50x2"})
	if err != nil {
		t.Fatalf("plan_drill failed: %v", err)
	}
	if plan.Sequence != 1 {
		t.Errorf("Sequence = %d, want 1", plan.Sequence)
	}

	_, sessions, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listInput{})
	if err != nil {
		t.Fatalf("list_sessions failed: %v", err)
	}
	if sessions.Count != 1 {
		t.Fatalf("Count = %d, want 1", sessions.Count)
	}
	if got := sessions.Sessions[0].Label; got != "09/02 serve receive focus (90min)" {
		t.Errorf("Label = %q", got)
	}

	if _, _, err := server.handleAddSession(ctx, &mcp.CallToolRequest{}, addSessionInput{Date: "02/09/2025", Theme: "x"}); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestHandleRecordResult(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	b := addBasics(t, server)

	_, out, err := server.handleRecordResult(ctx, &mcp.CallToolRequest{}, recordResultInput{
		SessionID: b.session, DrillID: b.drill, PlayerID: b.player,
		Success: 8, Total: 10, PrimaryTarget: "toss height",
	})
	if err != nil {
		t.Fatalf("record_result failed: %v", err)
	}
	if !strings.Contains(out.Message, "8/10 (80.0%)") {
		t.Errorf("Message = %q", out.Message)
	}

	_, _, err = server.handleRecordResult(ctx, &mcp.CallToolRequest{}, recordResultInput{
		SessionID: b.session, DrillID: b.drill, PlayerID: b.player, Success: 11, Total: 10,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid success") {
		t.Errorf("Expected success > total to fail, got %v", err)
	}

	if _, _, err := server.handleDeleteResult(ctx, &mcp.CallToolRequest{}, idInput{ID: out.ID[:8]}); err != nil {
		t.Errorf("delete_result failed: %v", err)
	}
	if _, _, err := server.handleDeleteResult(ctx, &mcp.CallToolRequest{}, idInput{ID: out.ID}); err == nil {
		t.Error("Expected error deleting a result twice")
	}
}

func TestHandleSetAttendanceGatesResults(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	b := addBasics(t, server)

	if _, _, err := server.handleSetAttendance(ctx, &mcp.CallToolRequest{}, attendanceInput{SessionID: b.session, PlayerID: b.player, Status: "absent"}); err != nil {
		t.Fatalf("set_attendance failed: %v", err)
	}

	_, _, err := server.handleRecordResult(ctx, &mcp.CallToolRequest{}, recordResultInput{
		SessionID: b.session, DrillID: b.drill, PlayerID: b.player, Success: 1, Total: 2,
	})
	if err == nil || !strings.Contains(err.Error(), "not marked present or late") {
		t.Errorf("Expected attendance gate error, got %v", err)
	}
}

func TestHandleListOptions(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	b := addBasics(t, server)

	_, lea, err := server.handleAddPlayer(ctx, req, addPlayerInput{Name: "Lea Santos", Position: "libero"})
	if err != nil {
		t.Fatalf("add_player failed: %v", err)
	}

	_, out, err := server.handleListOptions(ctx, req, listOptionsInput{Kind: "players"})
	if err != nil {
		t.Fatalf("list_options failed: %v", err)
	}
	if out.Count != 2 || !strings.Contains(out.Options[0].Label, "Lea Santos") {
		t.Errorf("Expected both players sorted by name, got %+v", out.Options)
	}

	if _, _, err := server.handleSetAttendance(ctx, req, attendanceInput{SessionID: b.session, PlayerID: b.player, Status: "present"}); err != nil {
		t.Fatalf("set_attendance failed: %v", err)
	}
	if _, _, err := server.handleSetAttendance(ctx, req, attendanceInput{SessionID: b.session, PlayerID: lea.ID, Status: "excused"}); err != nil {
		t.Fatalf("set_attendance failed: %v", err)
	}
	_, out, err = server.handleListOptions(ctx, req, listOptionsInput{Kind: "players", SessionID: b.session[:8]})
	if err != nil {
		t.Fatalf("list_options with session failed: %v", err)
	}
	if out.Count != 1 || out.Options[0].ID != b.player {
		t.Errorf("Expected only the present player, got %+v", out.Options)
	}

	_, out, err = server.handleListOptions(ctx, req, listOptionsInput{Kind: "drills"})
	if err != nil {
		t.Fatalf("list_options drills failed: %v", err)
	}
	if out.Count != 1 || out.Options[0].Label != "Serve Accuracy" {
		t.Errorf("Expected the one drill without the summary sentinel, got %+v", out.Options)
	}

	_, out, err = server.handleListOptions(ctx, req, listOptionsInput{Kind: "sessions"})
	if err != nil {
		t.Fatalf("list_options sessions failed: %v", err)
	}
	if out.Count != 1 || out.Options[0].ID != b.session {
		t.Errorf("Expected the session, got %+v", out.Options)
	}

	if _, _, err := server.handleListOptions(ctx, req, listOptionsInput{Kind: "teams"}); err == nil {
		t.Error("Expected unknown kind to fail")
	}
	if _, _, err := server.handleListOptions(ctx, req, listOptionsInput{Kind: "players", SessionID: "%"}); err == nil {
		t.Error("Expected unknown session to fail")
	}
}

func TestHandleRunReport(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	b := addBasics(t, server)

	if _, _, err := server.handleRecordResult(ctx, &mcp.CallToolRequest{}, recordResultInput{
		SessionID: b.session, DrillID: b.drill, PlayerID: b.player, Success: 24, Total: 30, PrimaryTarget: "footwork",
	}); err != nil {
		t.Fatalf("record_result failed: %v", err)
	}

	tests := []struct {
		report     string
		wantTables int
		wantTitle  string
	}{
		{"", 4, "Recent load"},
		{"summary", 4, "Recent load"},
		{"weakest", 1, "Weakest drills (min 30 attempts)"},
		{"themes", 1, "Theme rollup"},
		{"errors", 1, "Error ranking"},
		{"load", 1, "Recent load"},
	}
	for _, tt := range tests {
		t.Run("report="+tt.report, func(t *testing.T) {
			_, out, err := server.handleRunReport(ctx, &mcp.CallToolRequest{}, runReportInput{Report: tt.report})
			if err != nil {
				t.Fatalf("run_report failed: %v", err)
			}
			if len(out.Tables) != tt.wantTables {
				t.Fatalf("got %d tables, want %d", len(out.Tables), tt.wantTables)
			}
			if !strings.HasPrefix(out.Tables[0].Title, tt.wantTitle) {
				t.Errorf("Title = %q, want prefix %q", out.Tables[0].Title, tt.wantTitle)
			}
		})
	}

	_, out, err := server.handleRunReport(ctx, &mcp.CallToolRequest{}, runReportInput{Report: "weakest"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Tables[0].Rows) != 1 || out.Tables[0].Rows[0][4] != "80.0%" {
		t.Errorf("weakest rows = %v", out.Tables[0].Rows)
	}

	_, out, err = server.handleRunReport(ctx, &mcp.CallToolRequest{}, runReportInput{Report: "trend", PlayerID: b.player, DrillID: b.drill})
	if err != nil {
		t.Fatalf("trend failed: %v", err)
	}
	if out.Tables[0].Title != "Weekly trend: Mina Park / Serve Accuracy" {
		t.Errorf("Title = %q", out.Tables[0].Title)
	}

	if _, _, err := server.handleRunReport(ctx, &mcp.CallToolRequest{}, runReportInput{Report: "trend"}); err == nil {
		t.Error("Expected trend without ids to fail")
	}
	if _, _, err := server.handleRunReport(ctx, &mcp.CallToolRequest{}, runReportInput{Report: "bogus"}); err == nil {
		t.Error("Expected unknown report to fail")
	}
}

func TestRecentSessionsResource(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	b := addBasics(t, server)

	if _, _, err := server.handleRecordResult(ctx, &mcp.CallToolRequest{}, recordResultInput{
		SessionID: b.session, DrillID: b.drill, PlayerID: b.player, Success: 3, Total: 4,
	}); err != nil {
		t.Fatalf("record_result failed: %v", err)
	}

	res, err := server.handleRecentSessionsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("resource failed: %v", err)
	}
	if len(res.Contents) != 1 || res.Contents[0].URI != recentSessionsURI {
		t.Fatalf("unexpected contents: %+v", res.Contents)
	}

	var payload struct {
		Sessions []struct {
			Theme   string `json:"theme"`
			Results []struct {
				Player string `json:"player"`
				Drill  string `json:"drill"`
				Rate   string `json:"rate"`
			} `json:"results"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(payload.Sessions) != 1 || len(payload.Sessions[0].Results) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	r := payload.Sessions[0].Results[0]
	if r.Player != "Mina Park" || r.Drill != "Serve Accuracy" || r.Rate != "75.0%" {
		t.Errorf("unexpected result view: %+v", r)
	}
}

func TestSummaryResource(t *testing.T) {
	server := setupServer(t)

	res, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("resource failed: %v", err)
	}
	text := res.Contents[0].Text
	for _, title := range []string{"Recent load (last 28 days)", "Weakest drills", "Theme rollup", "Error ranking"} {
		if !strings.Contains(text, title) {
			t.Errorf("summary should contain %q", title)
		}
	}
}

func TestInMemoryClient(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools.Tools) != 12 {
		t.Errorf("got %d tools, want 12", len(tools.Tools))
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_player",
		Arguments: map[string]any{"name": "Mina Park", "position": "setter"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("add_player returned a tool error: %+v", res.Content)
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_drill",
		Arguments: map[string]any{"name": "Session Summary", "category": "mixed", "difficulty": 1},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !res.IsError {
		t.Error("Expected reserved drill name to be a tool error")
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "run_report", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("run_report returned a tool error: %+v", res.Content)
	}

	read, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: recentSessionsURI})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if len(read.Contents) != 1 {
		t.Errorf("got %d contents, want 1", len(read.Contents))
	}
}

func intPtr(n int) *int { return &n }
