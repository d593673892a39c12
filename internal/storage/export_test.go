// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/volley/internal/models"
	"gopkg.in/yaml.v3"
)

func seededData(t *testing.T, db *DB) fixture {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t, db)

	if err := db.UpsertSessionDrill(ctx, &models.SessionDrill{SessionID: f.session.ID, DrillID: f.drill.ID, Sequence: 1, PlannedReps: "3x10"}); err != nil {
		t.Fatalf("UpsertSessionDrill failed: %v", err)
	}
	if err := db.UpsertAttendance(ctx, &models.Attendance{SessionID: f.session.ID, PlayerID: f.player.ID, Status: models.StatusPresent}); err != nil {
		t.Fatalf("UpsertAttendance failed: %v", err)
	}
	r := models.NewDrillResult(f.session.ID, f.drill.ID, f.player.ID, 8, 10).WithTargets("toss height", []string{"footwork"})
	if err := db.CreateResult(ctx, r); err != nil {
		t.Fatalf("CreateResult failed: %v", err)
	}
	return f
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seededData(t, db)

	data, err := db.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.Tool != "volley" {
		t.Errorf("Expected tool volley, got %s", export.Tool)
	}
	if len(export.Players) != 1 || len(export.Drills) != 1 || len(export.Sessions) != 1 {
		t.Errorf("Unexpected entity counts: %d players, %d drills, %d sessions",
			len(export.Players), len(export.Drills), len(export.Sessions))
	}
	if len(export.SessionDrills) != 1 || len(export.Attendance) != 1 {
		t.Errorf("Expected plan and attendance rows, got %d and %d", len(export.SessionDrills), len(export.Attendance))
	}
	if len(export.Results) != 1 || len(export.Results[0].SecondaryTargets) != 1 {
		t.Errorf("Expected one result with one secondary target")
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seededData(t, db)

	data, err := db.ExportYAML(context.Background())
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if yamlData["tool"] != "volley" {
		t.Errorf("Expected tool volley, got %v", yamlData["tool"])
	}
	if !strings.Contains(string(data), "player: Mina Park") {
		t.Errorf("Expected results to carry player names, got:\n%s", data)
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seededData(t, db)

	md, err := db.ExportMarkdown(context.Background(), nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{"# Training Log", "## 2025-09-02 serve receive focus", "| Mina Park | Serve Accuracy | 8/10 | toss height |"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}

	since := mustDate(t, "2025-10-01")
	md, err = db.ExportMarkdown(context.Background(), &since)
	if err != nil {
		t.Fatalf("ExportMarkdown with since failed: %v", err)
	}
	if strings.Contains(md, "2025-09-02") {
		t.Error("Sessions before since should be excluded")
	}
}

func TestImportRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seededData(t, src)
	ctx := context.Background()

	data, err := src.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst, err := Open(filepath.Join(t.TempDir(), "dst.db"), nil, WithoutSeed())
	if err != nil {
		t.Fatalf("Open dst failed: %v", err)
	}
	defer dst.Close()

	if err := dst.ImportJSON(ctx, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	// A second import skips rows that already exist
	if err := dst.ImportJSON(ctx, data); err != nil {
		t.Fatalf("second ImportJSON failed: %v", err)
	}

	before := countAll(t, src)
	after := countAll(t, dst)
	for table, n := range before {
		if after[table] != n {
			t.Errorf("%s: %d rows after import, want %d", table, after[table], n)
		}
	}
}

func TestImportNormalizesDrillsAndTargets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	player := models.NewPlayer("Mina Park")
	drill := models.NewDrill("Serve Receive Triangle", models.Category("Serve-Receive"), 3)
	session := models.NewSession(mustDate(t, "2025-09-02"), "serve receive focus")
	result := models.NewDrillResult(session.ID, drill.ID, player.ID, 3, 4)
	result.PrimaryTarget = "　"
	result.SecondaryTargets = []string{" footwork ", "footwork", ""}

	data := &ExportData{
		Players:  []*models.Player{player},
		Drills:   []*models.Drill{drill},
		Sessions: []*models.Session{session},
		Results:  []*models.DrillResult{result},
	}
	if err := db.ImportData(ctx, data); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}

	gotDrill, err := db.GetDrill(ctx, drill.ID.String())
	if err != nil {
		t.Fatalf("GetDrill failed: %v", err)
	}
	if gotDrill.Category != models.CategoryServeReceive {
		t.Errorf("Category = %q, want %q", gotDrill.Category, models.CategoryServeReceive)
	}

	got, err := db.GetResult(ctx, result.ID.String())
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if got.PrimaryTarget != "" {
		t.Errorf("PrimaryTarget = %q, want blank", got.PrimaryTarget)
	}
	if len(got.SecondaryTargets) != 1 || got.SecondaryTargets[0] != "footwork" {
		t.Errorf("SecondaryTargets = %q, want [footwork]", got.SecondaryTargets)
	}
}

func TestImportRejectsUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	data := &ExportData{Drills: []*models.Drill{models.NewDrill("Juggling", models.Category("juggling"), 1)}}
	if err := db.ImportData(ctx, data); err == nil {
		t.Fatal("Expected unknown category to be rejected")
	}
	drills, err := db.ListDrills(ctx, true)
	if err != nil {
		t.Fatalf("ListDrills failed: %v", err)
	}
	for _, d := range drills {
		if d.Name == "Juggling" {
			t.Error("rejected import should not leave rows behind")
		}
	}
}
