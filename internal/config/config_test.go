// ABOUTME: Tests for volley configuration management.
// ABOUTME: Covers defaults, file and env loading, save, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/volley-test"}
	if got := cfg.GetDataDir(); got != "/tmp/volley-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/volley-test")
	}
	if got := cfg.DBPath(); got != "/tmp/volley-test/volley.db" {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/volley", filepath.Join(home, "data/volley")},
		{"data/volley", "data/volley"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		if got := cfg.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}

	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !cfg.SeedDemo {
		t.Error("SeedDemo should default to true")
	}
	if cfg.Report.WindowDays != 28 || cfg.Report.MinSample != 30 {
		t.Errorf("Report = %+v, want 28/30", cfg.Report)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		DataDir:  "/tmp/volley-data",
		LogLevel: "debug",
		SeedDemo: false,
		Report:   ReportConfig{WindowDays: 14, MinSample: 50},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.DataDir != "/tmp/volley-data" {
		t.Errorf("DataDir mismatch: got %q", loaded.DataDir)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel mismatch: got %q", loaded.LogLevel)
	}
	if loaded.SeedDemo {
		t.Error("SeedDemo should round-trip false")
	}
	if loaded.Report.WindowDays != 14 || loaded.Report.MinSample != 50 {
		t.Errorf("Report mismatch: got %+v", loaded.Report)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{DataDir: "/from/file", SeedDemo: true, Report: ReportConfig{WindowDays: 14, MinSample: 30}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("VOLLEY_DATA_DIR", "/from/env")
	t.Setenv("VOLLEY_REPORT_WINDOW_DAYS", "7")
	t.Setenv("VOLLEY_SEED_DEMO", "false")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", loaded.DataDir)
	}
	if loaded.Report.WindowDays != 7 {
		t.Errorf("WindowDays = %d, want 7", loaded.Report.WindowDays)
	}
	if loaded.SeedDemo {
		t.Error("SeedDemo should be overridden to false")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "volley")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "volley")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestLoadRejectsNegativeThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"report":{"window_days":-1}}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for negative window")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "volley", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{DataDir: tmpDir, SeedDemo: true}
	db, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "volley.db")); os.IsNotExist(err) {
		t.Error("Expected volley.db to be created")
	}

	opts, err := db.PlayerOptions(t.Context())
	if err != nil {
		t.Fatalf("PlayerOptions() failed: %v", err)
	}
	if len(opts) == 0 {
		t.Error("Expected demo players in a seeded store")
	}
}

func TestOpenStorageWithoutDemo(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}
	db, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer db.Close()

	opts, err := db.PlayerOptions(t.Context())
	if err != nil {
		t.Fatalf("PlayerOptions() failed: %v", err)
	}
	if len(opts) != 0 {
		t.Errorf("Expected empty store, got %d players", len(opts))
	}
}
