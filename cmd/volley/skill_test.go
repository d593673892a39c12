// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation and file content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSkillFSReadEmbeddedContent verifies the embedded SKILL.md has
// frontmatter and names the MCP tools.
func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	contentStr := string(content)
	if !strings.HasPrefix(contentStr, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}

	expectedMarkers := []string{
		"name: volley",
		"description:",
		"mcp__volley__record_result",
		"mcp__volley__run_report",
		"mcp__volley__set_attendance",
		"## When to use volley",
	}
	for _, marker := range expectedMarkers {
		if !strings.Contains(contentStr, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestInstallSkillFunction(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(&out, strings.NewReader(""), home, true); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	path := filepath.Join(home, ".claude", "skills", "volley", "SKILL.md")
	if skillPath(home) != path {
		t.Errorf("skillPath = %q, want %q", skillPath(home), path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected skill file to be created: %v", err)
	}
	if !strings.Contains(string(content), "name: volley") {
		t.Error("installed skill has wrong content")
	}
	if !strings.Contains(out.String(), "Installed volley skill successfully") {
		t.Errorf("unexpected output: %q", out.String())
	}

	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Failed to stat skill directory: %v", err)
	}
	if info.Mode()&0700 != 0700 {
		t.Errorf("Expected owner rwx on skill directory, got %v", info.Mode())
	}
}

func TestInstallSkillOverwrite(t *testing.T) {
	home := t.TempDir()
	path := skillPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# Old Skill\nstale content"), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader(""), home, true); err != nil {
		t.Fatalf("installSkill overwrite failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite note")
	}

	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "stale content") {
		t.Error("Expected skill file to be overwritten")
	}
}

func TestInstallSkillConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		installed bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			var out bytes.Buffer

			if err := installSkill(&out, strings.NewReader(tt.input), home, false); err != nil {
				t.Fatalf("installSkill failed: %v", err)
			}

			_, err := os.Stat(skillPath(home))
			if installed := err == nil; installed != tt.installed {
				t.Errorf("installed = %v, want %v", installed, tt.installed)
			}
			if !tt.installed && !strings.Contains(out.String(), "Installation canceled.") {
				t.Errorf("Expected cancel message, got %q", out.String())
			}
		})
	}
}
