// ABOUTME: Tests for Player model and Position.
// ABOUTME: Validates position tokens, constructor and pick-list label.
package models

import (
	"testing"
)

func TestIsValidPosition(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"setter", true},
		{"outside_hitter", true},
		{"", true},
		{"Setter", false},
		{"point_guard", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidPosition(tt.input); got != tt.want {
				t.Errorf("IsValidPosition(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("Mina").WithJersey(7)

	if p.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if p.Jersey == nil || *p.Jersey != 7 {
		t.Error("expected Jersey to be 7")
	}
}

func TestPlayerLabel(t *testing.T) {
	tests := []struct {
		name   string
		player *Player
		want   string
	}{
		{"name only", NewPlayer("Mina"), "Mina"},
		{"position", NewPlayer("Mina").WithPosition(PositionOutsideHitter), "Mina (outside hitter)"},
		{"year", NewPlayer("Mina").WithClassYear("sophomore"), "Mina (sophomore)"},
		{"both", NewPlayer("Mina").WithPosition(PositionSetter).WithClassYear("senior"), "Mina (setter | senior)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.player.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
