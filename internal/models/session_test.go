// ABOUTME: Tests for Session, attendance status and phase helpers.
// ABOUTME: Validates date normalisation and pick-list labels.
package models

import (
	"testing"
	"time"
)

func TestNewSessionNormalisesDate(t *testing.T) {
	s := NewSession(time.Date(2025, 12, 15, 18, 30, 0, 0, time.Local), "serve receive")

	if s.Date.Hour() != 0 || s.Date.Minute() != 0 {
		t.Errorf("expected midnight, got %v", s.Date)
	}
	if s.Date.Format(DateLayout) != "2025-12-15" {
		t.Errorf("Date = %s, want 2025-12-15", s.Date.Format(DateLayout))
	}
}

func TestSessionLabel(t *testing.T) {
	s := NewSession(time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), "full practice").WithDuration(85)
	if got := s.Label(); got != "12/15 full practice (85min)" {
		t.Errorf("Label() = %q", got)
	}

	s = NewSession(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), "")
	if got := s.Label(); got != "01/02" {
		t.Errorf("Label() = %q", got)
	}
}

func TestAttendanceEligibility(t *testing.T) {
	tests := []struct {
		status AttendanceStatus
		want   bool
	}{
		{StatusPresent, true},
		{StatusLate, true},
		{StatusExcused, false},
		{StatusAbsent, false},
	}
	for _, tt := range tests {
		if got := tt.status.Eligible(); got != tt.want {
			t.Errorf("%s.Eligible() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIsValidPhase(t *testing.T) {
	for _, p := range []string{"", "base", "build", "peak", "recovery"} {
		if !IsValidPhase(p) {
			t.Errorf("IsValidPhase(%q) = false", p)
		}
	}
	if IsValidPhase("offseason") {
		t.Error("IsValidPhase(offseason) = true")
	}
}
