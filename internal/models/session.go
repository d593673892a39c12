// ABOUTME: Session, SessionDrill and Attendance models.
// ABOUTME: Sessions are calendar dates; join rows are keyed by composite identity.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage and CLI format for session dates.
const DateLayout = "2006-01-02"

// Phase is a training phase label.
type Phase string

const (
	PhaseNone     Phase = ""
	PhaseBase     Phase = "base"
	PhaseBuild    Phase = "build"
	PhasePeak     Phase = "peak"
	PhaseRecovery Phase = "recovery"
)

// AllPhases lists every assignable phase.
var AllPhases = []Phase{PhaseBase, PhaseBuild, PhasePeak, PhaseRecovery}

// IsValidPhase checks if a string is a valid phase. Empty is valid.
func IsValidPhase(s string) bool {
	if s == "" {
		return true
	}
	for _, p := range AllPhases {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Session represents one scheduled practice.
type Session struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	Date            time.Time `json:"date" yaml:"date"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	TargetMinutes   *int      `json:"target_minutes,omitempty" yaml:"target_minutes,omitempty"`
	Theme           string    `json:"theme" yaml:"theme"`
	Notes           string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Phase           Phase     `json:"phase,omitempty" yaml:"phase,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// NewSession creates a new Session on the calendar day of date.
func NewSession(date time.Time, theme string) *Session {
	return &Session{
		ID:        uuid.New(),
		Date:      Day(date),
		Theme:     theme,
		CreatedAt: time.Now(),
	}
}

// WithDuration sets the actual duration in minutes.
func (s *Session) WithDuration(minutes int) *Session {
	s.DurationMinutes = minutes
	return s
}

// WithTarget sets the target duration in minutes.
func (s *Session) WithTarget(minutes int) *Session {
	s.TargetMinutes = &minutes
	return s
}

// WithPhase sets the training phase.
func (s *Session) WithPhase(p Phase) *Session {
	s.Phase = p
	return s
}

// WithNotes sets notes on the session.
func (s *Session) WithNotes(notes string) *Session {
	s.Notes = notes
	return s
}

// Label formats the session for pick-lists: "12/15 theme (85min)".
func (s *Session) Label() string {
	label := s.Date.Format("01/02")
	if t := strings.TrimSpace(s.Theme); t != "" {
		label += " " + t
	}
	if s.DurationMinutes > 0 {
		label += fmt.Sprintf(" (%dmin)", s.DurationMinutes)
	}
	return label
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SessionDrill is a drill planned into a session.
type SessionDrill struct {
	SessionID      uuid.UUID `json:"session_id" yaml:"session_id"`
	DrillID        uuid.UUID `json:"drill_id" yaml:"drill_id"`
	Sequence       int       `json:"sequence" yaml:"sequence"`
	PlannedMinutes *int      `json:"planned_minutes,omitempty" yaml:"planned_minutes,omitempty"`
	PlannedReps    string    `json:"planned_reps,omitempty" yaml:"planned_reps,omitempty"`
	DrillName      string    `json:"drill_name,omitempty" yaml:"-"`
}

// AttendanceStatus is a player's attendance at a session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusExcused AttendanceStatus = "excused"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
)

// AllStatuses lists every attendance status.
var AllStatuses = []AttendanceStatus{StatusPresent, StatusExcused, StatusLate, StatusAbsent}

// IsValidStatus checks if a string is a valid attendance status.
func IsValidStatus(s string) bool {
	for _, st := range AllStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Eligible reports whether a player with this status may have results
// recorded for the session.
func (s AttendanceStatus) Eligible() bool {
	return s == StatusPresent || s == StatusLate
}

// Attendance records one player's status at one session.
type Attendance struct {
	SessionID  uuid.UUID        `json:"session_id" yaml:"session_id"`
	PlayerID   uuid.UUID        `json:"player_id" yaml:"player_id"`
	Status     AttendanceStatus `json:"status" yaml:"status"`
	PlayerName string           `json:"player_name,omitempty" yaml:"-"`
}

// Option is an id + display label pair for selection widgets.
type Option struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}
