// ABOUTME: DrillResult model and the derived success rate.
// ABOUTME: Secondary correction targets are a list, stored in their own table.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DrillResult is one player's measured performance on one drill in one
// session. A zero TotalCount marks a qualitative, non-tallied observation.
type DrillResult struct {
	ID               uuid.UUID `json:"id" yaml:"id"`
	SessionID        uuid.UUID `json:"session_id" yaml:"session_id"`
	DrillID          uuid.UUID `json:"drill_id" yaml:"drill_id"`
	PlayerID         uuid.UUID `json:"player_id" yaml:"player_id"`
	SuccessCount     int       `json:"success_count" yaml:"success_count"`
	TotalCount       int       `json:"total_count" yaml:"total_count"`
	PrimaryTarget    string    `json:"primary_target,omitempty" yaml:"primary_target,omitempty"`
	SecondaryTargets []string  `json:"secondary_targets,omitempty" yaml:"secondary_targets,omitempty"`
	Notes            string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
}

// NewDrillResult creates a new DrillResult with generated UUID and current timestamp.
func NewDrillResult(sessionID, drillID, playerID uuid.UUID, success, total int) *DrillResult {
	return &DrillResult{
		ID:           uuid.New(),
		SessionID:    sessionID,
		DrillID:      drillID,
		PlayerID:     playerID,
		SuccessCount: success,
		TotalCount:   total,
		CreatedAt:    time.Now(),
	}
}

// WithTargets sets the primary and secondary correction targets.
func (r *DrillResult) WithTargets(primary string, secondary []string) *DrillResult {
	r.PrimaryTarget = strings.TrimSpace(primary)
	r.SecondaryTargets = NormalizeTargets(secondary)
	return r
}

// WithNotes sets free-form notes on the result.
func (r *DrillResult) WithNotes(notes string) *DrillResult {
	r.Notes = notes
	return r
}

// SuccessRate returns success/total, or nil when the result has no attempts.
func (r *DrillResult) SuccessRate() *float64 {
	return SuccessRate(r.SuccessCount, r.TotalCount)
}

// SuccessRate returns success/total, or nil when total is zero.
func SuccessRate(success, total int) *float64 {
	if total == 0 {
		return nil
	}
	rate := float64(success) / float64(total)
	return &rate
}

// NormalizeTargets trims each target, drops blanks and removes duplicates
// while keeping the original order.
func NormalizeTargets(targets []string) []string {
	var out []string
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
