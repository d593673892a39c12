// ABOUTME: Live success/attempt counter for one (session, drill, player) selection.
// ABOUTME: Increments are in-memory; Commit is the only operation that writes.
package tally

import (
	"context"

	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
)

// Store persists committed tallies.
type Store interface {
	CreateResult(ctx context.Context, r *models.DrillResult) error
}

// Selection identifies what a tally is being recorded for.
type Selection struct {
	Session uuid.UUID
	Drill   uuid.UUID
	Player  uuid.UUID
}

// Complete reports whether every part of the selection is set.
func (s Selection) Complete() bool {
	return s.Session != uuid.Nil && s.Drill != uuid.Nil && s.Player != uuid.Nil
}

// State is the recorder's lifecycle state.
type State int

const (
	Idle State = iota
	Tallying
)

func (s State) String() string {
	if s == Tallying {
		return "tallying"
	}
	return "idle"
}

// Recorder accumulates one tally. The zero value is an idle recorder with
// no selection. A Recorder is not safe for concurrent use.
type Recorder struct {
	sel     Selection
	success int
	total   int
}

// New creates an idle recorder bound to sel.
func New(sel Selection) *Recorder {
	return &Recorder{sel: sel}
}

// Selection returns the current selection.
func (r *Recorder) Selection() Selection {
	return r.sel
}

// Select binds the recorder to sel. Changing to a different selection
// discards the current tally; selecting the same one keeps it.
func (r *Recorder) Select(sel Selection) {
	if sel == r.sel {
		return
	}
	r.sel = sel
	r.Reset()
}

// RecordSuccess counts a successful attempt.
func (r *Recorder) RecordSuccess() {
	r.success++
	r.total++
}

// RecordFailure counts a failed attempt.
func (r *Recorder) RecordFailure() {
	r.total++
}

// Reset discards the tally.
func (r *Recorder) Reset() {
	r.success = 0
	r.total = 0
}

// Override replaces the counters with manually corrected values. They are
// validated at commit, not here.
func (r *Recorder) Override(success, total int) {
	r.success = success
	r.total = total
}

// Counts returns (success, total).
func (r *Recorder) Counts() (int, int) {
	return r.success, r.total
}

// State reports Idle when both counters are zero.
func (r *Recorder) State() State {
	if r.success == 0 && r.total == 0 {
		return Idle
	}
	return Tallying
}

// Rate is the running success rate, nil before the first attempt.
func (r *Recorder) Rate() *float64 {
	return models.SuccessRate(r.success, r.total)
}

// Validate checks the counters and selection without writing anything.
func (r *Recorder) Validate() error {
	switch {
	case r.success < 0 || r.total < 0:
		return &errs.InvalidTallyError{Success: r.success, Total: r.total, Reason: "counts must not be negative"}
	case r.success > r.total:
		return &errs.InvalidTallyError{Success: r.success, Total: r.total, Reason: "success exceeds total"}
	case !r.sel.Complete():
		return &errs.InvalidTallyError{Success: r.success, Total: r.total, Reason: "session, drill and player must be selected"}
	}
	return nil
}

// Commit validates and persists the tally as a new result, then resets.
// If the store fails the tally is kept so the commit can be retried.
func (r *Recorder) Commit(ctx context.Context, store Store, primary string, secondary []string, notes string) (*models.DrillResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	result := models.NewDrillResult(r.sel.Session, r.sel.Drill, r.sel.Player, r.success, r.total).
		WithTargets(primary, secondary).
		WithNotes(notes)
	if err := store.CreateResult(ctx, result); err != nil {
		return nil, err
	}

	r.Reset()
	return result, nil
}
