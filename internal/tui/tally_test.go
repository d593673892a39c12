// ABOUTME: Tests for the tally screen key handling and commit feedback.
// ABOUTME: Drives the model directly with key messages.
package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved []*models.DrillResult
	err   error
}

func (s *memStore) CreateResult(_ context.Context, r *models.DrillResult) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, r)
	return nil
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		m = next.(Model)
	}
	return m, cmd
}

func newModel(store tally.Store) Model {
	sel := tally.Selection{Session: uuid.New(), Drill: uuid.New(), Player: uuid.New()}
	labels := Labels{Session: "09/02 serve receive focus", Drill: "Serve Accuracy", Player: "Mina Park"}
	return New(context.Background(), store, sel, labels, Options{PrimaryTarget: "toss height"})
}

func TestTallyKeys(t *testing.T) {
	m := newModel(&memStore{})
	m, _ = press(t, m, "s", "s", "s", "f", "x")

	success, total := m.Counts()
	assert.Equal(t, 3, success)
	assert.Equal(t, 5, total)
	assert.Contains(t, m.View(), "3 / 5")
	assert.Contains(t, m.View(), "60.0%")
	assert.Contains(t, m.View(), "Mina Park")

	m, _ = press(t, m, "r")
	success, total = m.Counts()
	assert.Equal(t, 0, success)
	assert.Equal(t, 0, total)
	assert.Contains(t, m.View(), "n/a")
}

func TestTallyCommit(t *testing.T) {
	store := &memStore{}
	m := newModel(store)
	m, _ = press(t, m, "s", "s", "f", "c")

	require.Len(t, store.saved, 1)
	assert.Equal(t, 2, store.saved[0].SuccessCount)
	assert.Equal(t, 3, store.saved[0].TotalCount)
	assert.Equal(t, "toss height", store.saved[0].PrimaryTarget)
	assert.Len(t, m.Saved(), 1)
	assert.Contains(t, m.View(), "saved 2/3 (66.7%)")

	_, total := m.Counts()
	assert.Equal(t, 0, total)
}

func TestTallyCommitFailureKeepsCounts(t *testing.T) {
	m := newModel(&memStore{err: errors.New("database is locked")})
	m, _ = press(t, m, "s", "c")

	success, total := m.Counts()
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, total)
	assert.Contains(t, m.View(), "database is locked")
	assert.Empty(t, m.Saved())
}

func TestTallyQuitConfirmsPendingTally(t *testing.T) {
	m := newModel(&memStore{})

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd, "idle recorder quits immediately")

	m, cmd = press(t, m, "s", "q")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "press q again")

	m, cmd = press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestTallyIgnoresOtherMessages(t *testing.T) {
	m := newModel(&memStore{})
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	_, total := next.(Model).Counts()
	assert.Equal(t, 0, total)
}

func TestTallyEditRejectsSuccessAboveTotal(t *testing.T) {
	store := &memStore{}
	m := newModel(store)
	m, _ = press(t, m, "s", "e", "4", "/", "3", "enter")

	success, total := m.Counts()
	assert.Equal(t, 4, success)
	assert.Equal(t, 3, total)

	m, _ = press(t, m, "c")
	assert.Empty(t, store.saved)
	assert.Empty(t, m.Saved())
	assert.Contains(t, m.View(), "invalid tally 4/3: success exceeds total")
}

func TestTallyEditCommitsCorrectedCounts(t *testing.T) {
	store := &memStore{}
	m := newModel(store)
	m, _ = press(t, m, "e", "1", "2", "/", "2", "0", "backspace", "5", "enter")
	assert.Contains(t, m.View(), "counts set to 12/25")

	m, _ = press(t, m, "c")
	require.Len(t, store.saved, 1)
	assert.Equal(t, 12, store.saved[0].SuccessCount)
	assert.Equal(t, 25, store.saved[0].TotalCount)
}

func TestTallyEditMalformedAndCancel(t *testing.T) {
	m := newModel(&memStore{})
	m, _ = press(t, m, "s", "e", "7", "enter")
	assert.Contains(t, m.View(), "success/total")

	m, _ = press(t, m, "esc")
	success, total := m.Counts()
	assert.Equal(t, 1, success, "cancelled edit keeps the live counts")
	assert.Equal(t, 1, total)
	assert.Contains(t, m.View(), "e edit")
}

func TestTallyTabCyclesEligiblePlayers(t *testing.T) {
	store := &memStore{}
	first, second := uuid.New(), uuid.New()
	sel := tally.Selection{Session: uuid.New(), Drill: uuid.New(), Player: first}
	m := New(context.Background(), store, sel,
		Labels{Session: "09/02", Drill: "Serve Accuracy", Player: "Mina Park"},
		Options{Players: []models.Option{{ID: first, Label: "Mina Park"}, {ID: second, Label: "Lea Santos"}}})

	m, _ = press(t, m, "s", "tab")
	_, total := m.Counts()
	assert.Equal(t, 0, total, "switching player discards the tally")
	assert.Contains(t, m.View(), "Lea Santos")

	m, _ = press(t, m, "s", "c")
	require.Len(t, store.saved, 1)
	assert.Equal(t, second, store.saved[0].PlayerID)

	m, _ = press(t, m, "tab")
	assert.Contains(t, m.View(), "player: Mina Park")
}
