// ABOUTME: Bubbletea clicker for tallying one drill result live during practice.
// ABOUTME: Keys drive a tally.Recorder; commit writes through the result store.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/tally"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder())
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Labels are the display names of the current selection.
type Labels struct {
	Session string
	Drill   string
	Player  string
}

// Options configure what a commit writes besides the counts.
type Options struct {
	PrimaryTarget    string
	SecondaryTargets []string
	Notes            string
	// Players are the eligible players tab cycles through.
	Players []models.Option
}

// Model is the bubbletea model for the tally screen.
type Model struct {
	ctx      context.Context
	store    tally.Store
	rec      *tally.Recorder
	labels   Labels
	opts     Options
	status   string
	err      error
	confirm  bool
	editing  bool
	input    string
	saved    []*models.DrillResult
	quitting bool
}

// New builds a tally screen for sel.
func New(ctx context.Context, store tally.Store, sel tally.Selection, labels Labels, opts Options) Model {
	return Model{
		ctx:    ctx,
		store:  store,
		rec:    tally.New(sel),
		labels: labels,
		opts:   opts,
	}
}

// Saved returns the results committed during this run.
func (m Model) Saved() []*models.DrillResult {
	return m.saved
}

// Counts returns the live (success, total).
func (m Model) Counts() (int, int) {
	return m.rec.Counts()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	k := key.String()
	if m.editing && k != "ctrl+c" {
		m.updateEdit(k)
		return m, nil
	}
	if k != "q" && k != "esc" {
		m.confirm = false
	}

	switch k {
	case "s", "+", "right":
		m.rec.RecordSuccess()
		m.status, m.err = "", nil
	case "f", "x", "-", "left":
		m.rec.RecordFailure()
		m.status, m.err = "", nil
	case "r":
		m.rec.Reset()
		m.status, m.err = "tally reset", nil
	case "e":
		m.editing, m.input = true, ""
		m.status, m.err = "", nil
	case "tab":
		m.cyclePlayer(1)
	case "shift+tab":
		m.cyclePlayer(-1)
	case "c", "enter":
		m.commit()
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "q", "esc":
		if m.rec.State() == tally.Tallying && !m.confirm {
			m.confirm = true
			m.status, m.err = "", nil
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// updateEdit handles keys while typing corrected counts as "success/total".
func (m *Model) updateEdit(k string) {
	switch k {
	case "esc":
		m.editing, m.input = false, ""
	case "backspace":
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
	case "enter":
		success, total, err := parseCounts(m.input)
		if err != nil {
			m.status, m.err = "", err
			return
		}
		m.editing, m.input = false, ""
		m.rec.Override(success, total)
		m.status, m.err = fmt.Sprintf("counts set to %d/%d", success, total), nil
	default:
		for _, r := range k {
			if (r < '0' || r > '9') && r != '/' {
				return
			}
		}
		m.input += k
	}
}

func parseCounts(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("enter counts as success/total")
	}
	success, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("success count: %w", err)
	}
	total, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("total count: %w", err)
	}
	return success, total, nil
}

// cyclePlayer moves the selection to the next eligible player. Switching
// player discards the running tally.
func (m *Model) cyclePlayer(step int) {
	n := len(m.opts.Players)
	if n == 0 {
		return
	}
	sel := m.rec.Selection()
	i := -1
	for j, o := range m.opts.Players {
		if o.ID == sel.Player {
			i = j
			break
		}
	}
	next := m.opts.Players[((i+step)%n+n)%n]
	if next.ID == sel.Player {
		return
	}
	sel.Player = next.ID
	m.rec.Select(sel)
	m.labels.Player = next.Label
	m.status, m.err = "player: "+next.Label, nil
}

func (m *Model) commit() {
	res, err := m.rec.Commit(m.ctx, m.store, m.opts.PrimaryTarget, m.opts.SecondaryTargets, m.opts.Notes)
	if err != nil {
		m.status, m.err = "", err
		return
	}
	m.saved = append(m.saved, res)
	m.err = nil
	m.status = fmt.Sprintf("saved %d/%d (%s)", res.SuccessCount, res.TotalCount, report.FormatRate(res.SuccessRate()))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tally") + "\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("session"), m.labels.Session)
	fmt.Fprintf(&b, "%s   %s\n", labelStyle.Render("drill"), m.labels.Drill)
	fmt.Fprintf(&b, "%s  %s\n\n", labelStyle.Render("player"), m.labels.Player)

	success, total := m.rec.Counts()
	counts := fmt.Sprintf("%d / %d   %s", success, total, report.FormatRate(m.rec.Rate()))
	b.WriteString(countStyle.Render(counts) + "\n")
	b.WriteString(labelStyle.Render(m.rec.State().String()) + "\n\n")

	if m.editing {
		b.WriteString(labelStyle.Render("counts (success/total): ") + m.input + "_\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render(m.err.Error()) + "\n")
	case m.confirm:
		b.WriteString(warningStyle.Render("uncommitted tally, press q again to discard") + "\n")
	case m.status != "":
		b.WriteString(okStyle.Render(m.status) + "\n")
	}

	if m.editing {
		b.WriteString(helpStyle.Render("enter apply · esc cancel"))
		return b.String()
	}
	help := "s success · f failure · r reset · e edit · c commit · q quit"
	if len(m.opts.Players) > 1 {
		help = "s success · f failure · r reset · e edit · tab player · c commit · q quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// Run starts the tally screen and blocks until the user quits.
func Run(m Model, opts ...tea.ProgramOption) (Model, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, fmt.Errorf("run tally screen: %w", err)
	}
	return final.(Model), nil
}
