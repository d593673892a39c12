// ABOUTME: Maps validated entry forms to exactly one storage write each.
// ABOUTME: Nothing is written when validation fails; creates return the new ID.
package entry

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/storage"
)

// maxGenerateDays bounds batch session generation.
const maxGenerateDays = 366

// Controller validates forms and performs the matching write.
type Controller struct {
	store    storage.Repository
	validate *validator.Validate
	log      *log.Logger
}

// New creates a Controller writing to store. A nil logger discards output.
func New(store storage.Repository, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		store:    store,
		validate: newValidator(),
		log:      logger.WithPrefix("entry"),
	}
}

// CreatePlayer validates form and inserts a player.
func (c *Controller) CreatePlayer(ctx context.Context, form PlayerForm) (uuid.UUID, error) {
	form = form.normalized()
	if err := c.check(form); err != nil {
		return uuid.Nil, err
	}

	p := models.NewPlayer(form.Name)
	form.apply(p)
	if err := c.store.CreatePlayer(ctx, p); err != nil {
		return uuid.Nil, err
	}
	c.log.Info("player added", "id", p.ID, "name", p.Name)
	return p.ID, nil
}

// UpdatePlayer validates form and overwrites the player's fields.
func (c *Controller) UpdatePlayer(ctx context.Context, idOrPrefix string, form PlayerForm) error {
	form = form.normalized()
	if err := c.check(form); err != nil {
		return err
	}

	p, err := c.store.GetPlayer(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	p.Name = form.Name
	form.apply(p)
	if err := c.store.UpdatePlayer(ctx, p); err != nil {
		return err
	}
	c.log.Info("player updated", "id", p.ID)
	return nil
}

// DeletePlayer removes a player without results.
func (c *Controller) DeletePlayer(ctx context.Context, idOrPrefix string) error {
	if err := c.store.DeletePlayer(ctx, idOrPrefix); err != nil {
		return err
	}
	c.log.Info("player deleted", "id", idOrPrefix)
	return nil
}

func (f PlayerForm) normalized() PlayerForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Position = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(f.Position)), " ", "_")
	f.ClassYear = strings.TrimSpace(f.ClassYear)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func (f PlayerForm) apply(p *models.Player) {
	p.Position = models.Position(f.Position)
	p.ClassYear = f.ClassYear
	p.Jersey = f.Jersey
	p.Notes = f.Notes
}

// CreateDrill validates form and inserts a drill.
func (c *Controller) CreateDrill(ctx context.Context, form DrillForm) (uuid.UUID, error) {
	form = form.normalized()
	if err := c.check(form); err != nil {
		return uuid.Nil, err
	}

	cat, _ := models.ParseCategory(form.Category)
	dr := models.NewDrill(form.Name, cat, form.Difficulty)
	form.apply(dr)
	if err := c.store.CreateDrill(ctx, dr); err != nil {
		return uuid.Nil, err
	}
	c.log.Info("drill added", "id", dr.ID, "name", dr.Name)
	return dr.ID, nil
}

// UpdateDrill validates form and overwrites the drill's fields.
func (c *Controller) UpdateDrill(ctx context.Context, idOrPrefix string, form DrillForm) error {
	form = form.normalized()
	if err := c.check(form); err != nil {
		return err
	}

	dr, err := c.store.GetDrill(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	if dr.IsSummary() {
		return errs.Invalid("drill", "the session summary drill cannot be edited")
	}
	cat, _ := models.ParseCategory(form.Category)
	dr.Name = form.Name
	dr.Category = cat
	dr.Difficulty = form.Difficulty
	form.apply(dr)
	if err := c.store.UpdateDrill(ctx, dr); err != nil {
		return err
	}
	c.log.Info("drill updated", "id", dr.ID)
	return nil
}

// SetDrillHidden hides or restores a drill in pick-lists.
func (c *Controller) SetDrillHidden(ctx context.Context, idOrPrefix string, hidden bool) error {
	dr, err := c.store.GetDrill(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	if dr.IsSummary() {
		return errs.Invalid("drill", "the session summary drill is always hidden")
	}
	if err := c.store.SetDrillHidden(ctx, dr.ID.String(), hidden); err != nil {
		return err
	}
	c.log.Info("drill visibility changed", "id", dr.ID, "hidden", hidden)
	return nil
}

// DeleteDrill removes a drill without results.
func (c *Controller) DeleteDrill(ctx context.Context, idOrPrefix string) error {
	if err := c.store.DeleteDrill(ctx, idOrPrefix); err != nil {
		return err
	}
	c.log.Info("drill deleted", "id", idOrPrefix)
	return nil
}

func (f DrillForm) normalized() DrillForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Objective = strings.TrimSpace(f.Objective)
	return f
}

func (f DrillForm) apply(dr *models.Drill) {
	dr.Objective = f.Objective
	dr.MinPlayers = f.MinPlayers
	dr.NeuroLoad = f.NeuroLoad
}

// CreateSession validates form and inserts a session.
func (c *Controller) CreateSession(ctx context.Context, form SessionForm) (uuid.UUID, error) {
	form = form.normalized()
	if err := c.check(form); err != nil {
		return uuid.Nil, err
	}

	day, _ := time.Parse(models.DateLayout, form.Date)
	s := models.NewSession(day, form.Theme)
	form.apply(s)
	if err := c.store.CreateSession(ctx, s); err != nil {
		return uuid.Nil, err
	}
	c.log.Info("session added", "id", s.ID, "date", form.Date)
	return s.ID, nil
}

// UpdateSession validates form and overwrites the session's fields.
func (c *Controller) UpdateSession(ctx context.Context, idOrPrefix string, form SessionForm) error {
	form = form.normalized()
	if err := c.check(form); err != nil {
		return err
	}

	s, err := c.store.GetSession(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	day, _ := time.Parse(models.DateLayout, form.Date)
	s.Date = models.Day(day)
	s.Theme = form.Theme
	form.apply(s)
	if err := c.store.UpdateSession(ctx, s); err != nil {
		return err
	}
	c.log.Info("session updated", "id", s.ID)
	return nil
}

// DeleteSession removes a session without results, with its plan and
// attendance.
func (c *Controller) DeleteSession(ctx context.Context, idOrPrefix string) error {
	if err := c.store.DeleteSession(ctx, idOrPrefix); err != nil {
		return err
	}
	c.log.Info("session deleted", "id", idOrPrefix)
	return nil
}

func (f SessionForm) normalized() SessionForm {
	f.Date = strings.TrimSpace(f.Date)
	f.Theme = strings.TrimSpace(f.Theme)
	f.Phase = strings.ToLower(strings.TrimSpace(f.Phase))
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func (f SessionForm) apply(s *models.Session) {
	s.DurationMinutes = f.DurationMinutes
	s.TargetMinutes = f.TargetMinutes
	s.Phase = models.Phase(f.Phase)
	s.Notes = f.Notes
}

// GenerateSessions creates one session for every day in [From, To] whose
// weekday is listed, all in a single transaction.
func (c *Controller) GenerateSessions(ctx context.Context, form GenerateForm) ([]uuid.UUID, error) {
	form.From = strings.TrimSpace(form.From)
	form.To = strings.TrimSpace(form.To)
	form.Theme = strings.TrimSpace(form.Theme)
	form.Phase = strings.ToLower(strings.TrimSpace(form.Phase))
	if err := c.check(form); err != nil {
		return nil, err
	}

	from, _ := time.Parse(models.DateLayout, form.From)
	to, _ := time.Parse(models.DateLayout, form.To)
	if to.Before(from) {
		return nil, errs.Invalid("to", "must not be before from")
	}
	if to.Sub(from) > maxGenerateDays*24*time.Hour {
		return nil, errs.Invalid("to", "range must not exceed one year")
	}

	days := make(map[time.Weekday]bool, len(form.Weekdays))
	for _, d := range form.Weekdays {
		days[time.Weekday(d)] = true
	}

	var sessions []*models.Session
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}
		s := models.NewSession(day, form.Theme).WithDuration(form.DurationMinutes).WithPhase(models.Phase(form.Phase))
		s.TargetMinutes = form.TargetMinutes
		sessions = append(sessions, s)
	}
	if len(sessions) == 0 {
		return nil, errs.Invalid("weekdays", "no dates in range fall on the chosen weekdays")
	}

	if err := c.store.CreateSessions(ctx, sessions); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	c.log.Info("sessions generated", "count", len(ids), "from", form.From, "to", form.To)
	return ids, nil
}

// PlanDrill upserts a drill into a session plan and returns the sequence
// number used.
func (c *Controller) PlanDrill(ctx context.Context, form PlanForm) (int, error) {
	form.PlannedReps = strings.TrimSpace(form.PlannedReps)
	if err := c.check(form); err != nil {
		return 0, err
	}

	s, err := c.store.GetSession(ctx, form.SessionID)
	if err != nil {
		return 0, err
	}
	dr, err := c.store.GetDrill(ctx, form.DrillID)
	if err != nil {
		return 0, err
	}
	if dr.IsSummary() {
		return 0, errs.Invalid("drill_id", "the session summary drill cannot be planned")
	}

	seq := form.Sequence
	if seq == 0 {
		if seq, err = c.store.NextSequence(ctx, s.ID); err != nil {
			return 0, err
		}
	}

	sd := &models.SessionDrill{
		SessionID:      s.ID,
		DrillID:        dr.ID,
		Sequence:       seq,
		PlannedMinutes: form.PlannedMinutes,
		PlannedReps:    form.PlannedReps,
	}
	if err := c.store.UpsertSessionDrill(ctx, sd); err != nil {
		return 0, err
	}
	c.log.Info("drill planned", "session", s.ID, "drill", dr.Name, "sequence", seq)
	return seq, nil
}

// Unplan removes a drill from a session plan.
func (c *Controller) Unplan(ctx context.Context, sessionID, drillID string) error {
	s, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	dr, err := c.store.GetDrill(ctx, drillID)
	if err != nil {
		return err
	}
	return c.store.DeleteSessionDrill(ctx, s.ID, dr.ID)
}

// SetAttendance upserts one player's status at a session.
func (c *Controller) SetAttendance(ctx context.Context, form AttendanceForm) error {
	form.Status = strings.ToLower(strings.TrimSpace(form.Status))
	if err := c.check(form); err != nil {
		return err
	}

	s, err := c.store.GetSession(ctx, form.SessionID)
	if err != nil {
		return err
	}
	p, err := c.store.GetPlayer(ctx, form.PlayerID)
	if err != nil {
		return err
	}

	a := &models.Attendance{SessionID: s.ID, PlayerID: p.ID, Status: models.AttendanceStatus(form.Status)}
	if err := c.store.UpsertAttendance(ctx, a); err != nil {
		return err
	}
	c.log.Info("attendance set", "session", s.ID, "player", p.Name, "status", form.Status)
	return nil
}

// RecordResult validates a manually entered result and inserts it with its
// secondary targets.
func (c *Controller) RecordResult(ctx context.Context, form ResultForm) (uuid.UUID, error) {
	form.Primary = strings.TrimSpace(form.Primary)
	form.Notes = strings.TrimSpace(form.Notes)
	if err := c.check(form); err != nil {
		return uuid.Nil, err
	}

	s, dr, p, err := c.resolveResult(ctx, form.SessionID, form.DrillID, form.PlayerID)
	if err != nil {
		return uuid.Nil, err
	}
	if dr.IsSummary() {
		return uuid.Nil, errs.Invalid("drill_id", "use a session summary entry for qualitative notes")
	}

	r := models.NewDrillResult(s.ID, dr.ID, p.ID, form.Success, form.Total).
		WithTargets(form.Primary, form.Secondary).
		WithNotes(form.Notes)
	if err := c.store.CreateResult(ctx, r); err != nil {
		return uuid.Nil, err
	}
	c.log.Info("result recorded", "id", r.ID, "player", p.Name, "drill", dr.Name, "success", r.SuccessCount, "total", r.TotalCount)
	return r.ID, nil
}

// RecordSummary stores a qualitative observation as a zero-attempt result
// against the session summary drill.
func (c *Controller) RecordSummary(ctx context.Context, form SummaryForm) (uuid.UUID, error) {
	form.Primary = strings.TrimSpace(form.Primary)
	form.Notes = strings.TrimSpace(form.Notes)
	if err := c.check(form); err != nil {
		return uuid.Nil, err
	}

	summary, err := c.store.EnsureSummaryDrill(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	s, _, p, err := c.resolveResult(ctx, form.SessionID, summary.ID.String(), form.PlayerID)
	if err != nil {
		return uuid.Nil, err
	}

	r := models.NewDrillResult(s.ID, summary.ID, p.ID, 0, 0).
		WithTargets(form.Primary, nil).
		WithNotes(form.Notes)
	if err := c.store.CreateResult(ctx, r); err != nil {
		return uuid.Nil, err
	}
	c.log.Info("session summary recorded", "id", r.ID, "player", p.Name)
	return r.ID, nil
}

// DeleteResult removes a result.
func (c *Controller) DeleteResult(ctx context.Context, idOrPrefix string) error {
	if err := c.store.DeleteResult(ctx, idOrPrefix); err != nil {
		return err
	}
	c.log.Info("result deleted", "id", idOrPrefix)
	return nil
}

// resolveResult loads the three parents of a result and applies the
// attendance gate.
func (c *Controller) resolveResult(ctx context.Context, sessionID, drillID, playerID string) (*models.Session, *models.Drill, *models.Player, error) {
	s, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	dr, err := c.store.GetDrill(ctx, drillID)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := c.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, nil, err
	}

	ok, err := c.store.IsEligible(ctx, s.ID, p.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !ok {
		return nil, nil, nil, errs.Invalid("player_id", p.Name+" is not marked present or late for this session")
	}
	return s, dr, p, nil
}
