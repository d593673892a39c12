// ABOUTME: Form structs for record entry and their validation rules.
// ABOUTME: Validator failures are translated into errs.ValidationError.
package entry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/models"
)

// PlayerForm creates or updates a player.
type PlayerForm struct {
	Name      string `json:"name" validate:"required,max=80"`
	Position  string `json:"position" validate:"omitempty,position"`
	ClassYear string `json:"class_year" validate:"max=20"`
	Jersey    *int   `json:"jersey" validate:"omitempty,min=1,max=99"`
	Notes     string `json:"notes"`
}

// DrillForm creates or updates a drill.
type DrillForm struct {
	Name       string `json:"name" validate:"required,max=80,notreserved"`
	Category   string `json:"category" validate:"required,category"`
	Objective  string `json:"objective"`
	Difficulty int    `json:"difficulty" validate:"min=1,max=5"`
	MinPlayers *int   `json:"min_players" validate:"omitempty,min=1"`
	NeuroLoad  *int   `json:"neuro_load" validate:"omitempty,min=1,max=5"`
}

// SessionForm creates or updates a session.
type SessionForm struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Theme           string `json:"theme" validate:"required,max=120"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0,max=600"`
	TargetMinutes   *int   `json:"target_minutes" validate:"omitempty,min=0,max=600"`
	Phase           string `json:"phase" validate:"omitempty,oneof=base build peak recovery"`
	Notes           string `json:"notes"`
}

// GenerateForm creates one session per matching weekday in [From, To].
type GenerateForm struct {
	From            string `json:"from" validate:"required,datetime=2006-01-02"`
	To              string `json:"to" validate:"required,datetime=2006-01-02"`
	Weekdays        []int  `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
	Theme           string `json:"theme" validate:"required,max=120"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0,max=600"`
	TargetMinutes   *int   `json:"target_minutes" validate:"omitempty,min=0,max=600"`
	Phase           string `json:"phase" validate:"omitempty,oneof=base build peak recovery"`
}

// PlanForm plans a drill into a session. A zero Sequence takes the next
// free slot.
type PlanForm struct {
	SessionID      string `json:"session_id" validate:"required"`
	DrillID        string `json:"drill_id" validate:"required"`
	Sequence       int    `json:"sequence" validate:"min=0"`
	PlannedMinutes *int   `json:"planned_minutes" validate:"omitempty,min=0,max=600"`
	PlannedReps    string `json:"planned_reps" validate:"max=40"`
}

// AttendanceForm records one player's status at one session.
type AttendanceForm struct {
	SessionID string `json:"session_id" validate:"required"`
	PlayerID  string `json:"player_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present excused late absent"`
}

// ResultForm is a manually entered drill result.
type ResultForm struct {
	SessionID string   `json:"session_id" validate:"required"`
	DrillID   string   `json:"drill_id" validate:"required"`
	PlayerID  string   `json:"player_id" validate:"required"`
	Success   int      `json:"success" validate:"min=0,ltefield=Total"`
	Total     int      `json:"total" validate:"min=0"`
	Primary   string   `json:"primary_target" validate:"max=80"`
	Secondary []string `json:"secondary_targets" validate:"dive,max=80"`
	Notes     string   `json:"notes"`
}

// SummaryForm is a qualitative per-session observation about a player.
type SummaryForm struct {
	SessionID string `json:"session_id" validate:"required"`
	PlayerID  string `json:"player_id" validate:"required"`
	Primary   string `json:"primary_target" validate:"max=80"`
	Notes     string `json:"notes" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors match what the user typed
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		return models.IsValidPosition(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseCategory(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !strings.EqualFold(strings.TrimSpace(fl.Field().String()), models.SummaryDrillName)
	})
	return v
}

// check validates form and converts the first failure to a ValidationError.
func (c *Controller) check(form any) error {
	err := c.validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return errs.Invalid("", err.Error())
	}
	fe := ve[0]
	return errs.Invalid(fieldName(fe), rule(fe))
}

// fieldName strips slice indexes like "secondary_targets[1]".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func rule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "ltefield":
		return "must not exceed " + strings.ToLower(fe.Param())
	case "position":
		return "unknown position"
	case "category":
		return "unknown category"
	case "notreserved":
		return fmt.Sprintf("%q is reserved", models.SummaryDrillName)
	default:
		return "failed " + fe.Tag()
	}
}
