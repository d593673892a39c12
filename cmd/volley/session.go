// ABOUTME: CLI commands for practice sessions, their drill plans and attendance.
// ABOUTME: Includes bulk generation of recurring sessions over a date range.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/volley/internal/entry"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sessionDuration int
	sessionTarget   int
	sessionPhase    string
	sessionNotes    string
	sessionTheme    string
	sessionDate     string
	sessionLimit    int

	generateFrom string
	generateTo   string
	generateDays string

	planSequence int
	planMinutes  int
	planReps     string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage practice sessions",
	Long: `Manage practice sessions, their drill plans and attendance.

PHASES:

  base, build, peak, recovery

ATTENDANCE:

  present, late, excused, absent
  Results can only be recorded for present or late players. A session with
  no attendance marked accepts results for everyone.`,
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <date> <theme>",
	Short: "Add a session",
	Long: `Add a practice session.

Examples:
  volley session add 2025-09-02 "serve receive focus" --duration 90
  volley session add 2025-09-04 scrimmage --duration 120 --target 110 --phase build`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ctrl.CreateSession(cmd.Context(), entry.SessionForm{
			Date:            args[0],
			Theme:           args[1],
			DurationMinutes: sessionDuration,
			TargetMinutes:   optInt(cmd.Flags().Changed("target"), sessionTarget),
			Phase:           sessionPhase,
			Notes:           sessionNotes,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added session %s %s", args[0], args[1]))
		fmt.Fprintf(out, "  %s\n", faint.Sprint(shortID(id)))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := db.ListSessions(cmd.Context(), sessionLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		for _, s := range sessions {
			phase := ""
			if s.Phase != "" {
				phase = faint.Sprintf(" [%s]", s.Phase)
			}
			fmt.Fprintf(out, "%s %s %s %4dmin%s\n",
				faint.Sprint(shortID(s.ID)),
				s.Date.Format(models.DateLayout),
				padRight(truncate(s.Theme, 30), 30),
				s.DurationMinutes,
				phase)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session's plan, attendance and results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := db.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		plan, err := db.ListSessionDrills(ctx, s.ID)
		if err != nil {
			return err
		}
		attendance, err := db.ListAttendance(ctx, s.ID)
		if err != nil {
			return err
		}
		eligible, err := db.EligiblePlayerOptions(ctx, s.ID)
		if err != nil {
			return err
		}
		results, err := db.ListResults(ctx, storage.ResultFilter{SessionID: &s.ID})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", color.CyanString(s.Date.Format(models.DateLayout)), s.Theme)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint("id:"), s.ID)
		fmt.Fprintf(out, "  %s %d min", faint.Sprint("duration:"), s.DurationMinutes)
		if s.TargetMinutes != nil {
			fmt.Fprintf(out, " (target %d)", *s.TargetMinutes)
		}
		fmt.Fprintln(out)
		if s.Phase != "" {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint("phase:"), s.Phase)
		}
		if s.Notes != "" {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint("notes:"), s.Notes)
		}

		fmt.Fprintln(out, color.New(color.Bold).Sprint("\nPlan"))
		if len(plan) == 0 {
			fmt.Fprintln(out, faint.Sprint("  (none)"))
		}
		for _, sd := range plan {
			line := fmt.Sprintf("  %2d. %s", sd.Sequence, sd.DrillName)
			if sd.PlannedMinutes != nil {
				line += fmt.Sprintf(" %dmin", *sd.PlannedMinutes)
			}
			if sd.PlannedReps != "" {
				line += " " + sd.PlannedReps
			}
			fmt.Fprintln(out, line)
		}

		fmt.Fprintln(out, color.New(color.Bold).Sprint("\nAttendance"))
		if len(attendance) == 0 {
			fmt.Fprintln(out, faint.Sprint("  (not taken)"))
		}
		for _, a := range attendance {
			fmt.Fprintf(out, "  %s %s\n", padRight(truncate(a.PlayerName, 20), 20), a.Status)
		}

		fmt.Fprintln(out, color.New(color.Bold).Sprint("\nEligible players"))
		if len(eligible) == 0 {
			fmt.Fprintln(out, faint.Sprint("  (none)"))
		}
		for _, o := range eligible {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint(shortID(o.ID)), o.Label)
		}

		fmt.Fprintln(out, color.New(color.Bold).Sprint("\nResults"))
		if len(results) == 0 {
			fmt.Fprintln(out, faint.Sprint("  (none)"))
			return nil
		}
		names, err := nameLookup(cmd)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(out, "  "+resultLine(r, names))
		}
		return nil
	},
}

var sessionEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a session",
	Long: `Edit a session. Only the flags you pass are changed.

Examples:
  volley session edit abc123 --duration 95
  volley session edit abc123 --date 2025-09-03 --theme "transition"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := db.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		form := entry.SessionForm{
			Date:            s.Date.Format(models.DateLayout),
			Theme:           s.Theme,
			DurationMinutes: s.DurationMinutes,
			TargetMinutes:   s.TargetMinutes,
			Phase:           string(s.Phase),
			Notes:           s.Notes,
		}
		flags := cmd.Flags()
		if flags.Changed("date") {
			form.Date = sessionDate
		}
		if flags.Changed("theme") {
			form.Theme = sessionTheme
		}
		if flags.Changed("duration") {
			form.DurationMinutes = sessionDuration
		}
		if flags.Changed("target") {
			form.TargetMinutes = &sessionTarget
		}
		if flags.Changed("phase") {
			form.Phase = sessionPhase
		}
		if flags.Changed("notes") {
			form.Notes = sessionNotes
		}

		if err := ctrl.UpdateSession(cmd.Context(), s.ID.String(), form); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated session %s", form.Date))
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session without results",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := db.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctrl.DeleteSession(cmd.Context(), s.ID.String()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted session %s", s.Label()))
		return nil
	},
}

var sessionGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create recurring sessions over a date range",
	Long: `Create one session for every date in [--from, --to] that falls on one of
the given weekdays. All sessions are created together or not at all.

Examples:
  volley session generate --from 2025-09-01 --to 2025-11-30 --days mon,wed,fri --theme practice --duration 120`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := parseWeekdays(generateDays)
		if err != nil {
			return err
		}
		ids, err := ctrl.GenerateSessions(cmd.Context(), entry.GenerateForm{
			From:            generateFrom,
			To:              generateTo,
			Weekdays:        days,
			Theme:           sessionTheme,
			DurationMinutes: sessionDuration,
			TargetMinutes:   optInt(cmd.Flags().Changed("target"), sessionTarget),
			Phase:           sessionPhase,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Created %d sessions", len(ids)))
		return nil
	},
}

var sessionPlanCmd = &cobra.Command{
	Use:   "plan <session> <drill>",
	Short: "Plan a drill into a session",
	Long: `Add a drill to a session plan, or update it if already planned. Without
--seq the drill takes the next free slot.

Examples:
  volley session plan abc123 def456 --minutes 15 --reps 50x2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := ctrl.PlanDrill(cmd.Context(), entry.PlanForm{
			SessionID:      args[0],
			DrillID:        args[1],
			Sequence:       planSequence,
			PlannedMinutes: optInt(cmd.Flags().Changed("minutes"), planMinutes),
			PlannedReps:    planReps,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Planned as #%d", seq))
		return nil
	},
}

var sessionUnplanCmd = &cobra.Command{
	Use:   "unplan <session> <drill>",
	Short: "Remove a drill from a session plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ctrl.Unplan(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Removed drill from plan"))
		return nil
	},
}

var sessionAttendCmd = &cobra.Command{
	Use:   "attend <session> <player> <status>",
	Short: "Record a player's attendance",
	Long: `Record a player's attendance at a session.

Examples:
  volley session attend abc123 def456 present
  volley session attend abc123 ghi789 excused`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ctrl.SetAttendance(cmd.Context(), entry.AttendanceForm{
			SessionID: args[0],
			PlayerID:  args[1],
			Status:    args[2],
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Marked %s", args[2]))
		return nil
	},
}

// nameLookup maps player and drill ids to names for result listings.
func nameLookup(cmd *cobra.Command) (map[string]string, error) {
	ctx := cmd.Context()
	names := make(map[string]string)
	players, err := db.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		names[p.ID.String()] = p.Name
	}
	drills, err := db.ListDrills(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, d := range drills {
		names[d.ID.String()] = d.Name
	}
	return names, nil
}

// resultLine formats one result for listings.
func resultLine(r *models.DrillResult, names map[string]string) string {
	score := faint.Sprint("note")
	if r.TotalCount > 0 {
		score = fmt.Sprintf("%d/%d %s", r.SuccessCount, r.TotalCount, report.FormatRate(r.SuccessRate()))
	}
	line := fmt.Sprintf("%s %s %s %s",
		faint.Sprint(shortID(r.ID)),
		padRight(truncate(names[r.PlayerID.String()], 18), 18),
		padRight(truncate(names[r.DrillID.String()], 22), 22),
		score)
	if r.PrimaryTarget != "" {
		line += " " + color.CyanString("→ %s", r.PrimaryTarget)
	}
	if r.Notes != "" {
		line += " " + faint.Sprint(truncate(r.Notes, 40))
	}
	return line
}

func init() {
	for _, c := range []*cobra.Command{sessionAddCmd, sessionEditCmd, sessionGenerateCmd} {
		c.Flags().IntVar(&sessionDuration, "duration", 0, "duration in minutes")
		c.Flags().IntVar(&sessionTarget, "target", 0, "target duration in minutes")
		c.Flags().StringVar(&sessionPhase, "phase", "", "training phase (base, build, peak, recovery)")
	}
	sessionAddCmd.Flags().StringVar(&sessionNotes, "notes", "", "notes")
	sessionEditCmd.Flags().StringVar(&sessionNotes, "notes", "", "notes")
	sessionEditCmd.Flags().StringVar(&sessionDate, "date", "", "new date (YYYY-MM-DD)")
	sessionEditCmd.Flags().StringVar(&sessionTheme, "theme", "", "new theme")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "number of sessions to show")

	sessionGenerateCmd.Flags().StringVar(&generateFrom, "from", "", "first date (YYYY-MM-DD)")
	sessionGenerateCmd.Flags().StringVar(&generateTo, "to", "", "last date (YYYY-MM-DD)")
	sessionGenerateCmd.Flags().StringVar(&generateDays, "days", "", "weekdays, e.g. mon,wed,fri")
	sessionGenerateCmd.Flags().StringVar(&sessionTheme, "theme", "practice", "theme for every session")

	sessionPlanCmd.Flags().IntVar(&planSequence, "seq", 0, "sequence number (default: next free)")
	sessionPlanCmd.Flags().IntVar(&planMinutes, "minutes", 0, "planned minutes")
	sessionPlanCmd.Flags().StringVar(&planReps, "reps", "", "planned reps, e.g. 50x2")

	sessionCmd.AddCommand(
		sessionAddCmd,
		sessionListCmd,
		sessionShowCmd,
		sessionEditCmd,
		sessionDeleteCmd,
		sessionGenerateCmd,
		sessionPlanCmd,
		sessionUnplanCmd,
		sessionAttendCmd,
	)
	rootCmd.AddCommand(sessionCmd)
}
