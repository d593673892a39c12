// ABOUTME: Tally command that opens the live success/attempt clicker.
// ABOUTME: Resolves the session, drill and player before starting the TUI.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/volley/internal/errs"
	"github.com/harperreed/volley/internal/tally"
	"github.com/harperreed/volley/internal/tui"
	"github.com/spf13/cobra"
)

var (
	tallyPrimary   string
	tallySecondary string
	tallyNotes     string
)

var tallyCmd = &cobra.Command{
	Use:   "tally <session> <drill> <player>",
	Short: "Count a drill live with a keyboard clicker",
	Long: `Open a full-screen clicker for one player on one drill.

KEYS:

  s / + / →    success
  f / x / - / ←  failure
  r            reset the counter
  e            type corrected counts as success/total
  tab          switch to the next eligible player
  c / enter    save the result and start a new tally
  q / esc      quit (asks again if there are unsaved counts)

Examples:
  volley tally abc123 def456 ghi789 --target "toss height"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := db.GetSession(ctx, args[0])
		if err != nil {
			return err
		}
		d, err := db.GetDrill(ctx, args[1])
		if err != nil {
			return err
		}
		if d.IsSummary() {
			return errs.Invalid("drill", "use 'volley result summary' for session notes")
		}
		p, err := db.GetPlayer(ctx, args[2])
		if err != nil {
			return err
		}
		ok, err := db.IsEligible(ctx, s.ID, p.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Invalid("player", fmt.Sprintf("%s is not marked present or late for this session", p.Name))
		}

		players, err := db.EligiblePlayerOptions(ctx, s.ID)
		if err != nil {
			return err
		}

		m := tui.New(ctx, db,
			tally.Selection{Session: s.ID, Drill: d.ID, Player: p.ID},
			tui.Labels{Session: s.Label(), Drill: d.Name, Player: p.Label()},
			tui.Options{
				PrimaryTarget:    tallyPrimary,
				SecondaryTargets: splitList(tallySecondary),
				Notes:            tallyNotes,
				Players:          players,
			})

		final, err := tui.Run(m)
		if err != nil {
			return fmt.Errorf("tally: %w", err)
		}

		out := cmd.OutOrStdout()
		saved := final.Saved()
		if len(saved) == 0 {
			fmt.Fprintln(out, faint.Sprint("Nothing saved."))
			return nil
		}
		fmt.Fprintln(out, color.GreenString("✓ Saved %d result(s)", len(saved)))
		return nil
	},
}

func init() {
	tallyCmd.Flags().StringVar(&tallyPrimary, "target", "", "primary correction target")
	tallyCmd.Flags().StringVar(&tallySecondary, "also", "", "secondary targets, comma-separated")
	tallyCmd.Flags().StringVar(&tallyNotes, "notes", "", "notes saved with every commit")
	rootCmd.AddCommand(tallyCmd)
}
