// ABOUTME: CLI commands for recording and browsing drill results.
// ABOUTME: Covers tallied results, qualitative session summaries, listing and deletion.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/volley/internal/entry"
	"github.com/harperreed/volley/internal/models"
	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/storage"
	"github.com/spf13/cobra"
)

var (
	resultPrimary   string
	resultSecondary string
	resultNotes     string

	resultSession string
	resultPlayer  string
	resultDrill   string
	resultLimit   int
)

var resultCmd = &cobra.Command{
	Use:     "result",
	Aliases: []string{"r"},
	Short:   "Record and list drill results",
	Long: `Record how a player did on a drill in a session.

A result is a success count out of a total count of attempts, with an
optional primary correction target, secondary targets and notes. Use
'volley tally' for a live clicker instead of typing counts.`,
}

var resultAddCmd = &cobra.Command{
	Use:   "add <session> <drill> <player> <success> <total>",
	Short: "Record a drill result",
	Long: `Record a drill result.

Examples:
  volley result add abc123 def456 ghi789 8 10
  volley result add abc123 def456 ghi789 14 20 --target "toss height" --also "footwork,platform angle"`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		success, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid success count %q", args[3])
		}
		total, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid total count %q", args[4])
		}

		id, err := ctrl.RecordResult(cmd.Context(), entry.ResultForm{
			SessionID: args[0],
			DrillID:   args[1],
			PlayerID:  args[2],
			Success:   success,
			Total:     total,
			Primary:   resultPrimary,
			Secondary: splitList(resultSecondary),
			Notes:     resultNotes,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Recorded %d/%d (%s)", success, total, report.FormatRate(models.SuccessRate(success, total))))
		fmt.Fprintf(out, "  %s\n", faint.Sprint(shortID(id)))
		return nil
	},
}

var resultSummaryCmd = &cobra.Command{
	Use:   "summary <session> <player>",
	Short: "Record a qualitative session note for a player",
	Long: `Record a qualitative observation about a player's session. Summaries carry
no counts and never affect success rates.

Examples:
  volley result summary abc123 ghi789 --notes "great energy, late on transition" --target transition`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ctrl.RecordSummary(cmd.Context(), entry.SummaryForm{
			SessionID: args[0],
			PlayerID:  args[1],
			Primary:   resultPrimary,
			Notes:     resultNotes,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Recorded session summary"))
		fmt.Fprintf(out, "  %s\n", faint.Sprint(shortID(id)))
		return nil
	},
}

var resultListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List results, newest first",
	Long: `List results, newest first.

Examples:
  volley result list
  volley result list --player ghi789 --drill def456 -n 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		filter := storage.ResultFilter{Limit: resultLimit}
		if resultSession != "" {
			s, err := db.GetSession(ctx, resultSession)
			if err != nil {
				return err
			}
			filter.SessionID = idPtr(s.ID)
		}
		if resultPlayer != "" {
			p, err := db.GetPlayer(ctx, resultPlayer)
			if err != nil {
				return err
			}
			filter.PlayerID = idPtr(p.ID)
		}
		if resultDrill != "" {
			d, err := db.GetDrill(ctx, resultDrill)
			if err != nil {
				return err
			}
			filter.DrillID = idPtr(d.ID)
		}

		results, err := db.ListResults(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}
		names, err := nameLookup(cmd)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(out, resultLine(r, names))
		}
		return nil
	},
}

var resultDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a result",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ctrl.DeleteResult(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted result %s", args[0]))
		return nil
	},
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func init() {
	for _, c := range []*cobra.Command{resultAddCmd, resultSummaryCmd} {
		c.Flags().StringVar(&resultPrimary, "target", "", "primary correction target")
		c.Flags().StringVar(&resultNotes, "notes", "", "notes")
	}
	resultAddCmd.Flags().StringVar(&resultSecondary, "also", "", "secondary targets, comma-separated")

	resultListCmd.Flags().StringVar(&resultSession, "session", "", "only this session")
	resultListCmd.Flags().StringVar(&resultPlayer, "player", "", "only this player")
	resultListCmd.Flags().StringVar(&resultDrill, "drill", "", "only this drill")
	resultListCmd.Flags().IntVarP(&resultLimit, "limit", "n", 20, "maximum number of results")

	resultCmd.AddCommand(resultAddCmd, resultSummaryCmd, resultListCmd, resultDeleteCmd)
	rootCmd.AddCommand(resultCmd)
}
