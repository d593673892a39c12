// ABOUTME: CLI commands for managing the drill library.
// ABOUTME: Supports add, list, edit, hide, unhide, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/volley/internal/entry"
	"github.com/spf13/cobra"
)

var (
	drillCategory   string
	drillDifficulty int
	drillObjective  string
	drillMinPlayers int
	drillNeuroLoad  int
	drillName       string
	drillListAll    bool
)

var drillCmd = &cobra.Command{
	Use:     "drill",
	Aliases: []string{"d"},
	Short:   "Manage the drill library",
	Long: `Manage drills.

CATEGORIES:

  attack, serve_receive, defense, serve, set, block, mixed
  (aliases like "serve-receive", "receive", "hitting" or "setting" are accepted)

Hidden drills stay in reports but drop out of pick-lists. A drill with
recorded results cannot be deleted; hide it instead.`,
}

var drillAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a drill",
	Long: `Add a drill to the library.

Examples:
  volley drill add "Serve Accuracy" --category serve --difficulty 2
  volley drill add "Dig Pursuit" -c defense -d 4 --objective "pursue off-net digs"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		id, err := ctrl.CreateDrill(cmd.Context(), entry.DrillForm{
			Name:       args[0],
			Category:   drillCategory,
			Objective:  drillObjective,
			Difficulty: drillDifficulty,
			MinPlayers: optInt(flags.Changed("min-players"), drillMinPlayers),
			NeuroLoad:  optInt(flags.Changed("neuro-load"), drillNeuroLoad),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added drill %s", args[0]))
		fmt.Fprintf(out, "  %s\n", faint.Sprint(shortID(id)))
		return nil
	},
}

var drillListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List drills",
	RunE: func(cmd *cobra.Command, args []string) error {
		drills, err := db.ListDrills(cmd.Context(), drillListAll)
		if err != nil {
			return fmt.Errorf("failed to list drills: %w", err)
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, d := range drills {
			if d.IsSummary() {
				continue
			}
			hidden := ""
			if d.Hidden {
				hidden = faint.Sprint(" (hidden)")
			}
			fmt.Fprintf(out, "%s %s %s D%d%s\n",
				faint.Sprint(shortID(d.ID)),
				padRight(truncate(d.Name, 28), 28),
				padRight(string(d.Category), 14),
				d.Difficulty,
				hidden)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No drills found.")
		}
		return nil
	},
}

var drillEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a drill",
	Long: `Edit a drill. Only the flags you pass are changed.

Examples:
  volley drill edit abc123 --difficulty 3
  volley drill edit abc123 --name "Serve Zones" --category serve`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.GetDrill(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		form := entry.DrillForm{
			Name:       d.Name,
			Category:   string(d.Category),
			Objective:  d.Objective,
			Difficulty: d.Difficulty,
			MinPlayers: d.MinPlayers,
			NeuroLoad:  d.NeuroLoad,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			form.Name = drillName
		}
		if flags.Changed("category") {
			form.Category = drillCategory
		}
		if flags.Changed("difficulty") {
			form.Difficulty = drillDifficulty
		}
		if flags.Changed("objective") {
			form.Objective = drillObjective
		}
		if flags.Changed("min-players") {
			form.MinPlayers = &drillMinPlayers
		}
		if flags.Changed("neuro-load") {
			form.NeuroLoad = &drillNeuroLoad
		}

		if err := ctrl.UpdateDrill(cmd.Context(), d.ID.String(), form); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated drill %s", form.Name))
		return nil
	},
}

func drillVisibilityCmd(use, short string, hidden bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := db.GetDrill(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := ctrl.SetDrillHidden(cmd.Context(), d.ID.String(), hidden); err != nil {
				return err
			}
			verb := "Restored"
			if hidden {
				verb = "Hid"
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ %s drill %s", verb, d.Name))
			return nil
		},
	}
}

var drillDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a drill without results",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.GetDrill(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctrl.DeleteDrill(cmd.Context(), d.ID.String()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted drill %s", d.Name))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{drillAddCmd, drillEditCmd} {
		c.Flags().StringVarP(&drillCategory, "category", "c", "", "drill category")
		c.Flags().IntVarP(&drillDifficulty, "difficulty", "d", 1, "difficulty (1-5)")
		c.Flags().StringVar(&drillObjective, "objective", "", "what the drill trains")
		c.Flags().IntVar(&drillMinPlayers, "min-players", 0, "minimum number of players")
		c.Flags().IntVar(&drillNeuroLoad, "neuro-load", 0, "neuromuscular load (1-5)")
	}
	drillEditCmd.Flags().StringVar(&drillName, "name", "", "new name")
	drillListCmd.Flags().BoolVarP(&drillListAll, "all", "a", false, "include hidden drills")

	drillCmd.AddCommand(
		drillAddCmd,
		drillListCmd,
		drillEditCmd,
		drillVisibilityCmd("hide", "Hide a drill from pick-lists", true),
		drillVisibilityCmd("unhide", "Restore a hidden drill", false),
		drillDeleteCmd,
	)
	rootCmd.AddCommand(drillCmd)
}
