// ABOUTME: CLI commands for managing the roster.
// ABOUTME: Supports add, list, edit, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/volley/internal/entry"
	"github.com/harperreed/volley/internal/models"
	"github.com/spf13/cobra"
)

var (
	playerPosition string
	playerYear     string
	playerJersey   int
	playerNotes    string
	playerName     string
)

var playerCmd = &cobra.Command{
	Use:     "player",
	Aliases: []string{"p"},
	Short:   "Manage the roster",
	Long: `Manage players on the roster.

POSITIONS:

  outside_hitter, middle_blocker, opposite, setter, libero
  (spaces are accepted: "outside hitter")

A player with recorded results cannot be deleted. Delete their results first.`,
}

var playerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player",
	Long: `Add a player to the roster.

Examples:
  volley player add "Mina Park" --position setter --year junior --jersey 3
  volley player add 小涵`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := entry.PlayerForm{
			Name:      args[0],
			Position:  playerPosition,
			ClassYear: playerYear,
			Jersey:    optInt(cmd.Flags().Changed("jersey"), playerJersey),
			Notes:     playerNotes,
		}
		id, err := ctrl.CreatePlayer(cmd.Context(), form)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added player %s", args[0]))
		fmt.Fprintf(out, "  %s\n", faint.Sprint(shortID(id)))
		return nil
	},
}

var playerListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List players",
	RunE: func(cmd *cobra.Command, args []string) error {
		players, err := db.ListPlayers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(players) == 0 {
			fmt.Fprintln(out, "No players found.")
			return nil
		}

		for _, p := range players {
			jersey := "  "
			if p.Jersey != nil {
				jersey = fmt.Sprintf("%2d", *p.Jersey)
			}
			fmt.Fprintf(out, "%s #%s %s %s %s\n",
				faint.Sprint(shortID(p.ID)),
				jersey,
				padRight(truncate(p.Name, 20), 20),
				padRight(p.Position.Label(), 15),
				p.ClassYear)
		}
		return nil
	},
}

var playerEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a player",
	Long: `Edit a player. Only the flags you pass are changed.

Examples:
  volley player edit abc123 --position libero
  volley player edit abc123 --name "Mina P." --jersey 7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPlayer(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		form := playerFormFrom(p)
		flags := cmd.Flags()
		if flags.Changed("name") {
			form.Name = playerName
		}
		if flags.Changed("position") {
			form.Position = playerPosition
		}
		if flags.Changed("year") {
			form.ClassYear = playerYear
		}
		if flags.Changed("jersey") {
			form.Jersey = &playerJersey
		}
		if flags.Changed("notes") {
			form.Notes = playerNotes
		}

		if err := ctrl.UpdatePlayer(cmd.Context(), p.ID.String(), form); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated player %s", form.Name))
		return nil
	},
}

var playerDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a player without results",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetPlayer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := ctrl.DeletePlayer(cmd.Context(), p.ID.String()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted player %s", p.Name))
		return nil
	},
}

func playerFormFrom(p *models.Player) entry.PlayerForm {
	return entry.PlayerForm{
		Name:      p.Name,
		Position:  string(p.Position),
		ClassYear: p.ClassYear,
		Jersey:    p.Jersey,
		Notes:     p.Notes,
	}
}

func init() {
	for _, c := range []*cobra.Command{playerAddCmd, playerEditCmd} {
		c.Flags().StringVar(&playerPosition, "position", "", "playing position")
		c.Flags().StringVar(&playerYear, "year", "", "class year label")
		c.Flags().IntVar(&playerJersey, "jersey", 0, "jersey number (1-99)")
		c.Flags().StringVar(&playerNotes, "notes", "", "notes")
	}
	playerEditCmd.Flags().StringVar(&playerName, "name", "", "new name")

	playerCmd.AddCommand(playerAddCmd, playerListCmd, playerEditCmd, playerDeleteCmd)
	rootCmd.AddCommand(playerCmd)
}
