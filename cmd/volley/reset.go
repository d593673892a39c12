// ABOUTME: Reset command that wipes the store and reloads the demo team.
// ABOUTME: Asks for confirmation unless --yes is passed.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetSkipConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all records and reload the demo team",
	Long: `Delete every player, drill, session and result, then reload the demo
team (unless seed_demo is false in the config). The reset runs in one
transaction: if anything fails, your data is left untouched.

Export a backup first:

  volley export json -o backup.json
  volley reset --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetSkipConfirm {
			fmt.Fprintf(out, "This deletes every record in %s. Continue? [y/N] ", db.Path())
			response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && response == "" {
				return fmt.Errorf("failed to read response: %w", err)
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(out, "Reset canceled.")
				return nil
			}
		}

		if err := db.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(out, color.YellowString("✓ Store reset"))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetSkipConfirm, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
