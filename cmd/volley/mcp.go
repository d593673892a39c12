// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/volley/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets assistants like Claude read and record training data through a
standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "volley": {
        "command": "volley",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_players     List the roster
  add_player       Add a player
  list_drills      List the drill library
  add_drill        Add a drill
  list_sessions    List recent sessions
  add_session      Add a practice session
  plan_drill       Plan a drill into a session
  set_attendance   Record a player's attendance
  record_result    Record a drill result
  delete_result    Delete a result
  list_options     Pick-list of players, drills or sessions (eligible players per session)
  run_report       Run a named report

AVAILABLE RESOURCES:

  volley://reports/summary    All reports as JSON
  volley://sessions/recent    Recent sessions with plans and results`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, logger, reportDefaults())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
