// ABOUTME: Root Cobra command for volley CLI.
// ABOUTME: Loads config, builds the logger and opens the store via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/volley/internal/config"
	"github.com/harperreed/volley/internal/entry"
	"github.com/harperreed/volley/internal/report"
	"github.com/harperreed/volley/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	db     *storage.DB
	ctrl   *entry.Controller
	logger *log.Logger

	dataDirFlag string
	verbose     bool
)

// Commands that never touch the store.
var noStore = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"completion":    true,
}

var rootCmd = &cobra.Command{
	Use:   "volley",
	Short: "Volleyball training record-keeper",
	Long: `Volley keeps a team's training records: roster, drill library, practice
sessions, drill plans, attendance and per-drill results, and turns them into
success-rate reports.

QUICK START:

  $ volley player add "Mina Park" --position setter --jersey 3
  $ volley drill add "Serve Accuracy" --category serve --difficulty 2
  $ volley session add 2025-09-02 "serve receive focus" --duration 90
  $ volley session plan <session> <drill> --reps 50x2
  $ volley tally <session> <drill> <player>     # live clicker
  $ volley result add <session> <drill> <player> 8 10 --target "toss height"
  $ volley report                                # all reports

IDs:

  Every command accepts a full ID or any unique prefix. List commands show
  the 8-character prefix in the first column.

MCP INTEGRATION:

  Run 'volley mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "volley": { "command": "volley", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Records are stored in SQLite at ~/.local/share/volley/volley.db.
  Settings live in ~/.config/volley/config.json and can be overridden with
  VOLLEY_* environment variables (VOLLEY_DATA_DIR, VOLLEY_LOG_LEVEL, ...).
  A new store is filled with a small demo team unless seed_demo is false.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noStore[cmd.Name()] {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}

		logger = newLogger(cfg, verbose)

		// PostRun is skipped when RunE fails.
		if db != nil {
			_ = db.Close()
		}
		db, err = cfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		ctrl = entry.New(db, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

func newLogger(c *config.Config, verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "volley"})
	l.SetLevel(c.Level())
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// reportDefaults returns the configured report thresholds.
func reportDefaults() report.Options {
	return report.Options{
		WindowDays: cfg.Report.WindowDays,
		MinSample:  cfg.Report.MinSample,
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory holding volley.db (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
