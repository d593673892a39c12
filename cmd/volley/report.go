// ABOUTME: Report command rendering training reports as tables, Markdown, JSON or XLSX.
// ABOUTME: Thresholds default to the config and can be overridden per run.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/volley/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportFormat    string
	reportOutput    string
	reportWindow    int
	reportMinSample int
	reportPlayer    string
	reportDrill     string
)

var reportCmd = &cobra.Command{
	Use:   "report [name]",
	Short: "Show training reports",
	Long: `Show training reports. Without a name every report is shown.

REPORTS:

  summary   all of the below (trend only with --player and --drill)
  load      total minutes per player over the last --window days
  weakest   drills with the lowest success rate, at least --min-sample attempts
  trend     weekly success rate for one --player on one --drill
  themes    session counts and minutes per theme
  errors    most common primary correction targets

FORMATS:

  table      terminal tables (default)
  markdown   Markdown sections
  json       JSON array of tables
  xlsx       Excel workbook, one sheet per report (requires -o)

Examples:
  volley report
  volley report weakest --min-sample 50
  volley report trend --player ghi789 --drill def456
  volley report --format xlsx -o season.xlsx`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: report.Names,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := ""
		if len(args) == 1 {
			name = strings.ToLower(args[0])
		}

		opts := reportDefaults()
		if cmd.Flags().Changed("window") {
			opts.WindowDays = reportWindow
		}
		if cmd.Flags().Changed("min-sample") {
			opts.MinSample = reportMinSample
		}
		if reportPlayer != "" {
			p, err := db.GetPlayer(ctx, reportPlayer)
			if err != nil {
				return err
			}
			opts.PlayerID = idPtr(p.ID)
			opts.PlayerName = p.Name
		}
		if reportDrill != "" {
			d, err := db.GetDrill(ctx, reportDrill)
			if err != nil {
				return err
			}
			opts.DrillID = idPtr(d.ID)
			opts.DrillName = d.Name
		}

		tables, err := report.NewEngine(db).Run(ctx, name, opts)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		switch reportFormat {
		case "table", "":
			for i, t := range tables {
				if i > 0 {
					buf.WriteString("\n")
				}
				buf.WriteString(report.Terminal(t))
			}
		case "markdown", "md":
			for _, t := range tables {
				buf.WriteString(report.Markdown(t))
			}
		case "json":
			data, err := report.JSON(tables)
			if err != nil {
				return err
			}
			buf.Write(data)
			buf.WriteString("\n")
		case "xlsx":
			if reportOutput == "" {
				return fmt.Errorf("xlsx output needs a file: use -o report.xlsx")
			}
			if err := report.WriteXLSX(&buf, tables); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format: %s (use table, markdown, json, or xlsx)", reportFormat)
		}

		return writeOutput(cmd.OutOrStdout(), reportOutput, buf.Bytes())
	},
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Fprintln(w, color.GreenString("✓ Wrote %s", path))
	return nil
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "output format (table, markdown, json, xlsx)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write to file instead of stdout")
	reportCmd.Flags().IntVar(&reportWindow, "window", report.DefaultWindowDays, "load report window in days")
	reportCmd.Flags().IntVar(&reportMinSample, "min-sample", report.DefaultMinSample, "minimum attempts for the weakest drills report")
	reportCmd.Flags().StringVar(&reportPlayer, "player", "", "player for the trend report")
	reportCmd.Flags().StringVar(&reportDrill, "drill", "", "drill for the trend report")
	rootCmd.AddCommand(reportCmd)
}
