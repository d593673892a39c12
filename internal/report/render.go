// ABOUTME: Renders report tables for the terminal, Markdown and JSON.
// ABOUTME: Terminal output uses lipgloss tables with a bold header row.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Terminal renders a table with box borders for interactive output.
func Terminal(t Table) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(t.Title))
	sb.WriteString("\n")

	if len(t.Rows) == 0 {
		sb.WriteString(emptyStyle.Render("  (no data)"))
		sb.WriteString("\n")
		return sb.String()
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	sb.WriteString(tbl.Render())
	sb.WriteString("\n")
	return sb.String()
}

// Markdown renders a table as a GitHub-flavored Markdown section.
func Markdown(t Table) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", t.Title))
	if len(t.Rows) == 0 {
		sb.WriteString("_No data._\n\n")
		return sb.String()
	}

	sb.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	seps := make([]string, len(t.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	sb.WriteString("|" + strings.Join(seps, "|") + "|\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// JSON renders tables as an indented JSON array of objects keyed by column.
func JSON(tables []Table) ([]byte, error) {
	type jsonTable struct {
		Title string              `json:"title"`
		Rows  []map[string]string `json:"rows"`
	}
	out := make([]jsonTable, 0, len(tables))
	for _, t := range tables {
		jt := jsonTable{Title: t.Title, Rows: make([]map[string]string, 0, len(t.Rows))}
		for _, row := range t.Rows {
			obj := make(map[string]string, len(t.Columns))
			for i, col := range t.Columns {
				if i < len(row) {
					obj[col] = row[i]
				}
			}
			jt.Rows = append(jt.Rows, obj)
		}
		out = append(out, jt)
	}
	return json.MarshalIndent(out, "", "  ")
}
