// ABOUTME: Writes report tables to an XLSX workbook, one sheet per report.
// ABOUTME: Header rows are bold and columns are sized to their content.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteXLSX writes every table to its own worksheet.
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	used := map[string]bool{}
	for i, t := range tables {
		name := sheetName(t.Title, used)
		index, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		widths := make([]int, len(t.Columns))
		for col, header := range t.Columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(name, cell, header); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
			widths[col] = runewidth.StringWidth(header)
		}
		if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}

		for r, row := range t.Rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(name, cell, value); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
				if col < len(widths) {
					widths[col] = max(widths[col], runewidth.StringWidth(value))
				}
			}
		}

		for col, width := range widths {
			colName, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetColWidth(name, colName, colName, float64(width+2)); err != nil {
				return fmt.Errorf("size column %s: %w", colName, err)
			}
		}
	}

	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("remove default sheet: %w", err)
		}
	}
	return f.Write(w)
}

// sheetName derives a unique worksheet name that Excel accepts.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Report"
	}
	name = truncateRunes(name, maxSheetName)

	base := name
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
