// ABOUTME: Tests for rate formatting and the table renderers.
// ABOUTME: Checks round-half-up, Markdown escaping, JSON shape and XLSX sheets.
package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func rate(v float64) *float64 { return &v }

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"undefined", nil, "n/a"},
		{"zero", rate(0), "0.0%"},
		{"eighty", rate(0.8), "80.0%"},
		{"ninety", rate(0.9), "90.0%"},
		{"thirds", rate(2.0 / 3.0), "66.7%"},
		{"half up", rate(0.0625), "6.3%"},
		{"half up exact", rate(0.125), "12.5%"},
		{"full", rate(1), "100.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRate(tt.in))
		})
	}
}

func sampleTables() []Table {
	return []Table{
		{Title: "Error ranking", Columns: []string{"Target", "Count"}, Rows: [][]string{{"footwork", "3"}, {"a|b", "1"}}},
		{Title: "Weekly trend: 小涵 / Serve Accuracy", Columns: []string{"Week", "Rate"}, Rows: [][]string{{"2025-W35", "80.0%"}}},
		{Title: "Theme rollup", Columns: []string{"Theme", "Sessions"}},
	}
}

func TestMarkdown(t *testing.T) {
	tables := sampleTables()

	md := Markdown(tables[0])
	assert.Contains(t, md, "## Error ranking")
	assert.Contains(t, md, "| Target | Count |")
	assert.Contains(t, md, "| footwork | 3 |")
	assert.Contains(t, md, `| a\|b | 1 |`)

	assert.Contains(t, Markdown(tables[2]), "_No data._")
}

func TestTerminal(t *testing.T) {
	out := Terminal(sampleTables()[0])
	assert.Contains(t, out, "Error ranking")
	assert.Contains(t, out, "footwork")
	assert.Contains(t, out, "Target")

	assert.Contains(t, Terminal(sampleTables()[2]), "(no data)")
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleTables())
	require.NoError(t, err)

	var decoded []struct {
		Title string              `json:"title"`
		Rows  []map[string]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "footwork", decoded[0].Rows[0]["Target"])
	assert.Equal(t, "3", decoded[0].Rows[0]["Count"])
	assert.Empty(t, decoded[2].Rows)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTables()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 3)
	assert.Equal(t, "Error ranking", sheets[0])
	assert.NotContains(t, sheets, "Sheet1")
	for _, name := range sheets {
		assert.LessOrEqual(t, len([]rune(name)), maxSheetName)
		assert.False(t, strings.ContainsAny(name, `[]:*?/\`), "sheet %q has a forbidden character", name)
	}

	rows, err := f.GetRows("Error ranking")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Target", "Count"}, {"footwork", "3"}, {"a|b", "1"}}, rows)
}

func TestSheetNameUnique(t *testing.T) {
	used := map[string]bool{}
	first := sheetName("Recent load", used)
	second := sheetName("Recent load", used)
	assert.Equal(t, "Recent load", first)
	assert.Equal(t, "Recent load 2", second)

	long := sheetName(strings.Repeat("x", 40), used)
	assert.Len(t, long, maxSheetName)
}
