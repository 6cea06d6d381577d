package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatValue renders a metric the way the dashboard does, blank when missing
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%4.2f", v)
}

// optional maps NaN to nil so that JSON output carries null
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
