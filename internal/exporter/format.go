package exporter

import (
	"whrpipe/internal/dataprocessing"
)

// frameHeader returns the column names in frame order
func frameHeader(frame *dataprocessing.Frame) []string {
	return frame.Names()
}

// frameRecord fills record with row i of frame. Floats use the shortest
// representation that round-trips, missing cells are empty.
func frameRecord(frame *dataprocessing.Frame, i int, record []string) {
	for j, col := range frame.Columns() {
		record[j] = col.Format(i)
	}
}
