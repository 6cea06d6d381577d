// Package exporter publishes frames as CSV files.
//
// CSVWriter writes the header row followed by one record per frame row into
// a temporary file in the destination directory, then renames it over the
// destination. A failed write leaves any previous file untouched.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(files.NewManager(logger), logger)
//	stats, err := writer.WriteAtomic(frame, "data_cleaned.csv", exporter.WriteOptions{
//	    Columns: domain.OutputColumns(),
//	})
package exporter
