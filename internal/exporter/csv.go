package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"whrpipe/internal/dataprocessing"
	"whrpipe/internal/files"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter publishes frames as CSV files
type CSVWriter struct {
	files  *files.Manager
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(manager *files.Manager, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if manager == nil {
		manager = files.NewManager(logger)
	}
	return &CSVWriter{files: manager, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	// Columns selects and orders the written columns, all columns when empty
	Columns []string
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility
	BOMPrefix bool
}

// WriteStats describes a published file
type WriteStats struct {
	Path  string
	Rows  int
	Bytes int64
}

// WriteAtomic writes frame to a temporary file beside path and renames it
// into place. Either the complete file appears at path or nothing changes.
func (w *CSVWriter) WriteAtomic(frame *dataprocessing.Frame, path string, options WriteOptions) (WriteStats, error) {
	stats := WriteStats{Path: path}

	if len(options.Columns) > 0 {
		selected, err := frame.Select(options.Columns...)
		if err != nil {
			return stats, fmt.Errorf("failed to select output columns: %w", err)
		}
		frame = selected
	}

	w.logger.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", frame.Len()),
		slog.Int("column_count", len(frame.Names())))

	tmp, err := w.files.CreateTemp(path)
	if err != nil {
		return stats, err
	}
	tmpPath := tmp.Name()

	if err := writeFrame(tmp, frame, options.BOMPrefix); err != nil {
		tmp.Close()
		_ = w.files.DeleteFile(tmpPath)
		return stats, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = w.files.DeleteFile(tmpPath)
		return stats, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.files.DeleteFile(tmpPath)
		return stats, fmt.Errorf("failed to close file: %w", err)
	}

	if err := w.files.ReplaceFile(tmpPath, path); err != nil {
		return stats, err
	}

	stats.Rows = frame.Len()
	if size, err := w.files.GetFileSize(path); err == nil {
		stats.Bytes = size
	}
	return stats, nil
}

func writeFrame(file *os.File, frame *dataprocessing.Frame, bom bool) error {
	buf := bufio.NewWriter(file)

	// Write BOM if requested (helps Excel recognize UTF-8)
	if bom {
		if _, err := buf.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(buf)
	if err := writer.Write(frameHeader(frame)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(frame.Columns()))
	for i := 0; i < frame.Len(); i++ {
		frameRecord(frame, i, record)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return buf.Flush()
}
