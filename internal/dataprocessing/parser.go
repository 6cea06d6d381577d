package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "whrpipe/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadOptions controls how a raw table is read
type LoadOptions struct {
	// Delimiter separates CSV fields, ',' when zero
	Delimiter rune
	// Sheet selects the XLSX worksheet, the first sheet when empty
	Sheet string
}

// LoadFile reads a raw table from a .csv or .xlsx file. Every column of the
// returned frame is a string column named after its trimmed header cell.
func LoadFile(path string, opts LoadOptions) (*Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to open file", err).WithContext("path", path)
		}
		defer f.Close()
		return ReadCSV(f, opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported input format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// ReadCSV reads a header row followed by data rows. A leading UTF-8 BOM is
// tolerated and rows shorter than the header are padded with blanks.
func ReadCSV(r io.Reader, opts LoadOptions) (*Frame, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV", err)
	}
	return buildRawFrame(records)
}

// ReadXLSX reads the configured worksheet of an Excel workbook
func ReadXLSX(path string, opts LoadOptions) (*Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", path)
	}

	// GetRows keeps blank rows in the middle of a sheet, CSV readers skip them
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !isBlankRow(row) {
			records = append(records, row)
		}
	}

	slog.Debug("Loaded workbook sheet",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)))

	return buildRawFrame(records)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func buildRawFrame(records [][]string) (*Frame, error) {
	if len(records) == 0 {
		return nil, apperrors.NewParsingError("input has no header row", nil)
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]bool, len(header))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, apperrors.NewParsingError(fmt.Sprintf("header cell %d is empty", i+1), nil)
		}
		if seen[h] {
			return nil, apperrors.NewParsingError(fmt.Sprintf("duplicate header %q", h), nil)
		}
		seen[h] = true
		header[i] = h
	}

	// gota expects rectangular records, short rows are padded with blanks
	rect := make([][]string, 0, len(records))
	rect = append(rect, header)
	for i, row := range records[1:] {
		if len(row) > len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d has %d fields, header has %d", i+2, len(row), len(header)), nil)
		}
		cells := make([]string, len(header))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		rect = append(rect, cells)
	}

	frame, err := LoadRecords(rect)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to build table", err)
	}
	return frame, nil
}
