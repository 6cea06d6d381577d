package exporter

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whrpipe/internal/dataprocessing"
)

func sampleFrame() *dataprocessing.Frame {
	return dataprocessing.MustFrame(
		dataprocessing.NewStringColumn("country_name", []string{"Switzerland", "Côte, d'Ivoire"}),
		dataprocessing.NewIntColumn("year", []int{2020, 2020}, nil),
		dataprocessing.NewFloatColumn("life_ladder", []float64{7.508, math.NaN()}),
	)
}

func setupWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	return NewCSVWriter(nil, nil), t.TempDir()
}

func TestWriteAtomic(t *testing.T) {
	writer, dir := setupWriter(t)
	path := filepath.Join(dir, "reports", "data_cleaned.csv")

	stats, err := writer.WriteAtomic(sampleFrame(), path, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, path, stats.Path)
	assert.Greater(t, stats.Bytes, int64(0))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"country_name", "year", "life_ladder"}, records[0])
	assert.Equal(t, []string{"Switzerland", "2020", "7.508"}, records[1])
	assert.Equal(t, []string{"Côte, d'Ivoire", "2020", ""}, records[2])
}

func TestWriteAtomic_ColumnSelection(t *testing.T) {
	writer, dir := setupWriter(t)
	path := filepath.Join(dir, "out.csv")

	_, err := writer.WriteAtomic(sampleFrame(), path, WriteOptions{Columns: []string{"year", "country_name"}})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "year,country_name\n2020,Switzerland\n"))

	_, err = writer.WriteAtomic(sampleFrame(), path, WriteOptions{Columns: []string{"missing"}})
	assert.Error(t, err)
}

func TestWriteAtomic_BOM(t *testing.T) {
	writer, dir := setupWriter(t)

	tests := []struct {
		name string
		bom  bool
	}{
		{name: "without BOM", bom: false},
		{name: "with BOM", bom: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			_, err := writer.WriteAtomic(sampleFrame(), path, WriteOptions{BOMPrefix: tt.bom})
			require.NoError(t, err)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.bom, strings.HasPrefix(string(content), "\ufeff"))
		})
	}
}

func TestWriteAtomic_ReplacesExistingFile(t *testing.T) {
	writer, dir := setupWriter(t)
	path := filepath.Join(dir, "data_cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	_, err := writer.WriteAtomic(sampleFrame(), path, WriteOptions{})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestWriteAtomic_Deterministic(t *testing.T) {
	writer, dir := setupWriter(t)
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	_, err := writer.WriteAtomic(sampleFrame(), first, WriteOptions{})
	require.NoError(t, err)
	_, err = writer.WriteAtomic(sampleFrame(), second, WriteOptions{})
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
