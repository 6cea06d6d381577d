package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whrpipe/internal/dataprocessing"
	apperrors "whrpipe/internal/errors"
	"whrpipe/pkg/contracts/domain"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeff"+sampleCSV()), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Len())
}

func TestFromFrameMissingColumns(t *testing.T) {
	f, err := dataprocessing.ReadCSV(strings.NewReader("country_name,year\nChad,2020\n"), dataprocessing.LoadOptions{})
	require.NoError(t, err)

	_, err = FromFrame(f)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
	assert.Contains(t, err.Error(), "total_number_of_ranks")
}

func TestFromFrameRejectsBadYear(t *testing.T) {
	csv := strings.Replace(sampleCSV(), ",2021,", ",twenty,", 1)
	f, err := dataprocessing.ReadCSV(strings.NewReader(csv), dataprocessing.LoadOptions{})
	require.NoError(t, err)

	_, err = FromFrame(f)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestCountryNamesAndYears(t *testing.T) {
	d := loadSample(t)

	assert.Equal(t, []string{"Chad", "Somaliland region", "Switzerland"}, d.CountryNames())
	assert.Equal(t, []int{2019, 2020, 2021}, d.Years())
}

func TestLookup(t *testing.T) {
	d := loadSample(t)

	row, err := d.Lookup("Switzerland", 2020)
	require.NoError(t, err)
	assert.Equal(t, "CHE", row.CountryCodeISO)
	assert.Equal(t, 2, row.TotalRanks)
	assert.InDelta(t, 7.4, row.Values[domain.MetricLifeLadder].Value, 1e-9)
	assert.False(t, row.Values[domain.MetricLogGDP].Valid)

	_, err = d.Lookup("Switzerland", 1999)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), "Switzerland in year 1999")
}

func TestRowsAreOrderedByYear(t *testing.T) {
	d := loadSample(t)

	rows, err := d.Rows("Switzerland")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2019, rows[0].Year)
	assert.Equal(t, 2021, rows[2].Year)

	_, err = d.Rows("Atlantis")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestSeries(t *testing.T) {
	d := loadSample(t)

	series, err := d.Series("Switzerland", domain.MetricLogGDP)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.InDelta(t, 11.1, series[0], 1e-9)
	assert.True(t, math.IsNaN(series[1]))
	assert.InDelta(t, 11.0, series[2], 1e-9)
}

func TestYearRowsSkipsRowsWithoutCode(t *testing.T) {
	d := loadSample(t)

	rows := d.YearRows(2020)
	require.Len(t, rows, 2)
	assert.Equal(t, "Chad", rows[0].CountryName)
	assert.Equal(t, "Switzerland", rows[1].CountryName)
}

func TestDetail(t *testing.T) {
	d := loadSample(t)

	items, err := d.Detail("Chad", 2020)
	require.NoError(t, err)
	require.Len(t, items, len(domain.Metrics))

	assert.Equal(t, "Life Ladder", items[0].Label)
	assert.InDelta(t, 4.4, items[0].Value, 1e-9)
	assert.True(t, items[0].Valid)
	assert.Equal(t, 2, items[0].Rank)
	assert.Equal(t, 2, items[0].Total)
	assert.False(t, items[2].Valid)

	_, err = d.Detail("Chad", 2019)
	assert.Error(t, err)
}
