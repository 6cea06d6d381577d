package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whrpipe/internal/countrycode"
	"whrpipe/internal/shared/testutil"
	"whrpipe/pkg/contracts"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a := &app{
		logger:    logger,
		authority: countrycode.StaticAuthority(testutil.SampleCodes),
	}
	cmd := newRootCommand(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// cleanSample runs the clean command on the sample export and returns the
// cleaned file
func cleanSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "data.csv", testutil.SampleRawCSV)
	out := filepath.Join(dir, "data_cleaned.csv")

	_, err := execute(t, "clean", "--in", in, "--out", out)
	require.NoError(t, err)
	return out
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "data.csv", testutil.SampleRawCSV)
	out := filepath.Join(dir, "data_cleaned.csv")
	metrics := filepath.Join(dir, "whr.prom")

	stdout, err := execute(t, "clean", "--in", in, "--out", out, "--mode", "per_country", "--metrics-file", metrics)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Publish Cleaned File")
	assert.Contains(t, stdout, "Published 6 rows (2 excluded")
	assert.FileExists(t, out)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "whr_rows_loaded")
}

func TestCleanCommandErrors(t *testing.T) {
	dir := t.TempDir()
	drifted := testutil.WriteFile(t, dir, "drift.csv",
		"Country Name,Year,Life Ladder\nSwitzerland,2020,7.5\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing input",
			args:    []string{"clean", "--out", filepath.Join(dir, "out.csv")},
			wantErr: "input path is required",
		},
		{
			name:    "unknown mode",
			args:    []string{"clean", "--in", drifted, "--mode", "spline"},
			wantErr: "Interpolation",
		},
		{
			name:    "schema drift",
			args:    []string{"clean", "--in", drifted, "--out", filepath.Join(dir, "out.csv")},
			wantErr: "Generosity",
		},
		{
			name:    "input is output",
			args:    []string{"clean", "--in", drifted, "--out", drifted},
			wantErr: "output path must differ from input path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.NoFileExists(t, filepath.Join(dir, "out.csv"))
}

func TestCountriesAndYearsCommands(t *testing.T) {
	data := cleanSample(t)

	stdout, err := execute(t, "countries", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "Congo (Kinshasa)\nRussia\nSomaliland region\nSwitzerland\n", stdout)

	stdout, err = execute(t, "years", "--data", data, "--json")
	require.NoError(t, err)
	var years []int
	require.NoError(t, json.Unmarshal([]byte(stdout), &years))
	assert.Equal(t, []int{2019, 2020}, years)
}

func TestDetailCommand(t *testing.T) {
	data := cleanSample(t)

	stdout, err := execute(t, "detail", "--data", data, "--country", "Switzerland", "--year", "2020")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Life Ladder")
	assert.Contains(t, stdout, "7.51")
	assert.Contains(t, stdout, "1/4")

	stdout, err = execute(t, "detail", "--data", data, "--country", "Switzerland", "--year", "2018")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No data found for Switzerland in Year 2018")
}

func TestCorrelateCommand(t *testing.T) {
	data := cleanSample(t)

	stdout, err := execute(t, "correlate", "--data", data, "--country", "Switzerland")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Very Strong Signifiance: 1.00")
	assert.Contains(t, stdout, "The higher Life Ladder the higher is Generosity in Switzerland")
	assert.Contains(t, stdout, "A positive correlation")

	_, err = execute(t, "correlate", "--data", data, "--first", "kindness")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown metric")

	_, err = execute(t, "correlate", "--data", data, "--country", "Congo (Kinshasa)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough data")
}

func TestHeatmapScatterAndMapCommands(t *testing.T) {
	data := cleanSample(t)

	stdout, err := execute(t, "heatmap", "--data", data, "--country", "Switzerland")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Correlation Information about Switzerland")
	assert.Contains(t, stdout, "Negative Affect")

	stdout, err = execute(t, "scatter", "--data", data, "--country", "Switzerland")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Comparing Life Ladder and Generosity for Switzerland")
	assert.Contains(t, stdout, "2019")

	stdout, err = execute(t, "map", "--data", data, "--year", "2020", "--metric", "Life Ladder")
	require.NoError(t, err)
	for _, code := range []string{"CHE", "RUS", "COD", "SOM"} {
		assert.Contains(t, stdout, code)
	}

	_, err = execute(t, "map", "--data", data, "--year", "1999")
	assert.Error(t, err)
}

func TestMissingDataFile(t *testing.T) {
	_, err := execute(t, "countries", "--data", filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)
}

func TestRunClosesLogFile(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		closeErr error
		wantErr  bool
		wantLog  string
	}{
		{name: "success", args: []string{"version"}},
		{
			name:    "command failure",
			args:    []string{"countries", "--data", filepath.Join(t.TempDir(), "none.csv")},
			wantErr: true,
		},
		{
			name:     "close failure is reported",
			args:     []string{"version"},
			closeErr: errors.New("disk gone"),
			wantLog:  "failed to close log file: disk gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			cmd := newRootCommand(&app{logger: logger})
			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(tt.args)

			closed := 0
			err := run(context.Background(), cmd, func() error {
				closed++
				return tt.closeErr
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, closed)
			if tt.wantLog != "" {
				assert.Contains(t, errOut.String(), tt.wantLog)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, contracts.Version)

	stdout, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, contracts.DataFormatVersion, info.DataFormat)
}
