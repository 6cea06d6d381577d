package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))
				return path
			},
		},
		{
			name: "xlsx file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.json")
				require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "unsupported format",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$data.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateInputFile(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	assert.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "nested", "out.csv")))
	_, err := os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err, "output directory is created")

	err = v.ValidateOutputFile(filepath.Join(dir, "out.xlsx"))
	assert.ErrorContains(t, err, "must be a .csv file")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.csv"), 0755))
	err = v.ValidateOutputFile(filepath.Join(dir, "taken.csv"))
	assert.ErrorContains(t, err, "is a directory")

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is removed")
}
