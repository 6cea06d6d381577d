package countrycode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whrpipe/internal/shared/testutil"
)

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()

	assert.Len(t, tables.Corrections, 17)
	assert.Equal(t, "Russian Federation", tables.Corrections["Russia"])
	assert.Equal(t, "Korea, Republic of", tables.Corrections["South Korea"])
	assert.ElementsMatch(t, []string{"Kosovo", "Ivory Coast"}, tables.ExcludedNames())

	tables.Corrections["Russia"] = "changed"
	assert.Equal(t, "Russian Federation", DefaultTables().Corrections["Russia"], "copies must be independent")
}

func TestResolver_Correct(t *testing.T) {
	r := NewResolver(DefaultTables(), StaticAuthority{})

	tests := []struct {
		input string
		want  string
	}{
		{input: "Russia", want: "Russian Federation"},
		{input: "Congo (Kinshasa)", want: "Congo, The Democratic Republic of the"},
		{input: "Somaliland region", want: "Somalia"},
		{input: "Switzerland", want: "Switzerland"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Correct(tt.input))
		})
	}
}

func TestResolver_Excluded(t *testing.T) {
	r := NewResolver(DefaultTables(), StaticAuthority{})

	assert.True(t, r.Excluded("Kosovo"))
	assert.True(t, r.Excluded("Ivory Coast"))
	assert.False(t, r.Excluded("Switzerland"))
	assert.False(t, r.Excluded("kosovo"), "matching is exact")
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(DefaultTables(), StaticAuthority(testutil.SampleCodes))

	code, ok := r.Resolve("Russian Federation")
	assert.True(t, ok)
	assert.Equal(t, "RUS", code)

	_, ok = r.Resolve("Atlantis")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)
}

func TestResolver_ResolveAll(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	r := NewResolver(DefaultTables(), StaticAuthority(testutil.SampleCodes), WithWorkers(2), WithLogger(logger))

	names := []string{"Switzerland", "Russian Federation", "Switzerland", "Atlantis", "Somalia"}
	codes, err := r.ResolveAll(context.Background(), names)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Switzerland":        "CHE",
		"Russian Federation": "RUS",
		"Somalia":            "SOM",
	}, codes)
	assert.True(t, handler.ContainsAttr("country", "Atlantis"))
	assert.Len(t, handler.FindRecords("Country code unresolved"), 1)
}

func TestResolver_ResolveAllCancelled(t *testing.T) {
	r := NewResolver(DefaultTables(), StaticAuthority(testutil.SampleCodes), WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ResolveAll(ctx, []string{"Switzerland", "Somalia"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountriesAuthority(t *testing.T) {
	auth := CountriesAuthority{}

	code, ok := auth.Alpha3("Switzerland")
	require.True(t, ok)
	assert.Equal(t, "CHE", code)

	_, ok = auth.Alpha3("Not A Country At All")
	assert.False(t, ok)
}

func TestCountriesAuthority_ResolvesEveryCorrection(t *testing.T) {
	want := map[string]string{
		"Taiwan Province of China": "TWN",
		"State of Palestine":       "PSE",
		"Venezuela":                "VEN",
		"Congo (Kinshasa)":         "COD",
		"Russia":                   "RUS",
	}

	auth := CountriesAuthority{}
	for raw, official := range DefaultTables().Corrections {
		t.Run(raw, func(t *testing.T) {
			code, ok := auth.Alpha3(official)
			require.True(t, ok, "%q corrected to %q has no code", raw, official)
			assert.Len(t, code, 3)
			if expected, found := want[raw]; found {
				assert.Equal(t, expected, code)
			}
		})
	}
}

func TestResolver_DefaultTablesWithRegistry(t *testing.T) {
	r := NewResolver(DefaultTables(), CountriesAuthority{})

	tests := []struct {
		raw      string
		wantName string
		wantCode string
	}{
		{raw: "Taiwan Province of China", wantName: "Taiwan (Province of China)", wantCode: "TWN"},
		{raw: "State of Palestine", wantName: "Palestinian Territory (Occupied)", wantCode: "PSE"},
		{raw: "Venezuela", wantName: "Venezuela", wantCode: "VEN"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name := r.Correct(tt.raw)
			code, ok := r.Resolve(name)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
