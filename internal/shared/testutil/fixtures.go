package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RawHeader is the header of the World Happiness Report 2005-2021 export
const RawHeader = "Country Name,Regional Indicator,Year,Life Ladder,Log GDP Per Capita,Social Support," +
	"Healthy Life Expectancy At Birth,Freedom To Make Life Choices,Generosity,Perceptions Of Corruption," +
	"Positive Affect,Negative Affect,Confidence In National Government"

// SampleRawCSV is a small raw export covering the interesting cases: two
// excluded countries, names needing correction, a country present in a
// single year, an interior gap and trailing gaps.
const SampleRawCSV = RawHeader + "\n" +
	"Switzerland,Western Europe,2019,7.694,11.1,0.949,74.1,0.92,0.05,0.28,0.77,0.17,0.83\n" +
	"Switzerland,Western Europe,2020,7.508,11.08,0.946,74.3,0.917,0.02,0.3,0.76,0.16,0.85\n" +
	"Russia,Commonwealth of Independent States,2019,5.648,10.15,0.9,64.2,0.74,-0.19,0.85,0.55,0.2,0.5\n" +
	"Russia,Commonwealth of Independent States,2020,5.495,10.13,,64.5,0.73,-0.12,0.84,0.6,0.18,0.48\n" +
	"Kosovo,Central and Eastern Europe,2020,6.294,9.3,0.79,,0.88,0.11,0.92,0.72,0.2,0.4\n" +
	"Ivory Coast,Sub-Saharan Africa,2020,5.257,8.5,0.6,51,0.7,-0.03,0.75,0.65,0.3,0.5\n" +
	"Congo (Kinshasa),Sub-Saharan Africa,2020,5.12,7,0.7,55,0.67,0.02,0.8,0.6,0.3,0.5\n" +
	"Somaliland region,Sub-Saharan Africa,2020,4.991,,0.88,,0.75,0.1,0.03,0.7,0.24,0.7\n"

// SampleCodes maps the corrected sample names to the codes an ISO registry
// assigns them.
var SampleCodes = map[string]string{
	"Switzerland":                           "CHE",
	"Russian Federation":                    "RUS",
	"Congo, The Democratic Republic of the": "COD",
	"Somalia":                               "SOM",
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}
