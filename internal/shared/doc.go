// Package shared holds helpers used across the pipeline packages that do not
// belong to any single stage.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler for asserting on structured log output
//   - a small raw World Happiness export and its expected ISO codes
//   - file fixture helpers built on t.TempDir()
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    path := testutil.WriteFile(t, t.TempDir(), "data.csv", testutil.SampleRawCSV)
//	    ...
//	    assert.True(t, handler.ContainsMessage("Dropping unknown columns"))
//	}
package shared
