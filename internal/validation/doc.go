// Package validation checks pipeline inputs before a run and the ranked
// table before it is published.
//
// FileValidator guards the file system edges: the input must be a readable
// CSV or XLSX file and the output directory must be writable.
//
// FrameValidator holds the post-conditions of a run. A ranked frame may only
// be published when every row has a year, every (year, metric) rank set is
// exactly 1..N with N equal to total_number_of_ranks, no excluded country
// remains, no metric column is empty and every corrected name maps to a
// single code.
package validation
