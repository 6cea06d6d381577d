// Package cli implements the whr command line: the clean command running the
// pipeline and the query commands reading a cleaned file.
package cli
