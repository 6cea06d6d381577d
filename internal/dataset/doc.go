// Package dataset reads the cleaned happiness table back for querying: the
// country and year pickers, the per-country detail view, pairwise
// correlations with their plain language reading, the correlation heatmap
// and the scatter trend line.
package dataset
