// Package countrycode resolves free-text country names to ISO 3166-1 alpha-3
// codes. Names the ISO registry does not know under their survey spelling are
// first rewritten through a correction table; names with no code at all are
// excluded before resolution.
//
// A name that still cannot be resolved is a data gap, not an error: the
// resolver reports it as unresolved and the pipeline publishes an empty code.
package countrycode
