package countrycode

// Tables holds the static name data used by a Resolver
type Tables struct {
	// Corrections maps survey spellings to the official names the ISO registry resolves
	Corrections map[string]string
	// Exclusions lists names without any ISO code; their rows are dropped
	Exclusions map[string]struct{}
}

var defaultCorrections = map[string]string{
	"Hong Kong S.A.R. of China": "Hong Kong",
	"Taiwan Province of China":  "Taiwan (Province of China)",
	"State of Palestine":        "Palestinian Territory (Occupied)",
	"Turkiye":                   "Turkey",
	"South Korea":               "Korea, Republic of",
	"Laos":                      "Lao People's Democratic Republic",
	"Moldova":                   "Moldova, Republic of",
	"Syria":                     "Syrian Arab Republic",
	"Tanzania":                  "Tanzania, United Republic of",
	"Vietnam":                   "Viet Nam",
	"Congo (Brazzaville)":       "Congo",
	"Congo (Kinshasa)":          "Congo, The Democratic Republic of the",
	"Venezuela":                 "Venezuela",
	"Bolivia":                   "Bolivia, Plurinational State of",
	"Russia":                    "Russian Federation",
	"Iran":                      "Iran, Islamic Republic of",
	"Somaliland region":         "Somalia",
}

var defaultExclusions = []string{"Kosovo", "Ivory Coast"}

// DefaultTables returns a fresh copy of the built-in correction and exclusion data
func DefaultTables() Tables {
	t := Tables{
		Corrections: make(map[string]string, len(defaultCorrections)),
		Exclusions:  make(map[string]struct{}, len(defaultExclusions)),
	}
	for k, v := range defaultCorrections {
		t.Corrections[k] = v
	}
	for _, name := range defaultExclusions {
		t.Exclusions[name] = struct{}{}
	}
	return t
}

// ExcludedNames returns the exclusion set as a slice
func (t Tables) ExcludedNames() []string {
	names := make([]string, 0, len(t.Exclusions))
	for name := range t.Exclusions {
		names = append(names, name)
	}
	return names
}
