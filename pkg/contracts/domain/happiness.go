package domain

// Metric is the canonical identifier of a well-being indicator column
type Metric string

const (
	MetricLifeLadder     Metric = "life_ladder"
	MetricLogGDP         Metric = "log_gdp"
	MetricSocialSupport  Metric = "social_support"
	MetricLifeExpectancy Metric = "life_expectancy"
	MetricFreedom        Metric = "freedom"
	MetricGenerosity     Metric = "generosity"
	MetricCorruption     Metric = "corruption"
	MetricPositiveAffect Metric = "positive_affect"
	MetricNegativeAffect Metric = "negative_affect"
)

// Canonical column names of the cleaned table that are not metrics
const (
	ColumnCountryName    = "country_name"
	ColumnCountryNameISO = "country_name_iso"
	ColumnCountryCodeISO = "country_code_iso"
	ColumnYear           = "year"
	ColumnTotalRanks     = "total_number_of_ranks"
)

// RankSuffix is appended to a metric identifier to name its rank column
const RankSuffix = "_rank"

// Metrics lists every ranked metric in publication order.
// The dashboard relies on this order for its dropdowns.
var Metrics = []Metric{
	MetricLifeLadder,
	MetricLogGDP,
	MetricSocialSupport,
	MetricLifeExpectancy,
	MetricFreedom,
	MetricGenerosity,
	MetricCorruption,
	MetricPositiveAffect,
	MetricNegativeAffect,
}

var metricLabels = map[Metric]string{
	MetricLifeLadder:     "Life Ladder",
	MetricLogGDP:         "Log GDP",
	MetricSocialSupport:  "Social Support",
	MetricLifeExpectancy: "Life Expectancy",
	MetricFreedom:        "Freedom to Make Life Choices",
	MetricGenerosity:     "Generosity",
	MetricCorruption:     "Perception of Corruption",
	MetricPositiveAffect: "Positive Affect",
	MetricNegativeAffect: "Negative Affect",
}

// String returns the canonical identifier
func (m Metric) String() string {
	return string(m)
}

// Label returns the human readable name of the metric
func (m Metric) Label() string {
	if label, ok := metricLabels[m]; ok {
		return label
	}
	return string(m)
}

// RankColumn returns the name of the rank column for the metric
func (m Metric) RankColumn() string {
	return string(m) + RankSuffix
}

// IsValid reports whether m is one of the ranked metrics
func (m Metric) IsValid() bool {
	_, ok := metricLabels[m]
	return ok
}

// ParseMetric accepts either a canonical identifier or a human readable label
func ParseMetric(s string) (Metric, bool) {
	if m := Metric(s); m.IsValid() {
		return m, true
	}
	for m, label := range metricLabels {
		if label == s {
			return m, true
		}
	}
	return "", false
}

// MetricValue is a metric reading together with its leaderboard position
type MetricValue struct {
	Metric Metric  `json:"metric"`
	Value  float64 `json:"value"`
	Valid  bool    `json:"valid"`
	Rank   int     `json:"rank"`
}

// CountryYear is one row of the cleaned table as seen by consumers
type CountryYear struct {
	CountryName    string                 `json:"country_name"`
	CountryNameISO string                 `json:"country_name_iso"`
	CountryCodeISO string                 `json:"country_code_iso,omitempty"`
	Year           int                    `json:"year"`
	Values         map[Metric]MetricValue `json:"values"`
	TotalRanks     int                    `json:"total_number_of_ranks"`
}

// HasLocation reports whether the row carries an ISO code usable for a map
func (c CountryYear) HasLocation() bool {
	return c.CountryCodeISO != ""
}

// OutputColumns returns the header of the cleaned file in publication order
func OutputColumns() []string {
	cols := []string{ColumnCountryName, ColumnCountryNameISO, ColumnCountryCodeISO, ColumnYear}
	for _, m := range Metrics {
		cols = append(cols, m.String())
	}
	for _, m := range Metrics {
		cols = append(cols, m.RankColumn())
	}
	return append(cols, ColumnTotalRanks)
}
