package dataset

import (
	"fmt"
	"math"
	"sort"

	"whrpipe/internal/dataprocessing"
	apperrors "whrpipe/internal/errors"
	"whrpipe/pkg/contracts/domain"
)

// Dataset is the cleaned table loaded for querying, ordered by year
type Dataset struct {
	rows      []domain.CountryYear
	byCountry map[string][]int
}

// Load reads a cleaned file written by the pipeline
func Load(path string) (*Dataset, error) {
	raw, err := dataprocessing.LoadFile(path, dataprocessing.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return FromFrame(raw)
}

// FromFrame builds a dataset from a cleaned frame. String columns are typed
// as needed, so a freshly loaded file and a ranked frame are both accepted.
func FromFrame(f *dataprocessing.Frame) (*Dataset, error) {
	var missing []string
	for _, name := range domain.OutputColumns() {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError("dataset", missing...)
	}

	col := func(name string) *dataprocessing.Column {
		c, _ := f.Column(name)
		return c
	}
	asInt := func(name string) (*dataprocessing.Column, error) {
		c, err := col(name).ToInt()
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid %s", name), err)
		}
		return c, nil
	}

	years, err := asInt(domain.ColumnYear)
	if err != nil {
		return nil, err
	}
	totals, err := asInt(domain.ColumnTotalRanks)
	if err != nil {
		return nil, err
	}

	values := make(map[domain.Metric]*dataprocessing.Column, len(domain.Metrics))
	ranks := make(map[domain.Metric]*dataprocessing.Column, len(domain.Metrics))
	for _, m := range domain.Metrics {
		v, err := col(m.String()).ToFloat()
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("invalid %s", m), err)
		}
		r, err := asInt(m.RankColumn())
		if err != nil {
			return nil, err
		}
		values[m], ranks[m] = v, r
	}

	names := col(domain.ColumnCountryName)
	namesISO := col(domain.ColumnCountryNameISO)
	codes := col(domain.ColumnCountryCodeISO)

	rows := make([]domain.CountryYear, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		year, ok := years.Int(i)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %d has no year", i+1))
		}
		total, _ := totals.Int(i)

		row := domain.CountryYear{
			CountryName:    names.String(i),
			CountryNameISO: namesISO.String(i),
			CountryCodeISO: codes.String(i),
			Year:           year,
			TotalRanks:     total,
			Values:         make(map[domain.Metric]domain.MetricValue, len(domain.Metrics)),
		}
		for _, m := range domain.Metrics {
			v := values[m].Float(i)
			rank, _ := ranks[m].Int(i)
			row.Values[m] = domain.MetricValue{Metric: m, Value: v, Valid: !math.IsNaN(v), Rank: rank}
		}
		rows = append(rows, row)
	}

	// Stable, so rows of one year keep file order
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Year < rows[b].Year })

	d := &Dataset{rows: rows, byCountry: make(map[string][]int)}
	for i, row := range rows {
		d.byCountry[row.CountryName] = append(d.byCountry[row.CountryName], i)
	}
	return d, nil
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// CountryNames returns the distinct country names, sorted
func (d *Dataset) CountryNames() []string {
	names := make([]string, 0, len(d.byCountry))
	for name := range d.byCountry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Years returns the distinct years, ascending
func (d *Dataset) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, row := range d.rows {
		if !seen[row.Year] {
			seen[row.Year] = true
			years = append(years, row.Year)
		}
	}
	sort.Ints(years)
	return years
}

// Lookup returns the row of country in year
func (d *Dataset) Lookup(country string, year int) (domain.CountryYear, error) {
	for _, i := range d.byCountry[country] {
		if d.rows[i].Year == year {
			return d.rows[i], nil
		}
	}
	return domain.CountryYear{}, apperrors.NewNotFoundError(fmt.Sprintf("data for %s in year %d", country, year))
}

// Rows returns every row of country, ascending by year
func (d *Dataset) Rows(country string) ([]domain.CountryYear, error) {
	idx, ok := d.byCountry[country]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("data for %s", country))
	}
	out := make([]domain.CountryYear, len(idx))
	for j, i := range idx {
		out[j] = d.rows[i]
	}
	return out, nil
}

// Series returns the values of metric for country ascending by year,
// NaN where the value is missing
func (d *Dataset) Series(country string, metric domain.Metric) ([]float64, error) {
	rows, err := d.Rows(country)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row.Values[metric].Value
	}
	return out, nil
}

// YearRows returns every row of year that carries an ISO code, in file order
func (d *Dataset) YearRows(year int) []domain.CountryYear {
	var out []domain.CountryYear
	for _, row := range d.rows {
		if row.Year == year && row.HasLocation() {
			out = append(out, row)
		}
	}
	return out
}

// DetailItem is one metric of a country detail view
type DetailItem struct {
	Label string
	Value float64
	Valid bool
	Rank  int
	Total int
}

// Detail returns every metric of country in year with its rank
func (d *Dataset) Detail(country string, year int) ([]DetailItem, error) {
	row, err := d.Lookup(country, year)
	if err != nil {
		return nil, err
	}
	items := make([]DetailItem, 0, len(domain.Metrics))
	for _, m := range domain.Metrics {
		v := row.Values[m]
		items = append(items, DetailItem{
			Label: m.Label(),
			Value: v.Value,
			Valid: v.Valid,
			Rank:  v.Rank,
			Total: row.TotalRanks,
		})
	}
	return items, nil
}
