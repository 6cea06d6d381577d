package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"whrpipe/internal/dataset"
	apperrors "whrpipe/internal/errors"
	"whrpipe/pkg/contracts/domain"
)

// queryOptions are the flags shared by the commands reading a cleaned file
type queryOptions struct {
	data    string
	country string
	year    int
	first   string
	second  string
}

func (o *queryOptions) addDataFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.data, "data", "", "cleaned file (default: the configured output path)")
}

func (o *queryOptions) addCountryFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.country, "country", dataset.DefaultCountry, "country name as written in the cleaned file")
}

func (o *queryOptions) addYearFlag(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.year, "year", dataset.DefaultYear, "survey year")
}

func (o *queryOptions) addPairFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.first, "first", dataset.DefaultFirstFeature.String(), "first metric, identifier or label")
	cmd.Flags().StringVar(&o.second, "second", dataset.DefaultSecondFeature.String(), "second metric, identifier or label")
}

func (a *app) loadDataset(o *queryOptions) (*dataset.Dataset, error) {
	path := o.data
	if path == "" {
		path = a.cfg.Pipeline.OutputPath
	}
	return dataset.Load(path)
}

func parseMetric(s string) (domain.Metric, error) {
	m, ok := domain.ParseMetric(s)
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown metric %q", s))
	}
	return m, nil
}

func (o *queryOptions) pair() (domain.Metric, domain.Metric, error) {
	first, err := parseMetric(o.first)
	if err != nil {
		return "", "", err
	}
	second, err := parseMetric(o.second)
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

func newCountriesCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries of a cleaned file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			names := d.CountryNames()
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	opts.addDataFlag(cmd)
	return cmd
}

func newYearsCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the years of a cleaned file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			years := d.Years()
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), years)
			}
			for _, y := range years {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	}
	opts.addDataFlag(cmd)
	return cmd
}

func newDetailCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "detail",
		Short: "Show every metric of one country in one year with its rank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			items, err := d.Detail(opts.country, opts.year)
			if apperrors.IsType(err, apperrors.ErrTypeNotFound) && !a.jsonOut {
				color.New(color.FgYellow).Fprintf(out, "No data found for %s in Year %d\n", opts.country, opts.year)
				return nil
			}
			if err != nil {
				return err
			}
			if a.jsonOut {
				view := make([]detailView, len(items))
				for i, item := range items {
					view[i] = detailView{Label: item.Label, Value: optional(item.Value), Rank: item.Rank, Total: item.Total}
				}
				return writeJSON(out, view)
			}

			fmt.Fprintf(out, "%s %d\n", opts.country, opts.year)
			table := newTable(out, "Metric", "Value", "Rank")
			for _, item := range items {
				rank := ""
				if item.Rank > 0 {
					rank = fmt.Sprintf("%d/%d", item.Rank, item.Total)
				}
				table.Append([]string{item.Label, formatValue(item.Value), rank})
			}
			table.Render()
			return nil
		},
	}
	opts.addDataFlag(cmd)
	opts.addCountryFlag(cmd)
	opts.addYearFlag(cmd)
	return cmd
}

type detailView struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	Rank  int      `json:"rank"`
	Total int      `json:"total_number_of_ranks"`
}

type correlationView struct {
	Country      string  `json:"country"`
	First        string  `json:"first"`
	Second       string  `json:"second"`
	R            float64 `json:"r"`
	Points       int     `json:"points"`
	Strength     string  `json:"strength"`
	Significance string  `json:"significance"`
	Explanation  string  `json:"explanation"`
	Sign         string  `json:"sign"`
}

func newCorrelateCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlate two metrics over the years of one country",
		Example: `  whr correlate --country Switzerland --first life_ladder --second generosity
  whr correlate --country Chad --first "Log GDP" --second "Life Expectancy"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			first, second, err := opts.pair()
			if err != nil {
				return err
			}
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			c, err := d.Correlation(opts.country, first, second)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return writeJSON(out, correlationView{
					Country:      c.Country,
					First:        c.First.String(),
					Second:       c.Second.String(),
					R:            c.R,
					Points:       c.Points,
					Strength:     c.Strength.String(),
					Significance: c.Strength.SignificanceLabel(),
					Explanation:  c.Explanation(),
					Sign:         c.SignExplanation(),
				})
			}
			color.New(color.Bold).Fprintf(out, "%s: %s\n", c.Strength.SignificanceLabel(), c.Significance())
			fmt.Fprintln(out, c.Explanation())
			fmt.Fprintln(out, c.SignExplanation())
			fmt.Fprintf(out, "Years compared: %d\n", c.Points)
			return nil
		},
	}
	opts.addDataFlag(cmd)
	opts.addCountryFlag(cmd)
	opts.addPairFlags(cmd)
	return cmd
}

func newHeatmapCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Correlate every metric pair for one country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			m, err := d.CorrelationMatrix(opts.country)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			labels := m.Labels()
			if a.jsonOut {
				cells := make(map[string]map[string]*float64, len(labels))
				for i, row := range labels {
					cells[row] = make(map[string]*float64, len(labels))
					for j, col := range labels {
						cells[row][col] = optional(m.At(i, j))
					}
				}
				return writeJSON(out, cells)
			}

			fmt.Fprintln(out, m.Title())
			table := newTable(out, append([]string{""}, labels...)...)
			for i, label := range labels {
				row := []string{label}
				for j := range labels {
					row = append(row, formatValue(m.At(i, j)))
				}
				table.Append(row)
			}
			table.Render()
			return nil
		},
	}
	opts.addDataFlag(cmd)
	opts.addCountryFlag(cmd)
	return cmd
}

func newScatterCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Compare two metrics for one country with a least squares trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			first, second, err := opts.pair()
			if err != nil {
				return err
			}
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			t, err := d.Scatter(opts.country, first, second)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return writeJSON(out, t)
			}
			fmt.Fprintln(out, t.Title())
			table := newTable(out, "Year", first.Label(), second.Label(), "Trend")
			for i, year := range t.Years {
				table.Append([]string{
					strconv.Itoa(year),
					formatValue(t.X[i]),
					formatValue(t.Y[i]),
					formatValue(t.Predict(t.X[i])),
				})
			}
			table.Render()
			fmt.Fprintf(out, "%s = %.4f + %.4f * %s (R^2 %.2f)\n",
				second.Label(), t.Intercept, t.Slope, first.Label(), t.RSquared)
			return nil
		},
	}
	opts.addDataFlag(cmd)
	opts.addCountryFlag(cmd)
	opts.addPairFlags(cmd)
	return cmd
}

func newMapCmd(a *app) *cobra.Command {
	opts := &queryOptions{}
	var metricName string
	cmd := &cobra.Command{
		Use:   "map",
		Short: "List one metric by ISO code for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, err := parseMetric(metricName)
			if err != nil {
				return err
			}
			d, err := a.loadDataset(opts)
			if err != nil {
				return err
			}
			rows := d.YearRows(opts.year)
			if len(rows) == 0 {
				return apperrors.NewNotFoundError(fmt.Sprintf("data for year %d", opts.year))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s in %d\n", metric.Label(), opts.year)
			table := newTable(out, "Code", "Country", metric.Label(), "Rank")
			for _, row := range rows {
				v := row.Values[metric]
				rank := ""
				if v.Rank > 0 {
					rank = fmt.Sprintf("%d/%d", v.Rank, row.TotalRanks)
				}
				table.Append([]string{row.CountryCodeISO, row.CountryNameISO, formatValue(v.Value), rank})
			}
			table.Render()
			return nil
		},
	}
	opts.addDataFlag(cmd)
	opts.addYearFlag(cmd)
	cmd.Flags().StringVar(&metricName, "metric", domain.MetricLifeLadder.String(), "metric to map")
	return cmd
}
