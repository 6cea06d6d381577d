package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"whrpipe/internal/infrastructure"
	"whrpipe/internal/operations"
)

type cleanOptions struct {
	in          string
	out         string
	mode        string
	workers     int
	sheet       string
	delimiter   string
	bom         bool
	metricsFile string
}

func newCleanCmd(a *app) *cobra.Command {
	opts := &cleanOptions{}
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean a raw World Happiness Report export",
		Long: `Clean reads the raw export, drops countries without an ISO code, resolves
country codes, normalizes the schema, fills gaps by linear interpolation,
ranks every metric per year and publishes the cleaned file atomically.

Flags override the configuration file and WHR_* environment variables.`,
		Example: `  whr clean --in data.csv --out data_cleaned.csv
  whr clean --in whr.xlsx --mode per_country --metrics-file whr.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runClean(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "raw input file (.csv or .xlsx)")
	f.StringVar(&opts.out, "out", "", "cleaned output file (default: data_cleaned.csv)")
	f.StringVar(&opts.mode, "mode", "", "interpolation mode: row_order or per_country")
	f.IntVar(&opts.workers, "workers", 0, "concurrent country code lookups")
	f.StringVar(&opts.sheet, "sheet", "", "worksheet of an .xlsx input (default: first sheet)")
	f.StringVar(&opts.delimiter, "delimiter", "", "field delimiter of a .csv input")
	f.BoolVar(&opts.bom, "bom", false, "prefix the output with a UTF-8 BOM")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics to this file in Prometheus text format")
	return cmd
}

// applyFlags overrides the loaded pipeline configuration with the flags set
// on the command line
func (o *cleanOptions) applyFlags(cmd *cobra.Command, a *app) error {
	f := cmd.Flags()
	p := &a.cfg.Pipeline
	if f.Changed("in") {
		p.InputPath = o.in
	}
	if f.Changed("out") {
		p.OutputPath = o.out
	}
	if f.Changed("mode") {
		p.Interpolation = o.mode
	}
	if f.Changed("workers") {
		p.Workers = o.workers
	}
	if f.Changed("sheet") {
		p.Sheet = o.sheet
	}
	if f.Changed("delimiter") {
		p.Delimiter = o.delimiter
	}
	if f.Changed("bom") {
		p.WriteBOM = o.bom
	}
	if f.Changed("metrics-file") {
		a.cfg.Telemetry.MetricsFile = o.metricsFile
	}
	return a.cfg.Validate()
}

func (a *app) runClean(cmd *cobra.Command, opts *cleanOptions) error {
	if err := opts.applyFlags(cmd, a); err != nil {
		return err
	}

	telemetry, err := a.initTelemetry(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			a.logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	manager, err := operations.NewManager(operations.Dependencies{
		Logger:    a.logger,
		Authority: a.authority,
		Telemetry: telemetry,
	})
	if err != nil {
		return err
	}

	result, runErr := manager.Run(cmd.Context(), operations.RequestFromConfig(a.cfg.Pipeline))

	out := cmd.OutOrStdout()
	if result != nil {
		printSteps(out, result.Steps)
	}

	if path := a.cfg.Telemetry.MetricsFile; path != "" {
		if err := telemetry.WriteMetricsFile(path); err != nil {
			if runErr == nil {
				return err
			}
			a.logger.Error("Failed to write metrics file", slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		return runErr
	}
	printCleanSummary(out, result)
	return nil
}

func (a *app) initTelemetry(traceOut io.Writer) (*infrastructure.OTelProviders, error) {
	cfg := infrastructure.DefaultOTelConfig()
	cfg.Environment = a.cfg.Telemetry.Environment
	cfg.TraceExporter = a.cfg.Telemetry.TraceExporter
	cfg.SampleRatio = a.cfg.Telemetry.SampleRatio
	cfg.TraceWriter = traceOut
	if a.cfg.Telemetry.MetricsFile == "" {
		cfg.MetricExporter = "none"
	}
	return infrastructure.InitializeOTel(cfg, a.logger)
}

func printSteps(w io.Writer, steps []operations.StepSummary) {
	table := newTable(w, "Step", "Status", "Duration", "Message")
	for _, s := range steps {
		table.Append([]string{
			s.Name,
			string(s.Status),
			s.Duration.Round(time.Millisecond).String(),
			s.Message,
		})
	}
	table.Render()
}

func printCleanSummary(w io.Writer, result *operations.Result) {
	if n := len(result.Unresolved); n > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d countries without ISO code: %v\n", n, result.Unresolved)
	}
	color.New(color.FgGreen).Fprintf(w, "Published %d rows (%d excluded, %d cells interpolated) to %s\n",
		result.Output.Rows,
		result.RowsExcluded,
		result.Interpolation.TotalFilled(),
		result.Output.Path)
}
