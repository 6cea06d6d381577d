package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"whrpipe/internal/config"
	"whrpipe/internal/countrycode"
	"whrpipe/internal/infrastructure"
	"whrpipe/pkg/contracts"
)

// app carries what every sub-command shares once the root has run
type app struct {
	configPath string
	verbose    bool
	jsonOut    bool

	cfg    *config.Config
	logger *slog.Logger

	// authority overrides the ISO registry, nil in production
	authority countrycode.Authority
}

// NewRootCommand builds the whr command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "whr",
		Short: "World Happiness Report cleaning pipeline",
		Long: `whr cleans the World Happiness Report export and queries the result.

Commands:
  clean      resolve country codes, interpolate gaps, rank every metric per year
  countries  list the countries of a cleaned file
  years      list the years of a cleaned file
  detail     show every metric of one country in one year
  correlate  correlate two metrics for one country
  heatmap    correlate every metric pair for one country
  scatter    compare two metrics for one country with a trend line
  map        list one metric by ISO code for one year`,
		Version:           contracts.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (default: $WHR_CONFIG or whr.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "JSON output for query commands")

	root.AddCommand(
		newCleanCmd(a),
		newCountriesCmd(a),
		newYearsCmd(a),
		newDetailCmd(a),
		newCorrelateCmd(a),
		newHeatmapCmd(a),
		newScatterCmd(a),
		newMapCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the command line with ctx, which cancels a clean run
func Execute(ctx context.Context) error {
	return run(ctx, NewRootCommand(), infrastructure.CloseLogFile)
}

// run executes cmd and closes the log file afterwards, also when the
// command fails
func run(ctx context.Context, cmd *cobra.Command, closeLog func() error) error {
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to close log file: %v\n", err)
		}
	}()
	return cmd.ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		slog.SetDefault(logger)
		a.logger = logger
	}
	a.logger.Debug("Configuration loaded",
		slog.String("command", cmd.Name()),
		slog.String("config", a.configPath),
		slog.String("interpolation", cfg.Pipeline.Interpolation))
	return nil
}
