package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PipelineConfig contains the cleaning run settings
type PipelineConfig struct {
	InputPath     string `yaml:"input_path" envconfig:"INPUT_PATH"`
	OutputPath    string `yaml:"output_path" envconfig:"OUTPUT_PATH"`
	Delimiter     string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Sheet         string `yaml:"sheet" envconfig:"SHEET"`
	Interpolation string `yaml:"interpolation" envconfig:"INTERPOLATION" validate:"oneof=row_order per_country"`
	Workers       int    `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	WriteBOM      bool   `yaml:"write_bom" envconfig:"WRITE_BOM"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// Load builds the configuration from, in increasing precedence: built-in
// defaults, a YAML file, a .env file and the process environment.
// path names the YAML file; when empty, WHR_CONFIG and then the usual
// locations are tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	// A .env file only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields have no envconfig defaults, so unset variables keep the file values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first existing default location, or ""
func findConfigFile() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid %s: %q fails %q", first.Namespace(), fmt.Sprint(first.Value()), first.Tag())
		}
		return err
	}
	return nil
}

// DelimiterRune returns the configured CSV delimiter
func (p PipelineConfig) DelimiterRune() rune {
	for _, r := range p.Delimiter {
		return r
	}
	return ','
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			OutputPath:    DefaultOutputFile,
			Delimiter:     ",",
			Interpolation: DefaultInterpolation,
			Workers:       DefaultWorkers,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			SampleRatio:   1.0,
			Environment:   "development",
		},
	}
}
