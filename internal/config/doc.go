// Package config loads the pipeline configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. A YAML file: the path passed to Load, $WHR_CONFIG, whr.yaml or configs/whr.yaml
//	3. A .env file in the working directory
//	4. Environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # Environment Variables
//
// All environment variables use the WHR_ prefix followed by section and field:
//
//	WHR_LOGGING_LEVEL=debug
//	WHR_PIPELINE_INTERPOLATION=per_country
//	WHR_PIPELINE_WORKERS=8
//	WHR_TELEMETRY_TRACE_EXPORTER=stdout
//	WHR_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/whr.prom
//
// # Validation
//
// Every field carries a validator tag; Load fails with the first violation.
package config
