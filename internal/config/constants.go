package config

// Application constants
const (
	AppName = "whr"

	// EnvPrefix namespaces every environment variable, e.g. WHR_LOGGING_LEVEL
	EnvPrefix = "WHR"

	// EnvConfigFile points at an explicit YAML configuration file
	EnvConfigFile = "WHR_CONFIG"

	DefaultLogFile       = "logs/whr.log"
	DefaultOutputFile    = "data_cleaned.csv"
	DefaultWorkers       = 4
	DefaultInterpolation = "row_order"
)

// configFileLocations are searched in order when no file is named explicitly
var configFileLocations = []string{
	"whr.yaml",
	"configs/whr.yaml",
}
