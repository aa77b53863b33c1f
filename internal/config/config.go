package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// InputConfig describes the intake/outcome snapshot and its companion files
type InputConfig struct {
	DatasetPath string `yaml:"dataset_path" envconfig:"DATASET_PATH" validate:"required"`
	PolicyPath  string `yaml:"policy_path" envconfig:"POLICY_PATH"`
	LabelsPath  string `yaml:"labels_path" envconfig:"LABELS_PATH"`
	DateFormat  string `yaml:"date_format" envconfig:"DATE_FORMAT" validate:"required"`
}

// OutputConfig describes where report artifacts are written
type OutputConfig struct {
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	WriteExcel    bool   `yaml:"write_excel" envconfig:"WRITE_EXCEL"`
	WriteJSON     bool   `yaml:"write_json" envconfig:"WRITE_JSON"`
	CleanedExport bool   `yaml:"cleaned_export" envconfig:"CLEANED_EXPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// AnalysisConfig contains knobs for the statistical test battery
type AnalysisConfig struct {
	Adjustment      string  `yaml:"adjustment" envconfig:"ADJUSTMENT" validate:"oneof=holm bonferroni"`
	ConfidenceLevel float64 `yaml:"confidence_level" envconfig:"CONFIDENCE_LEVEL" validate:"gt=0,lt=1"`
	Simulate        bool    `yaml:"simulate" envconfig:"SIMULATE"`
	SimulationDraws int     `yaml:"simulation_draws" envconfig:"SIMULATION_DRAWS" validate:"min=1"`
	Seed            int64   `yaml:"seed" envconfig:"SEED"`
}

// Load loads configuration in precedence order: built-in defaults, then
// an optional config file merged over them, then environment variables
// over both. Environment variables take precedence over file values.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := mergeFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No default tags on the struct: envconfig only touches fields whose
	// environment variable is actually set, so file values survive.
	if err := envconfig.Process("SHELTER", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// mergeFromFile unmarshals a YAML file over cfg. Keys absent from the
// document leave the existing values untouched.
func mergeFromFile(cfg *Config, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration using struct tags
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// EnsureOutputDirs creates the report and log directories if missing
func (c *Config) EnsureOutputDirs() error {
	if err := os.MkdirAll(c.Output.ReportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if c.Logging.Output != "console" {
		if err := os.MkdirAll(filepath.Dir(c.Logging.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}
	return nil
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			DatasetPath: "data/animal_services.csv",
			DateFormat:  "2006-01-02",
		},
		Output: OutputConfig{
			ReportsDir:    "data/reports",
			WriteExcel:    true,
			WriteJSON:     true,
			CleanedExport: true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/shelterstats.log",
		},
		Analysis: AnalysisConfig{
			Adjustment:      "holm",
			ConfidenceLevel: 0.95,
			Simulate:        false,
			SimulationDraws: 2000,
			Seed:            1,
		},
	}
}
