package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectFile  string   // root configuration file
	OutputDir    string   // where generated files land
	IncludePaths []string // invocation-time search paths, highest precedence first

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectFile == "" {
		return nil, errors.New("ProjectFile is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, nil
}
