package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for configuration when no
// --config flag is given.
const DefaultPath = "afschrift.yaml"

// Config represents the top-level afschrift.yaml configuration.
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecoderConfig tunes the description decoder.
type DecoderConfig struct {
	// PreserveDoubleSpace lists substrings whose internal multi-space
	// runs must survive whitespace collapsing. Some merchant and
	// proper-noun spellings legitimately contain a double space.
	PreserveDoubleSpace []string `yaml:"preserve_double_space,omitempty"`
}

// OutputConfig controls JSON rendering.
type OutputConfig struct {
	// SortKeys serializes mappings with lexicographically sorted keys
	// instead of source field order.
	SortKeys bool `yaml:"sort_keys"`
}

// LoggingConfig controls diagnostics.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Load reads an afschrift.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}
