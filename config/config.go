package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tool configuration
type Config struct {
	// General configuration
	General struct {
		// Development forces DEBUG operational logging regardless of
		// the configured level
		Development bool `yaml:"development"`
	} `yaml:"general"`

	// Compiler configuration
	Compiler struct {
		// Command is the compiler executable, invoked as
		// `<command> -o <output> <source>`
		Command string `yaml:"command"`

		// Extensions is the list of accepted source extensions
		Extensions []string `yaml:"extensions"`
	} `yaml:"compiler"`

	// Watcher configuration
	Watcher struct {
		// Engine selects change detection: "poll" or "fsnotify"
		Engine string `yaml:"engine"`

		// PollInterval is the delay between polls (also the stop-flag
		// observation interval)
		PollInterval time.Duration `yaml:"pollInterval"`
	} `yaml:"watcher"`

	// Journal configuration
	Journal struct {
		// Path is the append-only activity log file
		Path string `yaml:"path"`
	} `yaml:"journal"`

	// Operational logging configuration
	Logging struct {
		Level       string `yaml:"level"` // "ERROR", "WARN", "INFO", "DEBUG"
		ChannelSize int    `yaml:"channelSize"`
		Format      string `yaml:"format"` // "text" or "json"
		Output      string `yaml:"output"` // "stdout" or "stderr"
	} `yaml:"logging"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	c := &Config{}

	c.General.Development = false

	c.Compiler.Command = "g++"
	c.Compiler.Extensions = []string{".cpp"}

	c.Watcher.Engine = "poll"
	c.Watcher.PollInterval = 100 * time.Millisecond

	c.Journal.Path = "cppwatch.log"

	c.Logging.Level = "INFO"
	c.Logging.ChannelSize = 1000
	c.Logging.Format = "text"
	c.Logging.Output = "stderr"

	return c
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so a partial file is valid
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// the engine selector is compared exactly when wiring the change
	// source, so any accepted casing must leave here lowercased
	config.Watcher.Engine = strings.ToLower(config.Watcher.Engine)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	logLevel := strings.ToLower(config.Logging.Level)
	if logLevel != "debug" && logLevel != "info" && logLevel != "warn" && logLevel != "error" {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	engine := strings.ToLower(config.Watcher.Engine)
	if engine != "poll" && engine != "fsnotify" {
		return fmt.Errorf("invalid watcher engine: %s", config.Watcher.Engine)
	}

	if config.Watcher.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %v", config.Watcher.PollInterval)
	}

	if config.Compiler.Command == "" {
		return fmt.Errorf("compiler command must not be empty")
	}

	if len(config.Compiler.Extensions) == 0 {
		return fmt.Errorf("at least one source extension is required")
	}
	for _, ext := range config.Compiler.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid source extension %q: must start with a dot", ext)
		}
	}

	if config.Journal.Path == "" {
		return fmt.Errorf("journal path must not be empty")
	}

	return nil
}
