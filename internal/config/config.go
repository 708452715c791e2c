package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configurable recap settings.
type Config struct {
	LogDir         string   `json:"log_dir"`         // assistant debug-log directory to mine
	OutputDir      string   `json:"output_dir"`      // where feedback documents are written
	Repo           string   `json:"repo"`            // default owner/repo for issue sharing
	Labels         []string `json:"labels"`          // default issue labels
	RedactPatterns []string `json:"redact_patterns"` // full replacement of the default scrub set
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		OutputDir: "feedback",
	}
}

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "recap", "config.json"), nil
}

// LoadGlobal reads ~/.config/recap/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .recapconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".recapconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.LogDir != "" {
			result.LogDir = c.LogDir
		}
		if c.OutputDir != "" {
			result.OutputDir = c.OutputDir
		}
		if c.Repo != "" {
			result.Repo = c.Repo
		}
		if len(c.Labels) > 0 {
			result.Labels = c.Labels
		}
		if len(c.RedactPatterns) > 0 {
			result.RedactPatterns = c.RedactPatterns
		}
	}

	apply(global)
	apply(project)

	return result
}

// SaveGlobal writes cfg to the global config path, creating the directory
// if needed.
func SaveGlobal(cfg *Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
