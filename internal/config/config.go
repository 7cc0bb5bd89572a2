// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package config loads formatting settings for extjsonfmt from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/creachadair/extjson"
	"gopkg.in/yaml.v3"
)

// Config holds the settings that control how values are reformatted.
type Config struct {
	Indent        bool   `yaml:"indent"`
	IndentUnit    string `yaml:"indent_unit"`
	NewLine       string `yaml:"newline"`
	OutputMode    string `yaml:"output_mode"` // relaxed or strict
	AllowComments bool   `yaml:"allow_comments"`
}

// NewConfig returns a Config populated with the default writer settings.
func NewConfig() *Config {
	def := extjson.DefaultWriterSettings()
	return &Config{
		Indent:     def.Indent,
		IndentUnit: def.IndentUnit,
		NewLine:    def.NewLine,
		OutputMode: def.OutputMode.String(),
	}
}

// LoadConfig loads a configuration from the YAML file at path. Settings not
// named in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if _, err := cfg.WriterSettings(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return cfg, nil
}

// configNames are the file names FindConfigFile looks for.
var configNames = []string{".extjsonfmt.yml", ".extjsonfmt.yaml", "extjsonfmt.yml", "extjsonfmt.yaml"}

// FindConfigFile searches dir and its parents for a config file, and
// returns the path of the first one found, or "".
func FindConfigFile(dir string) string {
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// WriterSettings converts c into settings for an extjson.Writer.
func (c *Config) WriterSettings() (*extjson.WriterSettings, error) {
	mode, err := extjson.ParseOutputMode(c.OutputMode)
	if err != nil {
		return nil, err
	}
	if c.Indent && c.IndentUnit == "" {
		return nil, fmt.Errorf("indent_unit must not be empty when indent is enabled")
	}
	return &extjson.WriterSettings{
		Indent:     c.Indent,
		IndentUnit: c.IndentUnit,
		NewLine:    c.NewLine,
		OutputMode: mode,
	}, nil
}
