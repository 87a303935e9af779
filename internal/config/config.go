// Package config provides configuration data structures for nps.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Config represents the nps configuration loaded from config.yaml
// and NPS_ environment variables.
type Config struct {
	// Color controls colorization of the script listing (default: auto).
	Color ColorMode `mapstructure:"color" yaml:"color" json:"color"`
	// ModulesDir is the installed-dependencies directory (default: node_modules).
	ModulesDir string `mapstructure:"modules_dir" yaml:"modules_dir" json:"modules_dir"`
	// Workers bounds concurrent dependency manifest reads (default: 8).
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
	// Format selects the output format (default: text).
	Format Format `mapstructure:"format" yaml:"format" json:"format"`
	// Log configures diagnostics.
	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is the minimum level written to stderr (default: warn).
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	// JSON switches diagnostics to JSON lines.
	JSON bool `mapstructure:"json" yaml:"json" json:"json"`
}

// ColorMode defines when listings are colorized.
type ColorMode string

const (
	// ColorAuto colorizes only when the destination is a terminal.
	// The dependency listing treats auto as always.
	ColorAuto ColorMode = "auto"
	// ColorAlways colorizes even when output is redirected.
	ColorAlways ColorMode = "always"
	// ColorNever disables colorization.
	ColorNever ColorMode = "never"
)

// Format defines the listing output format.
type Format string

const (
	// FormatText is the colored human-readable listing.
	FormatText Format = "text"
	// FormatJSON emits the listing as a JSON document.
	FormatJSON Format = "json"
	// FormatYAML emits the listing as a YAML document.
	FormatYAML Format = "yaml"
)

// Default values.
const (
	DefaultModulesDir = "node_modules"
	DefaultWorkers    = 8
	DefaultLogLevel   = "warn"
)

// ColorModes lists the accepted color modes.
var ColorModes = []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}

// Formats lists the accepted output formats.
var Formats = []string{string(FormatText), string(FormatJSON), string(FormatYAML)}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Color:      ColorAuto,
		ModulesDir: DefaultModulesDir,
		Workers:    DefaultWorkers,
		Format:     FormatText,
		Log: LogConfig{
			Level: DefaultLogLevel,
			JSON:  false,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Color == "" {
		c.Color = defaults.Color
	}
	if c.ModulesDir == "" {
		c.ModulesDir = defaults.ModulesDir
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
	Options []string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Color != "" && !slices.Contains(ColorModes, string(c.Color)) {
		errs = append(errs, oneOf("color", ColorModes))
	}
	if c.Format != "" && !slices.Contains(Formats, string(c.Format)) {
		errs = append(errs, oneOf("format", Formats))
	}
	if c.Log.Level != "" && !slices.Contains(LogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, oneOf("log.level", LogLevels))
	}
	if c.Workers < 0 {
		errs = append(errs, &ValidationError{Field: "workers", Message: "must be non-negative"})
	}
	if filepath.IsAbs(c.ModulesDir) {
		errs = append(errs, &ValidationError{Field: "modules_dir", Message: "must be relative to the project directory"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Check validates the configuration and converts failures into an
// *npserrors.Error carrying the valid options as a suggestion.
func (c *Config) Check() error {
	if err := c.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

func oneOf(field string, options []string) *ValidationError {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = fmt.Sprintf("'%s'", o)
	}
	return &ValidationError{
		Field:   field,
		Message: "must be one of " + strings.Join(quoted, ", "),
		Options: options,
	}
}
