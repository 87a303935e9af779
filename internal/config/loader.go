// Package config provides configuration loading and management for nps.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	npserrors "github.com/wexinc/nps/internal/errors"
)

const (
	// ConfigDirName is the directory under the user config dir holding config.yaml.
	ConfigDirName = "nps"

	// ConfigFileName is the config file name.
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "NPS"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// Set up viper
	v.SetConfigType("yaml")

	// Register every key so environment overrides apply even without a file.
	defaults := NewConfig()
	v.SetDefault("color", string(defaults.Color))
	v.SetDefault("modules_dir", defaults.ModulesDir)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("format", string(defaults.Format))
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.json", defaults.Log.JSON)

	// NPS_LOG_LEVEL overrides log.level
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// DefaultPath returns the per-user config file path, or "" if the user
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName)
}

// LoadConfig loads configuration from the specified path, applies defaults,
// merges environment variables, and validates the result.
// If path is empty, DefaultPath is used and a missing file is not an error.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	if path != "" {
		if err := l.readFile(path, optional); err != nil {
			return nil, err
		}
	}

	cfg := NewConfig()
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, npserrors.ConfigParseError(path, err)
	}

	cfg.ApplyDefaults()
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) readFile(path string, optional bool) error {
	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return npserrors.Wrap(err, npserrors.ErrConfig, "config file not found").
			WithDetails("path", path)
	}

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return npserrors.ConfigParseError(path, err)
	}
	return nil
}

// validationError converts validation failures into an *npserrors.Error.
// A single failure keeps its field and valid options as a suggestion.
func validationError(err error) error {
	var errs ValidationErrors
	if !errors.As(err, &errs) || len(errs) != 1 {
		return npserrors.Wrap(err, npserrors.ErrConfig, "invalid configuration")
	}
	first := errs[0]
	return npserrors.ConfigValidationError(first.Field, first.Error(), first.Options)
}

// viperDecodeHook provides custom decoding for viper unmarshaling.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = stringToCustomTypeHookFunc()
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(ColorMode("")):
			return ColorMode(strings.ToLower(data.(string))), nil
		case reflect.TypeOf(Format("")):
			return Format(strings.ToLower(data.(string))), nil
		}

		return data, nil
	}
}

// Load is a convenience function that creates a new Loader and loads configuration.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}
