// Package config provides configuration loading and management for depsweep.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file relative to the working directory.
	DefaultConfigPath = ".depsweep/config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "DEPSWEEP"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
// Every key is registered with its default so that DEPSWEEP_* variables
// apply even when no config file exists.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, NewConfig())

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("package_manager.list_command", cfg.PackageManager.ListCommand)
	v.SetDefault("package_manager.install_command", cfg.PackageManager.InstallCommand)
	v.SetDefault("package_manager.timeout", cfg.PackageManager.Timeout)
	v.SetDefault("package_manager.show_probe_output", cfg.PackageManager.ShowProbeOutput)

	v.SetDefault("scan.extensions", cfg.Scan.Extensions)
	v.SetDefault("scan.skip_builtins", cfg.Scan.SkipBuiltins)
	v.SetDefault("scan.ignore", cfg.Scan.Ignore)

	v.SetDefault("ledger.file", cfg.Ledger.File)
	v.SetDefault("ledger.persist", cfg.Ledger.Persist)

	v.SetDefault("prompt.mode", string(cfg.Prompt.Mode))

	v.SetDefault("logging.level", string(cfg.Logging.Level))
	v.SetDefault("logging.dir", cfg.Logging.Dir)
	v.SetDefault("logging.json", cfg.Logging.JSON)
}

// LoadConfig loads configuration from the specified path, applies defaults,
// merges environment variables, and validates the result.
// If path is empty, it uses DefaultConfigPath relative to the working directory.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{
			Path:    path,
			Message: "config file not found",
			Err:     err,
		}
	}

	l.v.SetConfigFile(path)

	if err := l.v.ReadInConfig(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to read config file",
			Err:     err,
		}
	}

	return l.decode(path)
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to defaults and
// environment overrides when the file does not exist.
func (l *Loader) LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return l.decode(path)
	}
	return l.LoadConfig(path)
}

func (l *Loader) decode(path string) (*Config, error) {
	// Start with defaults so explicit false values survive decoding.
	cfg := NewConfig()

	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// viperDecodeHook provides custom decoding for viper unmarshaling.
// It composes the standard mapstructure hooks with our custom ones.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(PromptMode("")):
			return PromptMode(strings.ToLower(data.(string))), nil
		case reflect.TypeOf(LogLevel("")):
			return LogLevel(strings.ToLower(data.(string))), nil
		}

		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
// If path is empty, it uses DefaultConfigPath.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

// LoadOrDefault is a convenience function for LoadConfigOrDefault.
func LoadOrDefault(path string) (*Config, error) {
	return NewLoader().LoadConfigOrDefault(path)
}

const configHeader = `# depsweep configuration
# Commands run through "sh -c"; ${PACKAGE} is replaced by the quoted package name.
`

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
