// Package config provides configuration data structures for depsweep.
package config

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Config represents the complete depsweep configuration loaded from .depsweep/config.yaml.
type Config struct {
	PackageManager PackageManagerConfig `yaml:"package_manager" json:"package_manager" mapstructure:"package_manager"`
	Scan           ScanConfig           `yaml:"scan"            json:"scan"            mapstructure:"scan"`
	Ledger         LedgerConfig         `yaml:"ledger"          json:"ledger"          mapstructure:"ledger"`
	Prompt         PromptConfig         `yaml:"prompt"          json:"prompt"          mapstructure:"prompt"`
	Logging        LoggingConfig        `yaml:"logging"         json:"logging"         mapstructure:"logging"`
}

// PackageManagerConfig configures the external package manager commands.
// Commands run through "sh -c"; ${PACKAGE} is replaced by the shell-quoted specifier.
type PackageManagerConfig struct {
	// ListCommand reports whether a package is installed (exit 0 = installed).
	ListCommand string `yaml:"list_command" json:"list_command" mapstructure:"list_command"`
	// InstallCommand installs a single package (exit 0 = success).
	InstallCommand string `yaml:"install_command" json:"install_command" mapstructure:"install_command"`
	// Timeout bounds each command invocation (default: 10m).
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	// ShowProbeOutput mirrors list command output to the console (default: false).
	ShowProbeOutput bool `yaml:"show_probe_output" json:"show_probe_output" mapstructure:"show_probe_output"`
}

// ScanConfig configures which files are scanned and which specifiers are considered.
type ScanConfig struct {
	// Extensions are the file suffixes scanned in directory mode (default: .js, .mjs).
	Extensions []string `yaml:"extensions" json:"extensions" mapstructure:"extensions"`
	// SkipBuiltins drops Node core modules such as "fs" and "node:path" (default: false).
	SkipBuiltins bool `yaml:"skip_builtins" json:"skip_builtins" mapstructure:"skip_builtins"`
	// Ignore lists glob patterns of specifiers that are never installed.
	Ignore []string `yaml:"ignore" json:"ignore" mapstructure:"ignore"`
}

// LedgerConfig configures the install ledger.
type LedgerConfig struct {
	// File is the sidecar file name, created inside the scanned directory.
	File string `yaml:"file" json:"file" mapstructure:"file"`
	// Persist keeps the ledger across runs in directory mode (default: true).
	Persist bool `yaml:"persist" json:"persist" mapstructure:"persist"`
}

// PromptMode selects how confirmation questions are asked.
type PromptMode string

const (
	// PromptModeAuto uses the TUI when stdin is a terminal and plain lines otherwise.
	PromptModeAuto PromptMode = "auto"
	// PromptModeTUI always uses the interactive TUI prompt.
	PromptModeTUI PromptMode = "tui"
	// PromptModeLine reads one answer line from stdin.
	PromptModeLine PromptMode = "line"
)

// PromptConfig configures the confirmation prompt.
type PromptConfig struct {
	// Mode is the prompt implementation (default: auto).
	Mode PromptMode `yaml:"mode" json:"mode" mapstructure:"mode"`
}

// LogLevel is the minimum level written to the log file.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig configures the structured log file.
type LoggingConfig struct {
	// Level is the minimum log level (default: info; --verbose forces debug).
	Level LogLevel `yaml:"level" json:"level" mapstructure:"level"`
	// Dir is the log directory relative to the working directory.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
	// JSON switches the log file to JSON lines.
	JSON bool `yaml:"json" json:"json" mapstructure:"json"`
}

// Default values.
const (
	DefaultListCommand    = "npm ls ${PACKAGE}"
	DefaultInstallCommand = "npm install ${PACKAGE}"
	DefaultCommandTimeout = 10 * time.Minute
	DefaultLedgerFile     = ".depsweep-installed"
	DefaultLogDir         = ".depsweep/logs"
)

// DefaultExtensions are the classic-script and module-script suffixes.
var DefaultExtensions = []string{".js", ".mjs"}

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		PackageManager: PackageManagerConfig{
			ListCommand:     DefaultListCommand,
			InstallCommand:  DefaultInstallCommand,
			Timeout:         DefaultCommandTimeout,
			ShowProbeOutput: false,
		},
		Scan: ScanConfig{
			Extensions:   append([]string(nil), DefaultExtensions...),
			SkipBuiltins: false,
			Ignore:       []string{},
		},
		Ledger: LedgerConfig{
			File:    DefaultLedgerFile,
			Persist: true,
		},
		Prompt: PromptConfig{
			Mode: PromptModeAuto,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			Dir:   DefaultLogDir,
			JSON:  false,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
// This is used after loading config from file to fill in missing values.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if strings.TrimSpace(c.PackageManager.ListCommand) == "" {
		c.PackageManager.ListCommand = defaults.PackageManager.ListCommand
	}
	if strings.TrimSpace(c.PackageManager.InstallCommand) == "" {
		c.PackageManager.InstallCommand = defaults.PackageManager.InstallCommand
	}
	if c.PackageManager.Timeout == 0 {
		c.PackageManager.Timeout = defaults.PackageManager.Timeout
	}

	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = defaults.Scan.Extensions
	}
	if c.Scan.Ignore == nil {
		c.Scan.Ignore = []string{}
	}

	// Note: Persist defaults to true but an explicit false can't be told apart from
	// unset here. The loader handles this by decoding over NewConfig().
	if c.Ledger.File == "" {
		c.Ledger.File = defaults.Ledger.File
	}

	if c.Prompt.Mode == "" {
		c.Prompt.Mode = defaults.Prompt.Mode
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = defaults.Logging.Dir
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
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

	if c.PackageManager.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "package_manager.timeout", Message: "must be non-negative"})
	}
	if c.PackageManager.ListCommand != "" && !strings.Contains(c.PackageManager.ListCommand, PackagePlaceholder) {
		errs = append(errs, &ValidationError{
			Field:   "package_manager.list_command",
			Message: fmt.Sprintf("must contain %s", PackagePlaceholder),
		})
	}
	if c.PackageManager.InstallCommand != "" && !strings.Contains(c.PackageManager.InstallCommand, PackagePlaceholder) {
		errs = append(errs, &ValidationError{
			Field:   "package_manager.install_command",
			Message: fmt.Sprintf("must contain %s", PackagePlaceholder),
		})
	}

	for i, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("scan.extensions[%d]", i),
				Message: "must start with '.'",
			})
		}
	}
	for i, pattern := range c.Scan.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("scan.ignore[%d]", i),
				Message: "invalid glob pattern",
			})
		}
	}

	if c.Ledger.File != "" && strings.ContainsAny(c.Ledger.File, `/\`) {
		errs = append(errs, &ValidationError{Field: "ledger.file", Message: "must be a file name, not a path"})
	}

	if c.Prompt.Mode != "" {
		switch c.Prompt.Mode {
		case PromptModeAuto, PromptModeTUI, PromptModeLine:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "prompt.mode",
				Message: "must be 'auto', 'tui', or 'line'",
			})
		}
	}

	if c.Logging.Level != "" {
		switch c.Logging.Level {
		case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "logging.level",
				Message: "must be 'debug', 'info', 'warn', or 'error'",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PackagePlaceholder is substituted with the package specifier in command templates.
const PackagePlaceholder = "${PACKAGE}"
