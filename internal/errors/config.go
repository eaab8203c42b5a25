// Package errors provides error types for depsweep.
// This file contains configuration and usage errors.
package errors

import (
	"fmt"
	"strings"
)

// MissingTarget creates the usage error for a run with neither --file nor --dir.
func MissingTarget() *SweepError {
	return &SweepError{
		Kind:    ErrUsage,
		Message: "no file or directory specified",
		Suggestion: `Tell depsweep what to scan:
  depsweep --file ./src/index.js
  depsweep --dir ./src

Add --confirm to be asked before each install.`,
	}
}

// ConflictingTargets creates the usage error for a run with both --file and --dir.
func ConflictingTargets(file, dir string) *SweepError {
	return &SweepError{
		Kind:    ErrUsage,
		Message: "--file and --dir are mutually exclusive",
		Details: map[string]string{
			"file": file,
			"dir":  dir,
		},
		Suggestion: "Pass exactly one of --file or --dir.",
	}
}

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *SweepError {
	return &SweepError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Quote commands that contain ':' or '#'
  3. Regenerate the defaults with: depsweep init --force`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *SweepError {
	suggestion := fmt.Sprintf("Fix the %q field in .depsweep/config.yaml", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &SweepError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}
