// Package errors provides error types for depsweep.
// This file contains read, probe, install and ledger errors.
package errors

import (
	"fmt"
)

// ReadFailed creates an error for a source document that could not be read.
func ReadFailed(path string, cause error) *SweepError {
	return &SweepError{
		Kind:    ErrRead,
		Message: fmt.Sprintf("failed to read %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Check that the file exists and that you have permission to read it.",
	}
}

// DirListFailed creates an error for a directory that could not be listed.
func DirListFailed(dir string, cause error) *SweepError {
	return &SweepError{
		Kind:    ErrRead,
		Message: fmt.Sprintf("failed to list directory %s", dir),
		Cause:   cause,
		Details: map[string]string{
			"directory": dir,
		},
		Suggestion: "Check that the directory exists and is readable.",
	}
}

// ProbeFailed creates an error for a "list installed" query that did not succeed.
// Callers treat it as "not installed"; it is only ever logged.
func ProbeFailed(pkg, command string, exitCode int, cause error) *SweepError {
	return &SweepError{
		Kind:    ErrProbe,
		Message: fmt.Sprintf("package %s is not reported as installed", pkg),
		Cause:   cause,
		Details: map[string]string{
			"package":   pkg,
			"command":   command,
			"exit_code": fmt.Sprintf("%d", exitCode),
		},
	}
}

// InstallFailed creates an error for a failed package installation.
func InstallFailed(pkg, command string, exitCode int, cause error) *SweepError {
	return &SweepError{
		Kind:    ErrInstall,
		Message: fmt.Sprintf("failed to install %s", pkg),
		Cause:   cause,
		Details: map[string]string{
			"package":   pkg,
			"command":   command,
			"exit_code": fmt.Sprintf("%d", exitCode),
		},
		Suggestion: `Run the install command by hand to see the full output.

Common causes:
  • The name is a typo or an unpublished package
  • No network access to the registry
  • The specifier is a relative path that does not exist on disk`,
	}
}

// LedgerSaveFailed creates an error for a ledger sidecar that could not be written.
func LedgerSaveFailed(path string, cause error) *SweepError {
	return &SweepError{
		Kind:    ErrLedger,
		Message: fmt.Sprintf("failed to save install ledger %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Installed packages will be probed again on the next run.",
	}
}

// PromptFailed creates an error for a confirmation prompt that could not be answered.
func PromptFailed(pkg string, cause error) *SweepError {
	return &SweepError{
		Kind:    ErrPrompt,
		Message: fmt.Sprintf("no answer for %s", pkg),
		Cause:   cause,
		Details: map[string]string{
			"package": pkg,
		},
	}
}
