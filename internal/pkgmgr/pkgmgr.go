// Package pkgmgr runs the package manager's "list installed" and "install" commands.
//
// Commands are shell templates executed with "sh -c" in the project directory.
// The ${PACKAGE} placeholder is replaced with the shell-quoted specifier, which is
// also exported to the child process as $PACKAGE. The exit code is the only signal:
// zero means installed (probe) or success (install).
package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/wexinc/depsweep/internal/config"
	sweeperrors "github.com/wexinc/depsweep/internal/errors"
	"github.com/wexinc/depsweep/internal/logging"
)

// waitDelay bounds how long output pipes are drained after the command is killed.
const waitDelay = 2 * time.Second

// Manager runs package manager commands.
type Manager struct {
	// ListCommand is the probe template (e.g. "npm ls ${PACKAGE}").
	ListCommand string
	// InstallCommand is the install template (e.g. "npm install ${PACKAGE}").
	InstallCommand string
	// Timeout bounds each command. Zero means no limit beyond ctx.
	Timeout time.Duration
	// Console receives install output, and probe output when ShowProbeOutput is set.
	Console io.Writer
	// ShowProbeOutput mirrors list command output to Console.
	ShowProbeOutput bool
	// Logger receives every line of command output. Defaults to the global logger.
	Logger *logging.Logger
}

// New creates a Manager from configuration.
func New(cfg config.PackageManagerConfig, console io.Writer, logger *logging.Logger) *Manager {
	return &Manager{
		ListCommand:     cfg.ListCommand,
		InstallCommand:  cfg.InstallCommand,
		Timeout:         cfg.Timeout,
		Console:         console,
		ShowProbeOutput: cfg.ShowProbeOutput,
		Logger:          logger,
	}
}

// CommandResult describes one finished command.
type CommandResult struct {
	// Command is the expanded command line.
	Command string
	// ExitCode is the process exit code, or -1 if it never ran to completion.
	ExitCode int
	// Output is the combined stdout and stderr.
	Output string
	// Duration is how long the command ran.
	Duration time.Duration
}

// Success reports whether the command exited with code 0.
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Probe reports whether spec is installed according to the list command.
// Every failure, including a cancelled context, means "not installed".
func (m *Manager) Probe(ctx context.Context, spec, dir string) bool {
	var console io.Writer
	if m.ShowProbeOutput {
		console = m.Console
	}

	result, err := m.run(ctx, m.ListCommand, spec, dir, console)
	if err == nil && result.Success() {
		m.log().Debug("package is installed", "package", spec, "duration", result.Duration)
		return true
	}

	probeErr := sweeperrors.ProbeFailed(spec, result.Command, result.ExitCode, err)
	m.log().Debug("package is not installed", "package", spec, "error", probeErr)
	return false
}

// Install runs the install command for spec in dir.
// It returns an install error carrying the command and exit code on failure.
func (m *Manager) Install(ctx context.Context, spec, dir string) error {
	result, err := m.run(ctx, m.InstallCommand, spec, dir, m.Console)
	if err == nil && result.Success() {
		m.log().Info("installed package", "package", spec, "duration", result.Duration)
		return nil
	}

	if err == nil {
		err = fmt.Errorf("exit status %d", result.ExitCode)
	}
	installErr := sweeperrors.InstallFailed(spec, result.Command, result.ExitCode, err)
	m.log().Warn("install failed", "package", spec, "exit_code", result.ExitCode, "error", err)
	return installErr
}

// run executes template for spec. A non-zero exit is reported through
// CommandResult.ExitCode with a nil error; err is set only when the process
// could not run to completion (start failure, timeout, cancellation).
func (m *Manager) run(ctx context.Context, template, spec, dir string, console io.Writer) (*CommandResult, error) {
	command := Expand(template, spec)
	result := &CommandResult{Command: command, ExitCode: -1}

	if strings.TrimSpace(template) == "" {
		return result, errors.New("package manager command is empty")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "PACKAGE="+spec)
	cmd.WaitDelay = waitDelay

	logOut := m.log().Writer(logging.LevelDebug, "package", spec, "stream", "stdout")
	logErr := m.log().Writer(logging.LevelDebug, "package", spec, "stream", "stderr")
	defer logOut.Flush()
	defer logErr.Flush()

	var output bytes.Buffer
	stdout := []io.Writer{&output, logOut}
	stderr := []io.Writer{&output, logErr}
	if console != nil {
		stdout = append(stdout, console)
		stderr = append(stderr, console)
	}
	cmd.Stdout = io.MultiWriter(stdout...)
	cmd.Stderr = io.MultiWriter(stderr...)

	m.log().Debug("running package manager command", "command", command, "dir", dir)

	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = output.String()

	if err == nil {
		result.ExitCode = 0
		return result, nil
	}

	// Context errors take precedence: a killed process also reports an ExitError.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return result, fmt.Errorf("command timed out after %s: %w", m.Timeout, ctxErr)
		}
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("failed to run %q: %w", command, err)
}

func (m *Manager) log() *logging.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return logging.Global()
}

// Expand substitutes the shell-quoted spec for every ${PACKAGE} in template.
func Expand(template, spec string) string {
	return strings.ReplaceAll(template, config.PackagePlaceholder, ShellQuote(spec))
}

// ShellQuote quotes s for safe use as a single word in a POSIX shell.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("@%+=:,./_-", r)
}
