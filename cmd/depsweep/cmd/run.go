package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/depsweep/internal/batch"
	"github.com/wexinc/depsweep/internal/config"
	sweeperrors "github.com/wexinc/depsweep/internal/errors"
	"github.com/wexinc/depsweep/internal/install"
	"github.com/wexinc/depsweep/internal/ledger"
	"github.com/wexinc/depsweep/internal/logging"
	"github.com/wexinc/depsweep/internal/pkgmgr"
	"github.com/wexinc/depsweep/internal/project"
	"github.com/wexinc/depsweep/internal/reconcile"
	"github.com/wexinc/depsweep/internal/report"
	"github.com/wexinc/depsweep/internal/tui"
	"github.com/wexinc/depsweep/internal/version"
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "Scan a single JavaScript file")
	cmd.Flags().String("dir", "", "Scan every matching file directly inside a directory")
	cmd.Flags().Bool("confirm", false, "Ask before installing each package")
	cmd.Flags().Bool("persist", true, "Keep the directory ledger between runs (overrides ledger.persist)")
	cmd.Flags().String("output", "text", "Output format: text or json")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output and debug logging")
}

// runOptions are the parsed run flags.
type runOptions struct {
	File       string
	Dir        string
	Confirm    bool
	Persist    *bool
	Output     report.OutputFormat
	Verbose    bool
	ConfigPath string
}

func parseRunOptions(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	opts.File, _ = cmd.Flags().GetString("file")
	opts.Dir, _ = cmd.Flags().GetString("dir")
	opts.Confirm, _ = cmd.Flags().GetBool("confirm")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	opts.ConfigPath, _ = cmd.Flags().GetString("config")

	if cmd.Flags().Changed("persist") {
		persist, _ := cmd.Flags().GetBool("persist")
		opts.Persist = &persist
	}

	switch {
	case opts.File == "" && opts.Dir == "":
		return opts, sweeperrors.MissingTarget()
	case opts.File != "" && opts.Dir != "":
		return opts, sweeperrors.ConflictingTargets(opts.File, opts.Dir)
	}

	output, _ := cmd.Flags().GetString("output")
	switch report.OutputFormat(strings.ToLower(output)) {
	case report.OutputFormatText:
		opts.Output = report.OutputFormatText
	case report.OutputFormatJSON:
		opts.Output = report.OutputFormatJSON
	default:
		return opts, sweeperrors.WithSuggestion(sweeperrors.ErrUsage,
			fmt.Sprintf("unknown output format %q", output),
			"Use --output text or --output json.")
	}

	return opts, nil
}

// runRoot processes the file or directory named on the command line.
func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := parseRunOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Persist != nil {
		cfg.Ledger.Persist = *opts.Persist
	}

	initLogging(cmd, cfg, opts.Verbose)
	defer func() { _ = logging.CloseGlobal() }()
	logging.Info("depsweep starting", "version", Version, "file", opts.File, "dir", opts.Dir, "confirm", opts.Confirm)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	// Keep stdout parseable in JSON mode.
	console := out
	if opts.Output == report.OutputFormatJSON {
		console = cmd.ErrOrStderr()
	}

	printer := report.NewPrinter(out, opts.Output, opts.Verbose)
	onEvent := report.EventHandler(printer.HandleEvent)

	target := opts.Dir
	if target == "" {
		target = filepath.Dir(opts.File)
	}
	if root, err := project.FindRoot(target); err == nil {
		stampProject(root.Path, onEvent)
		checkPackageManager(root, cfg.PackageManager.InstallCommand, onEvent)
	}

	l := openLedger(opts, cfg, onEvent)
	pm := pkgmgr.New(cfg.PackageManager, console, logging.Global())

	var prompter install.Prompter
	if opts.Confirm {
		prompter = tui.NewPrompter(cfg.Prompt.Mode, cmd.InOrStdin(), console)
	}

	runner := batch.New(
		reconcile.New(l, pm, reconcile.Options{
			Ignore:       cfg.Scan.Ignore,
			SkipBuiltins: cfg.Scan.SkipBuiltins,
			OnEvent:      onEvent,
		}),
		install.New(l, pm, install.Options{
			Confirm:  opts.Confirm,
			Prompter: prompter,
			OnEvent:  onEvent,
		}),
		batch.Options{
			Extensions: cfg.Scan.Extensions,
			OnEvent:    onEvent,
		},
	)

	var summary batch.Summary
	if opts.File != "" {
		summary = batch.Summarize(runner.RunFile(ctx, opts.File))
	} else {
		summary, err = runner.RunDir(ctx, opts.Dir)
		if err != nil {
			return err
		}
	}

	printer.PrintSummary(summary.Totals)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	return nil
}

// loadConfig loads the configuration, falling back to defaults when the file is absent.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err == nil {
		return cfg, nil
	}

	if path == "" {
		path = config.DefaultConfigPath
	}
	var verrs config.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return nil, sweeperrors.ConfigValidationError(verrs[0].Field, verrs.Error(), nil).
			WithDetails("path", path)
	}
	return nil, sweeperrors.ConfigParseError(path, err)
}

// initLogging starts the global file logger. Failure only costs the log file.
func initLogging(cmd *cobra.Command, cfg *config.Config, verbose bool) {
	level := logging.ParseLevel(string(cfg.Logging.Level))
	if verbose {
		level = logging.LevelDebug
	}
	logConfig := &logging.Config{
		Level:       level,
		LogDir:      cfg.Logging.Dir,
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
		Console:     false,
		JSONFormat:  cfg.Logging.JSON,
	}
	if err := logging.InitGlobal(logConfig); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
	}
}

// openLedger returns the persisted directory ledger, or a run-scoped one.
func openLedger(opts runOptions, cfg *config.Config, onEvent report.EventHandler) *ledger.Ledger {
	if opts.Dir == "" || !cfg.Ledger.Persist {
		return ledger.New()
	}

	path := filepath.Join(opts.Dir, cfg.Ledger.File)
	l, err := ledger.Open(path)
	if err != nil {
		logging.Warn("failed to load ledger", "path", path, "error", err)
		onEvent.Emit(report.Event{
			Type:    report.EventWarning,
			Message: "starting with an empty ledger",
			Err:     err,
		})
	} else if l.Len() > 0 {
		logging.Debug("loaded ledger", "path", path, "entries", l.Len())
	}
	return l
}

// checkPackageManager warns when the project's lockfile belongs to a
// different package manager than the configured install command runs.
func checkPackageManager(info *project.Info, installCommand string, onEvent report.EventHandler) {
	if info.PackageManager == "" {
		return
	}

	fields := strings.Fields(installCommand)
	if len(fields) == 0 || filepath.Base(fields[0]) == info.PackageManager {
		return
	}

	msg := fmt.Sprintf("%s has a %s lockfile but the install command runs %s", info.Name, info.PackageManager, fields[0])
	logging.Warn("package manager mismatch", "project", info.Path, "lockfile", info.PackageManager, "command", fields[0])
	onEvent.Emit(report.Event{Type: report.EventWarning, Message: msg})
}

// stampProject records this version in <root>/.depsweep/version.json and
// warns when a newer depsweep ran there before. A root that does not exist
// is left alone.
func stampProject(root string, onEvent report.EventHandler) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return
	}

	previous, err := version.TouchStamp(root, Version)
	if err != nil {
		logging.Debug("failed to update version stamp", "root", root, "error", err)
		return
	}
	if previous == "" || Version == "dev" {
		return
	}
	if version.CompareVersions(previous, Version) > 0 {
		onEvent.Emit(report.Event{
			Type:    report.EventWarning,
			Message: fmt.Sprintf("this project was last processed by depsweep %s (running %s)", previous, Version),
		})
	}
}
