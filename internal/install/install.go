// Package install asks for confirmation, installs packages and records them in the ledger.
package install

import (
	"context"

	"github.com/wexinc/depsweep/internal/ledger"
	"github.com/wexinc/depsweep/internal/logging"
	"github.com/wexinc/depsweep/internal/reconcile"
	"github.com/wexinc/depsweep/internal/report"
)

// Decision is the per-package outcome of an installation pass.
type Decision string

const (
	DecisionAlreadySatisfied Decision = "already_satisfied"
	DecisionNeedsInstall     Decision = "needs_install"
	DecisionSkippedByUser    Decision = "skipped_by_user"
	DecisionInstallFailed    Decision = "install_failed"
	DecisionInstallSucceeded Decision = "install_succeeded"
)

// Installer installs one package in a project directory.
type Installer interface {
	Install(ctx context.Context, spec, dir string) error
}

// Prompter asks the user whether to install a package.
type Prompter interface {
	Confirm(ctx context.Context, spec string) (bool, error)
}

// Outcome records what happened to one package.
type Outcome struct {
	Package  string
	Decision Decision
	Err      error
}

// Result is the outcome of installing one document's packages.
type Result struct {
	// NoOp is set when there was nothing to install.
	NoOp     bool
	Outcomes []Outcome
}

// Installed returns the packages that were installed.
func (r Result) Installed() []string {
	return r.packages(DecisionInstallSucceeded)
}

// Skipped returns the packages the user declined.
func (r Result) Skipped() []string {
	return r.packages(DecisionSkippedByUser)
}

// Failed returns the packages whose installation failed.
func (r Result) Failed() []string {
	return r.packages(DecisionInstallFailed)
}

func (r Result) packages(d Decision) []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Decision == d {
			out = append(out, o.Package)
		}
	}
	return out
}

// Options configures an Orchestrator.
type Options struct {
	// Confirm asks the Prompter before each install.
	Confirm bool
	// Prompter is required when Confirm is set.
	Prompter Prompter
	// Logger defaults to the global logger.
	Logger *logging.Logger
	// OnEvent receives per-package progress.
	OnEvent report.EventHandler
}

// Orchestrator installs the packages a Reconciler found missing.
type Orchestrator struct {
	ledger    *ledger.Ledger
	installer Installer
	opts      Options
}

// New creates an Orchestrator that records successes in l.
func New(l *ledger.Ledger, installer Installer, opts Options) *Orchestrator {
	return &Orchestrator{
		ledger:    l,
		installer: installer,
		opts:      opts,
	}
}

// Install processes specs in order. Failures are recorded per package and never
// stop the remaining packages, except that a cancelled context ends the pass.
func (o *Orchestrator) Install(ctx context.Context, doc reconcile.Document, specs []string) Result {
	if len(specs) == 0 {
		o.opts.OnEvent.Emit(report.Event{Type: report.EventNothingToInstall, File: doc.Path})
		return Result{NoOp: true}
	}

	o.opts.OnEvent.Emit(report.Event{
		Type:     report.EventPackagesPending,
		File:     doc.Path,
		Packages: append([]string(nil), specs...),
	})

	var result Result
	for _, spec := range specs {
		if ctx.Err() != nil {
			break
		}
		result.Outcomes = append(result.Outcomes, o.installOne(ctx, doc, spec))
	}
	return result
}

func (o *Orchestrator) installOne(ctx context.Context, doc reconcile.Document, spec string) Outcome {
	log := o.log().WithContext(logging.WithPackage(logging.WithFile(ctx, doc.Path), spec))

	if o.ledger.Has(spec) {
		log.Debug("package installed earlier in this run")
		return Outcome{Package: spec, Decision: DecisionAlreadySatisfied}
	}

	if o.opts.Confirm {
		ok, err := o.confirm(ctx, spec)
		if err != nil {
			log.Warn("confirmation failed", "error", err)
		}
		if !ok {
			o.opts.OnEvent.Emit(report.Event{Type: report.EventPackageSkipped, File: doc.Path, Package: spec})
			return Outcome{Package: spec, Decision: DecisionSkippedByUser, Err: err}
		}
	}

	o.opts.OnEvent.Emit(report.Event{Type: report.EventPackageInstalling, File: doc.Path, Package: spec})

	if err := o.installer.Install(ctx, spec, doc.ProjectDir); err != nil {
		o.opts.OnEvent.Emit(report.Event{Type: report.EventPackageFailed, File: doc.Path, Package: spec, Err: err})
		return Outcome{Package: spec, Decision: DecisionInstallFailed, Err: err}
	}

	if err := o.ledger.Record(spec); err != nil {
		log.Warn("failed to save ledger", "error", err)
	}
	o.opts.OnEvent.Emit(report.Event{Type: report.EventPackageInstalled, File: doc.Path, Package: spec})
	return Outcome{Package: spec, Decision: DecisionInstallSucceeded}
}

func (o *Orchestrator) confirm(ctx context.Context, spec string) (bool, error) {
	if o.opts.Prompter == nil {
		return false, nil
	}
	return o.opts.Prompter.Confirm(ctx, spec)
}

func (o *Orchestrator) log() *logging.Logger {
	if o.opts.Logger != nil {
		return o.opts.Logger
	}
	return logging.Global()
}
