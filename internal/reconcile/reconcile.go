// Package reconcile works out which packages a document needs installed.
//
// For every specifier extracted from the document, in order: filtered
// specifiers and local paths are dropped, specifiers already in the ledger are
// dropped without consulting the package manager, and the rest are probed.
// A positive probe is recorded in the ledger; a negative one makes the
// specifier part of the result.
package reconcile

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/wexinc/depsweep/internal/extract"
	"github.com/wexinc/depsweep/internal/ledger"
	"github.com/wexinc/depsweep/internal/locality"
	"github.com/wexinc/depsweep/internal/logging"
	"github.com/wexinc/depsweep/internal/project"
	"github.com/wexinc/depsweep/internal/report"
)

// Document is a source file being reconciled.
type Document struct {
	// Path is the absolute path of the file.
	Path string
	// Dir is the directory containing the file; local specifiers resolve against it.
	Dir string
	// ProjectDir is where package manager commands run.
	ProjectDir string
}

// NewDocument builds a Document for path, locating its project root.
func NewDocument(path string) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, err
	}
	dir := filepath.Dir(abs)

	doc := Document{Path: abs, Dir: dir, ProjectDir: dir}
	if root, err := project.FindRoot(dir); err == nil {
		doc.ProjectDir = root.Path
	}
	return doc, nil
}

// Prober answers whether a package is installed.
type Prober interface {
	Probe(ctx context.Context, spec, dir string) bool
}

// Options configures a Reconciler.
type Options struct {
	// Classifier decides locality. Defaults to the real filesystem.
	Classifier *locality.Classifier
	// Ignore lists path.Match patterns for specifiers that are never installed.
	Ignore []string
	// SkipBuiltins drops Node.js core modules.
	SkipBuiltins bool
	// Logger defaults to the global logger.
	Logger *logging.Logger
	// OnEvent receives warnings about suspicious specifiers.
	OnEvent report.EventHandler
}

// Reconciler compares a document's specifiers with the ledger and the package manager.
type Reconciler struct {
	ledger *ledger.Ledger
	probe  Prober
	opts   Options
}

// New creates a Reconciler sharing l with the rest of the run.
func New(l *ledger.Ledger, probe Prober, opts Options) *Reconciler {
	if opts.Classifier == nil {
		opts.Classifier = locality.NewClassifier()
	}
	return &Reconciler{
		ledger: l,
		probe:  probe,
		opts:   opts,
	}
}

// Reconcile returns the specifiers referenced by doc that still need installing,
// in first-seen order. A read failure is returned as-is; a cancelled context
// stops the pass and returns the context error.
func (r *Reconciler) Reconcile(ctx context.Context, doc Document) ([]string, error) {
	log := r.log().WithContext(logging.WithFile(ctx, doc.Path))

	specs, err := extract.ExtractFile(doc.Path)
	if err != nil {
		return nil, err
	}
	log.Debug("extracted specifiers", "count", len(specs))

	missing := make([]string, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if reason := r.filtered(spec); reason != "" {
			log.Debug("specifier filtered", "package", spec, "reason", reason)
			continue
		}

		if r.opts.Classifier.IsLocal(spec, doc.Dir) {
			log.Debug("specifier is local", "package", spec)
			continue
		}
		if locality.LooksRelative(spec) {
			msg := fmt.Sprintf("%s looks like a path but does not exist; treating it as a package", spec)
			log.Warn("relative specifier not found on disk", "package", spec)
			r.opts.OnEvent.Emit(report.Event{
				Type:    report.EventWarning,
				File:    doc.Path,
				Package: spec,
				Message: msg,
			})
		}

		if r.ledger.Has(spec) {
			log.Debug("specifier already in ledger", "package", spec)
			continue
		}

		if r.probe.Probe(ctx, spec, doc.ProjectDir) {
			if err := r.ledger.Record(spec); err != nil {
				log.Warn("failed to save ledger", "package", spec, "error", err)
			}
			continue
		}

		missing = append(missing, spec)
	}

	return missing, nil
}

// filtered returns why spec is excluded from installation, or "".
func (r *Reconciler) filtered(spec string) string {
	if r.opts.SkipBuiltins && IsBuiltin(spec) {
		return "builtin"
	}
	for _, pattern := range r.opts.Ignore {
		if ok, _ := path.Match(pattern, spec); ok {
			return "ignored by " + pattern
		}
	}
	return ""
}

func (r *Reconciler) log() *logging.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return logging.Global()
}
