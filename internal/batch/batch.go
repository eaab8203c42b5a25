// Package batch runs reconciliation and installation over a file or a directory.
//
// Files are processed one at a time with a single shared ledger, so a package
// installed for one file is not probed or installed again for the next.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sweeperrors "github.com/wexinc/depsweep/internal/errors"
	"github.com/wexinc/depsweep/internal/install"
	"github.com/wexinc/depsweep/internal/logging"
	"github.com/wexinc/depsweep/internal/reconcile"
	"github.com/wexinc/depsweep/internal/report"
)

// FinishedMessage is the message of the event that ends every run.
const FinishedMessage = "finished processing"

// FileResult is the outcome for one document.
type FileResult struct {
	Path string
	// Pending are the packages the reconciler found missing.
	Pending []string
	Install install.Result
	// Err is set when the document could not be read or the run was cancelled.
	Err error
}

// Failed reports whether the document itself could not be processed.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// Summary aggregates a run.
type Summary struct {
	report.Totals
	Results []FileResult
}

// Summarize aggregates results into a Summary.
func Summarize(results ...FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.add(r)
	}
	return s
}

func (s *Summary) add(r FileResult) {
	s.Results = append(s.Results, r)
	s.Totals.Files++
	if r.Failed() {
		s.Totals.FailedFiles++
	}
	s.Totals.Installed += len(r.Install.Installed())
	s.Totals.Skipped += len(r.Install.Skipped())
	s.Totals.Failed += len(r.Install.Failed())
}

// Options configures a Runner.
type Options struct {
	// Extensions selects directory entries by suffix (e.g. ".js", ".mjs").
	Extensions []string
	// Logger defaults to the global logger.
	Logger *logging.Logger
	// OnEvent receives file-level and run-level progress.
	OnEvent report.EventHandler
}

// Runner drives the Reconciler and Orchestrator.
type Runner struct {
	reconciler   *reconcile.Reconciler
	orchestrator *install.Orchestrator
	opts         Options
}

// New creates a Runner. The reconciler and orchestrator must share one ledger.
func New(r *reconcile.Reconciler, o *install.Orchestrator, opts Options) *Runner {
	return &Runner{
		reconciler:   r,
		orchestrator: o,
		opts:         opts,
	}
}

// RunFile processes a single document and reports completion.
func (r *Runner) RunFile(ctx context.Context, path string) FileResult {
	r.opts.OnEvent.Emit(report.Event{Type: report.EventRunStarted, File: path, Message: "processing " + path})
	res := r.processFile(ctx, path)
	r.finish()
	return res
}

// RunDir processes every matching regular file directly inside dir, in listing order.
// Only a failure to list dir is returned as an error; per-file failures are
// recorded in the Summary.
func (r *Runner) RunDir(ctx context.Context, dir string) (Summary, error) {
	var summary Summary

	r.opts.OnEvent.Emit(report.Event{Type: report.EventRunStarted, File: dir, Message: "processing " + dir})
	defer r.finish()

	files, err := r.ListFiles(dir)
	if err != nil {
		r.log().Error("failed to list directory", "dir", dir, "error", err)
		return summary, err
	}
	r.log().Info("scanning directory", "dir", dir, "files", len(files))

	for _, path := range files {
		if ctx.Err() != nil {
			r.log().Warn("run cancelled", "remaining", len(files)-summary.Totals.Files)
			break
		}
		summary.add(r.processFile(ctx, path))
	}
	return summary, nil
}

// ListFiles returns the paths of entries in dir whose names end in one of the
// configured extensions. Symlinks are followed; entries that resolve to a
// directory are skipped and subdirectories are not descended into. A dangling
// link is kept so that reading it is reported as a per-file failure.
func (r *Runner) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, sweeperrors.DirListFailed(dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !r.matches(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				continue
			}
		}
		files = append(files, path)
	}
	return files, nil
}

func (r *Runner) matches(name string) bool {
	for _, ext := range r.opts.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (r *Runner) processFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}
	log := r.log().WithContext(logging.WithFile(ctx, path))

	r.opts.OnEvent.Emit(report.Event{Type: report.EventFileStarted, File: path})

	doc, err := reconcile.NewDocument(path)
	if err != nil {
		return r.fail(res, err)
	}

	pending, err := r.reconciler.Reconcile(ctx, doc)
	if err != nil {
		return r.fail(res, err)
	}
	res.Pending = pending
	log.Info("reconciled document", "pending", len(pending))

	res.Install = r.orchestrator.Install(ctx, doc, pending)
	if err := ctx.Err(); err != nil {
		res.Err = err
	}
	return res
}

func (r *Runner) fail(res FileResult, err error) FileResult {
	res.Err = err
	r.log().Error("failed to process document", "file", res.Path, "error", err)
	r.opts.OnEvent.Emit(report.Event{Type: report.EventFileFailed, File: res.Path, Err: err})
	return res
}

func (r *Runner) finish() {
	r.log().Info(FinishedMessage)
	r.opts.OnEvent.Emit(report.Event{Type: report.EventRunFinished, Message: FinishedMessage})
}

func (r *Runner) log() *logging.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return logging.Global()
}
