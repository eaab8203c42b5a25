// Package ledger tracks which package specifiers are known to be installed.
//
// A ledger is either scoped to a single run (in memory only) or bound to a
// sidecar file that stores one specifier per line and survives across runs.
package ledger

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sweeperrors "github.com/wexinc/depsweep/internal/errors"
)

// Ledger is a set of installed specifiers.
type Ledger struct {
	path    string
	mu      sync.RWMutex
	entries map[string]struct{}
}

// New creates an empty run-scoped ledger that is never written to disk.
func New() *Ledger {
	return &Ledger{entries: make(map[string]struct{})}
}

// Open creates a ledger bound to the sidecar at path and loads it.
// Loading is best effort: the returned ledger is always usable, and a non-nil
// error only reports that an existing sidecar could not be read.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		entries: make(map[string]struct{}),
	}
	return l, l.Load()
}

// Path returns the sidecar path, or "" for a run-scoped ledger.
func (l *Ledger) Path() string {
	return l.path
}

// Persistent reports whether the ledger is bound to a sidecar file.
func (l *Ledger) Persistent() bool {
	return l.path != ""
}

// Load replaces the in-memory entries with the sidecar contents.
// A missing sidecar yields an empty ledger without error.
func (l *Ledger) Load() error {
	if !l.Persistent() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = make(map[string]struct{})

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return sweeperrors.ReadFailed(l.path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if spec := strings.TrimSpace(scanner.Text()); spec != "" {
			l.entries[spec] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		l.entries = make(map[string]struct{})
		return sweeperrors.ReadFailed(l.path, err)
	}
	return nil
}

// Has reports whether spec is recorded as installed.
func (l *Ledger) Has(spec string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[spec]
	return ok
}

// Add records spec in memory. It returns false if spec was already present.
func (l *Ledger) Add(spec string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[spec]; ok {
		return false
	}
	l.entries[spec] = struct{}{}
	return true
}

// Record adds spec and, for a persistent ledger, writes the sidecar immediately.
// The entry stays in memory even when the write fails.
func (l *Ledger) Record(spec string) error {
	if !l.Add(spec) || !l.Persistent() {
		return nil
	}
	return l.Save()
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns the recorded specifiers in sorted order.
func (l *Ledger) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	specs := make([]string, 0, len(l.entries))
	for spec := range l.entries {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	return specs
}

// Save overwrites the sidecar with every entry, one per line.
// Parent directories are created as needed. Saving a run-scoped ledger is a no-op.
func (l *Ledger) Save() error {
	if !l.Persistent() {
		return nil
	}

	var buf bytes.Buffer
	for _, spec := range l.Entries() {
		buf.WriteString(spec)
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return sweeperrors.LedgerSaveFailed(l.path, fmt.Errorf("failed to create directory: %w", err))
	}
	if err := writeFileAtomic(l.path, buf.Bytes(), 0644); err != nil {
		return sweeperrors.LedgerSaveFailed(l.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
