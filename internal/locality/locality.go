// Package locality decides whether a module specifier names something on disk.
package locality

import (
	"io/fs"
	"os"
	"path/filepath"
)

// StatFunc reports file information for a path. os.Stat satisfies it.
type StatFunc func(name string) (fs.FileInfo, error)

// Classifier resolves specifiers against a base directory.
type Classifier struct {
	stat StatFunc
}

// NewClassifier creates a Classifier backed by the real filesystem.
func NewClassifier() *Classifier {
	return &Classifier{stat: os.Stat}
}

// NewClassifierWithStat creates a Classifier that uses stat instead of os.Stat.
func NewClassifierWithStat(stat StatFunc) *Classifier {
	if stat == nil {
		stat = os.Stat
	}
	return &Classifier{stat: stat}
}

// Resolve returns the filesystem path spec refers to when read relative to baseDir.
// Absolute specifiers are returned cleaned but otherwise unchanged.
func Resolve(spec, baseDir string) string {
	if filepath.IsAbs(spec) {
		return filepath.Clean(spec)
	}
	return filepath.Join(baseDir, spec)
}

// IsLocal reports whether spec resolves to an existing path under baseDir.
// Any stat failure, including permission errors, means the specifier is external.
func (c *Classifier) IsLocal(spec, baseDir string) bool {
	if spec == "" {
		return false
	}
	_, err := c.stat(Resolve(spec, baseDir))
	return err == nil
}

// IsLocal classifies spec using the real filesystem.
func IsLocal(spec, baseDir string) bool {
	return NewClassifier().IsLocal(spec, baseDir)
}

// LooksRelative reports whether spec is written as a path rather than a package name.
func LooksRelative(spec string) bool {
	return len(spec) > 0 && (spec[0] == '.' || spec[0] == '/')
}
