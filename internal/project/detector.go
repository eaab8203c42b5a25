// Package project locates the Node.js project a source file belongs to.
package project

import (
	"os"
	"path/filepath"
)

// Info contains information about a detected project.
type Info struct {
	// Path is the absolute path to the project directory.
	Path string `json:"path"`
	// Name is the project name (the directory name).
	Name string `json:"name"`
	// PackageManager is the manager implied by the lockfile found, if any.
	PackageManager string `json:"package_manager,omitempty"`
	// Markers are the project markers found (package.json, lockfiles, node_modules).
	Markers []string `json:"markers,omitempty"`
}

// Marker represents a file or directory that indicates a Node.js project.
type Marker struct {
	// Name is the file or directory name to look for.
	Name string
	// IsDir indicates whether this is a directory marker.
	IsDir bool
	// PackageManager is the package manager this marker implies.
	PackageManager string
}

// ManifestFile is the marker that defines a project root.
const ManifestFile = "package.json"

// DefaultMarkers are checked in order; the first lockfile found decides the package manager.
var DefaultMarkers = []Marker{
	{Name: ManifestFile},
	{Name: "package-lock.json", PackageManager: "npm"},
	{Name: "npm-shrinkwrap.json", PackageManager: "npm"},
	{Name: "pnpm-lock.yaml", PackageManager: "pnpm"},
	{Name: "yarn.lock", PackageManager: "yarn"},
	{Name: "bun.lockb", PackageManager: "bun"},
	{Name: "node_modules", IsDir: true},
}

// Detector detects project directories.
type Detector struct {
	// Markers are the project markers to check.
	Markers []Marker
}

// NewDetector creates a new Detector with default markers.
func NewDetector() *Detector {
	return &Detector{
		Markers: DefaultMarkers,
	}
}

// Detect reports the markers present in dir.
// Returns nil if dir contains none of them.
func (d *Detector) Detect(dir string) (*Info, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, os.ErrNotExist
	}

	info := &Info{
		Path:    absPath,
		Name:    filepath.Base(absPath),
		Markers: []string{},
	}

	for _, marker := range d.Markers {
		if !hasMarker(absPath, marker) {
			continue
		}
		info.Markers = append(info.Markers, marker.Name)
		if marker.PackageManager != "" && info.PackageManager == "" {
			info.PackageManager = marker.PackageManager
		}
	}

	if len(info.Markers) == 0 {
		return nil, nil
	}
	return info, nil
}

// FindRoot walks up from start to the nearest directory holding package.json.
// When there is none, the absolute start directory is returned with no markers,
// so package manager commands still run next to the scanned files.
func (d *Detector) FindRoot(start string) (*Info, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}

	for dir := absStart; ; {
		if hasMarker(dir, Marker{Name: ManifestFile}) {
			return d.Detect(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return &Info{
		Path:    absStart,
		Name:    filepath.Base(absStart),
		Markers: []string{},
	}, nil
}

// FindRoot uses the default detector to locate the project root for start.
func FindRoot(start string) (*Info, error) {
	return NewDetector().FindRoot(start)
}

// HasManifest reports whether the project has a package.json.
func (i *Info) HasManifest() bool {
	for _, m := range i.Markers {
		if m == ManifestFile {
			return true
		}
	}
	return false
}

func hasMarker(dir string, marker Marker) bool {
	fi, err := os.Stat(filepath.Join(dir, marker.Name))
	if err != nil {
		return false
	}
	return fi.IsDir() == marker.IsDir
}
