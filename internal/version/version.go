// Package version reports build information and stamps projects with the
// depsweep version that last touched them.
package version

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Info contains version information about depsweep.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewInfo creates a new Info from the build variables.
func NewInfo(version, commit, date string) *Info {
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("depsweep %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string.
func (i *Info) FullString() string {
	return fmt.Sprintf(`depsweep %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
}

// CompareVersions compares two semantic version strings.
// Returns: 1 if a > b, -1 if a < b, 0 if equal.
func CompareVersions(a, b string) int {
	aParts := parseVersion(a)
	bParts := parseVersion(b)

	for i := 0; i < 3; i++ {
		if aParts[i] > bParts[i] {
			return 1
		}
		if aParts[i] < bParts[i] {
			return -1
		}
	}
	return 0
}

// parseVersion parses a version string into major, minor, patch integers.
func parseVersion(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	parts := strings.Split(v, ".")
	var result [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		// Drop pre-release suffixes such as "-rc1".
		part := strings.Split(parts[i], "-")[0]
		fmt.Sscanf(part, "%d", &result[i])
	}
	return result
}

// Stamp records which depsweep version initialized and last ran in a project.
type Stamp struct {
	Version       string    `json:"depsweep_version"`
	InitializedAt time.Time `json:"initialized_at"`
	LastRunAt     time.Time `json:"last_run_at,omitempty"`
}

// StampFilePath is the stamp location relative to the working directory.
const StampFilePath = ".depsweep/version.json"

// LoadStamp reads the stamp under baseDir.
func LoadStamp(baseDir string) (*Stamp, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, StampFilePath))
	if err != nil {
		return nil, err
	}

	var s Stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse version.json: %w", err)
	}
	return &s, nil
}

// SaveStamp writes s under baseDir, creating the .depsweep directory.
func SaveStamp(baseDir string, s *Stamp) error {
	path := filepath.Join(baseDir, StampFilePath)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal version.json: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// TouchStamp updates the last run time and version, creating the stamp if
// needed. It returns the version recorded before the update, or "" when
// there was no stamp.
func TouchStamp(baseDir, version string) (string, error) {
	previous := ""
	s, err := LoadStamp(baseDir)
	if err != nil {
		s = &Stamp{InitializedAt: time.Now()}
	} else {
		previous = s.Version
	}
	s.LastRunAt = time.Now()
	s.Version = version
	return previous, SaveStamp(baseDir, s)
}
