package version

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewInfo(t *testing.T) {
	info := NewInfo("1.0.0", "abc123", "2024-01-01")

	if info.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", info.Version, "1.0.0")
	}
	if info.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", info.Commit, "abc123")
	}
	if info.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", info.Date, "2024-01-01")
	}
	if info.GoVer == "" || info.OS == "" || info.Arch == "" {
		t.Errorf("runtime fields should be set: %+v", info)
	}
}

func TestInfoString(t *testing.T) {
	info := NewInfo("1.0.0", "abc123", "2024-01-01")

	if s := info.String(); s != "depsweep 1.0.0 (commit: abc123, built: 2024-01-01)" {
		t.Errorf("String() = %q, unexpected format", s)
	}
}

func TestInfoFullString(t *testing.T) {
	info := NewInfo("1.0.0", "abc123", "2024-01-01")
	s := info.FullString()

	for _, want := range []string{"depsweep 1.0.0", "Commit:   abc123", "OS/Arch:"} {
		if !strings.Contains(s, want) {
			t.Errorf("FullString() missing %q:\n%s", want, s)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.0", 1},
		{"2.0.0", "1.0.0", 1},
		{"10.0.0", "2.0.0", 1},
		{"1.10.0", "1.2.0", 1},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0-rc1", "1.0.0", 0},
		{"dev", "0.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := CompareVersions(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		version string
		want    [3]int
	}{
		{"1.2.3", [3]int{1, 2, 3}},
		{"1.0", [3]int{1, 0, 0}},
		{"1", [3]int{1, 0, 0}},
		{"1.2.3-rc1", [3]int{1, 2, 3}},
		{"invalid", [3]int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := parseVersion(tt.version); got != tt.want {
				t.Errorf("parseVersion(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestStamp_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	s := &Stamp{Version: "1.0.0", InitializedAt: time.Now()}
	if err := SaveStamp(tmpDir, s); err != nil {
		t.Fatalf("SaveStamp() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, StampFilePath)); err != nil {
		t.Fatalf("stamp file missing: %v", err)
	}

	loaded, err := LoadStamp(tmpDir)
	if err != nil {
		t.Fatalf("LoadStamp() error = %v", err)
	}
	if loaded.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", loaded.Version, "1.0.0")
	}
}

func TestLoadStamp_NotFound(t *testing.T) {
	if _, err := LoadStamp(t.TempDir()); err == nil {
		t.Error("LoadStamp() should error when file not found")
	}
}

func TestLoadStamp_Corrupt(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, StampFilePath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadStamp(tmpDir); err == nil {
		t.Error("LoadStamp() should fail on invalid JSON")
	}
}

func TestTouchStamp(t *testing.T) {
	tmpDir := t.TempDir()

	previous, err := TouchStamp(tmpDir, "1.0.0")
	if err != nil {
		t.Fatalf("TouchStamp() error = %v", err)
	}
	if previous != "" {
		t.Errorf("first touch previous = %q, want empty", previous)
	}

	first, err := LoadStamp(tmpDir)
	if err != nil {
		t.Fatalf("LoadStamp() error = %v", err)
	}
	if first.LastRunAt.IsZero() || first.InitializedAt.IsZero() {
		t.Errorf("timestamps should be set: %+v", first)
	}

	previous, err = TouchStamp(tmpDir, "2.0.0")
	if err != nil {
		t.Fatalf("TouchStamp() error = %v", err)
	}
	if previous != "1.0.0" {
		t.Errorf("previous = %q, want %q", previous, "1.0.0")
	}

	second, _ := LoadStamp(tmpDir)
	if second.Version != "2.0.0" {
		t.Errorf("Version = %q, want %q", second.Version, "2.0.0")
	}
	if !second.InitializedAt.Equal(first.InitializedAt) {
		t.Error("InitializedAt should be preserved across touches")
	}
}
