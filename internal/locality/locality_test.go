package locality

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestIsLocal(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "util.js"), []byte("export {}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(base, "lib", "nested"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	absFile := filepath.Join(base, "util.js")

	tests := []struct {
		name string
		spec string
		want bool
	}{
		{"existing relative file", "./util.js", true},
		{"existing relative directory", "./lib/nested", true},
		{"relative without dot prefix", "util.js", true},
		{"missing relative file", "./missing.js", false},
		{"absolute existing file", absFile, true},
		{"package name", "lodash", false},
		{"scoped package", "@scope/pkg", false},
		{"node builtin", "node:fs", false},
		{"empty specifier", "", false},
		{"parent escape that does not exist", "../../definitely-not-here.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLocal(tt.spec, base); got != tt.want {
				t.Errorf("IsLocal(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestIsLocal_BrokenSymlink(t *testing.T) {
	base := t.TempDir()
	link := filepath.Join(base, "dangling.js")
	if err := os.Symlink(filepath.Join(base, "nowhere.js"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if IsLocal("./dangling.js", base) {
		t.Error("a broken symlink should not be classified as local")
	}
}

func TestClassifier_StatFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", fs.ErrNotExist},
		{"permission denied", fs.ErrPermission},
		{"invalid name", fs.ErrInvalid},
		{"other", errors.New("io failure")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called string
			c := NewClassifierWithStat(func(name string) (fs.FileInfo, error) {
				called = name
				return nil, tt.err
			})

			if c.IsLocal("./x.js", "/base") {
				t.Error("stat failure must classify as external")
			}
			if called != filepath.Join("/base", "x.js") {
				t.Errorf("stat called with %q", called)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		spec, base, want string
	}{
		{"./a.js", "/src", "/src/a.js"},
		{"../a.js", "/src/lib", "/src/a.js"},
		{"/abs/a.js", "/src", "/abs/a.js"},
		{"/abs/../b.js", "/src", "/b.js"},
	}

	for _, tt := range tests {
		if got := Resolve(tt.spec, tt.base); got != filepath.FromSlash(tt.want) {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.spec, tt.base, got, tt.want)
		}
	}
}

func TestLooksRelative(t *testing.T) {
	tests := map[string]bool{
		"./a.js":  true,
		"../a.js": true,
		"/a.js":   true,
		"lodash":  false,
		"@s/p":    false,
		"":        false,
	}

	for spec, want := range tests {
		if got := LooksRelative(spec); got != want {
			t.Errorf("LooksRelative(%q) = %v, want %v", spec, got, want)
		}
	}
}
