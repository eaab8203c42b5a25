package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// useGlobal starts each test from a discarding global logger.
func useGlobal(t *testing.T) {
	t.Helper()
	_ = CloseGlobal()
	t.Cleanup(func() { _ = CloseGlobal() })
}

func TestGlobal_DiscardsBeforeInit(t *testing.T) {
	useGlobal(t)

	l := Global()
	if l == nil {
		t.Fatal("Global() returned nil")
	}
	if l.LogPath() != "" {
		t.Errorf("uninitialized global should not write a file, got %q", l.LogPath())
	}
	Info("dropped")
}

func TestInitGlobal_HelpersWriteRunLog(t *testing.T) {
	useGlobal(t)
	dir := t.TempDir()

	if err := InitGlobal(&Config{Level: LevelDebug, LogDir: dir}); err != nil {
		t.Fatalf("InitGlobal() error = %v", err)
	}
	path := Global().LogPath()

	Info("depsweep starting", "version", "dev")
	Debug("loaded ledger", "entries", 3)
	Warn("package manager mismatch", "lockfile", "pnpm")

	if err := CloseGlobal(); err != nil {
		t.Fatalf("CloseGlobal() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	for _, want := range []string{"version=dev", "entries=3", "lockfile=pnpm"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("run log missing %q:\n%s", want, data)
		}
	}
}

func TestInitGlobal_ReplacesPreviousLogger(t *testing.T) {
	useGlobal(t)
	first, second := t.TempDir(), t.TempDir()

	if err := InitGlobal(&Config{LogDir: first}); err != nil {
		t.Fatalf("first InitGlobal() error = %v", err)
	}
	if err := InitGlobal(&Config{LogDir: second}); err != nil {
		t.Fatalf("second InitGlobal() error = %v", err)
	}

	if dir := filepath.Dir(Global().LogPath()); dir != second {
		t.Errorf("global logs to %q, want %q", dir, second)
	}
}

func TestInitGlobal_FailureKeepsCurrentLogger(t *testing.T) {
	useGlobal(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	before := Global()
	if err := InitGlobal(&Config{LogDir: filepath.Join(blocker, "logs")}); err == nil {
		t.Fatal("InitGlobal() should fail for an unusable log directory")
	}
	if Global() != before {
		t.Error("a failed InitGlobal must not replace the global logger")
	}
}

func TestCloseGlobal_FallsBackToDiscard(t *testing.T) {
	useGlobal(t)

	if err := InitGlobal(&Config{LogDir: t.TempDir()}); err != nil {
		t.Fatalf("InitGlobal() error = %v", err)
	}
	if err := CloseGlobal(); err != nil {
		t.Fatalf("CloseGlobal() error = %v", err)
	}

	if Global().LogPath() != "" {
		t.Error("closed global should fall back to a discarding logger")
	}
	Warn("after close")

	if err := CloseGlobal(); err != nil {
		t.Errorf("closing twice should not error: %v", err)
	}
}
