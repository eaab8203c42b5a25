package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/wexinc/depsweep/internal/config"
	sweeperrors "github.com/wexinc/depsweep/internal/errors"
	"github.com/wexinc/depsweep/internal/report"
	"github.com/wexinc/depsweep/internal/version"
)

// newTestRoot creates a fresh command hierarchy for testing.
// This is necessary because Cobra commands maintain state between runs.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "depsweep",
		Short:         "Install the npm packages your scripts import",
		Long:          "depsweep scans JavaScript files and installs missing packages.",
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = "test"
	root.SetVersionTemplate("depsweep {{.Version}}\n")
	root.PersistentFlags().String("config", "", "Path to config file")
	addRunFlags(root)

	initC := &cobra.Command{Use: "init", Short: "Write a default configuration file", RunE: runInit}
	initC.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
	root.AddCommand(initC)

	ledgerC := &cobra.Command{Use: "ledger", Short: "List the packages recorded for a directory", RunE: runLedger}
	ledgerC.Flags().String("dir", ".", "Directory whose ledger to list")
	root.AddCommand(ledgerC)

	versionC := &cobra.Command{Use: "version", Short: "Show version information", RunE: runVersion}
	versionC.Flags().Bool("json", false, "Print version information as JSON")
	root.AddCommand(versionC)

	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newTestRoot()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// setupProject creates a project in a temp dir and makes it the working directory.
// The package manager is simulated with a text file of installed names.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	files := map[string]string{
		"package.json":          "{}",
		"installed.txt":         "chalk\n",
		"scripts/app.js":        `import pad from "left-pad"; import chalk from "chalk"; import util from "./util.js";`,
		"scripts/util.js":       `module.exports = {};`,
		"scripts/notes.txt":     `require("ignored")`,
		".depsweep/config.yaml": "package_manager:\n  list_command: \"grep -qx ${PACKAGE} installed.txt\"\n  install_command: \"echo ${PACKAGE} >> installed.txt\"\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantOutput string
	}{
		{
			name:       "help flag",
			args:       []string{"--help"},
			wantOutput: "Available Commands:",
		},
		{
			name:       "version flag",
			args:       []string{"--version"},
			wantOutput: "depsweep test",
		},
		{
			name:    "no target",
			args:    []string{},
			wantErr: sweeperrors.ErrUsage,
		},
		{
			name:    "both targets",
			args:    []string{"--file", "a.js", "--dir", "."},
			wantErr: sweeperrors.ErrUsage,
		},
		{
			name:    "unknown output format",
			args:    []string{"--dir", ".", "--output", "xml"},
			wantErr: sweeperrors.ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Errorf("Output = %q, want to contain %q", out, tt.wantOutput)
			}
		})
	}
}

func TestRootRegistersSubcommandsAndFlags(t *testing.T) {
	root := Root()
	for _, name := range []string{"init", "ledger", "version"} {
		c, _, err := root.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered (err = %v)", name, err)
		}
	}
	for _, flag := range []string{"file", "dir", "confirm", "output", "persist"} {
		if root.Flags().Lookup(flag) == nil {
			t.Errorf("run flag --%s not registered", flag)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("persistent flag --config not registered")
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, _, err := execute(t, "unknown"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, sweeperrors.MissingTarget())
	if !strings.Contains(buf.String(), "Suggestion") || !strings.Contains(buf.String(), "--file") {
		t.Errorf("usage error should print its suggestion, got %q", buf.String())
	}

	buf.Reset()
	printError(&buf, errors.New("plain"))
	if buf.String() != "Error: plain\n" {
		t.Errorf("printError() = %q", buf.String())
	}
}

func TestRun_Directory(t *testing.T) {
	dir := setupProject(t)

	out, _, err := execute(t, "--dir", "scripts")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "left-pad") || !strings.Contains(out, "Summary") {
		t.Errorf("unexpected output:\n%s", out)
	}

	installed, _ := os.ReadFile(filepath.Join(dir, "installed.txt"))
	if string(installed) != "chalk\nleft-pad\n" {
		t.Errorf("installed.txt = %q", string(installed))
	}

	ledgerData, err := os.ReadFile(filepath.Join(dir, "scripts", config.DefaultLedgerFile))
	if err != nil {
		t.Fatalf("ledger not persisted: %v", err)
	}
	if string(ledgerData) != "chalk\nleft-pad\n" {
		t.Errorf("ledger = %q", string(ledgerData))
	}

	if _, err := version.LoadStamp(dir); err != nil {
		t.Errorf("version stamp not written: %v", err)
	}

	// The ledger command lists what the run recorded.
	out, _, err = execute(t, "ledger", "--dir", "scripts")
	if err != nil {
		t.Fatalf("ledger error = %v", err)
	}
	if out != "chalk\nleft-pad\n" {
		t.Errorf("ledger output = %q", out)
	}
}

func TestRun_StampsProjectRootNotWorkingDir(t *testing.T) {
	dir := setupProject(t)
	cfgPath := filepath.Join(dir, "present.yaml")
	cfgYAML := "package_manager:\n  list_command: \"test -n ${PACKAGE}\"\nlogging:\n  dir: " + filepath.Join(dir, "logs") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	elsewhere := t.TempDir()
	t.Chdir(elsewhere)

	if _, _, err := execute(t, "--dir", filepath.Join(dir, "scripts"), "--config", cfgPath); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := version.LoadStamp(dir); err != nil {
		t.Errorf("stamp missing at project root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(elsewhere, ".depsweep")); !os.IsNotExist(err) {
		t.Errorf("run wrote into the working directory, stat err = %v", err)
	}
}

func TestRun_NoPersist(t *testing.T) {
	dir := setupProject(t)

	if _, _, err := execute(t, "--dir", "scripts", "--persist=false"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scripts", config.DefaultLedgerFile)); !os.IsNotExist(err) {
		t.Errorf("ledger should not be written with --persist=false, stat err = %v", err)
	}
}

func TestRun_SingleFileJSON(t *testing.T) {
	dir := setupProject(t)

	out, _, err := execute(t, "--file", filepath.Join("scripts", "app.js"), "--output", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var types []report.EventType
	var summary struct {
		Type   string        `json:"type"`
		Totals report.Totals `json:"totals"`
	}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		var ev struct {
			Type report.EventType `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("stdout line is not JSON: %q", line)
		}
		types = append(types, ev.Type)
		if ev.Type == "summary" {
			_ = json.Unmarshal([]byte(line), &summary)
		}
	}

	if summary.Totals.Files != 1 || summary.Totals.Installed != 1 {
		t.Errorf("summary totals = %+v", summary.Totals)
	}
	if len(types) < 2 || types[len(types)-2] != report.EventRunFinished {
		t.Errorf("run finished event should precede the summary, got %v", types)
	}

	// Single-file runs never write a ledger.
	if _, err := os.Stat(filepath.Join(dir, "scripts", config.DefaultLedgerFile)); !os.IsNotExist(err) {
		t.Errorf("single-file run wrote a ledger, stat err = %v", err)
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	setupProject(t)

	_, _, err := execute(t, "--dir", "nope")
	if !errors.Is(err, sweeperrors.ErrRead) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := setupProject(t)
	cfgPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte("prompt:\n  mode: gui\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "--dir", "scripts", "--config", cfgPath)
	if !errors.Is(err, sweeperrors.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	se, _ := sweeperrors.As(err)
	if se.Details["field"] != "prompt.mode" {
		t.Errorf("field = %q, want prompt.mode", se.Details["field"])
	}
}

func TestRun_ConfirmDeclined(t *testing.T) {
	dir := setupProject(t)
	// Line prompts on a non-terminal stdin; an empty answer means no.
	t.Setenv("DEPSWEEP_PROMPT_MODE", "line")

	var out bytes.Buffer
	root := newTestRoot()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("\n"))
	root.SetArgs([]string{"--dir", "scripts", "--confirm"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	installed, _ := os.ReadFile(filepath.Join(dir, "installed.txt"))
	if string(installed) != "chalk\n" {
		t.Errorf("declined package was installed: %q", string(installed))
	}
	if !strings.Contains(out.String(), "Install left-pad?") {
		t.Errorf("expected a prompt, got:\n%s", out.String())
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "init")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, config.DefaultConfigPath) {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.Load(filepath.Join(dir, config.DefaultConfigPath))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.PackageManager.InstallCommand != config.DefaultInstallCommand {
		t.Errorf("install command = %q", cfg.PackageManager.InstallCommand)
	}

	if _, _, err := execute(t, "init"); !errors.Is(err, sweeperrors.ErrConfig) {
		t.Errorf("second init should refuse to overwrite, got %v", err)
	}
	if _, _, err := execute(t, "init", "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestLedgerCommand_Empty(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "ledger")
	if err != nil {
		t.Fatalf("ledger error = %v", err)
	}
	if !strings.HasPrefix(out, "No packages recorded") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "depsweep "+Version) {
		t.Errorf("output = %q", out)
	}

	out, _, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json error = %v", err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
}
