// Package cmd provides the CLI commands for depsweep.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	sweeperrors "github.com/wexinc/depsweep/internal/errors"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "depsweep",
	Short: "Install the npm packages your scripts import",
	Long: `depsweep scans JavaScript files for import, export-from and require
specifiers, skips the ones that point at local files, and installs every
external package the package manager does not already report.

Exactly one of --file or --dir selects what to scan. Packages installed
during a directory run are remembered in a ledger next to the scanned
files so later runs do not probe them again.

Examples:
  depsweep --file ./src/index.js
  depsweep --dir ./scripts --confirm
  depsweep --dir ./scripts --output json`,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file may carry DEPSWEEP_* overrides; it is optional.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .depsweep/config.yaml)")
	addRunFlags(rootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("depsweep {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}

// printError renders err with its details and suggestion when it carries them.
func printError(w io.Writer, err error) {
	if se, ok := sweeperrors.As(err); ok {
		fmt.Fprintln(w, se.Format())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
