package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wexinc/depsweep/internal/config"
	sweeperrors "github.com/wexinc/depsweep/internal/errors"
	"github.com/wexinc/depsweep/internal/logging"
	"github.com/wexinc/depsweep/internal/version"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write .depsweep/config.yaml with the default settings.

The file configures the package manager commands, which files are
scanned, the ledger and the confirmation prompt. Every setting can also
be overridden with a DEPSWEEP_* environment variable.

Use --force to overwrite an existing configuration.

Examples:
  depsweep init                    # Create .depsweep/config.yaml
  depsweep init --force            # Overwrite it with defaults
  depsweep init --config ci.yaml   # Write to another path`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
}

// runInit is the main entry point for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return sweeperrors.WithSuggestion(sweeperrors.ErrConfig,
			"configuration already exists: "+path,
			"Use 'depsweep init --force' to overwrite it with the defaults.")
	}

	if err := config.Save(config.NewConfig(), path); err != nil {
		return sweeperrors.Wrap(err, sweeperrors.ErrConfig, "failed to write configuration")
	}
	if _, err := version.TouchStamp(".", Version); err != nil {
		logging.Debug("failed to write version stamp", "error", err)
	}

	cmd.Printf("Created %s\n", path)
	cmd.Println("")
	cmd.Println("Edit it to change the package manager commands, then run:")
	cmd.Println("  depsweep --dir <path>")
	return nil
}
