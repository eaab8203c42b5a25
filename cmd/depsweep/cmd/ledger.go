package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wexinc/depsweep/internal/ledger"
)

// ledgerCmd represents the ledger command.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List the packages recorded for a directory",
	Long: `List the packages recorded in a directory's ledger.

The ledger holds every package a directory run found installed or
installed itself. Those packages are neither probed nor installed again.
Delete the ledger file to start over.

Examples:
  depsweep ledger               # Ledger of the current directory
  depsweep ledger --dir ./src   # Ledger of ./src`,
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().String("dir", ".", "Directory whose ledger to list")
}

// runLedger prints one ledger entry per line.
func runLedger(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, cfg.Ledger.File)
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}

	if l.Len() == 0 {
		cmd.Printf("No packages recorded in %s\n", path)
		return nil
	}
	for _, spec := range l.Entries() {
		cmd.Println(spec)
	}
	return nil
}
