// Package cli wires the refctl command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "refctl",
		Short:         "refctl keeps composite manifest references in sync with the workspace dependency graph",
		RunE:          runSync, // default action is sync
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "workspace configuration file (default refctl.toml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "surface soft-skip warnings")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(syncCmd)
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "refctl:", err)
		return err
	}
	return nil
}
