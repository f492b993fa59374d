package cli

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// NewRootCmd builds the operator CLI.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:               "pagseguroctl",
		Short:             "Operator tool for the PagSeguro checkout adapter",
		Long:              `Builds checkout payloads, translates gateway statuses and searches gateway transactions and follows payment status changes using the adapter configuration.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Version:           version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file")

	rootCmd.AddCommand(newPayloadCmd(&configPath))
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSearchCmd(&configPath))
	rootCmd.AddCommand(newWatchCmd(&configPath))

	return rootCmd
}
