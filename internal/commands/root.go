// Package commands holds the momosplit CLI. Every command runs offline
// against the same split and balance code the API uses.
package commands

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X ...commands.Version=..."
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var currencyCode string

	rootCmd := &cobra.Command{
		Use:     "momosplit",
		Short:   "Split shared expenses and work out who pays whom",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&currencyCode, "currency", "GHS", "ISO 4217 currency code")

	rootCmd.AddCommand(newSplitCommand(&currencyCode))
	rootCmd.AddCommand(newBalancesCommand(&currencyCode))
	rootCmd.AddCommand(newFormatCommand(&currencyCode))
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
