// Package cli wires the rule-bulk-actions commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rule-bulk-actions",
		Short: "Validate and run bulk actions on detection rules",
		Long: `rule-bulk-actions serves the detection rules bulk action API.

Requests are validated in full before anything reaches the rule engine, and
the per-rule outcomes are aggregated into a single response.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCmd(), newValidateCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
