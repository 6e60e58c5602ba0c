package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gqlmock",
	Short: "gqlmock serves a mock GraphQL API from a schema",
	Long: `gqlmock turns a GraphQL SDL schema into a working API that answers any
valid query with plausible synthesized data.

Point it at a schema and it serves queries, mutations, and subscriptions
immediately. A configuration file can pin values for specific types and
fields, control list lengths, and make all synthesis deterministic with a
seed.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
