package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reval",
		Short: "Pull-based reactive values for Go",
		Long: `Reval is a fine-grained reactive-value engine.

Signals are versioned value containers; derived values are lazy cached
projections that recompute only when their source's version moved. This
CLI ships a microbenchmark runner and a small demo server that streams
live derived values over WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reval %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
