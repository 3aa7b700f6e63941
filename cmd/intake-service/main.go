// Package main is the intake-service binary: the HTTP API plus operator
// commands for schemas, sheets, submissions and local review.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "intake-service"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Recruitment intake and review service",
		Long: `intake-service hosts the recruitment application form, stores submissions
in a tabular store, and serves the review dashboard and evaluator endpoints.

Settings are read from the environment (and an optional .env file).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		serveCmd(),
		schemaCmd(),
		sheetsCmd(),
		submitCmd(),
		reviewCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}
