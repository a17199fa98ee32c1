// Package main provides the entry point for the importgroups CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importgroups/cmd/importgroups/commands"
	"github.com/Sumatoshi-tech/importgroups/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand returns the annotate command as the root, so a bare
// "importgroups" annotates the current directory.
func newRootCommand() *cobra.Command {
	rootCmd := commands.NewAnnotateCommand()
	rootCmd.Use = "importgroups [path]"
	rootCmd.Short = "Label TypeScript import groups with category headers"
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(commands.NewAnnotateCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "importgroups %s\n", version.String())
		},
	}
}
