// Package main provides the entry point for the markerindex CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/markerindex/cmd/markerindex/commands"
	"github.com/Sumatoshi-tech/markerindex/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "markerindex",
		Short: "Marker Index - a splay-tree-backed live range index for text buffers",
		Long: `markerindex maintains markers over a 2D (row, column) text buffer and
keeps them correctly positioned as the buffer is edited.

Commands:
  mcp       Start an MCP server exposing a live index over stdio
  replay    Replay the diff between two file revisions as a sequence of splices
  parse     Seed an index with one marker per top-level declaration in a Go file
  chart     Render a row-density chart from a dumped index
  snapshot  Persist or restore an index snapshot`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(commands.NewReplayCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewChartCommand())
	rootCmd.AddCommand(commands.NewSnapshotCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "markerindex %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
