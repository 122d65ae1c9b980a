package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/markerindex/internal/syntaxmarkers"
	"github.com/Sumatoshi-tech/markerindex/pkg/chart"
	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

const (
	chartCmdUse      = "chart <go-file>"
	chartArgCount    = 1
	chartOutputFlag  = "output"
	chartOutputShort = "o"
)

// ErrNoChartOutput is returned when chart's --output flag is not set.
var ErrNoChartOutput = errors.New("output path is required (use --output)")

// NewChartCommand creates the chart subcommand: it parses a Go file's
// top-level declarations into a marker index and renders a row-density bar
// chart of the resulting Dump() as a standalone HTML page.
func NewChartCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   chartCmdUse,
		Short: "Render a row-density chart of a Go file's top-level declarations",
		Args:  cobra.ExactArgs(chartArgCount),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return ErrNoChartOutput
			}

			return runChart(cobraCmd, args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, chartOutputFlag, chartOutputShort, "", "output HTML file path")

	return cmd
}

func runChart(cobraCmd *cobra.Command, inputPath, outputPath string) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	decls, err := syntaxmarkers.Parse(cobraCmd.Context(), source)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	ix := markerindex.New()

	err = syntaxmarkers.Seed(ix, decls, 1)
	if err != nil {
		return fmt.Errorf("seed markers: %w", err)
	}

	page := chart.RowDensityPage(ix.Dump(), inputPath)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	err = page.WriteTo(out)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	fmt.Fprintf(os.Stdout, "wrote %s\n", outputPath)

	return nil
}
