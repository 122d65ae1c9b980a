package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/markerindex/internal/replay"
	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

const (
	replayCmdUse   = "replay <old-file> <new-file>"
	replayArgCount = 2
)

// NewReplayCommand creates the replay subcommand: it diffs two file
// revisions, seeds an index with one marker per line of the old revision,
// replays the diff as a sequence of splices, and prints how each splice
// classified the markers it touched.
func NewReplayCommand() *cobra.Command {
	var nocolor bool

	cmd := &cobra.Command{
		Use:   replayCmdUse,
		Short: "Replay the diff between two file revisions as a sequence of splices",
		Args:  cobra.ExactArgs(replayArgCount),
		RunE: func(_ *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			return runReplay(args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored bucket output")

	return cmd
}

func runReplay(oldPath, newPath string) error {
	oldBytes, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", oldPath, err)
	}

	newBytes, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", newPath, err)
	}

	oldText := string(oldBytes)

	ix := markerindex.New()

	ids, err := replay.SeedLines(ix, oldText, 1)
	if err != nil {
		return fmt.Errorf("seed line markers: %w", err)
	}

	lineOf := make(map[markerindex.MarkerID]int, len(ids))
	for i, id := range ids {
		lineOf[id] = i + 1
	}

	edits := replay.Diff(oldText, string(newBytes))
	results := replay.Apply(ix, edits)

	for i, res := range results {
		fmt.Fprintf(os.Stdout, "splice %d: start=%s old=%s new=%s\n", i, edits[i].Start, edits[i].OldExtent, edits[i].NewExtent)
		printBucket(color.New(color.FgYellow), "  touching", res.Touching, lineOf)
		printBucket(color.New(color.FgRed), "  inside", res.Inside, lineOf)
		printBucket(color.New(color.FgMagenta), "  overlapping", res.Overlapping, lineOf)
		printBucket(color.New(color.FgBlue), "  surrounding", res.Surrounding, lineOf)
	}

	fmt.Fprintf(os.Stdout, "%d live markers after replay\n", len(ix.Dump()))

	return nil
}

func printBucket(c *color.Color, label string, ids markerindex.IDSet, lineOf map[markerindex.MarkerID]int) {
	if len(ids) == 0 {
		return
	}

	lines := make([]int, 0, len(ids))
	for id := range ids {
		lines = append(lines, lineOf[id])
	}

	c.Fprintf(os.Stdout, "%s: lines %v\n", label, lines)
}
