// Package replay turns a text diff between two buffer revisions into the
// sequence of markerindex.Index.Splice calls that would carry a live index
// from the old revision to the new one, so a caller can watch how a set of
// markers (selections, review comments, breakpoints) moves across a real
// edit instead of a synthetic one.
package replay

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

// Edit is one buffer edit: replace the oldExtent-sized span starting at
// Start with a newExtent-sized span. It mirrors the positional arguments of
// markerindex.Index.Splice.
type Edit struct {
	Start     markerindex.Point
	OldExtent markerindex.Point
	NewExtent markerindex.Point
}

// extentOf returns the delta a caller would pass to markerindex.Traverse to
// move from the start of text to its end: rows are the newline count, and
// the column is either the length of text (no newline crossed) or the
// length of the text after the last newline (absolute, row-relative).
func extentOf(text string) markerindex.Point {
	rows := strings.Count(text, "\n")

	lastNL := strings.LastIndexByte(text, '\n')
	if lastNL == -1 {
		return markerindex.NewPoint(uint32(rows), uint32(len(text)))
	}

	return markerindex.NewPoint(uint32(rows), uint32(len(text)-lastNL-1))
}

// Diff computes the ordered list of edits that transform oldText into
// newText, using Myers diff with semantic cleanup.
func Diff(oldText, newText string) []Edit {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var (
		edits []Edit
		pos   = markerindex.ZeroPoint
	)

	i := 0
	for i < len(diffs) {
		d := diffs[i]

		if d.Type == diffmatchpatch.DiffEqual {
			pos = markerindex.Traverse(pos, extentOf(d.Text))
			i++

			continue
		}

		start := pos

		var oldExtent, newExtent markerindex.Point

		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				oldExtent = markerindex.Traverse(oldExtent, extentOf(diffs[i].Text))
			case diffmatchpatch.DiffInsert:
				newExtent = markerindex.Traverse(newExtent, extentOf(diffs[i].Text))
			case diffmatchpatch.DiffEqual:
				// unreachable: loop condition excludes DiffEqual
			}

			i++
		}

		edits = append(edits, Edit{Start: start, OldExtent: oldExtent, NewExtent: newExtent})
		pos = markerindex.Traverse(pos, newExtent)
	}

	return edits
}

// SeedLines inserts one marker per line of text into ix, numbered from
// firstID, covering each line including its trailing newline (or to the end
// of text for the final line). It returns the id assigned to each line,
// indexed from zero, so callers can classify Splice results by line number.
func SeedLines(ix *markerindex.Index, text string, firstID markerindex.MarkerID) ([]markerindex.MarkerID, error) {
	lines := strings.SplitAfter(text, "\n")

	ids := make([]markerindex.MarkerID, 0, len(lines))
	pos := markerindex.ZeroPoint
	nextID := firstID

	for _, line := range lines {
		if line == "" {
			continue
		}

		end := markerindex.Traverse(pos, extentOf(line))

		err := ix.Insert(nextID, pos, end)
		if err != nil {
			return nil, err
		}

		ids = append(ids, nextID)
		nextID++
		pos = end
	}

	return ids, nil
}

// Apply replays every edit against ix in order, returning the per-edit
// splice results so a caller can report which markers each edit touched.
func Apply(ix *markerindex.Index, edits []Edit) []markerindex.SpliceResult {
	results := make([]markerindex.SpliceResult, 0, len(edits))

	for _, e := range edits {
		results = append(results, ix.Splice(e.Start, e.OldExtent, e.NewExtent))
	}

	return results
}
