package lsp

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
	"github.com/Sumatoshi-tech/markerindex/pkg/safeconv"
	"github.com/Sumatoshi-tech/markerindex/pkg/textutil"
)

// maxLineLength is the column past which a line earns a "line too long"
// finding.
const maxLineLength = 120

// finding is a single diagnostic: the range it highlights and its message.
type finding struct {
	Range   markerindex.Range
	Message string
}

// scanDiagnostics runs a small, self-contained style scan over content and
// returns one finding per flagged span. Binary content is never scanned.
// This stands in for a real linter/compiler front end: what matters for
// this server is that every finding becomes one marker, re-mapped through
// Splice rather than recomputed, on every edit.
func scanDiagnostics(content string) []finding {
	if textutil.IsBinary([]byte(content)) {
		return nil
	}

	var out []finding

	lines := strings.Split(content, "\n")

	for row, line := range lines {
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			out = append(out, finding{
				Range: markerindex.NewRange(
					markerindex.NewPoint(safeconv.MustIntToUint32(row), safeconv.MustIntToUint32(len(trimmed))),
					markerindex.NewPoint(safeconv.MustIntToUint32(row), safeconv.MustIntToUint32(len(line))),
				),
				Message: "trailing whitespace",
			})
		}

		if len(line) > maxLineLength {
			out = append(out, finding{
				Range: markerindex.NewRange(
					markerindex.NewPoint(safeconv.MustIntToUint32(row), maxLineLength),
					markerindex.NewPoint(safeconv.MustIntToUint32(row), safeconv.MustIntToUint32(len(line))),
				),
				Message: fmt.Sprintf("line exceeds %d columns", maxLineLength),
			})
		}

		if col := strings.Index(line, "TODO"); col >= 0 {
			out = append(out, finding{
				Range: markerindex.NewRange(
					markerindex.NewPoint(safeconv.MustIntToUint32(row), safeconv.MustIntToUint32(col)),
					markerindex.NewPoint(safeconv.MustIntToUint32(row), safeconv.MustIntToUint32(col+len("TODO"))),
				),
				Message: "unresolved TODO",
			})
		}
	}

	return out
}
