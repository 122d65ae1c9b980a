package lsp

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

var dmp = diffmatchpatch.New()

// diffToSplices diffs oldContent against newContent and converts each
// resulting hunk into a (start, oldExtent, newExtent) triple suitable for
// markerindex.Index.Splice, applied left to right. Adjacent delete+insert
// pairs (diffmatchpatch's encoding of a replacement) collapse into a single
// splice rather than two.
func diffToSplices(oldContent, newContent string) []spliceOp {
	diffs := dmp.DiffMain(oldContent, newContent, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var ops []spliceOp

	pos := markerindex.ZeroPoint

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos = markerindex.Traverse(pos, extentOf(d.Text))
		case diffmatchpatch.DiffDelete:
			oldExtent := extentOf(d.Text)
			newExtent := markerindex.ZeroPoint

			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				newExtent = extentOf(diffs[i+1].Text)
				i++
			}

			ops = append(ops, spliceOp{start: pos, oldExtent: oldExtent, newExtent: newExtent})
			pos = markerindex.Traverse(pos, newExtent)
		case diffmatchpatch.DiffInsert:
			newExtent := extentOf(d.Text)

			ops = append(ops, spliceOp{start: pos, oldExtent: markerindex.ZeroPoint, newExtent: newExtent})
			pos = markerindex.Traverse(pos, newExtent)
		}
	}

	return ops
}
