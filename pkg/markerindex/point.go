// Package markerindex implements an in-memory index of labeled ranges
// ("markers") over a two-dimensional text buffer addressed by (row, column)
// positions. It tracks thousands of markers through arbitrary buffer edits
// ("splices") in sub-linear time, the core data structure behind editor
// selections, diagnostics highlights, snippet tab-stops, and collaborative
// cursors.
//
// The package depends only on the standard library: it owns no text, does
// no I/O, and is safe for use by a single goroutine at a time. Hosts that
// need persistence, network exposure, or concurrent access build that on
// top (see the sibling pkg/snapshot, pkg/lsp, and cmd/markerindex packages).
package markerindex

import "fmt"

// Point is a (row, column) buffer coordinate. Rows and columns are
// zero-based. The zero value is the start of the buffer.
type Point struct {
	Row    uint32
	Column uint32
}

// ZeroPoint is the origin of the buffer.
var ZeroPoint = Point{Row: 0, Column: 0}

// NewPoint constructs a Point from a row and column.
func NewPoint(row, column uint32) Point {
	return Point{Row: row, Column: column}
}

// String renders a Point as "(row,column)" for logs and debug dumps.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// Compare orders two points lexicographically by row then column, returning
// -1, 0, or 1.
func (p Point) Compare(other Point) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.Row == 0 && p.Column == 0
}

// LessThan reports whether p sorts strictly before other.
func (p Point) LessThan(other Point) bool { return p.Compare(other) < 0 }

// LessThanOrEqual reports whether p sorts at or before other.
func (p Point) LessThanOrEqual(other Point) bool { return p.Compare(other) <= 0 }

// GreaterThan reports whether p sorts strictly after other.
func (p Point) GreaterThan(other Point) bool { return p.Compare(other) > 0 }

// GreaterThanOrEqual reports whether p sorts at or after other.
func (p Point) GreaterThanOrEqual(other Point) bool { return p.Compare(other) >= 0 }

// Equal reports whether p and other are the same coordinate.
func (p Point) Equal(other Point) bool { return p.Row == other.Row && p.Column == other.Column }

// MinPoint returns the lexicographically smaller of a and b.
func MinPoint(a, b Point) Point {
	if a.LessThanOrEqual(b) {
		return a
	}

	return b
}

// MaxPoint returns the lexicographically larger of a and b.
func MaxPoint(a, b Point) Point {
	if a.GreaterThanOrEqual(b) {
		return a
	}

	return b
}

// Traverse computes the position reached by moving `delta` past `a`. Rows
// add directly; the column only carries across when delta crosses at least
// one row, in which case delta's column becomes absolute (measured from the
// start of the new row) rather than relative to a's column.
func Traverse(a, delta Point) Point {
	if delta.Row == 0 {
		return Point{Row: a.Row, Column: a.Column + delta.Column}
	}

	return Point{Row: a.Row + delta.Row, Column: delta.Column}
}

// Traversal computes the delta that Traverse(a, result) would need to reach
// b from a, i.e. the inverse of Traverse. It saturates at ZeroPoint when
// a >= b rather than underflowing the unsigned row/column fields.
func Traversal(a, b Point) Point {
	if b.LessThanOrEqual(a) {
		return ZeroPoint
	}

	if a.Row == b.Row {
		return Point{Row: 0, Column: b.Column - a.Column}
	}

	return Point{Row: b.Row - a.Row, Column: b.Column}
}

// Range is a pair of buffer coordinates with Start <= End. Queries treat
// both endpoints as part of the range; how an endpoint moves when an edit
// lands exactly on it is a property of the marker's exclusivity flag (see
// Index.SetExclusive).
type Range struct {
	Start Point
	End   Point
}

// NewRange builds a Range, ordering its endpoints so Start <= End.
func NewRange(start, end Point) Range {
	return Range{Start: MinPoint(start, end), End: MaxPoint(start, end)}
}

// IsEmpty reports whether the range has zero width (a point marker).
func (r Range) IsEmpty() bool { return r.Start.Equal(r.End) }

// String renders a Range as "[start,end]" for logs and debug dumps.
func (r Range) String() string {
	return fmt.Sprintf("[%s,%s]", r.Start, r.End)
}
