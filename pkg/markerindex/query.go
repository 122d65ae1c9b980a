package markerindex

import "errors"

// ErrInvalidRange is returned by any query whose start position sorts after
// its end position.
var ErrInvalidRange = errors.New("markerindex: start position is after end position")

// rangeWalk visits every materialized node whose position lies in
// [lo, hi], in position order, pruning subtrees that cannot contain a
// position in range.
func (t *tree) rangeWalk(lo, hi Point, visit func(n *node, position Point)) {
	var walk func(n *node)

	walk = func(n *node) {
		if n == nil {
			return
		}

		position := t.positionOf(n)

		if position.GreaterThanOrEqual(lo) {
			walk(n.left)
		}

		if position.GreaterThanOrEqual(lo) && position.LessThanOrEqual(hi) {
			visit(n, position)
		}

		if position.LessThanOrEqual(hi) {
			walk(n.right)
		}
	}

	walk(t.root)
}

// coveringAt returns every marker id covering position p: ids starting or
// ending exactly at p, plus ids whose open interval straddles p. Splaying
// the greatest lower bound to the root resolves every pending blanket tag
// onto it (see tree.pushDownPathAbove), so its own fields afterward are the
// complete, exact answer for that node.
func (ix *Index) coveringAt(p Point) markerSet {
	glb := ix.tree.splayGreatestLowerBound(p, true)
	if glb == nil {
		return newMarkerSet()
	}

	position := ix.tree.positionOf(glb)

	covering := glb.startingMarkers.unionInto(glb.endingMarkers)
	covering.union(glb.blanket())

	if !position.Equal(p) {
		// p itself isn't materialized: glb is strictly before it, so a
		// marker that merely ends at glb does not extend into the gap.
		covering.subtract(glb.endingMarkers)
	}

	return covering
}

func (ix *Index) startingIn(lo, hi Point) markerSet {
	out := newMarkerSet()

	ix.tree.rangeWalk(lo, hi, func(n *node, _ Point) {
		out.union(n.startingMarkers)
	})

	return out
}

func (ix *Index) endingIn(lo, hi Point) markerSet {
	out := newMarkerSet()

	ix.tree.rangeWalk(lo, hi, func(n *node, _ Point) {
		out.union(n.endingMarkers)
	})

	return out
}

func validateRange(s, e Point) error {
	if s.GreaterThan(e) {
		return ErrInvalidRange
	}

	return nil
}

// FindIntersecting returns every marker that overlaps [s, e] at all: it
// starts or ends inside the range, or it covers the range's start or end
// without an endpoint inside it.
func (ix *Index) FindIntersecting(s, e Point) (IDSet, error) {
	if err := validateRange(s, e); err != nil {
		return nil, err
	}

	out := ix.coveringAt(s)
	out.union(ix.coveringAt(e))
	out.union(ix.startingIn(s, e))
	out.union(ix.endingIn(s, e))

	return out.toIDSet(), nil
}

// FindContaining returns every marker whose range fully contains [s, e]:
// it covers both endpoints of the query range.
func (ix *Index) FindContaining(s, e Point) (IDSet, error) {
	if err := validateRange(s, e); err != nil {
		return nil, err
	}

	return ix.coveringAt(s).intersect(ix.coveringAt(e)).toIDSet(), nil
}

// FindContainedIn returns every marker fully inside [s, e]: both its start
// and its end fall within the query range.
func (ix *Index) FindContainedIn(s, e Point) (IDSet, error) {
	if err := validateRange(s, e); err != nil {
		return nil, err
	}

	return ix.startingIn(s, e).intersect(ix.endingIn(s, e)).toIDSet(), nil
}

// FindStartingIn returns every marker whose start falls within [s, e].
func (ix *Index) FindStartingIn(s, e Point) (IDSet, error) {
	if err := validateRange(s, e); err != nil {
		return nil, err
	}

	return ix.startingIn(s, e).toIDSet(), nil
}

// FindEndingIn returns every marker whose end falls within [s, e].
func (ix *Index) FindEndingIn(s, e Point) (IDSet, error) {
	if err := validateRange(s, e); err != nil {
		return nil, err
	}

	return ix.endingIn(s, e).toIDSet(), nil
}

// FindStartingAt returns every marker whose start is exactly p.
func (ix *Index) FindStartingAt(p Point) IDSet {
	return ix.startingIn(p, p).toIDSet()
}

// FindEndingAt returns every marker whose end is exactly p.
func (ix *Index) FindEndingAt(p Point) IDSet {
	return ix.endingIn(p, p).toIDSet()
}
