package markerindex

// SpliceResult reports every live marker whose range touched, was
// contained by, overlapped, or surrounded a Splice's edited region. Markers
// entirely before or after the edit (beyond simple position translation)
// are not reported; Splice still updates their stored positions.
//
// A marker can land in more than one set: per §4.4.1 every inside, overlap,
// and surround marker is also touch — Touching is the superset these three
// are drawn from, not a fourth disjoint bucket.
type SpliceResult struct {
	Touching    IDSet
	Inside      IDSet
	Overlapping IDSet
	Surrounding IDSet
}

func newSpliceResult() SpliceResult {
	return SpliceResult{
		Touching:    make(IDSet),
		Inside:      make(IDSet),
		Overlapping: make(IDSet),
		Surrounding: make(IDSet),
	}
}

func (r SpliceResult) record(id MarkerID, touch, inside, overlap, surround bool) {
	if touch || inside || overlap || surround {
		r.Touching[id] = struct{}{}
	}

	if inside {
		r.Inside[id] = struct{}{}
	}

	if overlap {
		r.Overlapping[id] = struct{}{}
	}

	if surround {
		r.Surrounding[id] = struct{}{}
	}
}

// Splice applies a buffer edit at start, replacing oldExtent of text with
// newExtent of text, per §4.4.1: it re-derives every live marker's range
// against the edited region, relocates every marker whose position changed,
// and classifies every marker whose range touched, was contained by,
// overlapped, or surrounded the edited region.
func (ix *Index) Splice(start, oldExtent, newExtent Point) SpliceResult {
	oldEnd := Traverse(start, oldExtent)
	newEnd := Traverse(start, newExtent)

	result := newSpliceResult()

	type relocation struct {
		id         MarkerID
		rec        *record
		newS, newE Point
	}

	var relocations []relocation

	for id, rec := range ix.markers {
		s := ix.tree.positionOf(rec.start)
		e := ix.tree.positionOf(rec.end)

		touch, inside, overlap, surround := spliceClassify(s, e, start, oldEnd)
		if touch || inside || overlap || surround {
			result.record(id, touch, inside, overlap, surround)
		}

		newS, newE := spliceAdjust(s, e, start, oldEnd, newEnd, rec.exclusive)
		if newS.Equal(s) && newE.Equal(e) {
			continue
		}

		relocations = append(relocations, relocation{id: id, rec: rec, newS: newS, newE: newE})
	}

	for _, reloc := range relocations {
		ix.unplace(reloc.id, reloc.rec)
		ix.markers[reloc.id] = ix.place(reloc.id, reloc.newS, reloc.newE)
	}

	return result
}

// spliceClassify reports a marker's range M = [s, e] membership against the
// edited region R = [spliceStart, oldEnd), per the §4.4.1 classification
// table. The four results are independent booleans, not a partition: a
// marker satisfying inside, overlap, or surround always also satisfies
// touch.
func spliceClassify(s, e, spliceStart, oldEnd Point) (touch, inside, overlap, surround bool) {
	intersects := s.LessThan(oldEnd) && e.GreaterThanOrEqual(spliceStart)
	boundary := s.Equal(spliceStart) || s.Equal(oldEnd) || e.Equal(spliceStart) || e.Equal(oldEnd)
	touch = intersects || boundary

	inside = spliceStart.LessThanOrEqual(s) && e.LessThanOrEqual(oldEnd)
	surround = s.LessThan(spliceStart) && oldEnd.LessThan(e)

	containsWindow := s.LessThanOrEqual(spliceStart) && oldEnd.LessThanOrEqual(e)
	overlap = intersects && !inside && !containsWindow

	return touch, inside, overlap, surround
}

// spliceAdjust computes the post-splice (start, end) for a single marker's
// range [s, e] against an edit that replaces [spliceStart, oldEnd) with text
// ending at newEnd, per §4.4.1 steps 3-4.
//
// A coordinate strictly before spliceStart or strictly after oldEnd never
// touched the edited region: it is left alone if before, or translated by
// the edit's net extent delta if after, regardless of exclusivity. A
// coordinate at or inside [spliceStart, oldEnd] collapses onto spliceStart
// or newEnd depending on exclusivity and on which side of the marker it is:
// an inclusive start sticks to spliceStart, absorbing whatever replaces the
// edited text, while an inclusive end floats forward to newEnd — but only
// when the marker's start lies outside the window to the left; when both
// endpoints fall inside the window the pair can no longer be told apart and
// the whole marker collapses to one point using the start's rule (§4.4.1
// step 3's "range vanished"). A coordinate lying exactly on spliceStart or
// oldEnd always takes the start's rule, whichever endpoint it is, so an
// inclusive end there lands on spliceStart and an exclusive one on newEnd.
func spliceAdjust(s, e, spliceStart, oldEnd, newEnd Point, exclusive bool) (newS, newE Point) {
	shift := func(p Point) Point {
		return Traverse(newEnd, Traversal(oldEnd, p))
	}

	collapseAsStart := func() Point {
		if exclusive {
			return newEnd
		}

		return spliceStart
	}

	collapseAsEnd := func() Point {
		if exclusive {
			return spliceStart
		}

		return newEnd
	}

	edgeCollapse := func(p Point) (Point, bool) {
		if p.Equal(spliceStart) || p.Equal(oldEnd) {
			return collapseAsStart(), true
		}

		return Point{}, false
	}

	switch {
	case s.LessThan(spliceStart):
		newS = s
	case s.GreaterThan(oldEnd):
		newS = shift(s)
	default:
		if v, ok := edgeCollapse(s); ok {
			newS = v
		} else {
			newS = collapseAsStart()
		}
	}

	switch {
	case e.LessThan(spliceStart):
		newE = e
	case e.GreaterThan(oldEnd):
		newE = shift(e)
	default:
		switch v, ok := edgeCollapse(e); {
		case ok:
			newE = v
		case s.LessThan(spliceStart):
			// s lies outside the window to the left: e alone collapses,
			// mirrored (bias reversed) relative to a lone start collapse.
			newE = collapseAsEnd()
		default:
			// Both endpoints fall inside the window: the whole marker
			// collapses to a single point, using the start's rule.
			newE = collapseAsStart()
		}
	}

	return newS, newE
}
