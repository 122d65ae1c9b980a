package markerindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oracleMarker is the naive tracker's bookkeeping for one marker: a plain
// Range plus its exclusivity flag, recomputed with direct Point arithmetic
// on every Splice instead of the index's splay-tree relative encoding.
type oracleMarker struct {
	r         Range
	exclusive bool
}

// oracle is an O(n·markers) reimplementation of Index, kept independent of
// the splay tree entirely (a plain map, no nodes, no rotations) so that
// cross-checking against it exercises the tree's positioning and splaying
// rather than re-asserting the same transform code against itself.
type oracle struct {
	markers map[MarkerID]oracleMarker
}

func newOracle() *oracle {
	return &oracle{markers: make(map[MarkerID]oracleMarker)}
}

func (o *oracle) insert(id MarkerID, a, b Point) {
	if _, exists := o.markers[id]; exists {
		return
	}

	o.markers[id] = oracleMarker{r: NewRange(a, b)}
}

func (o *oracle) del(id MarkerID) {
	delete(o.markers, id)
}

func (o *oracle) setExclusive(id MarkerID, exclusive bool) {
	m, ok := o.markers[id]
	if !ok {
		return
	}

	m.exclusive = exclusive
	o.markers[id] = m
}

// splice applies the §4.4.1 transform to every tracked marker directly,
// using the same spliceAdjust/spliceClassify rules as Index.Splice but
// against a flat map instead of tree-relative positions.
func (o *oracle) splice(start, oldExtent, newExtent Point) SpliceResult {
	oldEnd := Traverse(start, oldExtent)
	newEnd := Traverse(start, newExtent)

	result := newSpliceResult()

	for id, m := range o.markers {
		touch, inside, overlap, surround := spliceClassify(m.r.Start, m.r.End, start, oldEnd)
		if touch || inside || overlap || surround {
			result.record(id, touch, inside, overlap, surround)
		}

		newS, newE := spliceAdjust(m.r.Start, m.r.End, start, oldEnd, newEnd, m.exclusive)
		m.r = Range{Start: newS, End: newE}
		o.markers[id] = m
	}

	return result
}

func (o *oracle) findIntersecting(s, e Point) IDSet {
	out := make(IDSet)

	for id, m := range o.markers {
		if m.r.Start.LessThanOrEqual(e) && s.LessThanOrEqual(m.r.End) {
			out[id] = struct{}{}
		}
	}

	return out
}

func (o *oracle) findContaining(s, e Point) IDSet {
	out := make(IDSet)

	for id, m := range o.markers {
		if m.r.Start.LessThanOrEqual(s) && e.LessThanOrEqual(m.r.End) {
			out[id] = struct{}{}
		}
	}

	return out
}

func (o *oracle) findContainedIn(s, e Point) IDSet {
	out := make(IDSet)

	for id, m := range o.markers {
		if s.LessThanOrEqual(m.r.Start) && m.r.End.LessThanOrEqual(e) {
			out[id] = struct{}{}
		}
	}

	return out
}

func (o *oracle) findStartingIn(s, e Point) IDSet {
	out := make(IDSet)

	for id, m := range o.markers {
		if s.LessThanOrEqual(m.r.Start) && m.r.Start.LessThanOrEqual(e) {
			out[id] = struct{}{}
		}
	}

	return out
}

func (o *oracle) findEndingIn(s, e Point) IDSet {
	out := make(IDSet)

	for id, m := range o.markers {
		if s.LessThanOrEqual(m.r.End) && m.r.End.LessThanOrEqual(e) {
			out[id] = struct{}{}
		}
	}

	return out
}

func (o *oracle) findStartingAt(p Point) IDSet {
	return o.findStartingIn(p, p)
}

func (o *oracle) findEndingAt(p Point) IDSet {
	return o.findEndingIn(p, p)
}

// randomPoint draws a coordinate from a small row/column range so that
// random ranges and splices frequently collide, landing on the interesting
// boundary and overlap cases rather than almost never intersecting.
func randomPoint(rng *rand.Rand) Point {
	return NewPoint(uint32(rng.Intn(3)), uint32(rng.Intn(20))) //nolint:gosec // test-only PRNG, not a security context
}

func randomOrderedPair(rng *rand.Rand) (Point, Point) {
	a, b := randomPoint(rng), randomPoint(rng)

	return MinPoint(a, b), MaxPoint(a, b)
}

// TestProperty_PositionReconstruction runs a long random sequence of
// Insert/Delete/SetExclusive/Splice against both the tree-backed Index and
// the flat oracle, asserting every live marker's range matches after each
// step (§8 property 1).
func TestProperty_PositionReconstruction(t *testing.T) {
	t.Parallel()

	ix := New()
	orc := newOracle()
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // deterministic test PRNG

	var nextID MarkerID

	for range 5000 {
		op := rng.Intn(100)

		switch {
		case op < 40:
			a, b := randomPoint(rng), randomPoint(rng)
			id := nextID
			nextID++

			require.NoError(t, ix.Insert(id, a, b))
			orc.insert(id, a, b)

		case op < 55 && len(orc.markers) > 0:
			id := randomExistingID(rng, orc)
			ix.Delete(id)
			orc.del(id)

		case op < 65 && len(orc.markers) > 0:
			id := randomExistingID(rng, orc)
			exclusive := rng.Intn(2) == 0

			ix.SetExclusive(id, exclusive)
			orc.setExclusive(id, exclusive)

		default:
			start, oldEnd := randomOrderedPair(rng)
			oldExtent := Traversal(start, oldEnd)
			newExtent := NewPoint(0, uint32(rng.Intn(6)))

			ix.Splice(start, oldExtent, newExtent)
			orc.splice(start, oldExtent, newExtent)
		}

		for id, m := range orc.markers {
			got, ok := ix.GetRange(id)
			require.True(t, ok, "marker %d missing from index", id)
			assert.Equalf(t, m.r, got, "marker %d diverged", id)
		}
	}
}

func randomExistingID(rng *rand.Rand, orc *oracle) MarkerID {
	idx := rng.Intn(len(orc.markers))

	for id := range orc.markers {
		if idx == 0 {
			return id
		}

		idx--
	}

	panic("unreachable")
}

// TestProperty_QuerySoundnessAndCompleteness builds a random state, then for
// many random query windows checks every §4.4.2 query against a linear scan
// of the oracle (§8 property 3).
func TestProperty_QuerySoundnessAndCompleteness(t *testing.T) {
	t.Parallel()

	ix := New()
	orc := newOracle()
	rng := rand.New(rand.NewSource(2)) //nolint:gosec // deterministic test PRNG

	for id := range MarkerID(200) {
		a, b := randomPoint(rng), randomPoint(rng)

		require.NoError(t, ix.Insert(id, a, b))
		orc.insert(id, a, b)
	}

	for range 200 {
		s, e := randomOrderedPair(rng)

		intersecting, err := ix.FindIntersecting(s, e)
		require.NoError(t, err)
		assert.ElementsMatch(t, orc.findIntersecting(s, e).Slice(), intersecting.Slice())

		containing, err := ix.FindContaining(s, e)
		require.NoError(t, err)
		assert.ElementsMatch(t, orc.findContaining(s, e).Slice(), containing.Slice())

		containedIn, err := ix.FindContainedIn(s, e)
		require.NoError(t, err)
		assert.ElementsMatch(t, orc.findContainedIn(s, e).Slice(), containedIn.Slice())

		startingIn, err := ix.FindStartingIn(s, e)
		require.NoError(t, err)
		assert.ElementsMatch(t, orc.findStartingIn(s, e).Slice(), startingIn.Slice())

		endingIn, err := ix.FindEndingIn(s, e)
		require.NoError(t, err)
		assert.ElementsMatch(t, orc.findEndingIn(s, e).Slice(), endingIn.Slice())

		p := randomPoint(rng)
		assert.ElementsMatch(t, orc.findStartingAt(p).Slice(), ix.FindStartingAt(p).Slice())
		assert.ElementsMatch(t, orc.findEndingAt(p).Slice(), ix.FindEndingAt(p).Slice())
	}
}

// TestProperty_RotationConservation checks that splaying triggered by
// read-only operations never loses or duplicates a marker: the multiset of
// (id, start, end) tuples from Dump() is unchanged across any number of
// rotations with no intervening mutation (§8 property 4).
func TestProperty_RotationConservation(t *testing.T) {
	t.Parallel()

	ix := New()
	rng := rand.New(rand.NewSource(3)) //nolint:gosec // deterministic test PRNG

	for id := range MarkerID(150) {
		a, b := randomPoint(rng), randomPoint(rng)
		require.NoError(t, ix.Insert(id, a, b))
	}

	before := ix.Dump()

	for range 2000 {
		switch rng.Intn(5) {
		case 0:
			id := MarkerID(rng.Intn(150))
			ix.GetRange(id)
		case 1:
			s, e := randomOrderedPair(rng)
			_, _ = ix.FindIntersecting(s, e)
		case 2:
			s, e := randomOrderedPair(rng)
			_, _ = ix.FindContaining(s, e)
		case 3:
			p := randomPoint(rng)
			ix.FindStartingAt(p)
		default:
			a, b := MarkerID(rng.Intn(150)), MarkerID(rng.Intn(150))
			ix.Compare(a, b)
		}
	}

	after := ix.Dump()

	assert.Equal(t, before, after)
}

// TestProperty_SpliceClassification checks SpliceResult's buckets against
// the §4.4.1 table, independently recomputed by spliceClassify against each
// marker's range immediately before a random Splice (§8 property 5).
func TestProperty_SpliceClassification(t *testing.T) {
	t.Parallel()

	ix := New()
	rng := rand.New(rand.NewSource(4)) //nolint:gosec // deterministic test PRNG

	for id := range MarkerID(80) {
		a, b := randomPoint(rng), randomPoint(rng)
		require.NoError(t, ix.Insert(id, a, b))

		if rng.Intn(2) == 0 {
			ix.SetExclusive(id, true)
		}
	}

	for range 300 {
		before := ix.Dump()

		start, oldEnd := randomOrderedPair(rng)
		oldExtent := Traversal(start, oldEnd)
		newExtent := NewPoint(0, uint32(rng.Intn(6)))

		result := ix.Splice(start, oldExtent, newExtent)

		for id, r := range before {
			touch, inside, overlap, surround := spliceClassify(r.Start, r.End, start, oldEnd)

			assert.Equalf(t, touch, result.Touching.Has(id), "marker %d touch", id)
			assert.Equalf(t, inside, result.Inside.Has(id), "marker %d inside", id)
			assert.Equalf(t, overlap, result.Overlapping.Has(id), "marker %d overlap", id)
			assert.Equalf(t, surround, result.Surrounding.Has(id), "marker %d surround", id)

			if inside || overlap || surround {
				assert.Truef(t, result.Touching.Has(id), "marker %d: touch must be a superset", id)
			}
		}
	}
}

// TestProperty_ExclusivityBoundary checks that a zero-width insertion at p
// leaves an inclusive marker's endpoint at p unmoved, and floats an
// exclusive marker's endpoint at p to p+new_extent, for both starts and
// ends (§8 property 6).
func TestProperty_ExclusivityBoundary(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5)) //nolint:gosec // deterministic test PRNG

	for range 200 {
		p := randomPoint(rng)
		newExtent := NewPoint(0, uint32(1+rng.Intn(5)))
		newEnd := Traverse(p, newExtent)

		ix := New()

		const (
			inclusiveEnd   = MarkerID(1)
			exclusiveEnd   = MarkerID(2)
			inclusiveStart = MarkerID(3)
			exclusiveStart = MarkerID(4)
		)

		before := MinPoint(p, NewPoint(0, 0)) // guaranteed <= p

		require.NoError(t, ix.Insert(inclusiveEnd, before, p))
		require.NoError(t, ix.Insert(exclusiveEnd, before, p))
		ix.SetExclusive(exclusiveEnd, true)

		after := Traverse(p, NewPoint(0, 1))

		require.NoError(t, ix.Insert(inclusiveStart, p, after))
		require.NoError(t, ix.Insert(exclusiveStart, p, after))
		ix.SetExclusive(exclusiveStart, true)

		ix.Splice(p, ZeroPoint, newExtent)

		inclEnd, _ := ix.GetRange(inclusiveEnd)
		assert.Equal(t, p, inclEnd.End, "inclusive end must stay at p")

		exclEnd, _ := ix.GetRange(exclusiveEnd)
		assert.Equal(t, newEnd, exclEnd.End, "exclusive end must float to p+new_extent")

		inclStart, _ := ix.GetRange(inclusiveStart)
		assert.Equal(t, p, inclStart.Start, "inclusive start must stay at p")

		exclStart, _ := ix.GetRange(exclusiveStart)
		assert.Equal(t, newEnd, exclStart.Start, "exclusive start must float to p+new_extent")
	}
}
