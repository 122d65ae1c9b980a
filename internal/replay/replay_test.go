package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/markerindex/internal/replay"
	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

func TestDiff_SingleLineReplace(t *testing.T) {
	t.Parallel()

	edits := replay.Diff("hello world\n", "hello there\n")
	require.NotEmpty(t, edits)

	for _, e := range edits {
		assert.Equal(t, uint32(0), e.Start.Row)
	}
}

func TestDiff_InsertedLine(t *testing.T) {
	t.Parallel()

	oldText := "one\ntwo\nthree\n"
	newText := "one\ntwo\nTWO-AND-A-HALF\nthree\n"

	edits := replay.Diff(oldText, newText)
	require.NotEmpty(t, edits)

	found := false

	for _, e := range edits {
		if e.NewExtent.Row > 0 || e.NewExtent.Column > 0 {
			found = true
		}
	}

	assert.True(t, found, "expected at least one edit with a non-empty insertion")
}

func TestSeedLines_OneMarkerPerLine(t *testing.T) {
	t.Parallel()

	ix := markerindex.New()

	ids, err := replay.SeedLines(ix, "alpha\nbeta\ngamma\n", 1)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	r, ok := ix.GetRange(ids[1])
	require.True(t, ok)
	assert.Equal(t, uint32(1), r.Start.Row)
	assert.Equal(t, uint32(0), r.Start.Column)
}

func TestApply_ReplaysEditsAgainstSeededIndex(t *testing.T) {
	t.Parallel()

	oldText := "alpha\nbeta\ngamma\n"
	newText := "alpha\nBETA\ngamma\n"

	ix := markerindex.New()

	ids, err := replay.SeedLines(ix, oldText, 1)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	edits := replay.Diff(oldText, newText)
	require.NotEmpty(t, edits)

	results := replay.Apply(ix, edits)
	require.Len(t, results, len(edits))

	touched := false

	for _, res := range results {
		if len(res.Overlapping) > 0 || len(res.Inside) > 0 || len(res.Touching) > 0 || len(res.Surrounding) > 0 {
			touched = true
		}
	}

	assert.True(t, touched, "expected at least one splice to report a touched marker")
}
