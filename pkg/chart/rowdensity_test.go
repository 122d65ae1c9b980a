package chart_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/markerindex/pkg/chart"
	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

func TestRowDensity_CountsMarkersPerStartRow(t *testing.T) {
	t.Parallel()

	dump := map[markerindex.MarkerID]markerindex.Range{
		1: markerindex.NewRange(markerindex.NewPoint(0, 0), markerindex.NewPoint(0, 5)),
		2: markerindex.NewRange(markerindex.NewPoint(0, 6), markerindex.NewPoint(0, 9)),
		3: markerindex.NewRange(markerindex.NewPoint(2, 0), markerindex.NewPoint(3, 0)),
	}

	counts := chart.RowDensity(dump)
	require.Len(t, counts, 3)
	assert.Equal(t, []int{2, 0, 1}, counts)
}

func TestRowDensity_EmptyDump(t *testing.T) {
	t.Parallel()

	counts := chart.RowDensity(map[markerindex.MarkerID]markerindex.Range{})
	assert.Equal(t, []int{0}, counts)
}

func TestRowDensityPage_RendersHTML(t *testing.T) {
	t.Parallel()

	dump := map[markerindex.MarkerID]markerindex.Range{
		1: markerindex.NewRange(markerindex.NewPoint(0, 0), markerindex.NewPoint(0, 5)),
	}

	page := chart.RowDensityPage(dump, "test buffer")

	var buf bytes.Buffer

	err := page.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "test buffer")
	assert.Contains(t, buf.String(), "<html>")
}

func TestRowDensityPage_TruncatesVeryTallIndexes(t *testing.T) {
	t.Parallel()

	dump := map[markerindex.MarkerID]markerindex.Range{
		1: markerindex.NewRange(markerindex.NewPoint(0, 0), markerindex.NewPoint(0, 1)),
		2: markerindex.NewRange(markerindex.NewPoint(5000, 0), markerindex.NewPoint(5000, 1)),
	}

	page := chart.RowDensityPage(dump, "huge buffer")

	var buf bytes.Buffer

	err := page.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "truncated")
}
