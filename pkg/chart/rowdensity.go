package chart

import (
	"fmt"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
	"github.com/Sumatoshi-tech/markerindex/pkg/mathutil"
)

const (
	barColor = "#4CAF50"

	// maxDisplayedRows caps how many bars RowDensityPage draws; beyond this
	// a go-echarts bar chart's x-axis becomes unreadable regardless of the
	// page's data-zoom controls.
	maxDisplayedRows = 2000
)

// RowDensity counts how many live markers start on each row of a dumped
// index, from row 0 through the highest row any marker starts on.
func RowDensity(dump map[markerindex.MarkerID]markerindex.Range) []int {
	maxRow := uint32(0)

	for _, r := range dump {
		if r.Start.Row > maxRow {
			maxRow = r.Start.Row
		}
	}

	counts := make([]int, maxRow+1)
	for _, r := range dump {
		counts[r.Start.Row]++
	}

	return counts
}

// RowDensityPage renders a single-page bar chart of RowDensity(dump),
// one bar per row, labeled with its row number.
func RowDensityPage(dump map[markerindex.MarkerID]markerindex.Range, title string) *Page {
	fullCounts := RowDensity(dump)

	shown := mathutil.Min(len(fullCounts), maxDisplayedRows)
	counts := fullCounts[:shown]

	labels := make([]string, len(counts))
	for i := range counts {
		labels[i] = fmt.Sprintf("%d", i)
	}

	bar := NewBarChart(DefaultStyle()).
		XAxis(labels).
		YAxis("markers").
		Series("markers starting on row", counts, barColor).
		Build()

	description := fmt.Sprintf("%d live markers across %d rows", len(dump), shown)
	if shown < len(fullCounts) {
		description = fmt.Sprintf("%s (truncated from %d rows)", description, len(fullCounts))
	}

	page := NewPage(title, description)
	page.Add(Section{
		Title:    "Row density",
		Subtitle: "Number of markers whose start position falls on each row",
		Chart:    bar,
	})

	return page
}
