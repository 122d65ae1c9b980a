package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
)

const (
	metricSpliceDuration          = "markerindex.splice.duration.seconds"
	metricQueryDuration           = "markerindex.query.duration.seconds"
	metricLiveNodeCount           = "markerindex.nodes.live"
	metricLiveMarkerCount         = "markerindex.markers.live"
	metricRotationsPerSplice      = "markerindex.splice.rotations"
)

// rotationBucketBoundaries covers splay-tree rotation counts from a single
// rebalance up to a few thousand, the range a pathological access pattern
// on a multi-million-marker index could plausibly hit.
var rotationBucketBoundaries = []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 4096}

// IndexMetrics holds the OTel instruments that characterize a live
// markerindex.Index's behavior: how long Splice and the Find* queries take,
// how large the tree and marker set currently are, and how much rebalancing
// work each Splice does.
type IndexMetrics struct {
	spliceDuration     metric.Float64Histogram
	queryDuration       metric.Float64Histogram
	rotationsPerSplice metric.Int64Histogram
	liveNodes          metric.Int64Gauge
	liveMarkers        metric.Int64Gauge
}

// NewIndexMetrics creates the marker-index instruments from the given meter.
func NewIndexMetrics(mt metric.Meter) (*IndexMetrics, error) {
	spliceDur, err := mt.Float64Histogram(metricSpliceDuration,
		metric.WithDescription("Splice call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSpliceDuration, err)
	}

	queryDur, err := mt.Float64Histogram(metricQueryDuration,
		metric.WithDescription("Find* query call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQueryDuration, err)
	}

	rotations, err := mt.Int64Histogram(metricRotationsPerSplice,
		metric.WithDescription("Splay-tree rotations performed by a single Splice call"),
		metric.WithUnit("{rotation}"),
		metric.WithExplicitBucketBoundaries(rotationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRotationsPerSplice, err)
	}

	nodes, err := mt.Int64Gauge(metricLiveNodeCount,
		metric.WithDescription("Current number of materialized splay-tree nodes"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLiveNodeCount, err)
	}

	markers, err := mt.Int64Gauge(metricLiveMarkerCount,
		metric.WithDescription("Current number of live markers"),
		metric.WithUnit("{marker}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLiveMarkerCount, err)
	}

	return &IndexMetrics{
		spliceDuration:     spliceDur,
		queryDuration:      queryDur,
		rotationsPerSplice: rotations,
		liveNodes:          nodes,
		liveMarkers:        markers,
	}, nil
}

// RecordSplice records one Splice call's duration and rotation count. Safe
// to call on a nil receiver (no-op), so callers can wire it in
// unconditionally even when metrics are disabled.
func (im *IndexMetrics) RecordSplice(ctx context.Context, duration time.Duration, rotations int64) {
	if im == nil {
		return
	}

	im.spliceDuration.Record(ctx, duration.Seconds())
	im.rotationsPerSplice.Record(ctx, rotations)
}

// RecordQuery records one Find* call's duration.
func (im *IndexMetrics) RecordQuery(ctx context.Context, duration time.Duration) {
	if im == nil {
		return
	}

	im.queryDuration.Record(ctx, duration.Seconds())
}

// SetLiveCounts updates the node-count and marker-count gauges. Callers
// typically invoke this right after a Splice/Insert/Delete, reading
// Index.NodeCount() and len(Index.Dump()).
func (im *IndexMetrics) SetLiveCounts(ctx context.Context, nodes, markers int64) {
	if im == nil {
		return
	}

	im.liveNodes.Record(ctx, nodes)
	im.liveMarkers.Record(ctx, markers)
}
