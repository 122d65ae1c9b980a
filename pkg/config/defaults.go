package config

// Observability instrument name prefixes, shared between pkg/observability
// and the schema/validation layer so they can't drift apart.
const (
	MetricsNamespace = "markerindex"
	TracerName       = "github.com/Sumatoshi-tech/markerindex"
)

// Default guardrail values, mirrored in setDefaults and documented here for
// callers that construct a Config without going through LoadConfig.
const (
	DefaultMaxMarkers            = 0 // 0 = unlimited.
	DefaultWarnRotationsPerSplice = 64
	DefaultSnapshotCodec          = "json"
)
