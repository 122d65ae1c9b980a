// Package snapshot persists a markerindex.Index's Dump() output to disk and
// restores it, independent of the index's own (text-storage-free) scope.
// This is external snapshotting layered on top of the facade, the same
// boundary the teacher draws around its analyzer checkpoints: the core
// library itself never touches a filesystem.
package snapshot

// Metadata describes a saved snapshot, enough to tell whether it is safe to
// restore against a given buffer without the caller parsing the payload.
type Metadata struct {
	Version     int    `json:"version"`
	BufferID    string `json:"buffer_id"`
	BufferHash  string `json:"buffer_hash"`
	CreatedAt   string `json:"created_at"`
	MarkerCount int    `json:"marker_count"`
	CodecExt    string `json:"codec_ext"`
}
