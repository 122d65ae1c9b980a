package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
	"github.com/Sumatoshi-tech/markerindex/pkg/persist"
)

// MetadataVersion is the current snapshot metadata format version.
const MetadataVersion = 1

// ErrBufferMismatch is returned by Validate when a saved snapshot belongs to
// a different buffer than the one the caller is about to restore it into.
var ErrBufferMismatch = errors.New("snapshot buffer mismatch")

// DefaultDir returns the default snapshot directory (~/.markerindex/snapshots).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".markerindex", "snapshots")
}

// BufferHash computes a short, stable hash of a caller-supplied buffer
// identifier (a file path, a document URI) for use as a directory name.
func BufferHash(bufferID string) string {
	h := sha256.Sum256([]byte(bufferID))

	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars.
}

// Default retention values.
const (
	DefaultMaxAge  = 7 * 24 * time.Hour // 7 days.
	DefaultMaxSize = 1 << 30            // 1GB.
)

// Directory permissions for snapshots.
const dirPerm = 0o750

const markersBasename = "markers"

// Manager saves and restores one markerindex.Index's Dump() per buffer.
// It never touches the index's own (deliberately persistence-free) internals
// — Save reads Dump(), Load replays it through Insert.
type Manager struct {
	BaseDir    string
	BufferHash string
	MaxAge     time.Duration
	MaxSize    int64
}

// NewManager creates a new snapshot manager rooted at baseDir, scoped to the
// buffer identified by bufferHash (see BufferHash).
func NewManager(baseDir, bufferHash string) *Manager {
	return &Manager{
		BaseDir:    baseDir,
		BufferHash: bufferHash,
		MaxAge:     DefaultMaxAge,
		MaxSize:    DefaultMaxSize,
	}
}

// SnapshotDir returns the directory holding this buffer's snapshot.
func (m *Manager) SnapshotDir() string {
	return filepath.Join(m.BaseDir, m.BufferHash)
}

// MetadataPath returns the path to the metadata file.
func (m *Manager) MetadataPath() string {
	return filepath.Join(m.SnapshotDir(), "snapshot.json")
}

// Exists returns true if a snapshot exists for this buffer.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.MetadataPath())

	return err == nil
}

// Clear removes the snapshot for this buffer.
func (m *Manager) Clear() error {
	dir := m.SnapshotDir()

	_, statErr := os.Stat(dir)
	if os.IsNotExist(statErr) {
		return nil
	}

	err := os.RemoveAll(dir)
	if err != nil {
		return fmt.Errorf("remove snapshot dir: %w", err)
	}

	return nil
}

// Save dumps ix's live markers with codec and writes accompanying metadata.
func (m *Manager) Save(ix *markerindex.Index, codec persist.Codec, bufferID string) error {
	dir := m.SnapshotDir()

	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	dump := ix.Dump()

	err = persist.SaveState(dir, markersBasename, codec, dump)
	if err != nil {
		return fmt.Errorf("save markers: %w", err)
	}

	meta := Metadata{
		Version:     MetadataVersion,
		BufferID:    bufferID,
		BufferHash:  m.BufferHash,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		MarkerCount: len(dump),
		CodecExt:    codec.Extension(),
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	writeErr := os.WriteFile(m.MetadataPath(), metaData, 0o600)
	if writeErr != nil {
		return fmt.Errorf("write metadata: %w", writeErr)
	}

	return nil
}

// LoadMetadata loads the snapshot metadata.
func (m *Manager) LoadMetadata() (*Metadata, error) {
	data, err := os.ReadFile(m.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta Metadata

	unmarshalErr := json.Unmarshal(data, &meta)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", unmarshalErr)
	}

	return &meta, nil
}

// Load restores a fresh Index from the saved snapshot. Exclusivity flags are
// not part of Dump()'s output and so are not restored; every marker comes
// back with its default (inclusive) boundaries.
func (m *Manager) Load(codec persist.Codec) (*markerindex.Index, error) {
	dir := m.SnapshotDir()

	var dump map[markerindex.MarkerID]markerindex.Range

	err := persist.LoadState(dir, markersBasename, codec, &dump)
	if err != nil {
		return nil, fmt.Errorf("load markers: %w", err)
	}

	ix := markerindex.New()

	for id, r := range dump {
		if insertErr := ix.Insert(id, r.Start, r.End); insertErr != nil {
			return nil, fmt.Errorf("restore marker %d: %w", id, insertErr)
		}
	}

	return ix, nil
}

// Validate checks that a saved snapshot belongs to bufferID before Load
// replays it against a live buffer.
func (m *Manager) Validate(bufferID string) error {
	meta, err := m.LoadMetadata()
	if err != nil {
		return err
	}

	if meta.BufferID != bufferID {
		return fmt.Errorf("%w: snapshot has %q, got %q", ErrBufferMismatch, meta.BufferID, bufferID)
	}

	return nil
}
