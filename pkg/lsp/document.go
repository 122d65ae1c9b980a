// Package lsp provides a minimal Language Server Protocol server that keeps
// one marker per open diagnostic per document, re-mapping them through
// markerindex.Index.Splice on every edit instead of recomputing diagnostics
// from scratch on every keystroke.
package lsp

import (
	"strings"
	"sync"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
	"github.com/Sumatoshi-tech/markerindex/pkg/safeconv"
)

// document holds one open buffer's content, its marker index, and the
// diagnostic message attached to each live marker.
type document struct {
	mu          sync.Mutex
	content     string
	index       *markerindex.Index
	diagnostics map[markerindex.MarkerID]string
	nextID      markerindex.MarkerID
}

func newDocument(content string) *document {
	doc := &document{
		content:     content,
		index:       markerindex.New(),
		diagnostics: make(map[markerindex.MarkerID]string),
	}

	doc.seedDiagnostics()

	return doc
}

// seedDiagnostics runs the style scan over the current content and inserts
// one inclusive marker per finding.
func (d *document) seedDiagnostics() {
	for _, f := range scanDiagnostics(d.content) {
		d.nextID++
		id := d.nextID

		if err := d.index.Insert(id, f.Range.Start, f.Range.End); err != nil {
			continue
		}

		d.index.SetExclusive(id, false) // Inclusive: per SPEC_FULL.md 10.2.1.
		d.diagnostics[id] = f.Message
	}
}

// applyEdit diffs old against new content, converts every diff hunk into a
// Splice call, drops markers that collapsed to zero width, and replaces
// d.content with new. Call live for the surviving (range, message) pairs.
func (d *document) applyEdit(newContent string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, op := range diffToSplices(d.content, newContent) {
		d.index.Splice(op.start, op.oldExtent, op.newExtent)
	}

	d.content = newContent

	for id := range d.diagnostics {
		r, ok := d.index.GetRange(id)
		if !ok || r.IsEmpty() {
			d.index.Delete(id)
			delete(d.diagnostics, id)
		}
	}
}

// live returns the current (range, message) pairs for every surviving
// diagnostic marker, in no particular order.
func (d *document) live() []finding {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]finding, 0, len(d.diagnostics))

	for id, msg := range d.diagnostics {
		r, ok := d.index.GetRange(id)
		if !ok {
			continue
		}

		out = append(out, finding{Range: r, Message: msg})
	}

	return out
}

// spliceOp is the (start, oldExtent, newExtent) triple SPEC_FULL.md 10.2.1
// calls for, one per diff hunk.
type spliceOp struct {
	start               markerindex.Point
	oldExtent, newExtent markerindex.Point
}

// extentOf computes the row/column extent of text in the same relative-delta
// encoding markerindex.Traverse expects: row count plus either an absolute
// trailing column (when the text spans at least one row) or a column delta.
func extentOf(text string) markerindex.Point {
	rows := safeconv.MustIntToUint32(strings.Count(text, "\n"))
	if rows == 0 {
		return markerindex.NewPoint(0, safeconv.MustIntToUint32(len(text)))
	}

	last := strings.LastIndexByte(text, '\n')

	return markerindex.NewPoint(rows, safeconv.MustIntToUint32(len(text)-last-1))
}

// documentStore is a thread-safe map of open documents keyed by URI.
type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]*document)}
}

func (s *documentStore) open(uri, content string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := newDocument(content)
	s.docs[uri] = doc

	return doc
}

func (s *documentStore) get(uri string) (*document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uri]

	return doc, ok
}

func (s *documentStore) close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, uri)
}
