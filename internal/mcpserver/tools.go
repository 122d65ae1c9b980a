// Package mcpserver exposes a markerindex.Index as Model Context Protocol
// tools over stdio, so an AI coding agent proposing a sequence of edits can
// maintain its own set of markers (edit anchors, review comments, proposed
// hunks) the same way an editor's diagnostics server would.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

// ErrUnknownMarker is returned by tools that require an id the session's
// index has never seen.
var ErrUnknownMarker = errors.New("unknown marker id")

// ToolOutput is the structured result every tool returns alongside its
// human-readable CallToolResult content.
type ToolOutput = map[string]any

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
	}, nil, nil
}

func jsonResult(out ToolOutput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: fmt.Sprintf("%v", out)}},
	}, out, nil
}

func pointOf(row, column uint32) markerindex.Point { return markerindex.NewPoint(row, column) }

func rangeOutput(r markerindex.Range) ToolOutput {
	return ToolOutput{
		"start": []uint32{r.Start.Row, r.Start.Column},
		"end":   []uint32{r.End.Row, r.End.Column},
	}
}

func idSetOutput(ids markerindex.IDSet) []uint64 {
	out := make([]uint64, 0, len(ids))
	for id := range ids {
		out = append(out, uint64(id))
	}

	return out
}

// InsertMarkerInput is the input for the insert_marker tool.
type InsertMarkerInput struct {
	ID          uint64 `json:"id"            jsonschema:"marker id to assign"`
	StartRow    uint32 `json:"start_row"`
	StartColumn uint32 `json:"start_column"`
	EndRow      uint32 `json:"end_row"`
	EndColumn   uint32 `json:"end_column"`
	Exclusive   bool   `json:"exclusive,omitempty" jsonschema:"whether the marker excludes its own boundary"`
}

func (s *Server) handleInsertMarker(
	_ context.Context, _ *mcpsdk.CallToolRequest, input InsertMarkerInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := markerindex.MarkerID(input.ID)

	err := s.index.Insert(id, pointOf(input.StartRow, input.StartColumn), pointOf(input.EndRow, input.EndColumn))
	if err != nil {
		return errorResult(fmt.Errorf("insert marker %d: %w", id, err))
	}

	if input.Exclusive {
		s.index.SetExclusive(id, true)
	}

	s.logger.Info("marker inserted", "marker.id", input.ID)

	return jsonResult(ToolOutput{"id": input.ID})
}

// SpliceInput is the input for the splice tool.
type SpliceInput struct {
	StartRow     uint32 `json:"start_row"`
	StartColumn  uint32 `json:"start_column"`
	OldExtentRow uint32 `json:"old_extent_row"`
	OldExtentCol uint32 `json:"old_extent_column"`
	NewExtentRow uint32 `json:"new_extent_row"`
	NewExtentCol uint32 `json:"new_extent_column"`
}

func (s *Server) handleSplice(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input SpliceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := pointOf(input.StartRow, input.StartColumn)
	oldExtent := pointOf(input.OldExtentRow, input.OldExtentCol)
	newExtent := pointOf(input.NewExtentRow, input.NewExtentCol)

	begin := time.Now()
	result := s.index.Splice(start, oldExtent, newExtent)
	// The index does not count rotations, so every splice records 0 rotations.
	s.metrics.RecordSplice(ctx, time.Since(begin), 0)
	s.metrics.SetLiveCounts(ctx, int64(s.index.NodeCount()), int64(len(s.index.Dump())))

	return jsonResult(ToolOutput{
		"touching":    idSetOutput(result.Touching),
		"inside":      idSetOutput(result.Inside),
		"overlapping": idSetOutput(result.Overlapping),
		"surrounding": idSetOutput(result.Surrounding),
	})
}

// DumpInput is the (empty) input for the dump tool.
type DumpInput struct{}

func (s *Server) handleDump(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ DumpInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(ToolOutput, s.index.NodeCount())
	for id, r := range s.index.Dump() {
		out[fmt.Sprintf("%d", id)] = rangeOutput(r)
	}

	return jsonResult(out)
}

// GetMarkerInput is the input for the get_marker tool.
type GetMarkerInput struct {
	ID uint64 `json:"id"`
}

func (s *Server) handleGetMarker(
	_ context.Context, _ *mcpsdk.CallToolRequest, input GetMarkerInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.index.GetRange(markerindex.MarkerID(input.ID))
	if !ok {
		return errorResult(fmt.Errorf("%w: %d", ErrUnknownMarker, input.ID))
	}

	return jsonResult(rangeOutput(r))
}

// QueryInput is the input shared by the spatial query tools.
type QueryInput struct {
	StartRow    uint32 `json:"start_row"`
	StartColumn uint32 `json:"start_column"`
	EndRow      uint32 `json:"end_row"`
	EndColumn   uint32 `json:"end_column"`
}

func (s *Server) querySpatial(
	ctx context.Context, input QueryInput, query func(a, b markerindex.Point) (markerindex.IDSet, error),
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	begin := time.Now()
	ids, err := query(pointOf(input.StartRow, input.StartColumn), pointOf(input.EndRow, input.EndColumn))
	s.metrics.RecordQuery(ctx, time.Since(begin))

	if err != nil {
		return errorResult(err)
	}

	return jsonResult(ToolOutput{"ids": idSetOutput(ids)})
}

func (s *Server) handleFindIntersecting(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input QueryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.querySpatial(ctx, input, s.index.FindIntersecting)
}

func (s *Server) handleFindContaining(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input QueryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.querySpatial(ctx, input, s.index.FindContaining)
}

func (s *Server) handleFindContainedIn(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input QueryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.querySpatial(ctx, input, s.index.FindContainedIn)
}
