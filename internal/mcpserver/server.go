package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
	"github.com/Sumatoshi-tech/markerindex/pkg/observability"
)

const (
	serverName    = "markerindex"
	serverVersion = "v1"
)

// ServerDeps are the observability providers the MCP server records
// against, wired by the cmd/markerindex mcp subcommand.
type ServerDeps struct {
	Logger  *slog.Logger
	Metrics *observability.IndexMetrics
	Tracer  trace.Tracer
}

// Server exposes a single session-scoped markerindex.Index as MCP tools.
// One Server instance serves one stdio session; the index it wraps lives
// only as long as that process, matching pkg/snapshot's "external, optional
// persistence" boundary rather than the core's own.
type Server struct {
	mu      sync.RWMutex
	index   *markerindex.Index
	logger  *slog.Logger
	metrics *observability.IndexMetrics
	tracer  trace.Tracer
	mcp     *mcpsdk.Server
}

// NewServer builds an MCP server backed by a fresh, empty index.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		index:   markerindex.New(),
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	impl := &mcpsdk.Implementation{Name: serverName, Version: serverVersion}
	s.mcp = mcpsdk.NewServer(impl, nil)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "insert_marker",
		Description: "Insert a new marker covering [start, end] at the given id.",
	}, s.handleInsertMarker)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "splice",
		Description: "Apply a buffer edit, remapping every live marker and classifying those it touched.",
	}, s.handleSplice)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "dump",
		Description: "Return every live marker's current range.",
	}, s.handleDump)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "get_marker",
		Description: "Return a single marker's current range by id.",
	}, s.handleGetMarker)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "find_intersecting",
		Description: "Find markers whose range intersects [start, end].",
	}, s.handleFindIntersecting)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "find_containing",
		Description: "Find markers whose range contains [start, end].",
	}, s.handleFindContaining)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        "find_contained_in",
		Description: "Find markers whose range is contained in [start, end].",
	}, s.handleFindContainedIn)

	return s
}

// Run serves MCP requests over stdio until ctx is canceled or the
// transport closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")

	err := s.mcp.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server run: %w", err)
	}

	return nil
}
