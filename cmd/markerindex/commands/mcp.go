// Package commands holds the markerindex CLI's subcommands.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/markerindex/internal/mcpserver"
	"github.com/Sumatoshi-tech/markerindex/pkg/observability"
	"github.com/Sumatoshi-tech/markerindex/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		debug           bool
		diagnosticsAddr string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server exposing a markerindex.Index over stdio",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server holds one fresh, process-lifetime markerindex.Index and exposes
it as tools an AI coding agent can call:
  - insert_marker, get_marker, dump
  - splice
  - find_intersecting, find_containing, find_contained_in`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			providers, err := initMCPObservability(debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			if diagnosticsAddr != "" {
				diag, diagErr := observability.NewDiagnosticsServer(diagnosticsAddr)
				if diagErr != nil {
					return diagErr
				}

				defer func() {
					closeErr := diag.Close()
					if closeErr != nil {
						providers.Logger.Warn("diagnostics server shutdown failed", "error", closeErr)
					}
				}()

				providers.Logger.Info("diagnostics server listening", "addr", diag.Addr())
			}

			metrics, err := observability.NewIndexMetrics(providers.Meter)
			if err != nil {
				return err
			}

			deps := mcpserver.ServerDeps{Logger: providers.Logger, Metrics: metrics, Tracer: providers.Tracer}

			srv := mcpserver.NewServer(deps)

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&diagnosticsAddr, "diagnostics-addr", "",
		"Address for a /healthz, /readyz, /metrics HTTP server (disabled when empty)")

	return cmd
}

func initMCPObservability(debug bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	return observability.Init(cfg)
}
