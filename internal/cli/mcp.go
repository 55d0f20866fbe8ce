package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/marginalia/internal/config"
	"github.com/aretw0/marginalia/pkg/adapters/mcp"
	"github.com/aretw0/marginalia/pkg/ports"
)

// MCPOptions configures RunMCP.
type MCPOptions struct {
	Config    *config.Config
	Clipboard ports.Clipboard
	Logger    *slog.Logger
	// Transport is "stdio" or "sse".
	Transport string
}

// RunMCP serves the snapshot tools to MCP clients.
func RunMCP(ctx context.Context, opts MCPOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := mcp.NewServer(opts.Config.Cascade(), opts.Clipboard, opts.Config.Panel.Truncate)

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting Marginalia MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting Marginalia MCP Server (SSE)", "port", opts.Config.HTTP.Port)
		if err := srv.ServeSSE(ctx, opts.Config.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", opts.Transport)
	}
}
