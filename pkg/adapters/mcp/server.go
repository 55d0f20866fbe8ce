package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/snapshot"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TablesArgs are the arguments of transcode_tables and copy_table.
type TablesArgs struct {
	HTML   string `json:"html"`
	Number int    `json:"number,omitempty"`
}

// TurnsArgs are the arguments of discover_turns.
type TurnsArgs struct {
	HTML string `json:"html"`
}

// TablesResponse lists exported tables.
type TablesResponse struct {
	Tables []snapshot.Table `json:"tables" jsonschema_description:"Exported tables in document order"`
}

// CopyResponse reports a clipboard write.
type CopyResponse struct {
	Number int `json:"number" jsonschema_description:"1-based position of the copied table"`
	Bytes  int `json:"bytes" jsonschema_description:"Size of the copied Markdown"`
}

// Server exposes snapshot operations as MCP tools.
type Server struct {
	cascade   *discovery.Cascade
	clipboard ports.Clipboard
	truncate  int
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. clipboard may be nil, in
// which case copy_table is not offered.
func NewServer(cascade *discovery.Cascade, clipboard ports.Clipboard, truncate int) *Server {
	if cascade == nil {
		cascade = discovery.Default()
	}
	if truncate <= 0 {
		truncate = domain.DefaultTruncateLength
	}
	s := &Server{
		cascade:   cascade,
		clipboard: clipboard,
		truncate:  truncate,
		mcpServer: server.NewMCPServer("marginalia-mcp", strings.TrimSpace(marginalia.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: transcode_tables
	tablesTool := mcp.NewTool("transcode_tables",
		mcp.WithDescription("Convert the HTML tables of a page into Markdown pipe tables."),
		mcp.WithString("html", mcp.Required(), mcp.Description("The HTML page or fragment")),
		mcp.WithNumber("number", mcp.Description("1-based table position; all tables when omitted")),
		mcp.WithOutputSchema[TablesResponse](),
	)
	s.mcpServer.AddTool(tablesTool, mcp.NewStructuredToolHandler(s.handleTables))

	// TOOL: discover_turns
	turnsTool := mcp.NewTool("discover_turns",
		mcp.WithDescription("List the user prompts of a saved chat page, as the index panel would."),
		mcp.WithString("html", mcp.Required(), mcp.Description("The HTML page or fragment")),
		mcp.WithOutputSchema[snapshot.Index](),
	)
	s.mcpServer.AddTool(turnsTool, mcp.NewStructuredToolHandler(s.handleTurns))

	if s.clipboard == nil {
		return
	}

	// TOOL: copy_table
	copyTool := mcp.NewTool("copy_table",
		mcp.WithDescription("Copy one table of a page to the configured clipboard as Markdown."),
		mcp.WithString("html", mcp.Required(), mcp.Description("The HTML page or fragment")),
		mcp.WithNumber("number", mcp.Required(), mcp.Description("1-based table position")),
		mcp.WithOutputSchema[CopyResponse](),
	)
	s.mcpServer.AddTool(copyTool, mcp.NewStructuredToolHandler(s.handleCopy))
}

func (s *Server) handleTables(ctx context.Context, request mcp.CallToolRequest, args TablesArgs) (TablesResponse, error) {
	doc, err := snapshot.LoadString(args.HTML)
	if err != nil {
		slog.Warn("MCP transcode_tables: input rejected", "err", err, "size", len(args.HTML))
		return TablesResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	if args.Number > 0 {
		t, err := snapshot.TableAt(doc.Body(), args.Number)
		if err != nil {
			return TablesResponse{}, err
		}
		return TablesResponse{Tables: []snapshot.Table{t}}, nil
	}

	tables := snapshot.Tables(doc.Body())
	if len(tables) == 0 {
		return TablesResponse{}, domain.ErrNoTables
	}
	return TablesResponse{Tables: tables}, nil
}

func (s *Server) handleTurns(ctx context.Context, request mcp.CallToolRequest, args TurnsArgs) (snapshot.Index, error) {
	doc, err := snapshot.LoadString(args.HTML)
	if err != nil {
		slog.Warn("MCP discover_turns: input rejected", "err", err, "size", len(args.HTML))
		return snapshot.Index{}, fmt.Errorf("input rejected: %w", err)
	}
	return snapshot.Discover(doc.Body(), s.cascade, s.truncate), nil
}

func (s *Server) handleCopy(ctx context.Context, request mcp.CallToolRequest, args TablesArgs) (CopyResponse, error) {
	doc, err := snapshot.LoadString(args.HTML)
	if err != nil {
		return CopyResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	t, err := snapshot.TableAt(doc.Body(), args.Number)
	if err != nil {
		return CopyResponse{}, err
	}
	if t.Markdown == "" {
		return CopyResponse{}, errors.New("table is empty")
	}
	if err := s.clipboard.CopyText(ctx, t.Markdown); err != nil {
		slog.Warn("MCP copy_table: clipboard failed", "err", err)
		return CopyResponse{}, fmt.Errorf("copy failed: %w", err)
	}
	return CopyResponse{Number: t.Number, Bytes: len(t.Markdown)}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: marginalia://strategies
	s.mcpServer.AddResource(mcp.NewResource("marginalia://strategies", "Discovery strategies",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.cascade.Strategies())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "marginalia://strategies",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
