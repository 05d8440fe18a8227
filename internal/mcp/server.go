package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"scrapbook/internal/canvas"
	"scrapbook/internal/export"
	"scrapbook/internal/service"
)

// Server is the MCP server for the scrapbook app.
// It exposes tools, resources, and prompts so AI agents can build pages.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	layout   *LayoutEngine
	log      zerolog.Logger

	scrapbooks *service.ScrapbookService
	pdf        export.PDFOptions

	httpMu sync.Mutex
	http   *server.StreamableHTTPServer
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter    EventEmitter
	Scrapbooks *service.ScrapbookService
	Logger     zerolog.Logger
	// PDF carries the configured paper defaults for export_pdf.
	PDF export.PDFOptions
	// AutoApprove skips the confirmation round trip for destructive tools.
	// Standalone mode sets it since no window is there to answer.
	AutoApprove bool
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	emitter := deps.Emitter
	if emitter == nil {
		emitter = service.NopEmitter{}
	}
	approval := NewApprovalQueue(ctx, emitter)
	approval.SetAutoApprove(deps.AutoApprove)

	s := &Server{
		emitter:    emitter,
		approval:   approval,
		layout:     NewLayoutEngine(),
		log:        deps.Logger.With().Str("component", "mcp").Logger(),
		scrapbooks: deps.Scrapbooks,
		pdf:        deps.PDF,
	}

	s.mcp = server.NewMCPServer(
		"scrapbook-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerLibraryTools()
	s.registerPageTools()
	s.registerItemTools()
	s.registerExportTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info().Msg("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ServeHTTP serves MCP over streamable HTTP on addr until Shutdown. It
// returns http.ErrServerClosed after a clean shutdown.
func (s *Server) ServeHTTP(addr string) error {
	s.httpMu.Lock()
	s.http = server.NewStreamableHTTPServer(s.mcp)
	srv := s.http
	s.httpMu.Unlock()

	s.log.Info().Str("addr", addr).Msg("starting streamable HTTP server")
	return srv.Start(addr)
}

// Shutdown stops the HTTP transport, if running.
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpMu.Lock()
	srv := s.http
	s.httpMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

func (s *Server) store() *canvas.Store {
	return s.scrapbooks.Store()
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolvePage returns the 1-based "page" argument as an index, falling back
// to the page currently shown.
func (s *Server) resolvePage(req mcp.CallToolRequest) (int, error) {
	n := req.GetInt("page", 0)
	if n == 0 {
		return s.store().CurrentIndex(), nil
	}
	if n < 1 || n > s.store().PageCount() {
		return 0, fmt.Errorf("page %d out of range (1-%d)", n, s.store().PageCount())
	}
	return n - 1, nil
}
