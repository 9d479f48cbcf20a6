package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onsecurity/onsec-mcp/pkg/apimetrics"
	"github.com/onsecurity/onsec-mcp/pkg/config"
	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/duration"
	"github.com/onsecurity/onsec-mcp/pkg/jsonutil"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Deps carries the collaborators the server needs. All fields except
// Client are optional.
type Deps struct {
	Config  *config.Config
	Client  *onsecurity.Client
	Metrics *apimetrics.Metrics
	Logger  *log.Logger
}

// Server wraps the MCP server with the OnSecurity tool surface.
type Server struct {
	mcp     *mcp.Server
	cfg     *config.Config
	client  *onsecurity.Client
	metrics *apimetrics.Metrics
	logger  *log.Logger
	ready   atomic.Bool
}

// MCPServer returns the underlying MCP server for direct access (e.g., testing).
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

// MarkReady signals that startup validation (config, client) passed.
// Until MarkReady is called, the /health endpoint returns 503.
func (s *Server) MarkReady() { s.ready.Store(true) }

// IsReady returns true if the server has completed startup validation.
func (s *Server) IsReady() bool { return s.ready.Load() }

// New creates an MCP server with all tools, resources, and prompts registered.
func New(deps Deps) *Server {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		client:  deps.Client,
		metrics: deps.Metrics,
		logger:  logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    defaults.ToolName,
			Title:   defaults.ToolNameDisplay,
			Version: defaults.Version,
		},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// RunStdio runs the MCP server over stdio transport. This is the
// primary mode for IDE integrations (Claude Desktop, Cursor, VS Code).
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Println("[mcp] stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns an http.Handler for remote deployments.
//
// The handler mounts:
//   - /health   readiness/liveness probe (GET only)
//   - /metrics  Prometheus exposition of upstream call counters
//   - /sse      legacy SSE transport for older MCP clients
//   - /mcp      streamable HTTP transport (2025-03-26 spec)
//   - /         streamable HTTP transport (default mount)
func (s *Server) HTTPHandler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return s.mcp },
		&mcp.StreamableHTTPOptions{Stateless: false},
	)

	sse := mcp.NewSSEHandler(
		func(_ *http.Request) *mcp.Server { return s.mcp },
		nil,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	mux.Handle("/sse", sseKeepAlive(sse))
	mux.Handle("/mcp", streamable)
	mux.Handle("/", streamable)

	return s.corsMiddleware(recoveryMiddleware(securityHeaders(mux)))
}

// handleHealth serves a readiness/liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", defaults.ContentTypeJSON)
	if !s.IsReady() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"status":"starting","service":"`+defaults.ToolName+`"}`)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok","service":"`+defaults.ToolName+`"}`)
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// corsMiddleware adds CORS headers for browser-based MCP clients. The
// allowed origins come from configuration; an empty allow-list accepts
// every origin.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Always set Vary: Origin so caches don't serve a CORS-enabled
		// response to a non-browser client or vice versa.
		w.Header().Add("Vary", "Origin")

		if origin == "" {
			// No Origin header = non-browser client; skip CORS headers.
			next.ServeHTTP(w, r)
			return
		}

		if !s.cfg.OriginAllowed(origin) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			strings.Join([]string{
				"Content-Type",
				"Authorization",
				"Mcp-Session-Id",
				"MCP-Protocol-Version",
				"Last-Event-ID",
				"Accept",
			}, ", "))
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id, MCP-Protocol-Version")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware catches panics in HTTP handlers and returns a 500
// instead of killing the connection.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic in HTTP handler: %v\n%s", err, debug.Stack())

				// Best-effort: if headers were already sent (e.g. during
				// SSE streaming), WriteHeader is a no-op.
				w.Header().Set("Content-Type", defaults.ContentTypeJSON)
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, `{"error":"internal server error"}`)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeaders adds standard defense-in-depth headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// sseKeepAlive wraps an SSE handler to send periodic keep-alive comments
// so reverse proxies don't close idle SSE connections.
func sseKeepAlive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		if !strings.Contains(accept, "text/event-stream") {
			next.ServeHTTP(w, r)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		kw := &keepAliveWriter{
			ResponseWriter: w,
			flusher:        flusher,
			done:           make(chan struct{}),
		}

		go kw.keepAliveLoop()
		defer close(kw.done)

		next.ServeHTTP(kw, r)
	})
}

// keepAliveWriter wraps http.ResponseWriter to send SSE keep-alive
// comments. All writes are serialized through a mutex to prevent data
// races between the keep-alive goroutine and the SSE handler's writes.
type keepAliveWriter struct {
	mu sync.Mutex
	http.ResponseWriter
	flusher http.Flusher
	done    chan struct{}
}

func (kw *keepAliveWriter) Write(p []byte) (int, error) {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	return kw.ResponseWriter.Write(p)
}

// Flush implements http.Flusher. Without this, the SSE SDK handler's
// w.(http.Flusher) type assertion fails on the wrapper, causing SSE
// events to buffer indefinitely.
func (kw *keepAliveWriter) Flush() {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	kw.flusher.Flush()
}

// Unwrap lets http.ResponseController discover capabilities through
// the wrapper.
func (kw *keepAliveWriter) Unwrap() http.ResponseWriter {
	return kw.ResponseWriter
}

func (kw *keepAliveWriter) keepAliveLoop() {
	ticker := time.NewTicker(duration.SSEKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-kw.done:
			return
		case <-ticker.C:
			// SSE comment line, ignored by clients.
			kw.mu.Lock()
			_, err := kw.ResponseWriter.Write([]byte(": keepalive\n\n"))
			if err != nil {
				kw.mu.Unlock()
				return
			}
			kw.flusher.Flush()
			kw.mu.Unlock()
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers — result builders
// ---------------------------------------------------------------------------

// textResult creates a CallToolResult with a single text content block.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult creates an IsError CallToolResult so the LLM can see the
// error and self-correct rather than raising a protocol-level exception.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// boolPtr returns a pointer to b. Used for optional bool fields in the SDK.
func boolPtr(b bool) *bool { return &b }

// parseArgs unmarshals the raw JSON arguments from a tool call into dst.
func parseArgs(req *mcp.CallToolRequest, dst any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := jsonutil.Unmarshal(req.Params.Arguments, dst); err != nil {
		return fmt.Errorf("parsing tool arguments: %w", err)
	}
	return nil
}
