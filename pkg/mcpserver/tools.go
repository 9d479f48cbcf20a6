package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/jsonutil"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// registerTools adds all OnSecurity query tools to the MCP server.
func (s *Server) registerTools() {
	s.addGetRoundsTool()
	s.addGetRoundSummaryTool()
	s.addGetRoundAutomationsTool()
	s.addGetRoundArtifactsTool()
	s.addGetTimeLogsTool()
	s.addGetFindingsTool()
	s.addGetBlocksTool()
	s.addGetVulnerabilityTrendsTool()
	s.addGetNotificationsTool()
	s.addGetPrerequisitesTool()
	s.addGetReportTemplatesTool()
	s.addGetPlatformPodsTool()
	s.addGetPlatformTasksTool()
}

// upstreamErrorText is the single message every upstream failure
// surfaces to the LLM. Auth failures, timeouts and bad JSON all look
// the same to the client; the distinction lives in logs and metrics.
const upstreamErrorText = "Sorry, I couldn't retrieve that data from the OnSecurity platform right now. " +
	"Please check the connection and API token, then try again."

// toolHandler aliases the SDK's tool handler signature.
type toolHandler = func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// loggedTool wraps a handler to log each invocation with redacted
// arguments and its duration.
func (s *Server) loggedTool(name string, h toolHandler) toolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		s.logger.Printf("[tool] %s args=%s", name, redactArgs(req.Params.Arguments))
		res, err := h(ctx, req)
		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		s.logger.Printf("[tool] %s %s in %s", name, status, time.Since(start).Round(time.Millisecond))
		return res, err
	}
}

// redactArgs renders tool arguments for logging with credential-shaped
// fields masked.
func redactArgs(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	var args map[string]any
	if jsonutil.Unmarshal(raw, &args) != nil {
		return "(unparseable)"
	}
	for k := range args {
		switch strings.ToLower(k) {
		case "api_key", "apikey", "api_secret", "apisecret", "token",
			"password", "secret", "license", "credentials", "key":
			args[k] = "[REDACTED]"
		}
	}
	out, err := jsonutil.Marshal(args)
	if err != nil {
		return "(unparseable)"
	}
	return string(out)
}

// listDocument runs the shared listing pipeline: encode the query,
// fetch one collection page, render the markdown document. Any
// upstream failure becomes the friendly error text instead of a
// protocol-level failure.
func listDocument[T any](ctx context.Context, s *Server, entity string, q onsecurity.Query, format func(T) string) (*mcp.CallToolResult, error) {
	coll, err := onsecurity.Get[onsecurity.Collection[T]](ctx, s.client, q.Resource+"?"+q.Encode(s.logger))
	if err != nil {
		return errorResult(upstreamErrorText), nil
	}
	return textResult(onsecurity.Document(entity, coll, format)), nil
}

// scopeToClient pins filters to the configured client in legacy
// single-tenant mode, otherwise applies the per-call client_id.
func (s *Server) scopeToClient(filters onsecurity.Filters, clientID int) onsecurity.Filters {
	if filters == nil {
		filters = onsecurity.Filters{}
	}
	if s.cfg.ClientID != 0 {
		filters["client_id"] = s.cfg.ClientID
	} else if clientID != 0 {
		filters["client_id"] = clientID
	}
	return filters
}

// Shared schema fragments. Tool schemas repeat the same paging and
// scoping parameters; building them here keeps the registrations honest.

func pageProperty() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "Page number to fetch, starting at 1. Defaults to 1.",
		"minimum":     1,
	}
}

func limitProperty() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": fmt.Sprintf("Results per page (max %d). Defaults to the platform's page size.", defaults.PageLimitMax),
		"minimum":     1,
		"maximum":     defaults.PageLimitMax,
	}
}

func clientIDProperty() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "Restrict results to one client by id. Ignored when the server is pinned to a client.",
	}
}

func roundIDProperty(desc string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": desc,
	}
}

func readOnlyAnnotations(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(true), // every call reaches the upstream API
		Title:          title,
	}
}
