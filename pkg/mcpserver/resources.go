package mcpserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/jsonutil"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// registerResources adds all resources to the MCP server.
func (s *Server) registerResources() {
	s.addVersionResource()
	s.addRoundContextResource()
}

// ═══════════════════════════════════════════════════════════════════════════
// onsecurity://version — Server capabilities and version
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addVersionResource() {
	s.mcp.AddResource(
		&mcp.Resource{
			URI:         "onsecurity://version",
			Name:        "OnSecurity MCP Version",
			Description: "Server version, capabilities, and tool inventory.",
			MIMEType:    defaults.ContentTypeJSON,
		},
		func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			info := map[string]any{
				"name":    defaults.ToolNameDisplay,
				"version": defaults.Version,
				"capabilities": map[string]any{
					"tools":     13,
					"resources": 2,
					"prompts":   2,
				},
				"tools": []string{
					"get-rounds", "get-round-summary", "get-round-automations",
					"get-round-artifacts", "get-time-logs", "get-findings",
					"get-blocks", "get-vulnerability-trends", "get-notifications",
					"get-prerequisites", "get-report-templates",
					"get-platform-pods", "get-platform-tasks",
				},
			}
			data, _ := jsonutil.MarshalIndent(info, "", "  ")
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: "onsecurity://version", MIMEType: defaults.ContentTypeJSON, Text: string(data)},
				},
			}, nil
		},
	)
}

// ═══════════════════════════════════════════════════════════════════════════
// onsecurity://round/{roundId}/full-context — Raw round JSON
// ═══════════════════════════════════════════════════════════════════════════

// addRoundContextResource exposes the raw upstream round payload with
// full includes, for clients that want the unformatted data rather than
// the markdown the tools render.
func (s *Server) addRoundContextResource() {
	s.mcp.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: "onsecurity://round/{roundId}/full-context",
			Name:        "Round Full Context",
			Description: "Raw JSON for one round with targets, time logs and team included.",
			MIMEType:    defaults.ContentTypeJSON,
		},
		func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			roundID, err := roundIDFromResourceURI(req.Params.URI)
			if err != nil {
				return nil, err
			}

			q := onsecurity.Query{
				Resource: "rounds",
				Page:     defaults.FirstPage,
				Includes: roundIncludes,
			}
			path := fmt.Sprintf("rounds/%d?%s", roundID, q.Encode(s.logger))
			raw, err := s.client.GetRaw(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("fetching round %d: %w", roundID, err)
			}

			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: req.Params.URI, MIMEType: defaults.ContentTypeJSON, Text: string(raw)},
				},
			}, nil
		},
	)
}

// roundIDFromResourceURI parses "onsecurity://round/{id}/full-context".
func roundIDFromResourceURI(uri string) (int, error) {
	rest, ok := strings.CutPrefix(uri, "onsecurity://round/")
	if !ok {
		return 0, fmt.Errorf("unsupported resource URI %q", uri)
	}
	idStr, ok := strings.CutSuffix(rest, "/full-context")
	if !ok {
		return 0, fmt.Errorf("unsupported resource URI %q", uri)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid round id in resource URI %q", uri)
	}
	return id, nil
}
