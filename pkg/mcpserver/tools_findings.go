package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// ═══════════════════════════════════════════════════════════════════════════
// get-findings — Vulnerability instances on rounds
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetFindingsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-findings",
			Title: "Get Findings",
			Description: `List vulnerability findings recorded against assessment rounds, with CVSS scores, severity, status and remediation guidance.

USE THIS TOOL WHEN:
• The user asks about vulnerabilities, issues or risks found during testing
• You need findings for one round (pass round_id) or across all rounds
• The user asks what is still open, or what was fixed

DO NOT USE THIS TOOL WHEN:
• The user asks about finding templates or cross-client statistics — use 'get-blocks' or 'get-vulnerability-trends'
• You need engagement metadata — use 'get-rounds'

EXAMPLE INPUTS:
• All findings on a round: {"round_id": 42}
• Published criticals: {"published": true, "cvss_severity": "critical"}
• Open findings only: {"status": "open"}`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":      pageProperty(),
					"limit":     limitProperty(),
					"client_id": clientIDProperty(),
					"round_id":  roundIDProperty("Restrict to findings of one round."),
					"round_type": map[string]any{
						"type":        "integer",
						"description": "Engagement kind of the parent round: 1 = penetration test (default), 3 = scan. Pass 0 for all kinds.",
						"enum":        []int{0, 1, 3},
					},
					"published": map[string]any{
						"type":        "boolean",
						"description": "Filter by whether the finding has been published to the client.",
					},
					"status": map[string]any{
						"type":        "string",
						"description": "Filter by workflow status (e.g. \"open\", \"remediated\").",
					},
					"cvss_severity": map[string]any{
						"type":        "string",
						"description": "Filter by CVSS severity band.",
						"enum":        []string{"none", "low", "medium", "high", "critical"},
					},
					"sort": map[string]any{
						"type":        "string",
						"description": "Sort token, e.g. \"cvss_score-desc\".",
					},
					"search": map[string]any{
						"type":        "string",
						"description": "Free-text search across finding names.",
					},
				},
			},
			Annotations: readOnlyAnnotations("Get Findings"),
		},
		s.loggedTool("get-findings", s.handleGetFindings),
	)
}

type getFindingsArgs struct {
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	ClientID     int    `json:"client_id"`
	RoundID      int    `json:"round_id"`
	RoundType    *int   `json:"round_type"`
	Published    *bool  `json:"published"`
	Status       string `json:"status"`
	CVSSSeverity string `json:"cvss_severity"`
	Sort         string `json:"sort"`
	Search       string `json:"search"`
}

func (s *Server) handleGetFindings(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getFindingsArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	filters := s.scopeToClient(onsecurity.Filters{}, args.ClientID)
	if args.RoundID > 0 {
		filters["round_id"] = args.RoundID
	}
	roundType := defaults.RoundTypePentest
	if args.RoundType != nil {
		roundType = *args.RoundType
	}
	if roundType != 0 {
		filters["round.round_type"] = roundType
	}
	if args.Published != nil {
		filters["published"] = *args.Published
	}
	if args.Status != "" {
		filters["status"] = args.Status
	}
	if args.CVSSSeverity != "" {
		filters["cvss_severity"] = args.CVSSSeverity
	}

	q := onsecurity.Query{
		Resource: "findings",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
		Sort:     args.Sort,
		Search:   args.Search,
	}
	return listDocument(ctx, s, "Finding", q, onsecurity.FormatFinding)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-blocks — Reusable finding templates
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetBlocksTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-blocks",
			Title: "Get Finding Templates",
			Description: `List reusable finding templates ("blocks"): pre-approved vulnerability write-ups with severity, description and remediation text.

USE THIS TOOL WHEN:
• The user asks what kinds of vulnerabilities the platform can report
• You want the canonical write-up or remediation text for a vulnerability class
• You need usage counts for individual templates

DO NOT USE THIS TOOL WHEN:
• The user asks about findings raised on their own rounds — use 'get-findings'
• The user wants a ranked frequency view — use 'get-vulnerability-trends'`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":  pageProperty(),
					"limit": limitProperty(),
					"cvss_severity": map[string]any{
						"type":        "string",
						"description": "Filter by CVSS severity band.",
						"enum":        []string{"none", "low", "medium", "high", "critical"},
					},
					"sort": map[string]any{
						"type":        "string",
						"description": "Sort token, e.g. \"used_count-desc\".",
					},
					"search": map[string]any{
						"type":        "string",
						"description": "Free-text search across template names.",
					},
				},
			},
			Annotations: readOnlyAnnotations("Get Finding Templates"),
		},
		s.loggedTool("get-blocks", s.handleGetBlocks),
	)
}

type getBlocksArgs struct {
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	CVSSSeverity string `json:"cvss_severity"`
	Sort         string `json:"sort"`
	Search       string `json:"search"`
}

func (s *Server) handleGetBlocks(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getBlocksArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	filters := onsecurity.Filters{}
	if args.CVSSSeverity != "" {
		filters["cvss_severity"] = args.CVSSSeverity
	}

	q := onsecurity.Query{
		Resource: "blocks",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
		Sort:     args.Sort,
		Search:   args.Search,
	}
	return listDocument(ctx, s, "Block", q, onsecurity.FormatBlock)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-vulnerability-trends — Template usage ranked by frequency
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetVulnerabilityTrendsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-vulnerability-trends",
			Title: "Get Vulnerability Trends",
			Description: `Rank finding templates by how often they have been raised across all engagements, most frequent first.

USE THIS TOOL WHEN:
• The user asks what the most common vulnerabilities are
• You are writing a trend or benchmarking section in a report

DO NOT USE THIS TOOL WHEN:
• The user asks about their own findings — use 'get-findings'`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":  pageProperty(),
					"limit": limitProperty(),
				},
			},
			Annotations: readOnlyAnnotations("Get Vulnerability Trends"),
		},
		s.loggedTool("get-vulnerability-trends", s.handleGetVulnerabilityTrends),
	)
}

func (s *Server) handleGetVulnerabilityTrends(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	q := onsecurity.Query{
		Resource: "blocks",
		Page:     args.Page,
		Limit:    args.Limit,
		Sort:     "used_count-desc",
	}
	coll, err := onsecurity.Get[onsecurity.Collection[onsecurity.Block]](ctx, s.client, q.Resource+"?"+q.Encode(s.logger))
	if err != nil {
		return errorResult(upstreamErrorText), nil
	}
	return textResult(onsecurity.TrendDocument(coll)), nil
}
