package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// ═══════════════════════════════════════════════════════════════════════════
// get-rounds — List assessment rounds
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetRoundsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-rounds",
			Title: "Get Assessment Rounds",
			Description: `List security assessment rounds (engagements) with paging, filtering and sorting.

USE THIS TOOL WHEN:
• The user asks about their pentests, scans, engagements or "rounds"
• You need a round id before calling get-findings, get-round-summary or get-prerequisites
• The user asks what is currently in progress or recently finished

DO NOT USE THIS TOOL WHEN:
• You already have a round id and want its details — use 'get-round-summary' instead
• The user asks about vulnerabilities — use 'get-findings' instead

Sorting accepts: name, start_date, end_date, authorisation_date, hours_estimate, created_at, updated_at, id — each with an -asc or -desc suffix (e.g. "start_date-desc"). Unsupported sort values fall back to id-asc. Filtering by end_date is not supported by the platform and is ignored.

EXAMPLE INPUTS:
• Latest pentests first: {"sort": "start_date-desc"}
• Only running rounds: {"started": true, "finished": false}
• Scans only: {"round_type": 3}`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":      pageProperty(),
					"limit":     limitProperty(),
					"client_id": clientIDProperty(),
					"round_type": map[string]any{
						"type":        "integer",
						"description": "Engagement kind: 1 = penetration test (default), 3 = automated scan. Pass 0 for all kinds.",
						"enum":        []int{0, 1, 3},
					},
					"started": map[string]any{
						"type":        "boolean",
						"description": "Filter by whether the round has started.",
					},
					"finished": map[string]any{
						"type":        "boolean",
						"description": "Filter by whether the round has finished.",
					},
					"sort": map[string]any{
						"type":        "string",
						"description": "Sort token, e.g. \"start_date-desc\". Unsupported values fall back to id-asc.",
					},
					"search": map[string]any{
						"type":        "string",
						"description": "Free-text search across round names.",
					},
				},
			},
			Annotations: readOnlyAnnotations("Get Assessment Rounds"),
		},
		s.loggedTool("get-rounds", s.handleGetRounds),
	)
}

type getRoundsArgs struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	ClientID  int    `json:"client_id"`
	RoundType *int   `json:"round_type"`
	Started   *bool  `json:"started"`
	Finished  *bool  `json:"finished"`
	Sort      string `json:"sort"`
	Search    string `json:"search"`
}

func (s *Server) handleGetRounds(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getRoundsArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	filters := s.scopeToClient(onsecurity.Filters{}, args.ClientID)
	roundType := defaults.RoundTypePentest
	if args.RoundType != nil {
		roundType = *args.RoundType
	}
	if roundType != 0 {
		filters["round_type"] = roundType
	}
	if args.Started != nil {
		filters["started"] = *args.Started
	}
	if args.Finished != nil {
		filters["finished"] = *args.Finished
	}

	q := onsecurity.Query{
		Resource: "rounds",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
		Sort:     args.Sort,
		Search:   args.Search,
		Includes: []string{"targets", "targets.target_type"},
	}
	return listDocument(ctx, s, "Round", q, onsecurity.FormatRound)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-round-summary — Consolidated single-round view
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetRoundSummaryTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-round-summary",
			Title: "Get Round Summary",
			Description: `Fetch one round and render a consolidated summary: core details, assessment types, in-scope targets, delivery team and time budget (estimated vs logged vs remaining).

USE THIS TOOL WHEN:
• The user asks for details, scope, team or time budget of a specific round
• You have a round id from 'get-rounds' and need the full picture

DO NOT USE THIS TOOL WHEN:
• You don't have a round id yet — call 'get-rounds' first
• You need the round's vulnerabilities — use 'get-findings' with round_id`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"round_id": roundIDProperty("The id of the round to summarize."),
				},
				"required": []string{"round_id"},
			},
			Annotations: readOnlyAnnotations("Get Round Summary"),
		},
		s.loggedTool("get-round-summary", s.handleGetRoundSummary),
	)
}

// roundIncludes are the nested objects the summary and resource views need.
var roundIncludes = []string{
	"targets", "targets.target_type", "time_logs", "team", "team.leader", "team.members",
}

func (s *Server) handleGetRoundSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		RoundID int `json:"round_id"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.RoundID <= 0 {
		return errorResult("round_id is required and must be a positive integer"), nil
	}

	round, err := s.fetchRound(ctx, args.RoundID)
	if err != nil {
		return errorResult(upstreamErrorText), nil
	}
	return textResult(onsecurity.RoundSummaryDocument(round)), nil
}

// fetchRound retrieves one round with full includes.
func (s *Server) fetchRound(ctx context.Context, roundID int) (*onsecurity.Round, error) {
	q := onsecurity.Query{
		Resource: "rounds",
		Page:     defaults.FirstPage,
		Includes: roundIncludes,
	}
	path := fmt.Sprintf("rounds/%d?%s", roundID, q.Encode(s.logger))
	return onsecurity.Get[onsecurity.Round](ctx, s.client, path)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-round-automations — Scheduled automations on a round
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetRoundAutomationsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-round-automations",
			Title: "Get Round Automations",
			Description: `List the scheduled automations (recurring scans, checks) attached to rounds.

USE THIS TOOL WHEN:
• The user asks what automations or recurring scans run on an engagement
• You need automation status or last-run times

Pass round_id to restrict to one round.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":     pageProperty(),
					"limit":    limitProperty(),
					"round_id": roundIDProperty("Restrict to automations of one round."),
				},
			},
			Annotations: readOnlyAnnotations("Get Round Automations"),
		},
		s.loggedTool("get-round-automations", s.handleGetRoundAutomations),
	)
}

type roundScopedArgs struct {
	Page    int `json:"page"`
	Limit   int `json:"limit"`
	RoundID int `json:"round_id"`
}

func (s *Server) handleGetRoundAutomations(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args roundScopedArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	filters := onsecurity.Filters{}
	if args.RoundID > 0 {
		filters["round_id"] = args.RoundID
	}
	q := onsecurity.Query{
		Resource: "round-automations",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
	}
	return listDocument(ctx, s, "Round Automation", q, onsecurity.FormatAutomation)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-round-artifacts — Files attached to a round
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetRoundArtifactsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-round-artifacts",
			Title: "Get Round Artifacts",
			Description: `List files (reports, evidence archives, attestations) attached to rounds.

USE THIS TOOL WHEN:
• The user asks what deliverables or files exist for an engagement
• You need artifact names or upload dates

Pass round_id to restrict to one round.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":     pageProperty(),
					"limit":    limitProperty(),
					"round_id": roundIDProperty("Restrict to artifacts of one round."),
				},
			},
			Annotations: readOnlyAnnotations("Get Round Artifacts"),
		},
		s.loggedTool("get-round-artifacts", s.handleGetRoundArtifacts),
	)
}

func (s *Server) handleGetRoundArtifacts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args roundScopedArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	filters := onsecurity.Filters{}
	if args.RoundID > 0 {
		filters["round_id"] = args.RoundID
	}
	q := onsecurity.Query{
		Resource: "round-artifacts",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
	}
	return listDocument(ctx, s, "Round Artifact", q, onsecurity.FormatArtifact)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-time-logs — Logged work entries
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetTimeLogsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-time-logs",
			Title: "Get Time Logs",
			Description: `List logged work entries (consultant hours) against rounds.

USE THIS TOOL WHEN:
• The user asks how much time has been spent on an engagement
• You need per-consultant or per-day time breakdowns

DO NOT USE THIS TOOL WHEN:
• You only need the time totals of one round — 'get-round-summary' already includes them

Pass round_id to restrict to one round. Date-based filters are not supported by the platform.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":     pageProperty(),
					"limit":    limitProperty(),
					"round_id": roundIDProperty("Restrict to time logs of one round."),
				},
			},
			Annotations: readOnlyAnnotations("Get Time Logs"),
		},
		s.loggedTool("get-time-logs", s.handleGetTimeLogs),
	)
}

func (s *Server) handleGetTimeLogs(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args roundScopedArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	filters := onsecurity.Filters{}
	if args.RoundID > 0 {
		filters["round_id"] = args.RoundID
	}
	q := onsecurity.Query{
		Resource: "time-logs",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
	}
	return listDocument(ctx, s, "Time Log", q, onsecurity.FormatTimeLog)
}
