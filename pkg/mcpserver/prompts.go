package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds all guided workflow prompts to the MCP server.
func (s *Server) registerPrompts() {
	s.addRoundReviewPrompt()
	s.addTrendReportPrompt()
}

// ═══════════════════════════════════════════════════════════════════════════
// round_review — End-to-end engagement review workflow
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addRoundReviewPrompt() {
	s.mcp.AddPrompt(
		&mcp.Prompt{
			Name:        "round_review",
			Description: "Guided review of one assessment round: scope, prerequisites, findings, time budget and outstanding tasks.",
			Arguments: []*mcp.PromptArgument{
				{Name: "round_id", Description: "The id of the round to review (from get-rounds)", Required: true},
			},
		},
		func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			roundID := req.Params.Arguments["round_id"]
			if roundID == "" {
				return nil, fmt.Errorf("'round_id' argument is required")
			}

			return &mcp.GetPromptResult{
				Description: fmt.Sprintf("Round Review: %s", roundID),
				Messages: []*mcp.PromptMessage{
					{
						Role: "user",
						Content: &mcp.TextContent{
							Text: fmt.Sprintf(`Review assessment round %s end to end.

## Step 1: Engagement Overview
Call get-round-summary with round_id %s. Summarize the scope, assessment types, team and time budget.

## Step 2: Readiness
Call get-prerequisites with round_id %s. Flag anything still pending, especially required prerequisites.

## Step 3: Findings
Call get-findings with round_id %s. Group by severity, call out criticals and highs, and note remediation status.

## Step 4: Effort
Compare logged hours against the estimate from step 1. Flag the round if remaining hours are near zero while testing is unfinished.

## Step 5: Outstanding Work
Call get-platform-tasks and list the open tasks that reference this round.

Produce a concise review: engagement status, risk highlights, blockers, and recommended next actions.`, roundID, roundID, roundID, roundID),
						},
					},
				},
			}, nil
		},
	)
}

// ═══════════════════════════════════════════════════════════════════════════
// vulnerability_trend_report — Cross-engagement trend analysis
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addTrendReportPrompt() {
	s.mcp.AddPrompt(
		&mcp.Prompt{
			Name:        "vulnerability_trend_report",
			Description: "Build a vulnerability trend report: most common finding classes, their severity distribution, and how the client's own findings compare.",
			Arguments: []*mcp.PromptArgument{
				{Name: "focus_severity", Description: "Optional severity band to focus on (low, medium, high, critical)", Required: false},
			},
		},
		func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			focus := req.Params.Arguments["focus_severity"]
			focusLine := ""
			if focus != "" {
				focusLine = fmt.Sprintf("\nFocus the analysis on %s severity findings.\n", focus)
			}

			return &mcp.GetPromptResult{
				Description: "Vulnerability Trend Report",
				Messages: []*mcp.PromptMessage{
					{
						Role: "user",
						Content: &mcp.TextContent{
							Text: fmt.Sprintf(`Build a vulnerability trend report.
%s
## Step 1: Platform-wide Trends
Call get-vulnerability-trends. Note the ten most frequently raised finding classes and their severities.

## Step 2: Template Detail
For the top classes, call get-blocks with a matching search term to pull the canonical descriptions and remediation guidance.

## Step 3: Own Exposure
Call get-findings (published: true) and map the client's findings onto the trend list: which common classes affect them, which they have avoided.

## Step 4: Report
Write a short trend report: top classes with frequencies, the client's relative exposure, and the three remediations with the widest impact.`, focusLine),
						},
					},
				},
			}, nil
		},
	)
}
