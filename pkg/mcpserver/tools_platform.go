package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// ═══════════════════════════════════════════════════════════════════════════
// get-notifications — Platform messages
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetNotificationsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-notifications",
			Title: "Get Notifications",
			Description: `List platform notifications for the authenticated account.

USE THIS TOOL WHEN:
• The user asks what's new, or about recent platform activity
• You want to check for unread messages

Pass {"read": false} to see only unread notifications.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":  pageProperty(),
					"limit": limitProperty(),
					"read": map[string]any{
						"type":        "boolean",
						"description": "Filter by read state. Omit for all notifications.",
					},
				},
			},
			Annotations: readOnlyAnnotations("Get Notifications"),
		},
		s.loggedTool("get-notifications", s.handleGetNotifications),
	)
}

func (s *Server) handleGetNotifications(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Read  *bool `json:"read"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	filters := onsecurity.Filters{}
	if args.Read != nil {
		filters["read"] = *args.Read
	}
	q := onsecurity.Query{
		Resource: "notifications",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
	}
	return listDocument(ctx, s, "Notification", q, onsecurity.FormatNotification)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-prerequisites — Round preconditions
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetPrerequisitesTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-prerequisites",
			Title: "Get Prerequisites",
			Description: `List the prerequisites (access credentials, allow-listing, test accounts) a round needs before testing can start.

USE THIS TOOL WHEN:
• The user asks what they still need to provide before an engagement starts
• You want to check which prerequisites are outstanding for a round

Pass round_id to restrict to one round.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":     pageProperty(),
					"limit":    limitProperty(),
					"round_id": roundIDProperty("Restrict to prerequisites of one round."),
					"status": map[string]any{
						"type":        "string",
						"description": "Filter by prerequisite status (e.g. \"pending\", \"complete\").",
					},
				},
			},
			Annotations: readOnlyAnnotations("Get Prerequisites"),
		},
		s.loggedTool("get-prerequisites", s.handleGetPrerequisites),
	)
}

func (s *Server) handleGetPrerequisites(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Page    int    `json:"page"`
		Limit   int    `json:"limit"`
		RoundID int    `json:"round_id"`
		Status  string `json:"status"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	filters := onsecurity.Filters{}
	if args.RoundID > 0 {
		filters["round_id"] = args.RoundID
	}
	if args.Status != "" {
		filters["status"] = args.Status
	}
	q := onsecurity.Query{
		Resource: "prerequisites",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
	}
	return listDocument(ctx, s, "Prerequisite", q, onsecurity.FormatPrerequisite)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-report-templates — Per-client report layouts
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetReportTemplatesTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-report-templates",
			Title: "Get Report Templates",
			Description: `List the report templates configured for a client.

USE THIS TOOL WHEN:
• The user asks which report formats or layouts are available
• You are preparing a report and need the template names`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":      pageProperty(),
					"limit":     limitProperty(),
					"client_id": clientIDProperty(),
				},
			},
			Annotations: readOnlyAnnotations("Get Report Templates"),
		},
		s.loggedTool("get-report-templates", s.handleGetReportTemplates),
	)
}

func (s *Server) handleGetReportTemplates(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Page     int `json:"page"`
		Limit    int `json:"limit"`
		ClientID int `json:"client_id"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	q := onsecurity.Query{
		Resource: "client-report-templates",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  s.scopeToClient(onsecurity.Filters{}, args.ClientID),
	}
	return listDocument(ctx, s, "Report Template", q, onsecurity.FormatReportTemplate)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-platform-pods — Delivery team groupings
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetPlatformPodsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-platform-pods",
			Title: "Get Platform Pods",
			Description: `List delivery pods (consultant team groupings) and their members.

USE THIS TOOL WHEN:
• The user asks who is on a delivery team or pod
• You need consultant names and roles`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":  pageProperty(),
					"limit": limitProperty(),
				},
			},
			Annotations: readOnlyAnnotations("Get Platform Pods"),
		},
		s.loggedTool("get-platform-pods", s.handleGetPlatformPods),
	)
}

func (s *Server) handleGetPlatformPods(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	q := onsecurity.Query{
		Resource: "platform/pods",
		Page:     args.Page,
		Limit:    args.Limit,
		Includes: []string{"members"},
	}
	return listDocument(ctx, s, "Pod", q, onsecurity.FormatPod)
}

// ═══════════════════════════════════════════════════════════════════════════
// get-platform-tasks — Task board with round resolution
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGetPlatformTasksTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "get-platform-tasks",
			Title: "Get Platform Tasks",
			Description: `List platform task-board items. Each task links to a round (and sometimes a specific finding); the tool resolves round and finding names so tasks read as "Review report (Q1 Pentest)" instead of bare URLs. A lookup that fails renders as "Unknown" without failing the whole call.

USE THIS TOOL WHEN:
• The user asks what work items or actions are outstanding
• You need task statuses or due dates`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"page":  pageProperty(),
					"limit": limitProperty(),
					"status": map[string]any{
						"type":        "string",
						"description": "Filter by task status (e.g. \"open\", \"done\").",
					},
				},
			},
			Annotations: readOnlyAnnotations("Get Platform Tasks"),
		},
		s.loggedTool("get-platform-tasks", s.handleGetPlatformTasks),
	)
}

// Task deep links look like
// "https://app.onsecurity.io/rounds/42/findings/7"; the round segment
// is always present, the finding segment only on finding-level tasks.
var (
	taskRoundIDPattern   = regexp.MustCompile(`/rounds/(\d+)(?:/|$|\?)`)
	taskFindingIDPattern = regexp.MustCompile(`/findings/(\d+)(?:/|$|\?)`)
)

// RoundIDFromTaskURL extracts the round id a task URL points at.
// Returns 0 when the URL carries no round reference.
func RoundIDFromTaskURL(rawURL string) int {
	return idFromTaskURL(taskRoundIDPattern, rawURL)
}

// FindingIDFromTaskURL extracts the finding id a task URL points at.
// Returns 0 when the URL carries no finding reference.
func FindingIDFromTaskURL(rawURL string) int {
	return idFromTaskURL(taskFindingIDPattern, rawURL)
}

func idFromTaskURL(pattern *regexp.Regexp, rawURL string) int {
	m := pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

func (s *Server) handleGetPlatformTasks(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Page   int    `json:"page"`
		Limit  int    `json:"limit"`
		Status string `json:"status"`
	}
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	filters := onsecurity.Filters{}
	if args.Status != "" {
		filters["status"] = args.Status
	}
	q := onsecurity.Query{
		Resource: "platform/tasks",
		Page:     args.Page,
		Limit:    args.Limit,
		Filters:  filters,
	}

	coll, err := onsecurity.Get[onsecurity.Collection[onsecurity.PlatformTask]](ctx, s.client, q.Resource+"?"+q.Encode(s.logger))
	if err != nil {
		return errorResult(upstreamErrorText), nil
	}

	roundNames, findingNames := s.resolveTaskContext(ctx, coll.Result)

	var b strings.Builder
	fmt.Fprintf(&b, "# Task Summary\n\n")
	b.WriteString("## Pagination Information\n\n")
	b.WriteString(onsecurity.FormatPagination(coll))
	b.WriteString("\n## Task Data\n\n")
	if len(coll.Result) == 0 {
		b.WriteString("No records found.\n")
		return textResult(b.String()), nil
	}
	for _, task := range coll.Result {
		roundName, findingName := "", ""
		if task.URL != nil {
			if id := RoundIDFromTaskURL(*task.URL); id != 0 {
				roundName = roundNames[id]
			}
			if id := FindingIDFromTaskURL(*task.URL); id != 0 {
				findingName = findingNames[id]
				if findingName == "" {
					findingName = defaults.PlaceholderUnknown
				}
			}
		}
		b.WriteString(onsecurity.FormatTask(task, roundName, findingName))
		b.WriteString("\n")
	}
	return textResult(b.String()), nil
}

// resolveTaskContext fetches the rounds and findings referenced by the
// page of tasks, with a bounded concurrent fan-out. Repeated ids are
// fetched once; a failed lookup leaves its id out of the map so the
// task degrades to "Unknown" rather than aborting the call.
func (s *Server) resolveTaskContext(ctx context.Context, tasks []onsecurity.PlatformTask) (map[int]string, map[int]string) {
	roundIDs := map[int]bool{}
	findingIDs := map[int]bool{}
	for _, t := range tasks {
		if t.URL == nil {
			continue
		}
		if id := RoundIDFromTaskURL(*t.URL); id != 0 {
			roundIDs[id] = true
		}
		if id := FindingIDFromTaskURL(*t.URL); id != 0 {
			findingIDs[id] = true
		}
	}
	if len(roundIDs) == 0 && len(findingIDs) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	roundNames := make(map[int]string, len(roundIDs))
	findingNames := make(map[int]string, len(findingIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.TaskLookupWorkers)
	for id := range roundIDs {
		g.Go(func() error {
			path := fmt.Sprintf("rounds/%d?page=%d", id, defaults.FirstPage)
			round, err := onsecurity.Get[onsecurity.Round](gctx, s.client, path)
			if err != nil {
				s.logger.Printf("[tool] get-platform-tasks: round %d lookup failed: %v", id, err)
				return nil
			}
			mu.Lock()
			roundNames[id] = round.Name
			mu.Unlock()
			return nil
		})
	}
	for id := range findingIDs {
		g.Go(func() error {
			path := fmt.Sprintf("findings/%d?page=%d", id, defaults.FirstPage)
			finding, err := onsecurity.Get[onsecurity.Finding](gctx, s.client, path)
			if err != nil {
				s.logger.Printf("[tool] get-platform-tasks: finding %d lookup failed: %v", id, err)
				return nil
			}
			mu.Lock()
			findingNames[id] = finding.Name
			mu.Unlock()
			return nil
		})
	}
	// Lookups never return errors, so Wait only synchronizes.
	_ = g.Wait()
	return roundNames, findingNames
}
