package mcpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/onsecurity/onsec-mcp/pkg/config"
	"github.com/onsecurity/onsec-mcp/pkg/onsecurity"
)

// newTestServer wires a Server against a fake upstream API.
func newTestServer(t *testing.T, upstream http.Handler) *Server {
	t.Helper()
	api := httptest.NewServer(upstream)
	t.Cleanup(api.Close)

	cfg := config.New()
	cfg.APIToken = "test-token"
	cfg.APIBase = api.URL

	client := onsecurity.NewClient(onsecurity.Options{
		BaseURL: api.URL,
		Token:   cfg.APIToken,
		Logger:  log.New(io.Discard, "", 0),
	})
	return New(Deps{
		Config: cfg,
		Client: client,
		Logger: log.New(io.Discard, "", 0),
	})
}

func callReq(args string) *mcp.CallToolRequest {
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{}}
	if args != "" {
		req.Params.Arguments = []byte(args)
	}
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("content should be TextContent")
	}
	return tc.Text
}

func TestHandleGetRoundsRendersDocument(t *testing.T) {
	var gotQuery url.Values
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{
			"page": 1, "total_pages": 1, "total_results": 1, "limit": 25,
			"result": [{"id": 7, "name": "Q1 Pentest", "round_type": 1, "started": true}]
		}`)
	}))

	res, err := s.handleGetRounds(context.Background(), callReq(`{"started": true}`))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	text := resultText(t, res)
	for _, want := range []string{
		"# Round Summary",
		"## Pagination Information",
		"## Round Data",
		"Name: Q1 Pentest",
		"Type: Penetration Test",
		"Next Page Available: No",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q:\n%s", want, text)
		}
	}

	if got := gotQuery.Get("page"); got != "1" {
		t.Errorf("page = %q, want 1", got)
	}
	if got := gotQuery.Get("filter[started]"); got != "1" {
		t.Errorf("filter[started] = %q, want 1", got)
	}
	// Pentest-only by default.
	if got := gotQuery.Get("filter[round_type]"); got != "1" {
		t.Errorf("filter[round_type] = %q, want 1", got)
	}
}

func TestHandleGetRoundsRoundTypeZeroMeansAll(t *testing.T) {
	var gotQuery url.Values
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{"page": 1, "result": []}`)
	}))

	if _, err := s.handleGetRounds(context.Background(), callReq(`{"round_type": 0}`)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotQuery.Has("filter[round_type]") {
		t.Error("round_type 0 should omit the filter")
	}
}

func TestHandleGetRoundsUpstreamFailure(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	res, err := s.handleGetRounds(context.Background(), callReq(""))
	if err != nil {
		t.Fatalf("upstream failure must not be a protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("result should be flagged as an error")
	}
	if text := resultText(t, res); !strings.Contains(text, "Sorry") {
		t.Errorf("expected friendly error text, got %q", text)
	}
}

func TestHandleGetRoundSummary(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rounds/7") {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{
			"id": 7, "name": "Q1 Pentest", "round_type": 1, "hours_estimate": 40,
			"targets": {"object_type": "target", "many": true, "result": [
				{"id": 1, "hidden": true, "target_type": {"object_type": "target_type", "many": false, "result": {"assessment_name": "Web Application"}}},
				{"id": 2, "hidden": false, "value": "app.example.com", "target_type": {"object_type": "target_type", "many": false, "result": {"name": "Hostname"}}}
			]},
			"time_logs": {"object_type": "time_log", "many": true, "result": [{"id": 1, "hours": 12}]}
		}`)
	}))

	res, err := s.handleGetRoundSummary(context.Background(), callReq(`{"round_id": 7}`))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := resultText(t, res)
	for _, want := range []string{
		"# Round Summary: Q1 Pentest",
		"- Web Application",
		"- app.example.com (Hostname)",
		"Remaining Hours: 28",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestHandleGetRoundSummaryRequiresID(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	}))
	res, err := s.handleGetRoundSummary(context.Background(), callReq(`{}`))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("missing round_id should produce an error result")
	}
}

func TestHandleGetPlatformTasksResolvesRoundAndFindingNames(t *testing.T) {
	// Only the namespaced listing path is registered; a request to a
	// bare /tasks would 404 and fail the assertions below.
	mux := http.NewServeMux()
	mux.HandleFunc("/platform/tasks", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"page": 1, "total_pages": 1, "total_results": 4, "limit": 25,
			"result": [
				{"id": 1, "name": "Review report", "url": "https://app.onsecurity.io/rounds/42"},
				{"id": 2, "name": "Chase client", "url": "https://app.onsecurity.io/rounds/43"},
				{"id": 3, "name": "No link"},
				{"id": 4, "name": "Retest finding", "url": "https://app.onsecurity.io/rounds/42/findings/7"}
			]
		}`)
	})
	mux.HandleFunc("/rounds/42", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 42, "name": "Q1 Pentest", "round_type": 1}`)
	})
	mux.HandleFunc("/rounds/43", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/findings/7", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 7, "round_id": 42, "name": "SQL Injection"}`)
	})
	s := newTestServer(t, mux)

	res, err := s.handleGetPlatformTasks(context.Background(), callReq(""))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	text := resultText(t, res)
	if got := strings.Count(text, "Round: Q1 Pentest"); got != 2 {
		t.Errorf("resolved round name count = %d, want 2:\n%s", got, text)
	}
	if !strings.Contains(text, "Finding: SQL Injection") {
		t.Errorf("resolved finding name missing:\n%s", text)
	}
	// The failed 43 lookup and the linkless task both degrade to Unknown.
	if got := strings.Count(text, "Round: Unknown"); got != 2 {
		t.Errorf("Unknown count = %d, want 2:\n%s", got, text)
	}
}

func TestHandleGetPlatformTasksFindingLookupDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/platform/tasks", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"page": 1, "total_pages": 1, "total_results": 1, "limit": 25,
			"result": [{"id": 1, "name": "Retest", "url": "https://app.onsecurity.io/rounds/42/findings/9"}]
		}`)
	})
	mux.HandleFunc("/rounds/42", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 42, "name": "Q1 Pentest", "round_type": 1}`)
	})
	// /findings/9 is unregistered, so its lookup 404s.
	s := newTestServer(t, mux)

	res, err := s.handleGetPlatformTasks(context.Background(), callReq(""))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Finding: Unknown") {
		t.Errorf("failed finding lookup should degrade to Unknown:\n%s", text)
	}
}

func TestHandleGetPlatformPodsPath(t *testing.T) {
	// Only the namespaced listing path is registered; a request to a
	// bare /pods would 404 and surface as an error result.
	mux := http.NewServeMux()
	mux.HandleFunc("/platform/pods", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"page": 1, "total_pages": 1, "total_results": 1, "limit": 25,
			"result": [{"id": 1, "name": "Red Pod", "members": {"object_type": "user", "many": true, "result": [{"id": 2, "name": "Sam"}]}}]
		}`)
	})
	s := newTestServer(t, mux)

	res, err := s.handleGetPlatformPods(context.Background(), callReq(""))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "Name: Red Pod") {
		t.Errorf("pod document missing pod name:\n%s", text)
	}
}

func TestScopeToClientLegacyModePins(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())
	s.cfg.ClientID = 99

	filters := s.scopeToClient(onsecurity.Filters{}, 5)
	if filters["client_id"] != 99 {
		t.Errorf("legacy mode must pin client_id to 99, got %v", filters["client_id"])
	}

	s.cfg.ClientID = 0
	filters = s.scopeToClient(onsecurity.Filters{}, 5)
	if filters["client_id"] != 5 {
		t.Errorf("multi-tenant mode should pass through client_id 5, got %v", filters["client_id"])
	}

	filters = s.scopeToClient(nil, 0)
	if _, ok := filters["client_id"]; ok {
		t.Error("no client scope expected")
	}
}

func TestHandleGetVulnerabilityTrends(t *testing.T) {
	var gotQuery url.Values
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{
			"page": 1, "total_pages": 1, "total_results": 2, "limit": 25,
			"result": [
				{"id": 1, "name": "Weak TLS", "used_count": 3},
				{"id": 2, "name": "SQL Injection", "used_count": 17}
			]
		}`)
	}))

	res, err := s.handleGetVulnerabilityTrends(context.Background(), callReq(""))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "1. SQL Injection") {
		t.Errorf("trend ranking wrong:\n%s", text)
	}
	if got := gotQuery.Get("sort"); got != "used_count-desc" {
		t.Errorf("sort = %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())
	h := s.HTTPHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before MarkReady: status = %d, want 503", rec.Code)
	}

	s.MarkReady()
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("after MarkReady: status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	s := newTestServer(t, http.NotFoundHandler())
	s.cfg.AllowedOrigins = []string{"https://allowed.example.com"}
	s.MarkReady()
	h := s.HTTPHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("disallowed origin: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://allowed.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed origin: status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://allowed.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
