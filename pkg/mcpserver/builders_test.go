package mcpserver

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ---------------------------------------------------------------------------
// result builders
// ---------------------------------------------------------------------------

func TestTextResult(t *testing.T) {
	res := textResult("hello")
	if res.IsError {
		t.Error("textResult should not set IsError")
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("content should be TextContent")
	}
	if tc.Text != "hello" {
		t.Errorf("text = %q, want %q", tc.Text, "hello")
	}
}

func TestErrorResult(t *testing.T) {
	res := errorResult("something broke")
	if !res.IsError {
		t.Error("errorResult should set IsError")
	}
	tc := res.Content[0].(*mcp.TextContent)
	if tc.Text != "something broke" {
		t.Errorf("text = %q", tc.Text)
	}
}

func TestJSONResult(t *testing.T) {
	res, err := jsonResult(map[string]int{"count": 3})
	if err != nil {
		t.Fatalf("jsonResult: %v", err)
	}
	tc := res.Content[0].(*mcp.TextContent)
	if !strings.Contains(tc.Text, `"count"`) {
		t.Errorf("json output missing key: %s", tc.Text)
	}
}

func TestParseArgsEmpty(t *testing.T) {
	var args struct {
		Page int `json:"page"`
	}
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{}}
	if err := parseArgs(req, &args); err != nil {
		t.Fatalf("empty args should parse: %v", err)
	}
	if args.Page != 0 {
		t.Errorf("page = %d, want 0", args.Page)
	}
}

func TestParseArgsInvalid(t *testing.T) {
	var args struct {
		Page int `json:"page"`
	}
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{
		Arguments: []byte(`{not json`),
	}}
	if err := parseArgs(req, &args); err == nil {
		t.Error("malformed arguments should error")
	}
}

// ---------------------------------------------------------------------------
// redactArgs
// ---------------------------------------------------------------------------

func TestRedactArgsSensitiveFields(t *testing.T) {
	out := redactArgs([]byte(`{"token":"sk-live-abc123","round_id":42}`))
	if strings.Contains(out, "sk-live-abc123") {
		t.Error("token value must not appear in logs")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("sensitive field should be masked")
	}
	if !strings.Contains(out, "42") {
		t.Error("non-sensitive fields should survive")
	}
}

func TestRedactArgsEmpty(t *testing.T) {
	if got := redactArgs(nil); got != "{}" {
		t.Errorf("empty args = %q, want {}", got)
	}
}

// ---------------------------------------------------------------------------
// task URL parsing
// ---------------------------------------------------------------------------

func TestRoundIDFromTaskURL(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"https://app.onsecurity.io/rounds/42", 42},
		{"https://app.onsecurity.io/rounds/42/findings/7", 42},
		{"https://app.onsecurity.io/rounds/42?tab=scope", 42},
		{"https://app.onsecurity.io/clients/9", 0},
		{"not a url", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := RoundIDFromTaskURL(tt.url); got != tt.want {
			t.Errorf("RoundIDFromTaskURL(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestFindingIDFromTaskURL(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"https://app.onsecurity.io/rounds/42/findings/7", 7},
		{"https://app.onsecurity.io/findings/7?tab=evidence", 7},
		{"https://app.onsecurity.io/rounds/42", 0},
		{"not a url", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := FindingIDFromTaskURL(tt.url); got != tt.want {
			t.Errorf("FindingIDFromTaskURL(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// resource URI parsing
// ---------------------------------------------------------------------------

func TestRoundIDFromResourceURI(t *testing.T) {
	id, err := roundIDFromResourceURI("onsecurity://round/7/full-context")
	if err != nil {
		t.Fatalf("valid URI rejected: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}

	for _, uri := range []string{
		"onsecurity://round//full-context",
		"onsecurity://round/abc/full-context",
		"onsecurity://round/7",
		"other://round/7/full-context",
		"onsecurity://round/-1/full-context",
	} {
		if _, err := roundIDFromResourceURI(uri); err == nil {
			t.Errorf("URI %q should be rejected", uri)
		}
	}
}
