// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for runtime configuration defaults.
//
// Usage:
//
//	cfg.Limit = defaults.PageLimit
//	req.Header.Set("Content-Type", defaults.ContentTypeJSON)
//
// DO NOT use hardcoded values like `Limit: 25` anywhere. Reference the
// appropriate constant from this package instead.
package defaults

// Version is the current onsec-mcp version.
const Version = "1.2.0"

// ToolName is the canonical machine name of this server.
const ToolName = "onsec-mcp"

// ToolNameDisplay is the human-readable server name.
const ToolNameDisplay = "OnSecurity MCP Server"

// ============================================================================
// UPSTREAM API
// ============================================================================

const (
	// APIBase is the default OnSecurity API base URL.
	APIBase = "https://app.onsecurity.io/api/v2"

	// ContentTypeJSON is the JSON content type header value.
	ContentTypeJSON = "application/json"

	// UserAgent is sent on every upstream request.
	UserAgent = ToolName + "/" + Version
)

// ============================================================================
// PAGINATION
// ============================================================================

const (
	// FirstPage is the 1-based page number every listing starts at.
	FirstPage = 1

	// PageLimit is the default number of records requested per page.
	PageLimit = 25

	// PageLimitMax is the largest per-page limit the upstream API accepts.
	PageLimitMax = 100
)

// ============================================================================
// FORMATTING
// ============================================================================

const (
	// LongTextClip is the rune count long free-text fields (description,
	// evidence, recommendation) are clipped to before the "..." suffix.
	LongTextClip = 200

	// RecordSeparator terminates every formatted record block.
	RecordSeparator = "---"

	// Placeholder renders a missing optional string field.
	Placeholder = "N/A"

	// PlaceholderUnknown renders a value that could not be resolved.
	PlaceholderUnknown = "Unknown"
)

// ============================================================================
// ROUND TYPES
// ============================================================================
//
// Upstream encodes the engagement kind as a numeric round_type.
// ============================================================================

const (
	// RoundTypePentest is a manual penetration test engagement (1).
	RoundTypePentest = 1

	// RoundTypeScan is an automated scan engagement (3).
	RoundTypeScan = 3
)

// ============================================================================
// FAN-OUT
// ============================================================================

const (
	// TaskLookupWorkers bounds the concurrent per-task round lookups in
	// the platform-tasks tool.
	TaskLookupWorkers = 4
)
