// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// DO NOT use hardcoded time.Duration values like `30 * time.Second` anywhere.
// Reference the appropriate constant from this package instead.
package duration

import "time"

// ============================================================================
// HTTP TIMEOUTS
// ============================================================================

const (
	// HTTPUpstream is the default timeout for OnSecurity API calls (30s).
	HTTPUpstream = 30 * time.Second

	// HTTPReadHeader bounds header reads on the transport listener (10s).
	HTTPReadHeader = 10 * time.Second

	// HTTPRead bounds full request reads on the transport listener (30s).
	HTTPRead = 30 * time.Second

	// HTTPIdle releases idle transport connections quickly (30s).
	HTTPIdle = 30 * time.Second
)

// ============================================================================
// LIFECYCLE
// ============================================================================

const (
	// ShutdownGrace is how long in-flight requests get to drain (15s).
	ShutdownGrace = 15 * time.Second

	// SSEKeepAlive is the keep-alive comment interval for SSE streams,
	// well within the typical 60s proxy idle timeout (15s).
	SSEKeepAlive = 15 * time.Second

	// OTLPConnect bounds OTLP exporter connection establishment (10s).
	OTLPConnect = 10 * time.Second

	// OTLPShutdown bounds trace exporter flush on shutdown (5s).
	OTLPShutdown = 5 * time.Second
)

// ============================================================================
// RETRY BACKOFF
// ============================================================================

const (
	// RetryInit is the base delay before the first retry (1s).
	RetryInit = 1 * time.Second

	// RetryMax caps any single retry delay (30s).
	RetryMax = 30 * time.Second
)
