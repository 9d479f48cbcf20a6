// Package mcpserver exposes the OnSecurity platform as a Model Context
// Protocol (MCP) server, enabling AI assistants (Claude, VS Code
// Copilot, Cursor, etc.) to query pentest and scan engagement data
// through natural conversation.
//
// # Architecture
//
// The server is built on the official MCP Go SDK and exposes three
// categories of capabilities:
//
//   - Tools:     Read-only queries (get-rounds, get-findings, get-blocks, …)
//   - Resources: Raw data the AI can read (version info, full round context)
//   - Prompts:   Pre-built workflow templates for common review tasks
//
// # Tool Design Principles
//
// Every tool follows the same contract:
//
//   - Detailed markdown descriptions with usage guidance and examples
//   - Complete JSON schemas with enums, defaults, min/max bounds
//   - Proper annotations (readOnlyHint, idempotentHint, openWorldHint)
//   - Upstream failures surface as a friendly text result, never a
//     protocol-level error, so the conversation can continue
//   - Composable: round ids from get-rounds feed get-findings,
//     get-round-summary, get-prerequisites and the rest
//
// # Transports
//
// Two transport modes are supported:
//
//   - stdio:  Communicates over stdin/stdout (default). Used by IDE integrations.
//   - HTTP:   Streamable HTTP with SSE. Used for remote/Docker deployments.
//
// # Usage
//
//	srv := mcpserver.New(mcpserver.Deps{Config: cfg, Client: client})
//	err := srv.RunStdio(ctx)
package mcpserver
