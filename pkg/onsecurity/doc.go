// Package onsecurity implements the client-side core for the
// OnSecurity REST API: query-string construction with per-resource
// validation, an authenticated HTTP client with typed failure kinds,
// derived-field extractors, and the markdown formatters the MCP tools
// return to the LLM.
//
// The package is deliberately free of MCP concerns; pkg/mcpserver owns
// tool registration and transport.
package onsecurity
