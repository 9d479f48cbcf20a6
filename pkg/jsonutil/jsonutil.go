// Package jsonutil provides a high-performance JSON encoding/decoding wrapper.
// It uses github.com/go-json-experiment/json which is 2-3x faster than
// encoding/json.
//
// This is a drop-in replacement for encoding/json in hot paths.
// The API matches the standard library for easy migration.
//
// Usage:
//
//	import "github.com/onsecurity/onsec-mcp/pkg/jsonutil"
//
//	// Instead of: json.Unmarshal(data, &v)
//	err := jsonutil.Unmarshal(data, &v)
//
//	// Instead of: json.Marshal(v)
//	data, err := jsonutil.Marshal(v)
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// RawValue is a raw, unparsed JSON value. Used where a field must be
// deferred for a second decoding pass (e.g. polymorphic includes).
type RawValue = jsontext.Value

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent returns the indented JSON encoding of v.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	// go-json-experiment uses jsontext options for indentation
	return json.Marshal(v, jsontext.WithIndent(indent))
}

// UnmarshalRead parses a JSON value from r and stores the result in v.
func UnmarshalRead(r io.Reader, v any) error {
	return json.UnmarshalRead(r, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return jsontext.Value(data).IsValid()
}
