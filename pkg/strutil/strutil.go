// Package strutil provides shared string utilities for the onsec-mcp codebase.
package strutil

import "unicode/utf8"

// Truncate returns s cut to maxLen runes. If truncated, a "..." suffix
// is appended (included in maxLen). Returns s unchanged if
// utf8.RuneCountInString(s) <= maxLen.
// Safe for maxLen <= 0 (returns empty string).
// This function is rune-aware and never produces invalid UTF-8.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runeCount := utf8.RuneCountInString(s)
	if runeCount <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}

// Clip returns the first maxLen runes of s with a "..." suffix appended
// when s is longer. Unlike Truncate the suffix is NOT counted against
// maxLen: Clip("x"*500, 200) yields exactly 200 runes plus "...".
// Report fields use this so the visible prefix length is predictable.
func Clip(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
