package strutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "long text truncated",
			input:  strings.Repeat("a", 500),
			maxLen: 80,
			want:   strings.Repeat("a", 77) + "...",
		},
		{
			name:   "short text unchanged",
			input:  "SQL Injection",
			maxLen: 80,
			want:   "SQL Injection",
		},
		{
			name:   "exact boundary unchanged",
			input:  "exactly10!",
			maxLen: 10,
			want:   "exactly10!",
		},
		{
			name:   "zero maxLen returns empty",
			input:  "anything",
			maxLen: 0,
			want:   "",
		},
		{
			name:   "tiny maxLen cuts without suffix",
			input:  "abcdef",
			maxLen: 2,
			want:   "ab",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "long text keeps full prefix plus ellipsis",
			input:  strings.Repeat("x", 500),
			maxLen: 200,
			want:   strings.Repeat("x", 200) + "...",
		},
		{
			name:   "short text unchanged",
			input:  "fine as is",
			maxLen: 200,
			want:   "fine as is",
		},
		{
			name:   "exact boundary unchanged",
			input:  strings.Repeat("y", 200),
			maxLen: 200,
			want:   strings.Repeat("y", 200),
		},
		{
			name:   "zero maxLen returns empty",
			input:  "anything",
			maxLen: 0,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Clip(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestClipMultibyte(t *testing.T) {
	input := strings.Repeat("é", 300)
	got := Clip(input, 200)
	if !utf8.ValidString(got) {
		t.Error("clipped string must stay valid UTF-8")
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected ellipsis suffix")
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != 200 {
		t.Errorf("prefix rune count = %d, want 200", n)
	}
}
