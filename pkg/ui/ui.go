// Package ui provides styled stderr output for server startup and
// status lines. Styling degrades to plain text on dumb terminals and
// when stderr is not a TTY (stdio transport shares the terminal with
// the MCP client's logs, so stderr must stay clean).
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
)

// Color palette.
var (
	primary = lipgloss.Color("#2F6FED") // brand blue
	success = lipgloss.Color("#00D26A")
	warning = lipgloss.Color("#FFB800")
	muted   = lipgloss.Color("#6B7280")
)

var (
	bannerStyle = lipgloss.NewStyle().Foreground(primary).Bold(true)
	verStyle    = lipgloss.NewStyle().Foreground(success).Bold(true)
	tagStyle    = lipgloss.NewStyle().Foreground(muted)
	warnStyle   = lipgloss.NewStyle().Foreground(warning).Bold(true)
)

// colorEnabled reports whether stderr can render styled output.
func colorEnabled() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}
	return termenv.NewOutput(os.Stderr).ColorProfile() != termenv.Ascii
}

// Tag returns the styled "[onsec-mcp]" prefix for status lines.
func Tag() string {
	tag := "[" + defaults.ToolName + "]"
	if !colorEnabled() {
		return tag
	}
	return tagStyle.Render(tag)
}

// Banner prints the startup banner to stderr.
func Banner() {
	name := defaults.ToolNameDisplay
	ver := "v" + defaults.Version
	if colorEnabled() {
		name = bannerStyle.Render(name)
		ver = verStyle.Render(ver)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", name, ver)
}

// Statusf prints a tagged status line to stderr.
func Statusf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Tag(), fmt.Sprintf(format, args...))
}

// Warnf prints a tagged warning line to stderr.
func Warnf(format string, args ...any) {
	warn := "warning:"
	if colorEnabled() {
		warn = warnStyle.Render("warning:")
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", Tag(), warn, fmt.Sprintf(format, args...))
}
