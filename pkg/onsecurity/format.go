package onsecurity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/strutil"
)

// Formatting renders upstream records as markdown documents shaped for
// LLM consumption: a summary heading, a pagination section and one
// block per record terminated by a separator line.

func strOrNA(p *string) string {
	if p == nil || *p == "" {
		return defaults.Placeholder
	}
	return *p
}

func clipOrNA(p *string) string {
	if p == nil || *p == "" {
		return defaults.Placeholder
	}
	return strutil.Clip(*p, defaults.LongTextClip)
}

func floatOrNA(p *float64) string {
	if p == nil {
		return defaults.Placeholder
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatPagination renders the pagination section of a collection.
func FormatPagination[T any](c *Collection[T]) string {
	next := c.Links.Next != nil || c.Page < c.TotalPages
	prev := c.Links.Previous != nil || c.Page > defaults.FirstPage

	var b strings.Builder
	fmt.Fprintf(&b, "Current Page: %d\n", c.Page)
	fmt.Fprintf(&b, "Total Pages: %d\n", c.TotalPages)
	fmt.Fprintf(&b, "Total Results: %d\n", c.TotalResults)
	fmt.Fprintf(&b, "Results Per Page: %d\n", c.Limit)
	fmt.Fprintf(&b, "Next Page Available: %s\n", yesNo(next))
	fmt.Fprintf(&b, "Previous Page Available: %s\n", yesNo(prev))
	return b.String()
}

// Document assembles the full markdown document for one collection
// page. name is the singular entity label (e.g. "Round").
func Document[T any](name string, c *Collection[T], format func(T) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Summary\n\n", name)
	b.WriteString("## Pagination Information\n\n")
	b.WriteString(FormatPagination(c))
	b.WriteString("\n")
	fmt.Fprintf(&b, "## %s Data\n\n", name)
	if len(c.Result) == 0 {
		b.WriteString("No records found.\n")
		return b.String()
	}
	for _, record := range c.Result {
		b.WriteString(format(record))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRound renders one round record.
func FormatRound(r Round) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "ID: %d\n", r.ID)
	fmt.Fprintf(&b, "Client ID: %d\n", r.ClientID)
	fmt.Fprintf(&b, "Type: %s\n", RoundTypeLabel(r.RoundType))
	fmt.Fprintf(&b, "Start Date: %s\n", strOrNA(r.StartDate))
	fmt.Fprintf(&b, "End Date: %s\n", strOrNA(r.EndDate))
	fmt.Fprintf(&b, "Authorisation Date: %s\n", strOrNA(r.AuthorisationDate))
	fmt.Fprintf(&b, "Started: %s\n", yesNo(r.Started))
	fmt.Fprintf(&b, "Finished: %s\n", yesNo(r.Finished))
	fmt.Fprintf(&b, "Executive Summary Published: %s\n", yesNo(r.ExecutiveSummaryPublished))
	if types := AssessmentTypes(&r); len(types) > 0 {
		fmt.Fprintf(&b, "Assessment Types: %s\n", strings.Join(types, ", "))
	}
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatFinding renders one finding record. Long free-text fields are
// clipped so a page of findings stays within a sane context size.
func FormatFinding(f Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", f.Name)
	fmt.Fprintf(&b, "ID: %d\n", f.ID)
	fmt.Fprintf(&b, "Round ID: %d\n", f.RoundID)
	fmt.Fprintf(&b, "CVSS Score: %s\n", floatOrNA(f.CVSSScore))
	fmt.Fprintf(&b, "CVSS Severity: %s\n", strOrNA(f.CVSSSeverity))
	fmt.Fprintf(&b, "Remediation Complexity: %s\n", strOrNA(f.RemediationComplexity))
	fmt.Fprintf(&b, "Status: %s\n", strOrNA(f.Status))
	fmt.Fprintf(&b, "Status Description: %s\n", strOrNA(f.StatusDescription))
	fmt.Fprintf(&b, "Published: %s\n", yesNo(f.Published))
	fmt.Fprintf(&b, "Description: %s\n", clipOrNA(f.Description))
	fmt.Fprintf(&b, "Executive Description: %s\n", clipOrNA(f.ExecutiveDescription))
	fmt.Fprintf(&b, "Evidence: %s\n", clipOrNA(f.Evidence))
	fmt.Fprintf(&b, "Recommendation: %s\n", clipOrNA(f.Recommendation))
	fmt.Fprintf(&b, "Executive Recommendation: %s\n", clipOrNA(f.ExecutiveRecommendation))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatBlock renders one block (finding template) record.
func FormatBlock(blk Block) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", blk.Name)
	fmt.Fprintf(&b, "ID: %d\n", blk.ID)
	fmt.Fprintf(&b, "Times Used: %d\n", blk.UsedCount)
	fmt.Fprintf(&b, "CVSS Score: %s\n", floatOrNA(blk.CVSSScore))
	fmt.Fprintf(&b, "CVSS Severity: %s\n", strOrNA(blk.CVSSSeverity))
	fmt.Fprintf(&b, "Remediation Complexity: %s\n", strOrNA(blk.RemediationComplexity))
	fmt.Fprintf(&b, "Description: %s\n", clipOrNA(blk.Description))
	fmt.Fprintf(&b, "Executive Description: %s\n", clipOrNA(blk.ExecutiveDescription))
	fmt.Fprintf(&b, "Evidence: %s\n", clipOrNA(blk.Evidence))
	fmt.Fprintf(&b, "Recommendation: %s\n", clipOrNA(blk.Recommendation))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatPrerequisite renders one prerequisite record.
func FormatPrerequisite(p Prerequisite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "ID: %d\n", p.ID)
	fmt.Fprintf(&b, "Round ID: %d\n", p.RoundID)
	fmt.Fprintf(&b, "Status: %s\n", strOrNA(p.Status))
	fmt.Fprintf(&b, "Required: %s\n", yesNo(p.Required))
	fmt.Fprintf(&b, "Description: %s\n", clipOrNA(p.Description))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatNotification renders one notification record.
func FormatNotification(n Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", n.Subject)
	fmt.Fprintf(&b, "ID: %d\n", n.ID)
	fmt.Fprintf(&b, "Read: %s\n", yesNo(n.Read))
	fmt.Fprintf(&b, "Created At: %s\n", strOrNA(n.CreatedAt))
	fmt.Fprintf(&b, "Message: %s\n", clipOrNA(n.Message))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatTask renders one platform task. roundName is the resolved name
// of the round the task links to, or defaults.PlaceholderUnknown when
// the lookup failed. findingName is the resolved name of the finding
// the task links to; empty means the task has no finding reference and
// the line is omitted.
func FormatTask(t PlatformTask, roundName, findingName string) string {
	if roundName == "" {
		roundName = defaults.PlaceholderUnknown
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", t.Name)
	fmt.Fprintf(&b, "ID: %d\n", t.ID)
	fmt.Fprintf(&b, "Round: %s\n", roundName)
	if findingName != "" {
		fmt.Fprintf(&b, "Finding: %s\n", findingName)
	}
	fmt.Fprintf(&b, "Status: %s\n", strOrNA(t.Status))
	fmt.Fprintf(&b, "Due Date: %s\n", strOrNA(t.DueDate))
	fmt.Fprintf(&b, "URL: %s\n", strOrNA(t.URL))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatPod renders one platform pod with its members.
func FormatPod(p PlatformPod) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "ID: %d\n", p.ID)
	if p.Members.Present && len(p.Members.Result) > 0 {
		b.WriteString("Members:\n")
		for _, m := range p.Members.Result {
			fmt.Fprintf(&b, "  - %s (%s, %s)\n", m.Name, strOrNA(m.Role), strOrNA(m.Email))
		}
	} else {
		fmt.Fprintf(&b, "Members: %s\n", defaults.Placeholder)
	}
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatTimeLog renders one time log entry.
func FormatTimeLog(t PlatformTimeLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", t.ID)
	fmt.Fprintf(&b, "Round ID: %d\n", t.RoundID)
	fmt.Fprintf(&b, "User: %s\n", strOrNA(t.UserName))
	fmt.Fprintf(&b, "Date: %s\n", strOrNA(t.Date))
	fmt.Fprintf(&b, "Hours: %s\n", floatOrNA(t.Hours))
	fmt.Fprintf(&b, "Description: %s\n", clipOrNA(t.Description))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatAutomation renders one round automation record.
func FormatAutomation(a RoundAutomation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", a.Name)
	fmt.Fprintf(&b, "ID: %d\n", a.ID)
	fmt.Fprintf(&b, "Round ID: %d\n", a.RoundID)
	fmt.Fprintf(&b, "Status: %s\n", strOrNA(a.Status))
	fmt.Fprintf(&b, "Last Run: %s\n", strOrNA(a.LastRunAt))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatArtifact renders one round artifact record.
func FormatArtifact(a RoundArtifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", a.Name)
	fmt.Fprintf(&b, "ID: %d\n", a.ID)
	fmt.Fprintf(&b, "Round ID: %d\n", a.RoundID)
	fmt.Fprintf(&b, "File: %s\n", strOrNA(a.FileName))
	fmt.Fprintf(&b, "Created At: %s\n", strOrNA(a.CreatedAt))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// FormatReportTemplate renders one client report template record.
func FormatReportTemplate(t ClientReportTemplate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", t.Name)
	fmt.Fprintf(&b, "ID: %d\n", t.ID)
	fmt.Fprintf(&b, "Client ID: %d\n", t.ClientID)
	fmt.Fprintf(&b, "Format: %s\n", strOrNA(t.Format))
	b.WriteString(defaults.RecordSeparator + "\n")
	return b.String()
}

// RoundSummaryDocument renders the consolidated single-round view:
// core fields plus assessment types, visible scope, team and time.
func RoundSummaryDocument(r *Round) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Round Summary: %s\n\n", r.Name)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "ID: %d\n", r.ID)
	fmt.Fprintf(&b, "Client ID: %d\n", r.ClientID)
	fmt.Fprintf(&b, "Type: %s\n", RoundTypeLabel(r.RoundType))
	fmt.Fprintf(&b, "Start Date: %s\n", strOrNA(r.StartDate))
	fmt.Fprintf(&b, "End Date: %s\n", strOrNA(r.EndDate))
	fmt.Fprintf(&b, "Started: %s\n", yesNo(r.Started))
	fmt.Fprintf(&b, "Finished: %s\n", yesNo(r.Finished))
	fmt.Fprintf(&b, "Executive Summary Published: %s\n", yesNo(r.ExecutiveSummaryPublished))

	b.WriteString("\n## Assessment Types\n\n")
	types := AssessmentTypes(r)
	if len(types) == 0 {
		b.WriteString(defaults.Placeholder + "\n")
	}
	for _, t := range types {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString("\n## Targets\n\n")
	targets := ActualTargets(r)
	if len(targets) == 0 {
		b.WriteString(defaults.Placeholder + "\n")
	}
	for _, t := range targets {
		fmt.Fprintf(&b, "- %s", t.Value)
		if t.Type != "" {
			fmt.Fprintf(&b, " (%s)", t.Type)
		}
		if t.Notes != "" {
			fmt.Fprintf(&b, ": %s", strutil.Clip(t.Notes, defaults.LongTextClip))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Team\n\n")
	team := TeamInfo(r)
	if team.LeaderName == "" && len(team.Members) == 0 {
		b.WriteString(defaults.Placeholder + "\n")
	} else {
		if team.LeaderName != "" {
			fmt.Fprintf(&b, "Leader: %s", team.LeaderName)
			if team.LeaderEmail != "" {
				fmt.Fprintf(&b, " (%s)", team.LeaderEmail)
			}
			b.WriteString("\n")
		}
		for _, m := range team.Members {
			fmt.Fprintf(&b, "- %s", m.Name)
			if m.Role != nil && *m.Role != "" {
				fmt.Fprintf(&b, " (%s)", *m.Role)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Time\n\n")
	tt := TimeData(r)
	fmt.Fprintf(&b, "Estimated Hours: %s\n", formatHours(tt.EstimatedHours))
	fmt.Fprintf(&b, "Logged Hours: %s\n", formatHours(tt.LoggedHours))
	fmt.Fprintf(&b, "Remaining Hours: %s\n", formatHours(tt.RemainingHours))

	return b.String()
}

// TrendDocument ranks blocks by how often they have been raised.
func TrendDocument(c *Collection[Block]) string {
	blocks := make([]Block, len(c.Result))
	copy(blocks, c.Result)
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].UsedCount > blocks[j].UsedCount
	})

	var b strings.Builder
	b.WriteString("# Vulnerability Trend Summary\n\n")
	b.WriteString("## Pagination Information\n\n")
	b.WriteString(FormatPagination(c))
	b.WriteString("\n## Most Frequently Raised\n\n")
	if len(blocks) == 0 {
		b.WriteString("No records found.\n")
		return b.String()
	}
	for i, blk := range blocks {
		fmt.Fprintf(&b, "%d. %s: raised %d times (severity: %s)\n",
			i+1, blk.Name, blk.UsedCount, strOrNA(blk.CVSSSeverity))
	}
	return b.String()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
