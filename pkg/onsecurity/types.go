package onsecurity

import (
	"fmt"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
	"github.com/onsecurity/onsec-mcp/pkg/jsonutil"
)

// Links carries the pagination cursors of a collection response.
// Absence of Next means the last page.
type Links struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Collection is the upstream paginated envelope. Page is 1-based and
// len(Result) never exceeds Limit.
type Collection[T any] struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Limit        int    `json:"limit"`
	Links        Links  `json:"links"`
	Result       []T    `json:"result"`
}

// Included wraps the upstream nested-include envelope
// {object_type, name, many, result}. Decoding is defensive: absent or
// malformed nested data yields Present=false and a zero Result rather
// than failing the whole response.
type Included[T any] struct {
	ObjectType string
	Name       string
	Many       bool
	Present    bool
	Result     T
}

// UnmarshalJSON implements defensive decoding for include envelopes.
func (inc *Included[T]) UnmarshalJSON(data []byte) error {
	var zero T
	inc.Present = false
	inc.Result = zero

	var envelope struct {
		ObjectType string            `json:"object_type"`
		Name       string            `json:"name"`
		Many       bool              `json:"many"`
		Result     jsonutil.RawValue `json:"result"`
	}
	if err := jsonutil.Unmarshal(data, &envelope); err != nil {
		// Malformed include: treat as absent.
		return nil
	}

	inc.ObjectType = envelope.ObjectType
	inc.Name = envelope.Name
	inc.Many = envelope.Many

	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := jsonutil.Unmarshal(envelope.Result, &inc.Result); err != nil {
		inc.Result = zero
		return nil
	}
	inc.Present = true
	return nil
}

// TargetType names what kind of scope item a target is. For hidden
// placeholder targets AssessmentName carries the assessment category
// (e.g. "Web Application").
type TargetType struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	AssessmentName string `json:"assessment_name"`
}

// Target is one item in a round's scope. Hidden targets are
// assessment-type placeholders, not literal scope values.
type Target struct {
	ID         int                  `json:"id"`
	RoundID    int                  `json:"round_id"`
	Hidden     bool                 `json:"hidden"`
	Value      *string              `json:"value"`
	Notes      *string              `json:"notes"`
	TargetType Included[TargetType] `json:"target_type"`
}

// TeamMember is a platform user attached to a round's delivery team.
type TeamMember struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// Team groups the leader and members assigned to a round.
type Team struct {
	Leader  Included[TeamMember]   `json:"leader"`
	Members Included[[]TeamMember] `json:"members"`
}

// PlatformTimeLog is one logged work entry against a round.
type PlatformTimeLog struct {
	ID          int      `json:"id"`
	RoundID     int      `json:"round_id"`
	UserName    *string  `json:"user_name"`
	Hours       *float64 `json:"hours"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
}

// Round is one security assessment engagement against a client.
type Round struct {
	ID                        int      `json:"id"`
	ClientID                  int      `json:"client_id"`
	Name                      string   `json:"name"`
	RoundType                 int      `json:"round_type"`
	StartDate                 *string  `json:"start_date"`
	EndDate                   *string  `json:"end_date"`
	AuthorisationDate         *string  `json:"authorisation_date"`
	HoursEstimate             *float64 `json:"hours_estimate"`
	Started                   bool     `json:"started"`
	Finished                  bool     `json:"finished"`
	ExecutiveSummaryPublished bool     `json:"executive_summary_published"`

	Targets  Included[[]Target]          `json:"targets"`
	TimeLogs Included[[]PlatformTimeLog] `json:"time_logs"`
	Team     Included[Team]              `json:"team"`
}

// RoundTypeLabel renders the numeric round_type code.
func RoundTypeLabel(roundType int) string {
	switch roundType {
	case defaults.RoundTypePentest:
		return "Penetration Test"
	case defaults.RoundTypeScan:
		return "Scan"
	default:
		return fmt.Sprintf("Unspecified (%d)", roundType)
	}
}

// Finding is a concrete vulnerability instance recorded against one round.
type Finding struct {
	ID                      int      `json:"id"`
	RoundID                 int      `json:"round_id"`
	Name                    string   `json:"name"`
	CVSSScore               *float64 `json:"cvss_score"`
	CVSSSeverity            *string  `json:"cvss_severity"`
	RemediationComplexity   *string  `json:"remediation_complexity"`
	Description             *string  `json:"description"`
	ExecutiveDescription    *string  `json:"executive_description"`
	Evidence                *string  `json:"evidence"`
	Recommendation          *string  `json:"recommendation"`
	ExecutiveRecommendation *string  `json:"executive_recommendation"`
	Published               bool     `json:"published"`
	Status                  *string  `json:"status"`
	StatusDescription       *string  `json:"status_description"`
}

// Block is a reusable, pre-approved finding template. UsedCount tracks
// how often it has been raised across all clients, which drives the
// vulnerability-trend statistics.
type Block struct {
	ID                    int      `json:"id"`
	Name                  string   `json:"name"`
	UsedCount             int      `json:"used_count"`
	CVSSScore             *float64 `json:"cvss_score"`
	CVSSSeverity          *string  `json:"cvss_severity"`
	RemediationComplexity *string  `json:"remediation_complexity"`
	Description           *string  `json:"description"`
	ExecutiveDescription  *string  `json:"executive_description"`
	Evidence              *string  `json:"evidence"`
	Recommendation        *string  `json:"recommendation"`
}

// Prerequisite is a precondition item scoped to one round.
type Prerequisite struct {
	ID          int     `json:"id"`
	RoundID     int     `json:"round_id"`
	Name        string  `json:"name"`
	Status      *string `json:"status"`
	Required    bool    `json:"required"`
	Description *string `json:"description"`
}

// Notification is a platform message for the authenticated user.
type Notification struct {
	ID        int     `json:"id"`
	Subject   string  `json:"subject"`
	Message   *string `json:"message"`
	Read      bool    `json:"read"`
	CreatedAt *string `json:"created_at"`
}

// PlatformTask is a work item on the platform task board. URL points
// at the round or finding the task belongs to.
type PlatformTask struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	URL     *string `json:"url"`
	Status  *string `json:"status"`
	DueDate *string `json:"due_date"`
}

// PodMember is a platform user inside a pod.
type PodMember struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// PlatformPod is a team grouping of platform users.
type PlatformPod struct {
	ID      int                   `json:"id"`
	Name    string                `json:"name"`
	Members Included[[]PodMember] `json:"members"`
}

// RoundAutomation is a scheduled automation attached to a round.
type RoundAutomation struct {
	ID        int     `json:"id"`
	RoundID   int     `json:"round_id"`
	Name      string  `json:"name"`
	Status    *string `json:"status"`
	LastRunAt *string `json:"last_run_at"`
}

// RoundArtifact is a file attached to a round.
type RoundArtifact struct {
	ID        int     `json:"id"`
	RoundID   int     `json:"round_id"`
	Name      string  `json:"name"`
	FileName  *string `json:"file_name"`
	CreatedAt *string `json:"created_at"`
}

// ClientReportTemplate is a per-client report layout.
type ClientReportTemplate struct {
	ID       int     `json:"id"`
	ClientID int     `json:"client_id"`
	Name     string  `json:"name"`
	Format   *string `json:"format"`
}
