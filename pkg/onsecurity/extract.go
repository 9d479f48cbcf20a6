package onsecurity

import "sort"

// ScopeTarget is one visible scope item pulled out of a round.
type ScopeTarget struct {
	Value string
	Type  string
	Notes string
}

// TeamSummary is the flattened delivery team of a round.
type TeamSummary struct {
	LeaderName  string
	LeaderEmail string
	Members     []TeamMember
}

// TimeSummary aggregates the time budget of a round. Remaining is
// clamped at zero so over-logged rounds never report negative time.
type TimeSummary struct {
	EstimatedHours float64
	LoggedHours    float64
	RemainingHours float64
}

// AssessmentTypes returns the distinct assessment categories of a
// round, taken from its hidden placeholder targets, sorted and deduped.
func AssessmentTypes(r *Round) []string {
	if r == nil || !r.Targets.Present {
		return nil
	}
	seen := map[string]bool{}
	var types []string
	for _, t := range r.Targets.Result {
		if !t.Hidden || !t.TargetType.Present {
			continue
		}
		name := t.TargetType.Result.AssessmentName
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// ActualTargets returns the visible (non-hidden) scope items of a round.
func ActualTargets(r *Round) []ScopeTarget {
	if r == nil || !r.Targets.Present {
		return nil
	}
	var out []ScopeTarget
	for _, t := range r.Targets.Result {
		if t.Hidden || t.Value == nil {
			continue
		}
		st := ScopeTarget{Value: *t.Value}
		if t.Notes != nil {
			st.Notes = *t.Notes
		}
		if t.TargetType.Present {
			st.Type = t.TargetType.Result.Name
		}
		out = append(out, st)
	}
	return out
}

// TeamInfo flattens a round's team include. Missing leader or members
// leave the corresponding fields zero.
func TeamInfo(r *Round) TeamSummary {
	var out TeamSummary
	if r == nil || !r.Team.Present {
		return out
	}
	team := r.Team.Result
	if team.Leader.Present {
		out.LeaderName = team.Leader.Result.Name
		if team.Leader.Result.Email != nil {
			out.LeaderEmail = *team.Leader.Result.Email
		}
	}
	if team.Members.Present {
		out.Members = team.Members.Result
	}
	return out
}

// TimeData sums a round's time logs against its estimate.
func TimeData(r *Round) TimeSummary {
	var out TimeSummary
	if r == nil {
		return out
	}
	if r.HoursEstimate != nil {
		out.EstimatedHours = *r.HoursEstimate
	}
	if r.TimeLogs.Present {
		for _, entry := range r.TimeLogs.Result {
			if entry.Hours != nil {
				out.LoggedHours += *entry.Hours
			}
		}
	}
	out.RemainingHours = out.EstimatedHours - out.LoggedHours
	if out.RemainingHours < 0 {
		out.RemainingHours = 0
	}
	return out
}
