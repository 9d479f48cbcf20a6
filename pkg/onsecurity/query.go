package onsecurity

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/onsecurity/onsec-mcp/pkg/defaults"
)

// Filters maps upstream filter keys to their values. Values may be
// string, bool, int or float64; booleans serialize as "1"/"0".
type Filters map[string]any

// Query describes one upstream listing request. Encode turns it into
// the canonical query string; url.Values sorts keys, so encoding is
// deterministic for any given Query.
type Query struct {
	Resource string
	Page     int
	Filters  Filters
	Sort     string
	Includes []string
	Fields   []string
	Limit    int
	Search   string
}

// roundsSorts is the allow-list of sort tokens the rounds listing
// accepts. Anything else falls back to "id-asc".
var roundsSorts = buildRoundsSorts()

func buildRoundsSorts() map[string]bool {
	fields := []string{
		"name", "start_date", "end_date", "authorisation_date",
		"hours_estimate", "created_at", "updated_at",
	}
	sorts := map[string]bool{
		"id-asc":  true,
		"id-desc": true,
	}
	for _, f := range fields {
		sorts[f+"-asc"] = true
		sorts[f+"-desc"] = true
	}
	return sorts
}

// dateFilterPrefixes are filter key prefixes the upstream rejects on
// general listings. Matching keys (including operator-suffixed forms
// like "created_at-gte") are stripped before encoding.
var dateFilterPrefixes = []string{
	"date-", "start_date", "end_date", "created_at", "updated_at", "finished_at",
}

// IsDateFilterKey reports whether key is a date-ish filter that must be
// stripped before sending.
func IsDateFilterKey(key string) bool {
	if key == "date" {
		return true
	}
	for _, prefix := range dateFilterPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// StripDateFilters returns a copy of f without date-ish keys, plus the
// list of keys that were dropped.
func StripDateFilters(f Filters) (Filters, []string) {
	if len(f) == 0 {
		return f, nil
	}
	out := make(Filters, len(f))
	var dropped []string
	for k, v := range f {
		if IsDateFilterKey(k) {
			dropped = append(dropped, k)
			continue
		}
		out[k] = v
	}
	return out, dropped
}

// Encode renders the query string (without leading "?"). logger
// receives warnings about rejected sort tokens and dropped filters;
// nil uses the default logger.
func (q Query) Encode(logger *log.Logger) string {
	if logger == nil {
		logger = log.Default()
	}

	values := url.Values{}

	page := q.Page
	if page < defaults.FirstPage {
		page = defaults.FirstPage
	}
	values.Set("page", strconv.Itoa(page))

	if q.Limit > 0 {
		limit := q.Limit
		if limit > defaults.PageLimitMax {
			limit = defaults.PageLimitMax
		}
		values.Set("limit", strconv.Itoa(limit))
	}

	if sort := q.validSort(logger); sort != "" {
		values.Set("sort", sort)
	}
	if len(q.Includes) > 0 {
		values.Set("include", strings.Join(q.Includes, ","))
	}
	if len(q.Fields) > 0 {
		values.Set("fields", strings.Join(q.Fields, ","))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}

	// Upstream rejects date filtering on listings (and end_date on
	// rounds in particular), so date-ish keys never reach the wire.
	filters, dropped := StripDateFilters(q.Filters)
	for _, key := range dropped {
		logger.Printf("%s query: dropping unsupported filter %q", q.Resource, key)
	}
	for key, value := range filters {
		values.Set("filter["+key+"]", filterValue(value))
	}

	return values.Encode()
}

// validSort applies the per-resource sort allow-list. Only the rounds
// listing restricts sort tokens today.
func (q Query) validSort(logger *log.Logger) string {
	if q.Sort == "" || q.Resource != "rounds" {
		return q.Sort
	}
	if roundsSorts[q.Sort] {
		return q.Sort
	}
	logger.Printf("rounds query: sort %q not supported, using id-asc", q.Sort)
	return "id-asc"
}

// filterValue renders one filter value for the wire.
func filterValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "1"
		}
		return "0"
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		// JSON numbers arrive as float64; render integers without a
		// trailing ".0".
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
