package onsecurity

import (
	"bytes"
	"log"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeQuery(t *testing.T, encoded string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	return values
}

func TestEncodeBoolFilters(t *testing.T) {
	q := Query{
		Resource: "rounds",
		Page:     1,
		Filters:  Filters{"started": true, "finished": false},
	}
	values := decodeQuery(t, q.Encode(nil))
	assert.Equal(t, "1", values.Get("filter[started]"))
	assert.Equal(t, "0", values.Get("filter[finished]"))
}

func TestEncodeDefaultsPage(t *testing.T) {
	for _, page := range []int{0, -3} {
		values := decodeQuery(t, Query{Resource: "findings", Page: page}.Encode(nil))
		assert.Equal(t, "1", values.Get("page"))
	}
}

func TestEncodeAlwaysEmitsPage(t *testing.T) {
	values := decodeQuery(t, Query{Resource: "blocks"}.Encode(nil))
	assert.Equal(t, "1", values.Get("page"))
}

func TestEncodeRoundsSortAllowList(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"name-asc", "name-asc"},
		{"end_date-desc", "end_date-desc"},
		{"id-desc", "id-desc"},
		{"", ""},
		{"severity-asc", "id-asc"},
		{"name", "id-asc"},
		{"name-sideways", "id-asc"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := log.New(&buf, "", 0)
		values := decodeQuery(t, Query{Resource: "rounds", Sort: tt.sort}.Encode(logger))
		assert.Equal(t, tt.want, values.Get("sort"), "sort %q", tt.sort)
		if tt.want == "id-asc" && tt.sort != "" {
			assert.Contains(t, buf.String(), "not supported")
		}
	}
}

func TestEncodeSortUnrestrictedForOtherResources(t *testing.T) {
	values := decodeQuery(t, Query{Resource: "findings", Sort: "cvss_score-desc"}.Encode(nil))
	assert.Equal(t, "cvss_score-desc", values.Get("sort"))
}

func TestEncodeRoundsDropsEndDateFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	q := Query{
		Resource: "rounds",
		Filters:  Filters{"end_date": "2026-01-01", "end_date-gte": "2025-01-01", "started": true},
	}
	values := decodeQuery(t, q.Encode(logger))
	assert.Empty(t, values.Get("filter[end_date]"))
	assert.Empty(t, values.Get("filter[end_date-gte]"))
	assert.Equal(t, "1", values.Get("filter[started]"))
	assert.Contains(t, buf.String(), "end_date")
}

func TestEncodeStripsDateFiltersOnEveryResource(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	q := Query{
		Resource: "findings",
		Filters: Filters{
			"created_at-gte": "2026-01-01",
			"date":           "2026-02-01",
			"finished_at":    "2026-03-01",
			"published":      true,
		},
	}
	values := decodeQuery(t, q.Encode(logger))
	assert.Empty(t, values.Get("filter[created_at-gte]"))
	assert.Empty(t, values.Get("filter[date]"))
	assert.Empty(t, values.Get("filter[finished_at]"))
	assert.Equal(t, "1", values.Get("filter[published]"))
	assert.Contains(t, buf.String(), "created_at-gte")
}

func TestEncodeLimitClamp(t *testing.T) {
	values := decodeQuery(t, Query{Resource: "blocks", Limit: 500}.Encode(nil))
	assert.Equal(t, "100", values.Get("limit"))

	values = decodeQuery(t, Query{Resource: "blocks", Limit: 25}.Encode(nil))
	assert.Equal(t, "25", values.Get("limit"))

	values = decodeQuery(t, Query{Resource: "blocks"}.Encode(nil))
	assert.Empty(t, values.Get("limit"))
}

func TestEncodeIncludesAndFields(t *testing.T) {
	q := Query{
		Resource: "rounds",
		Includes: []string{"targets", "targets.target_type"},
		Fields:   []string{"id", "name"},
		Search:   "acme",
	}
	values := decodeQuery(t, q.Encode(nil))
	assert.Equal(t, "targets,targets.target_type", values.Get("include"))
	assert.Equal(t, "id,name", values.Get("fields"))
	assert.Equal(t, "acme", values.Get("search"))
}

func TestEncodeNumericFilters(t *testing.T) {
	q := Query{
		Resource: "findings",
		Filters:  Filters{"round_id": 42, "cvss_score": 7.5, "client_id": float64(9)},
	}
	values := decodeQuery(t, q.Encode(nil))
	assert.Equal(t, "42", values.Get("filter[round_id]"))
	assert.Equal(t, "7.5", values.Get("filter[cvss_score]"))
	assert.Equal(t, "9", values.Get("filter[client_id]"))
}

func TestStripDateFilters(t *testing.T) {
	in := Filters{
		"date":           "2026-01-01",
		"date-gte":       "2026-01-01",
		"start_date":     "2026-01-01",
		"end_date-lte":   "2026-06-01",
		"created_at-gte": "2025-01-01",
		"updated_at":     "2025-01-01",
		"finished_at":    "2025-01-01",
		"round_id":       7,
		"status":         "open",
	}
	out, dropped := StripDateFilters(in)
	assert.Len(t, dropped, 7)
	assert.Equal(t, Filters{"round_id": 7, "status": "open"}, out)
}

func TestIsDateFilterKey(t *testing.T) {
	assert.True(t, IsDateFilterKey("date"))
	assert.True(t, IsDateFilterKey("date-gte"))
	assert.True(t, IsDateFilterKey("end_date"))
	assert.False(t, IsDateFilterKey("round_id"))
	assert.False(t, IsDateFilterKey("candidate"))
}

func TestEncodeDeterministic(t *testing.T) {
	q := Query{
		Resource: "findings",
		Page:     2,
		Filters:  Filters{"round_id": 1, "published": true, "status": "open"},
	}
	first := q.Encode(nil)
	for range 20 {
		assert.Equal(t, first, q.Encode(nil))
	}
}
