// Package query implements the multi-field filtering shared by every book
// list view and by reports.
package query

import (
	"strings"

	"schoolbooks/internal/books"
)

// Params maps a field name to a filter value. Empty values constrain
// nothing. Field names follow books.Entry.Field.
type Params map[string]string

// exactFields are enumerated dropdown fields matched by equality instead of
// substring.
var exactFields = map[string]bool{
	"book":     true,
	"method":   true,
	"transfer": true,
	"feeType":  true,
	"gender":   true,
	"fy":       true,
}

// Filter returns the entries passing every non-empty filter, preserving
// order. A missing field on an entry reads as the empty string.
func Filter(entries []books.Entry, params Params) []books.Entry {
	if len(params) == 0 {
		return entries
	}
	active := make(Params, len(params))
	for field, want := range params {
		if strings.TrimSpace(want) != "" {
			active[field] = want
		}
	}
	if len(active) == 0 {
		return entries
	}
	out := make([]books.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, active) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether a single entry passes every non-empty filter.
func Matches(e books.Entry, params Params) bool {
	for field, want := range params {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		have := e.Field(field)
		if exactFields[field] {
			if !strings.EqualFold(have, want) {
				return false
			}
			continue
		}
		if !strings.Contains(strings.ToLower(have), strings.ToLower(want)) {
			return false
		}
	}
	return true
}
