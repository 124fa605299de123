// Package fiscal maps calendar dates to financial-year labels. The fiscal
// year begins 1 April: January–March dates belong to the FY that started the
// previous calendar year.
package fiscal

import (
	"strings"
	"time"
)

// layouts accepted by ParseDate, tried in order.
var layouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// ParseDate normalizes the textual date encodings the books use. ok is
// false for anything unparseable; callers treat that as "unknown", never as
// a reason to abort a save.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartYear returns the calendar year the date's fiscal year began in.
func StartYear(t time.Time) int {
	if t.Month() >= time.April {
		return t.Year()
	}
	return t.Year() - 1
}

// Label formats the "FY YY-YY" label for a date. The zero time yields "".
func Label(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	start := StartYear(t)
	return "FY " + twoDigits(start) + "-" + twoDigits(start+1)
}

// LabelOf parses a textual date and derives its label, "" when unparseable.
func LabelOf(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return Label(t)
}

// Contains reports whether t falls inside the fiscal year named by label.
func Contains(label string, t time.Time) bool {
	return label != "" && Label(t) == label
}

func twoDigits(year int) string {
	y := year % 100
	return string([]byte{'0' + byte(y/10), '0' + byte(y%10)})
}
