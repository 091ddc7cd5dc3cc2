package util

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the date formats accepted in ingested CSV files, in
// match order. Index vendors disagree on this, so be liberal.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// ParseDate tries the supported CSV date layouts. Returns (t, true) if
// any worked.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsePrice parses a price field, tolerating thousands separators and
// surrounding quotes ("82,365.77").
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
