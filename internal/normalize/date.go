// Package normalize converts bank-formatted dates and amounts into canonical values.
package normalize

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DateFormats are the accepted source date layouts, tried in order.
var DateFormats = []string{
	"2006-1-2",   // 2025-01-15, 2025-1-5
	"1/2/2006",   // 01/15/2025, 1/5/2025
	"1/2/06",     // 01/15/25, 1/5/25
}

// ParseDate parses raw against DateFormats and returns the first match.
func ParseDate(raw string) (civil.Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range DateFormats {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return civil.DateOf(t), true
	}
	return civil.Date{}, false
}

// NormalizeDate returns raw in ISO form, or raw unchanged when no format matches.
func NormalizeDate(raw string) string {
	d, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return d.String()
}
