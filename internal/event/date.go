package event

import (
	"strings"
	"time"
)

// ParseDate parses the game date printed in a report header, such as
// "Saturday, October 5, 2019". Returns time.Time{} (zero value) if parsing fails.
func ParseDate(dateText string) time.Time {
	dateText = strings.Join(strings.Fields(dateText), " ")
	if dateText == "" {
		return time.Time{}
	}

	// Bilingual headers carry the English date last
	if i := strings.LastIndex(dateText, "/"); i >= 0 {
		dateText = strings.TrimSpace(dateText[i+1:])
	}

	layouts := []string{
		"Monday, January 2, 2006",
		"Monday, Jan 2, 2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		"20060102",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateText); err == nil {
			return t
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}
