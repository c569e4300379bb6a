package chat

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
}

// ParseScheduledDate turns free-text date answers into a concrete day.
// Supported forms: "today", "tomorrow", a weekday name (next
// occurrence), DD/MM/YYYY and YYYY-MM-DD. Anything else falls back to
// tomorrow, flagged by the second return so the confirmation message
// can say so.
func ParseScheduledDate(raw string, now time.Time) (time.Time, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	// Midnight in the caller's location, not the UTC day boundary.
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch text {
	case "today":
		return day, true
	case "tomorrow":
		return day.AddDate(0, 0, 1), true
	}

	if wd, ok := weekdays[text]; ok {
		offset := (int(wd) - int(now.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return day.AddDate(0, 0, offset), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return t, true
		}
	}

	return day.AddDate(0, 0, 1), false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
