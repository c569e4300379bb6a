package chat

import (
	"testing"
	"time"
)

// Wednesday.
var wednesdayNoon = time.Date(2026, time.August, 26, 14, 30, 0, 0, time.UTC)

func TestParseScheduledDateKeywords(t *testing.T) {
	got, ok := ParseScheduledDate("Today", wednesdayNoon)
	if !ok || got.Day() != 26 {
		t.Fatalf("today -> %v, ok=%v", got, ok)
	}

	got, ok = ParseScheduledDate("tomorrow", wednesdayNoon)
	if !ok || got.Day() != 27 {
		t.Fatalf("tomorrow -> %v, ok=%v", got, ok)
	}
}

func TestParseScheduledDateWeekday(t *testing.T) {
	got, ok := ParseScheduledDate("Saturday", wednesdayNoon)
	if !ok {
		t.Fatal("weekday not recognized")
	}
	if got.Weekday() != time.Saturday || got.Day() != 29 {
		t.Fatalf("saturday -> %v", got)
	}

	// The same weekday means next week, not today.
	got, ok = ParseScheduledDate("wednesday", wednesdayNoon)
	if !ok || got.Day() != 2 || got.Month() != time.September {
		t.Fatalf("wednesday -> %v, ok=%v", got, ok)
	}
}

func TestParseScheduledDateUsesLocalDay(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	earlyMorning := time.Date(2026, time.August, 27, 1, 30, 0, 0, nairobi)

	got, ok := ParseScheduledDate("today", earlyMorning)
	if !ok || got.Day() != 27 {
		t.Fatalf("today at 01:30 EAT -> %v, ok=%v", got, ok)
	}
	got, _ = ParseScheduledDate("tomorrow", earlyMorning)
	if got.Day() != 28 {
		t.Fatalf("tomorrow at 01:30 EAT -> %v", got)
	}
}

func TestParseScheduledDateLayouts(t *testing.T) {
	got, ok := ParseScheduledDate("25/12/2026", wednesdayNoon)
	if !ok || got.Day() != 25 || got.Month() != time.December {
		t.Fatalf("25/12/2026 -> %v, ok=%v", got, ok)
	}

	got, ok = ParseScheduledDate("2026-09-15", wednesdayNoon)
	if !ok || got.Day() != 15 || got.Month() != time.September {
		t.Fatalf("2026-09-15 -> %v, ok=%v", got, ok)
	}
}

func TestParseScheduledDateFallback(t *testing.T) {
	got, ok := ParseScheduledDate("whenever works", wednesdayNoon)
	if ok {
		t.Fatal("gibberish must be flagged as unrecognized")
	}
	if got.Day() != 27 {
		t.Fatalf("fallback -> %v, want tomorrow", got)
	}
}
