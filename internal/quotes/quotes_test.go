package quotes

import (
	"testing"
	"time"
)

func TestDailyIsDeterministicPerDay(t *testing.T) {
	morning := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 28, 22, 30, 0, 0, time.UTC)

	if Daily(morning) != Daily(evening) {
		t.Error("same day must select the same quote")
	}
	if Daily(morning) == "" {
		t.Error("quote is empty")
	}
}

func TestDailyCoversWholeYear(t *testing.T) {
	// Every day of the year must map to a catalog entry without panic.
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 365; i++ {
		seen[Daily(day.AddDate(0, 0, i))] = true
	}
	if len(seen) != Count() {
		t.Errorf("365 days hit %d distinct quotes, want %d", len(seen), Count())
	}
}
