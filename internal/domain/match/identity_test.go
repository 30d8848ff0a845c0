package match

import (
	"testing"
	"time"
)

func TestDedupKeyLowercasesHomeName(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	if got, want := DedupKey("Arsenal", day), "arsenal|2025-03-09"; got != want {
		t.Fatalf("DedupKey = %q, want %q", got, want)
	}
	if DedupKey("ARSENAL", day) != DedupKey("arsenal", day) {
		t.Fatal("keys should be case-insensitive on the home name")
	}
}

func TestDayWindowIsHalfOpen(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*3600)
	start, end := DayWindow(time.Date(2025, 3, 9, 23, 59, 59, 0, loc))

	if want := time.Date(2025, 3, 9, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, loc); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}
