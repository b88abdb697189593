package schedule

import (
	"testing"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
)

type stubRecords map[string]domain.CompletedGame

func (s stubRecords) Get(matchID string) (domain.CompletedGame, bool) {
	rec, ok := s[matchID]
	return rec, ok
}

func localClock(year int, month time.Month, day, hour, min int) func() time.Time {
	at := time.Date(year, month, day, hour, min, 0, 0, time.Local)
	return func() time.Time { return at }
}

func scheduledMatch() domain.Match {
	return domain.Match{
		ID:    "match-1-21",
		Date:  "March 20, 2025",
		Time:  "2:00 PM",
		TeamA: domain.Team{ID: "mount-st-marys", Name: "Mount St. Mary's"},
		TeamB: domain.Team{ID: "duke", Name: "Duke"},
	}
}

func TestClassifyActiveInsideBuffer(t *testing.T) {
	c := NewWithClock(localClock(2025, time.March, 20, 13, 35), nil)
	if got := c.Classify(scheduledMatch(), nil); got != domain.StatusActive {
		t.Fatalf("expected active at 13:35 for a 2 PM tip, got %s", got)
	}
}

func TestClassifyCompletedAfterWindow(t *testing.T) {
	c := NewWithClock(localClock(2025, time.March, 20, 17, 0), nil)
	if got := c.Classify(scheduledMatch(), nil); got != domain.StatusCompleted {
		t.Fatalf("expected completed at 17:00 for a 2 PM tip, got %s", got)
	}
}

func TestClassifyUpcomingBeforeBuffer(t *testing.T) {
	c := NewWithClock(localClock(2025, time.March, 20, 13, 0), nil)
	if got := c.Classify(scheduledMatch(), nil); got != domain.StatusUpcoming {
		t.Fatalf("expected upcoming at 13:00 for a 2 PM tip, got %s", got)
	}
}

func TestClassifyBoundaryInstants(t *testing.T) {
	// Exactly 30 minutes before tip counts as active.
	c := NewWithClock(localClock(2025, time.March, 20, 13, 30), nil)
	if got := c.Classify(scheduledMatch(), nil); got != domain.StatusActive {
		t.Fatalf("expected active at the buffer boundary, got %s", got)
	}
	// Exactly 2h30m after tip still counts as active.
	c = NewWithClock(localClock(2025, time.March, 20, 16, 30), nil)
	if got := c.Classify(scheduledMatch(), nil); got != domain.StatusActive {
		t.Fatalf("expected active at the window boundary, got %s", got)
	}
}

func TestCompletedRecordShortCircuitsParsing(t *testing.T) {
	records := stubRecords{"match-1-21": {TeamAScore: 56, TeamBScore: 71, WinnerID: "duke"}}
	m := scheduledMatch()
	m.Date = "garbage"
	m.Time = "garbage"

	c := NewWithClock(localClock(2025, time.March, 20, 10, 0), nil)
	if got := c.Classify(m, records); got != domain.StatusCompleted {
		t.Fatalf("recorded final must classify completed, got %s", got)
	}
}

func TestWinnerAlreadySetIsCompleted(t *testing.T) {
	m := scheduledMatch()
	m.Winner = "duke"
	c := NewWithClock(localClock(2025, time.March, 20, 13, 35), nil)
	if got := c.Classify(m, nil); got != domain.StatusCompleted {
		t.Fatalf("expected completed when winner set, got %s", got)
	}
}

func TestUnparseableScheduleFailsOpen(t *testing.T) {
	m := scheduledMatch()
	m.Date = "sometime soon"
	m.Time = "tip-off"
	c := NewWithClock(localClock(2025, time.March, 20, 9, 0), nil)
	if got := c.Classify(m, nil); got != domain.StatusActive {
		t.Fatalf("unparseable schedule must fail open to active, got %s", got)
	}
}

func TestEmptyScheduleFailsOpen(t *testing.T) {
	m := scheduledMatch()
	m.Date = ""
	m.Time = ""
	c := NewWithClock(localClock(2025, time.March, 20, 9, 0), nil)
	if got := c.Classify(m, nil); got != domain.StatusActive {
		t.Fatalf("missing schedule must fail open to active, got %s", got)
	}
}

func TestParseStartDateVariants(t *testing.T) {
	c := NewWithClock(localClock(2025, time.March, 20, 12, 0), nil)

	cases := []struct {
		date string
		time string
		want time.Time
	}{
		{"Thursday, March 20, 2025", "2:00 PM", time.Date(2025, time.March, 20, 14, 0, 0, 0, time.Local)},
		{"March 21st, 2025", "10:15 AM", time.Date(2025, time.March, 21, 10, 15, 0, 0, time.Local)},
		// Missing year falls back to the current year.
		{"March 22", "7:10 PM MST", time.Date(2025, time.March, 22, 19, 10, 0, 0, time.Local)},
		// Missing time falls back to 2 PM.
		{"March 23, 2025", "", time.Date(2025, time.March, 23, 14, 0, 0, 0, time.Local)},
		// Missing date falls back to today.
		{"", "12:00 AM", time.Date(2025, time.March, 20, 0, 0, 0, 0, time.Local)},
		{"", "12:30 PM", time.Date(2025, time.March, 20, 12, 30, 0, 0, time.Local)},
	}

	for _, tc := range cases {
		m := scheduledMatch()
		m.Date = tc.date
		m.Time = tc.time
		got, ok := c.parseStart(m)
		if !ok {
			t.Fatalf("date=%q time=%q: expected parse success", tc.date, tc.time)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("date=%q time=%q: got %s, want %s", tc.date, tc.time, got, tc.want)
		}
	}
}

func TestParseStartOutOfRangeComponents(t *testing.T) {
	c := NewWithClock(localClock(2025, time.March, 20, 12, 0), nil)

	m := scheduledMatch()
	m.Date = "March 45, 2025"
	m.Time = "55:99"
	got, ok := c.parseStart(m)
	if !ok {
		t.Fatalf("expected parse success with defaults")
	}
	want := time.Date(2025, time.March, 20, 14, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("out-of-range components must fall back to defaults: got %s, want %s", got, want)
	}
}
