// Package schedule derives the upcoming/active/completed lifecycle state
// of a match from its scheduled date/time strings.
package schedule

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
)

// Games are considered active 30 minutes before scheduled start and are
// assumed over 2.5 hours after it.
const (
	activeBuffer = 30 * time.Minute
	gameWindow   = 2*time.Hour + 30*time.Minute

	defaultHour   = 14 // 2 PM local
	defaultMinute = 0
)

// CompletedLookup answers whether a match already has a recorded final.
type CompletedLookup interface {
	Get(matchID string) (domain.CompletedGame, bool)
}

var (
	monthPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	dayPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\b`)
	yearPattern  = regexp.MustCompile(`\b(20\d{2})\b`)
	timePattern  = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(AM|PM)?`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Classifier derives game lifecycle status. It is deterministic given its
// clock and has no side effects beyond diagnostics.
type Classifier struct {
	now    func() time.Time
	logger *slog.Logger
}

// New constructs a Classifier on the wall clock.
func New(logger *slog.Logger) *Classifier {
	return NewWithClock(time.Now, logger)
}

// NewWithClock constructs a Classifier with an injected time source.
func NewWithClock(now func() time.Time, logger *slog.Logger) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now, logger: logger}
}

// Classify returns the lifecycle status for a match. A recorded final or an
// already-set winner short-circuits to completed; otherwise status follows
// the parsed start time. When neither date nor time can be parsed at all
// the match is classified active so a live fetch is still attempted.
func (c *Classifier) Classify(m domain.Match, records CompletedLookup) domain.GameStatus {
	if records != nil {
		if _, ok := records.Get(m.ID); ok {
			return domain.StatusCompleted
		}
	}
	if m.Winner != "" {
		return domain.StatusCompleted
	}

	start, ok := c.parseStart(m)
	if !ok {
		logging.Warn(c.logger, "could not parse schedule, assuming active",
			slog.String(logging.FieldMatchID, m.ID),
			slog.String("date", m.Date),
			slog.String("time", m.Time),
		)
		return domain.StatusActive
	}

	now := c.now()
	if now.After(start.Add(gameWindow)) {
		return domain.StatusCompleted
	}
	if !now.Before(start.Add(-activeBuffer)) {
		return domain.StatusActive
	}
	return domain.StatusUpcoming
}

// parseStart builds a best-effort local start time from the match's date
// and time strings. Each missing or out-of-range component falls back to
// its default (today's date, 2 PM). The second return is false only when
// no component at all could be extracted.
func (c *Classifier) parseStart(m domain.Match) (time.Time, bool) {
	dateStr := strings.TrimSpace(m.Date)
	timeStr := strings.TrimSpace(m.Time)

	today := c.now()
	year, month, day := today.Date()
	hour, minute := defaultHour, defaultMinute

	parsedAny := false

	if dateStr != "" {
		if match := monthPattern.FindStringSubmatch(dateStr); match != nil {
			if mo, ok := monthsByName[strings.ToLower(match[1])]; ok {
				month = mo
				parsedAny = true
			}
		}
		if match := dayPattern.FindStringSubmatch(dateStr); match != nil {
			if d, err := strconv.Atoi(match[1]); err == nil {
				day = d
				parsedAny = true
			}
		}
		if match := yearPattern.FindStringSubmatch(dateStr); match != nil {
			if y, err := strconv.Atoi(match[1]); err == nil {
				year = y
				parsedAny = true
			}
		}
	}

	if timeStr != "" {
		if match := timePattern.FindStringSubmatch(timeStr); match != nil {
			h, _ := strconv.Atoi(match[1])
			min, _ := strconv.Atoi(match[2])
			switch strings.ToUpper(match[3]) {
			case "PM":
				if h < 12 {
					h += 12
				}
			case "AM":
				if h == 12 {
					h = 0
				}
			}
			hour, minute = h, min
			parsedAny = true
		}
	}

	if !parsedAny {
		return time.Time{}, false
	}

	if month < time.January || month > time.December {
		c.warnComponent(m.ID, "month", int(month))
		month = today.Month()
	}
	if day < 1 || day > 31 {
		c.warnComponent(m.ID, "day", day)
		day = today.Day()
	}
	if hour < 0 || hour > 23 {
		c.warnComponent(m.ID, "hour", hour)
		hour = defaultHour
	}
	if minute < 0 || minute > 59 {
		c.warnComponent(m.ID, "minute", minute)
		minute = defaultMinute
	}

	return time.Date(year, month, day, hour, minute, 0, 0, time.Local), true
}

func (c *Classifier) warnComponent(matchID, component string, value int) {
	logging.Warn(c.logger, "schedule component out of range, using default",
		slog.String(logging.FieldMatchID, matchID),
		slog.String("component", component),
		slog.Int("value", value),
	)
}
