package sportradar

import (
	"encoding/json"
	"strconv"
	"strings"
)

const providerName = "sportradar"

// ScoreUnavailableMarker is the literal placeholder the upstream reports
// when a game has no score yet.
const ScoreUnavailableMarker = "-"

// Game statuses the upstream reports that this service reacts to.
const (
	GameStatusScheduled = "scheduled"
	GameStatusComplete  = "complete"
	GameStatusClosed    = "closed"
)

// Points decodes an upstream points field that may be a JSON number, a
// numeric string, the "-" marker, or null. The zero value means
// "no numeric score reported".
type Points struct {
	Value   int
	Numeric bool
}

// NumericPoints builds a Points carrying a real score.
func NumericPoints(value int) Points {
	return Points{Value: value, Numeric: true}
}

// Unavailable reports whether the upstream had no numeric score.
func (p Points) Unavailable() bool {
	return !p.Numeric
}

func (p *Points) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = Points{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			// "-" and any other non-numeric placeholder mean no score.
			*p = Points{}
			return nil
		}
		*p = Points{Value: value, Numeric: true}
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*p = Points{Value: value, Numeric: true}
	return nil
}

func (p Points) MarshalJSON() ([]byte, error) {
	if p.Unavailable() {
		return json.Marshal(ScoreUnavailableMarker)
	}
	return json.Marshal(p.Value)
}

// BoxscoreTeam is one side of an upstream boxscore.
type BoxscoreTeam struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Alias    string `json:"alias,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Points   Points `json:"points"`
}

// Boxscore is the upstream game payload this service consumes.
type Boxscore struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Home   BoxscoreTeam `json:"home"`
	Away   BoxscoreTeam `json:"away"`
}

// ScheduledGame is one entry of a daily schedule payload.
type ScheduledGame struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	Scheduled string       `json:"scheduled"`
	Home      BoxscoreTeam `json:"home"`
	Away      BoxscoreTeam `json:"away"`
}

// DailySchedule is the upstream schedule payload for one date.
type DailySchedule struct {
	Date  string          `json:"date"`
	Games []ScheduledGame `json:"games"`
}
