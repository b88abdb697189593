package domain

// GameStatus classifies where a match sits in its lifecycle.
// It is derived from schedule data per poll and never stored as
// authoritative truth outside a CompletedGame record.
type GameStatus string

const (
	StatusUpcoming  GameStatus = "upcoming"
	StatusActive    GameStatus = "active"
	StatusCompleted GameStatus = "completed"
)

// Team is one slot of a bracket match.
type Team struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Seed             int    `json:"seed,omitempty"`
	Record           string `json:"record,omitempty"`
	Score            int    `json:"score"`
	ScoreUnavailable bool   `json:"scoreUnavailable,omitempty"`
}

// Match is the bracket match shape owned by the bracket-data provider.
// Sync code treats matches as read-only and returns modified copies so
// concurrent callers never observe partial updates.
type Match struct {
	ID              string            `json:"id"`
	Round           int               `json:"round"`
	RoundName       string            `json:"roundName,omitempty"`
	Region          string            `json:"region,omitempty"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	Location        string            `json:"location,omitempty"`
	TeamA           Team              `json:"teamA"`
	TeamB           Team              `json:"teamB"`
	Winner          string            `json:"winner,omitempty"`
	Predictions     map[string]string `json:"predictions,omitempty"`
	Teams           []Team            `json:"teams"`
	DataUnavailable bool              `json:"dataUnavailable,omitempty"`
}

// Clone returns a deep copy safe to modify while the original is shared.
func (m Match) Clone() Match {
	out := m
	if m.Predictions != nil {
		out.Predictions = make(map[string]string, len(m.Predictions))
		for k, v := range m.Predictions {
			out.Predictions[k] = v
		}
	}
	out.Teams = []Team{out.TeamA, out.TeamB}
	return out
}

// WithSlots returns a copy of m with both team slots replaced and the
// teams mirror rebuilt.
func (m Match) WithSlots(a, b Team) Match {
	out := m.Clone()
	out.TeamA = a
	out.TeamB = b
	out.Teams = []Team{a, b}
	return out
}

// CompletedGame is the permanent final result recorded for a match.
// Once written it is treated as immutable ground truth and the match is
// never fetched from upstream again.
type CompletedGame struct {
	TeamAScore  int    `json:"teamAScore"`
	TeamBScore  int    `json:"teamBScore"`
	WinnerID    string `json:"winner"`
	LastUpdated int64  `json:"lastUpdated"` // epoch millis
}
