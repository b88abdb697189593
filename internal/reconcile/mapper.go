// Package reconcile folds upstream boxscore payloads into bracket matches.
package reconcile

import (
	"log/slog"
	"strings"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/providers/sportradar"
)

// SideMatcher decides whether an upstream boxscore side refers to a
// bracket team slot.
type SideMatcher interface {
	Matches(side sportradar.BoxscoreTeam, team domain.Team) bool
}

// SideMatcherFunc adapts a plain function to SideMatcher.
type SideMatcherFunc func(side sportradar.BoxscoreTeam, team domain.Team) bool

func (f SideMatcherFunc) Matches(side sportradar.BoxscoreTeam, team domain.Team) bool {
	return f(side, team)
}

// NameSubstringMatcher matches when either name contains the other,
// case-insensitively. The upstream market name ("Duke Blue Devils") and
// the bracket name ("Duke") rarely agree exactly, so containment in
// either direction is the useful test. Alias and nickname are tried too.
func NameSubstringMatcher() SideMatcher {
	return SideMatcherFunc(func(side sportradar.BoxscoreTeam, team domain.Team) bool {
		bracket := strings.ToLower(strings.TrimSpace(team.Name))
		if bracket == "" {
			return false
		}
		for _, candidate := range []string{side.Name, side.Alias, side.Nickname} {
			upstream := strings.ToLower(strings.TrimSpace(candidate))
			if upstream == "" {
				continue
			}
			if strings.Contains(upstream, bracket) || strings.Contains(bracket, upstream) {
				return true
			}
		}
		return false
	})
}

// Mapper merges live boxscore data into bracket matches. It never
// mutates its input match; callers always receive a fresh copy.
type Mapper struct {
	matcher SideMatcher
	logger  *slog.Logger
}

// NewMapper constructs a Mapper. A nil matcher falls back to the
// name-substring heuristic.
func NewMapper(matcher SideMatcher, logger *slog.Logger) *Mapper {
	if matcher == nil {
		matcher = NameSubstringMatcher()
	}
	return &Mapper{matcher: matcher, logger: logger}
}

// Merge returns a copy of the match carrying the boxscore's scores and,
// for a finished game with both scores known, the winner. A missing or
// "-" score becomes zero, flags scoreUnavailable on both slots, and marks
// the match dataUnavailable. The match is returned unchanged when the
// payload lacks a team sub-object or a bracket slot has no team name yet.
func (p *Mapper) Merge(box sportradar.Boxscore, m domain.Match) domain.Match {
	if missingSide(box.Home) || missingSide(box.Away) {
		logging.Warn(p.logger, "boxscore payload missing a side, keeping match as is",
			slog.String(logging.FieldMatchID, m.ID),
		)
		return m.Clone()
	}
	if strings.TrimSpace(m.TeamA.Name) == "" || strings.TrimSpace(m.TeamB.Name) == "" {
		logging.Warn(p.logger, "match slots not populated, skipping merge",
			slog.String(logging.FieldMatchID, m.ID),
		)
		return m.Clone()
	}

	sideA, sideB := p.orient(box, m)

	// One placeholder score taints the whole match: both slots are
	// flagged so the dashboard greys the matchup out as a unit.
	unavailable := sideA.Points.Unavailable() || sideB.Points.Unavailable()

	a := applySide(m.TeamA, sideA, unavailable)
	b := applySide(m.TeamB, sideB, unavailable)

	out := m.WithSlots(a, b)
	out.DataUnavailable = unavailable

	if finished(box.Status) && !unavailable {
		if a.Score > b.Score {
			out.Winner = m.TeamA.ID
		} else {
			out.Winner = m.TeamB.ID
		}
	}
	return out
}

// MockBoxscore builds a placeholder payload for a match when live data
// cannot be fetched. Scores are unavailable and the status is scheduled
// so downstream merging never invents a winner.
func (p *Mapper) MockBoxscore(m domain.Match) sportradar.Boxscore {
	return sportradar.Boxscore{
		Status: sportradar.GameStatusScheduled,
		Home:   sportradar.BoxscoreTeam{Name: m.TeamA.Name},
		Away:   sportradar.BoxscoreTeam{Name: m.TeamB.Name},
	}
}

// orient pairs the boxscore's home/away sides with the match's A/B slots.
// When neither side matches either slot the home side is assumed to be
// slot A, matching upstream ordering for seeded matchups.
func (p *Mapper) orient(box sportradar.Boxscore, m domain.Match) (sportradar.BoxscoreTeam, sportradar.BoxscoreTeam) {
	switch {
	case p.matcher.Matches(box.Home, m.TeamA) || p.matcher.Matches(box.Away, m.TeamB):
		return box.Home, box.Away
	case p.matcher.Matches(box.Home, m.TeamB) || p.matcher.Matches(box.Away, m.TeamA):
		return box.Away, box.Home
	default:
		logging.Warn(p.logger, "could not pair boxscore sides with bracket slots",
			slog.String(logging.FieldMatchID, m.ID),
			slog.String("home", box.Home.Name),
			slog.String("away", box.Away.Name),
		)
		return box.Home, box.Away
	}
}

// missingSide reports a payload side carrying no identifying fields at
// all, which means the upstream response did not include that team.
func missingSide(side sportradar.BoxscoreTeam) bool {
	return side.ID == "" && side.Name == "" && side.Alias == "" &&
		side.Nickname == "" && side.Points.Unavailable()
}

func applySide(team domain.Team, side sportradar.BoxscoreTeam, unavailable bool) domain.Team {
	team.Score = 0
	if !side.Points.Unavailable() {
		team.Score = side.Points.Value
	}
	team.ScoreUnavailable = unavailable
	return team
}

func finished(status string) bool {
	switch status {
	case sportradar.GameStatusComplete, sportradar.GameStatusClosed:
		return true
	}
	return false
}
