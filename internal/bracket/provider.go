// Package bracket supplies the bracket's match data per round.
package bracket

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
)

// Provider yields the matches of one bracket round.
type Provider interface {
	Matches(ctx context.Context, round int) ([]domain.Match, error)
}

// RoundNotFoundError reports a round with no bracket data.
type RoundNotFoundError struct {
	Round int
}

func (e *RoundNotFoundError) Error() string {
	return fmt.Sprintf("no bracket data for round %d", e.Round)
}

// FSProvider reads round files named round-<n>.json from a directory.
// Files are read per call so edits to the bracket show up without a
// restart.
type FSProvider struct {
	dir string
}

// NewFSProvider constructs a provider over dir.
func NewFSProvider(dir string) *FSProvider {
	return &FSProvider{dir: dir}
}

// Matches loads and returns the round's matches. Matches come back in
// stable id order with their teams mirror populated.
func (p *FSProvider) Matches(_ context.Context, round int) ([]domain.Match, error) {
	path := filepath.Join(p.dir, fmt.Sprintf("round-%d.json", round))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RoundNotFoundError{Round: round}
		}
		return nil, fmt.Errorf("read bracket round %d: %w", round, err)
	}

	var file struct {
		Matches []domain.Match `json:"matches"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse bracket round %d: %w", round, err)
	}

	out := make([]domain.Match, 0, len(file.Matches))
	for _, m := range file.Matches {
		m.Round = round
		m.Teams = []domain.Team{m.TeamA, m.TeamB}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// StaticProvider serves a fixed in-memory bracket, used in tests and as
// a fallback when no data directory is configured.
type StaticProvider struct {
	rounds map[int][]domain.Match
}

// NewStaticProvider groups the given matches by round.
func NewStaticProvider(matches ...domain.Match) *StaticProvider {
	rounds := make(map[int][]domain.Match)
	for _, m := range matches {
		m.Teams = []domain.Team{m.TeamA, m.TeamB}
		rounds[m.Round] = append(rounds[m.Round], m)
	}
	return &StaticProvider{rounds: rounds}
}

// Matches returns copies of the round's matches.
func (p *StaticProvider) Matches(_ context.Context, round int) ([]domain.Match, error) {
	matches, ok := p.rounds[round]
	if !ok {
		return nil, &RoundNotFoundError{Round: round}
	}
	out := make([]domain.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out, nil
}
