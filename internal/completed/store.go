// Package completed records final game results so finished matches are
// never fetched from upstream again.
package completed

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
)

// Store keeps completed-game records in memory, mirrored best-effort to a
// local JSON file. The in-memory table is authoritative for the process
// lifetime; persistence failures are logged, never propagated.
type Store struct {
	mu     sync.RWMutex
	games  map[string]domain.CompletedGame
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore constructs a store persisted at path and rehydrates any prior
// table from disk. A corrupt or absent file is treated as empty. An empty
// path disables persistence entirely.
func NewStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		games:  make(map[string]domain.CompletedGame),
		path:   path,
		logger: logger,
		now:    time.Now,
	}
	s.rehydrate()
	return s
}

// Get returns the record for a match id, if one exists.
func (s *Store) Get(matchID string) (domain.CompletedGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[matchID]
	return rec, ok
}

// Put records a final result for a match id. The first write wins: once a
// record exists it is permanent ground truth and later puts are no-ops,
// which makes concurrent write-through idempotent.
func (s *Store) Put(matchID string, teamAScore, teamBScore int, winnerID string) {
	s.mu.Lock()
	if _, exists := s.games[matchID]; exists {
		s.mu.Unlock()
		return
	}
	s.games[matchID] = domain.CompletedGame{
		TeamAScore:  teamAScore,
		TeamBScore:  teamBScore,
		WinnerID:    winnerID,
		LastUpdated: s.now().UnixMilli(),
	}
	snapshot := s.copyTable()
	s.mu.Unlock()

	logging.Info(s.logger, "game stored as completed",
		slog.String(logging.FieldMatchID, matchID),
		slog.Int("team_a_score", teamAScore),
		slog.Int("team_b_score", teamBScore),
	)
	s.persist(snapshot)
}

// Len reports how many completed games are recorded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// copyTable must be called with s.mu held.
func (s *Store) copyTable() map[string]domain.CompletedGame {
	out := make(map[string]domain.CompletedGame, len(s.games))
	for k, v := range s.games {
		out[k] = v
	}
	return out
}

func (s *Store) rehydrate() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn(s.logger, "could not read completed games file", "error", err)
		}
		return
	}
	var loaded map[string]domain.CompletedGame
	if err := json.Unmarshal(data, &loaded); err != nil {
		logging.Warn(s.logger, "completed games file corrupt, starting empty", "error", err)
		return
	}
	s.games = loaded
	if s.games == nil {
		s.games = make(map[string]domain.CompletedGame)
	}
	logging.Info(s.logger, "loaded completed games", slog.Int(logging.FieldCount, len(s.games)))
}

// persist writes the whole table atomically (tmp file + rename). Failures
// are logged and swallowed.
func (s *Store) persist(table map[string]domain.CompletedGame) {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		logging.Warn(s.logger, "could not encode completed games", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		logging.Warn(s.logger, "could not create completed games dir", "error", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logging.Warn(s.logger, "could not write completed games file", "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		logging.Warn(s.logger, "could not replace completed games file", "error", err)
	}
}
