// Package syncer orchestrates one score synchronization pass over
// bracket matches: completed-record short-circuit, lifecycle
// classification, live fetch for active games, and write-through of new
// finals.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/bracket"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/gameids"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/metrics"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/providers/sportradar"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/reconcile"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/schedule"
)

// ErrMatchNotFound reports a match id absent from the requested round.
var ErrMatchNotFound = errors.New("match not found")

// ScoreSource is the upstream surface the orchestrator needs.
type ScoreSource interface {
	FetchGame(ctx context.Context, gameID string) (sportradar.Boxscore, error)
	TestConnection(ctx context.Context) (bool, error)
}

// CompletedRecords is the final-result store surface the orchestrator
// needs.
type CompletedRecords interface {
	Get(matchID string) (domain.CompletedGame, bool)
	Put(matchID string, teamAScore, teamBScore int, winnerID string)
}

// MatchResult is one match's outcome from a sync pass.
type MatchResult struct {
	Match     domain.Match
	Status    domain.GameStatus
	APICalled bool
	Mock      bool
	// LastUpdated carries the recorded final's timestamp in epoch millis
	// when the match was served from the completed store.
	LastUpdated int64
	// Err is the upstream failure that forced a mock fallback, if any.
	// The match itself is always usable.
	Err error
}

// RoundResult is the outcome of syncing one full round.
type RoundResult struct {
	Matches      []MatchResult
	Mock         bool
	APIAvailable bool
	APICallCount int
	Timestamp    time.Time
}

// Config carries the orchestrator's collaborators.
type Config struct {
	Bracket    bracket.Provider
	GameIDs    gameids.Lookup
	Source     ScoreSource
	Completed  CompletedRecords
	Classifier *schedule.Classifier
	Mapper     *reconcile.Mapper
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
	// ForceMock disables live fetching entirely; active games are served
	// mock payloads.
	ForceMock bool
}

// Orchestrator runs sync passes. Safe for concurrent use.
type Orchestrator struct {
	cfg Config
	now func() time.Time

	connMu       sync.Mutex
	connOK       bool
	connRecheck  time.Time
	connInterval time.Duration
}

// New constructs an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Bracket == nil {
		return nil, errors.New("syncer: bracket provider is required")
	}
	if cfg.Source == nil {
		return nil, errors.New("syncer: score source is required")
	}
	if cfg.Completed == nil {
		return nil, errors.New("syncer: completed records store is required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = schedule.New(cfg.Logger)
	}
	if cfg.Mapper == nil {
		cfg.Mapper = reconcile.NewMapper(nil, cfg.Logger)
	}
	if cfg.GameIDs == nil {
		cfg.GameIDs = gameids.Builtin()
	}
	return &Orchestrator{cfg: cfg, now: time.Now, connInterval: 5 * time.Minute}, nil
}

// SyncRound synchronizes every match of a round. Matches are processed
// concurrently; per-match upstream failures degrade that match to mock
// data and never fail the batch.
func (o *Orchestrator) SyncRound(ctx context.Context, round int, mock bool) (RoundResult, error) {
	started := o.now()

	matches, err := o.cfg.Bracket.Matches(ctx, round)
	if err != nil {
		o.cfg.Metrics.RecordSyncCycle(o.now().Sub(started), err)
		return RoundResult{}, err
	}

	apiAvailable := o.apiAvailable(ctx)
	forceMock := mock || o.cfg.ForceMock || !apiAvailable

	results := make([]MatchResult, len(matches))
	var apiCalls atomic.Int64
	var wg sync.WaitGroup
	for i, m := range matches {
		wg.Add(1)
		go func(i int, m domain.Match) {
			defer wg.Done()
			res := o.syncOne(ctx, m, forceMock)
			if res.APICalled {
				apiCalls.Add(1)
			}
			results[i] = res
		}(i, m)
	}
	wg.Wait()

	usedMock := forceMock
	for _, res := range results {
		if res.Mock {
			usedMock = true
		}
	}

	o.cfg.Metrics.RecordSyncCycle(o.now().Sub(started), nil)
	logging.Info(o.cfg.Logger, "round synchronized",
		slog.Int(logging.FieldRound, round),
		slog.Int(logging.FieldCount, len(results)),
		slog.Int("api_calls", int(apiCalls.Load())),
		slog.Bool("mock", usedMock),
	)

	return RoundResult{
		Matches:      results,
		Mock:         usedMock,
		APIAvailable: apiAvailable,
		APICallCount: int(apiCalls.Load()),
		Timestamp:    o.now(),
	}, nil
}

// SyncMatch synchronizes a single match within a round.
func (o *Orchestrator) SyncMatch(ctx context.Context, round int, matchID string, mock bool) (MatchResult, error) {
	matches, err := o.cfg.Bracket.Matches(ctx, round)
	if err != nil {
		return MatchResult{}, err
	}
	for _, m := range matches {
		if m.ID == matchID {
			forceMock := mock || o.cfg.ForceMock || !o.apiAvailable(ctx)
			return o.syncOne(ctx, m, forceMock), nil
		}
	}
	return MatchResult{}, fmt.Errorf("%w: %s in round %d", ErrMatchNotFound, matchID, round)
}

// syncOne applies the per-match pipeline. It never returns an error;
// upstream failures degrade to a mock payload recorded on the result.
func (o *Orchestrator) syncOne(ctx context.Context, m domain.Match, forceMock bool) MatchResult {
	if rec, ok := o.cfg.Completed.Get(m.ID); ok {
		return MatchResult{
			Match:       o.applyFinal(m, rec),
			Status:      domain.StatusCompleted,
			LastUpdated: rec.LastUpdated,
		}
	}

	status := o.cfg.Classifier.Classify(m, o.cfg.Completed)
	if status != domain.StatusActive {
		return MatchResult{Match: m.Clone(), Status: status}
	}

	// Forced mock is decided before any id lookup so active matches
	// without a mapping still get the synthetic merge.
	if forceMock {
		return o.mockResult(m, status, nil)
	}

	gameID, hasID := o.cfg.GameIDs.GameID(m.ID)
	if !hasID {
		logging.Warn(o.cfg.Logger, "active game has no upstream id mapping",
			slog.String(logging.FieldMatchID, m.ID),
		)
		return MatchResult{Match: m.Clone(), Status: status}
	}

	box, err := o.cfg.Source.FetchGame(ctx, gameID)
	if err != nil {
		logging.Error(o.cfg.Logger, "live fetch failed, serving mock data", err,
			slog.String(logging.FieldMatchID, m.ID),
			slog.String(logging.FieldGameID, gameID),
		)
		res := o.mockResult(m, status, err)
		res.APICalled = true
		return res
	}

	merged := o.cfg.Mapper.Merge(box, m)
	if merged.Winner != "" {
		o.cfg.Completed.Put(m.ID, merged.TeamA.Score, merged.TeamB.Score, merged.Winner)
	}
	return MatchResult{Match: merged, Status: status, APICalled: true}
}

// applyFinal stamps a recorded final onto a match copy.
func (o *Orchestrator) applyFinal(m domain.Match, rec domain.CompletedGame) domain.Match {
	a, b := m.TeamA, m.TeamB
	a.Score, a.ScoreUnavailable = rec.TeamAScore, false
	b.Score, b.ScoreUnavailable = rec.TeamBScore, false
	out := m.WithSlots(a, b)
	out.Winner = rec.WinnerID
	return out
}

func (o *Orchestrator) mockResult(m domain.Match, status domain.GameStatus, err error) MatchResult {
	o.cfg.Metrics.RecordMockFallback()
	merged := o.cfg.Mapper.Merge(o.cfg.Mapper.MockBoxscore(m), m)
	return MatchResult{Match: merged, Status: status, Mock: true, Err: err}
}

// apiAvailable probes upstream connectivity at most once per recheck
// interval and amortizes the answer across batches. A probe failure
// reads as unavailable, never as an error.
func (o *Orchestrator) apiAvailable(ctx context.Context) bool {
	if o.cfg.ForceMock {
		return false
	}

	o.connMu.Lock()
	defer o.connMu.Unlock()

	if o.connRecheck.IsZero() || o.now().After(o.connRecheck) {
		ok, err := o.cfg.Source.TestConnection(ctx)
		if err != nil {
			logging.Warn(o.cfg.Logger, "connection probe failed", "error", err)
			ok = false
		}
		o.connOK = ok
		o.connRecheck = o.now().Add(o.connInterval)
	}
	return o.connOK
}
