// Package httpapi exposes the score synchronization pipeline over HTTP.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/bracket"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/syncer"
)

// MatchResponse is the single-match payload of GET /scores.
type MatchResponse struct {
	Match       domain.Match      `json:"match"`
	Status      domain.GameStatus `json:"_status"`
	APICalled   bool              `json:"_apiCalled"`
	Mock        bool              `json:"_mock,omitempty"`
	LastUpdated string            `json:"_lastUpdated,omitempty"`
	Error       string            `json:"_error,omitempty"`
}

// RoundResponse is the batch payload of GET /scores.
type RoundResponse struct {
	Matches      []domain.Match `json:"matches"`
	Mock         bool           `json:"_mock"`
	APIAvailable bool           `json:"_apiAvailable"`
	APICallCount int            `json:"_apiCallCount"`
	Timestamp    string         `json:"_timestamp"`
}

// Handler wires HTTP routes to the sync orchestrator.
type Handler struct {
	sync    *syncer.Orchestrator
	logger  *slog.Logger
	readyFn func() error
}

// NewHandler constructs a Handler. readyFn, if set, gates the readiness
// probe.
func NewHandler(sync *syncer.Orchestrator, logger *slog.Logger, readyFn func() error) *Handler {
	return &Handler{sync: sync, logger: logger, readyFn: readyFn}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.readyFn != nil {
		if err := h.readyFn(); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, err.Error(), h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Scores serves live bracket scores. With a matchId query parameter it
// returns one match; otherwise it returns the whole round. mock=true
// forces placeholder data for this request only.
func (h *Handler) Scores(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	roundParam := r.URL.Query().Get("round")
	if roundParam == "" {
		roundParam = "1"
	}
	round, err := strconv.Atoi(roundParam)
	if err != nil || round < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid round", h.logger)
		return
	}

	mock := r.URL.Query().Get("mock") == "true"
	matchID := r.URL.Query().Get("matchId")

	if matchID != "" {
		h.serveMatch(w, r, logger, round, matchID, mock)
		return
	}

	res, err := h.sync.SyncRound(r.Context(), round, mock)
	if err != nil {
		h.writeSyncError(w, r, logger, err)
		return
	}

	matches := make([]domain.Match, len(res.Matches))
	for i, mr := range res.Matches {
		matches[i] = mr.Match
	}
	writeJSON(w, http.StatusOK, RoundResponse{
		Matches:      matches,
		Mock:         res.Mock,
		APIAvailable: res.APIAvailable,
		APICallCount: res.APICallCount,
		Timestamp:    res.Timestamp.UTC().Format(time.RFC3339),
	}, h.logger)
}

func (h *Handler) serveMatch(w http.ResponseWriter, r *http.Request, logger *slog.Logger, round int, matchID string, mock bool) {
	res, err := h.sync.SyncMatch(r.Context(), round, matchID, mock)
	if err != nil {
		if errors.Is(err, syncer.ErrMatchNotFound) {
			writeError(w, r, http.StatusNotFound, "match not found", h.logger)
			return
		}
		h.writeSyncError(w, r, logger, err)
		return
	}

	resp := MatchResponse{
		Match:     res.Match,
		Status:    res.Status,
		APICalled: res.APICalled,
		Mock:      res.Mock,
	}
	if res.LastUpdated > 0 {
		resp.LastUpdated = time.UnixMilli(res.LastUpdated).UTC().Format(time.RFC3339)
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func (h *Handler) writeSyncError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var notFound *bracket.RoundNotFoundError
	if errors.As(err, &notFound) {
		writeError(w, r, http.StatusNotFound, notFound.Error(), h.logger)
		return
	}
	logging.Error(logger, "score sync failed", err)
	writeError(w, r, http.StatusBadGateway, "failed to fetch scores", h.logger)
}
