package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/metrics"
)

// NewRouter registers the API routes and wraps them with request
// logging and CORS. The bracket dashboard is a browser client, so
// cross-origin GETs must be allowed.
func NewRouter(h *Handler, logger *slog.Logger, recorder *metrics.Recorder) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)
	r.HandleFunc("/scores", h.Scores).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})

	return LoggingMiddleware(logger, recorder, c.Handler(r))
}
