// Package sportradar implements the rate-limited, cached client for the
// Sportradar NCAA men's basketball API.
package sportradar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/apicache"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/metrics"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/providers"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/ratelimit"
)

// TTLs carries the cache TTL per operation class.
type TTLs struct {
	GameData       time.Duration
	ConnectionTest time.Duration
	DailySchedule  time.Duration
}

func (t TTLs) normalized() TTLs {
	if t.GameData <= 0 {
		t.GameData = time.Minute
	}
	if t.ConnectionTest <= 0 {
		t.ConnectionTest = 5 * time.Minute
	}
	if t.DailySchedule <= 0 {
		t.DailySchedule = time.Hour
	}
	return t
}

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL string
	APIKey  string
	// Placeholder is the sample credential from .env templates; a key equal
	// to it counts as not configured.
	Placeholder string
	HTTPClient  *http.Client
	HTTPTimeout time.Duration
	Cache       *apicache.Cache
	Limiter     *ratelimit.Limiter
	TTL         TTLs
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
}

// Client fetches boxscores and schedules with a TTL response cache and
// per-endpoint rate limiting in front of every network call.
type Client struct {
	baseURL     string
	apiKey      string
	placeholder string
	httpClient  httpDoer
	cache       *apicache.Cache
	limiter     *ratelimit.Limiter
	ttl         TTLs
	logger      *slog.Logger
	metrics     *metrics.Recorder
	now         func() time.Time
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	cache := cfg.Cache
	if cache == nil {
		cache = apicache.New()
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.Config{}, cfg.Logger)
	}
	return &Client{
		baseURL:     normalizeBaseURL(cfg.BaseURL),
		apiKey:      cfg.APIKey,
		placeholder: cfg.Placeholder,
		httpClient:  resolveHTTPClient(cfg.HTTPClient, cfg.HTTPTimeout),
		cache:       cache,
		limiter:     limiter,
		ttl:         cfg.TTL.normalized(),
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		now:         time.Now,
	}
}

// Configured reports whether a usable credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != c.placeholder
}

// FetchGame retrieves the boxscore for an upstream game id, serving from
// cache when a fresh entry exists.
func (c *Client) FetchGame(ctx context.Context, gameID string) (Boxscore, error) {
	if !c.Configured() {
		return Boxscore{}, &providers.ConfigurationError{Reason: "sportradar API key not configured or using the placeholder value"}
	}

	key := cacheKeyGame(gameID)
	if cached, ok := c.cache.Get(key); ok {
		if box, ok := cached.(Boxscore); ok {
			c.metrics.RecordCacheHit(endpointGameData)
			logging.Info(c.logger, "serving cached game data", slog.String(logging.FieldGameID, gameID))
			return box, nil
		}
	}
	c.metrics.RecordCacheMiss(endpointGameData)

	if err := c.acquire(ctx, endpointGameData); err != nil {
		return Boxscore{}, err
	}

	var box Boxscore
	path := fmt.Sprintf("/games/%s/boxscore.json", gameID)
	if err := c.getJSON(ctx, endpointGameData, path, gameID, &box); err != nil {
		return Boxscore{}, err
	}

	c.cache.Set(key, box, c.ttl.GameData)
	return box, nil
}

// TestConnection probes upstream connectivity. A missing credential is a
// clean false, not an error, since this call backs health checks.
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	if !c.Configured() {
		logging.Warn(c.logger, "cannot test api connection: credential not configured")
		return false, nil
	}

	if cached, ok := c.cache.Get(cacheKeyConnTest); ok {
		if result, ok := cached.(bool); ok {
			c.metrics.RecordCacheHit(endpointTestConnection)
			return result, nil
		}
	}
	c.metrics.RecordCacheMiss(endpointTestConnection)

	if err := c.acquire(ctx, endpointTestConnection); err != nil {
		return false, err
	}

	req, err := c.buildRequest(ctx, "/league/hierarchy.json")
	if err != nil {
		return false, err
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordUpstreamAttempt(endpointTestConnection, time.Since(start), err)
	if err != nil {
		logging.Warn(c.logger, "api connection test failed", "error", err)
		return false, nil
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
	resp.Body.Close()

	result := resp.StatusCode >= 200 && resp.StatusCode < 300
	logging.Info(c.logger, "api connection test",
		slog.Int(logging.FieldStatusCode, resp.StatusCode),
		slog.Bool("available", result),
	)
	c.cache.Set(cacheKeyConnTest, result, c.ttl.ConnectionTest)
	return result, nil
}

// FetchDailySchedule retrieves the schedule for a calendar date.
func (c *Client) FetchDailySchedule(ctx context.Context, year, month, day int) (DailySchedule, error) {
	if !c.Configured() {
		return DailySchedule{}, &providers.ConfigurationError{Reason: "sportradar API key not configured or using the placeholder value"}
	}

	key := fmt.Sprintf("daily_schedule_%04d_%02d_%02d", year, month, day)
	if cached, ok := c.cache.Get(key); ok {
		if sched, ok := cached.(DailySchedule); ok {
			c.metrics.RecordCacheHit(endpointDailySchedule)
			return sched, nil
		}
	}
	c.metrics.RecordCacheMiss(endpointDailySchedule)

	if err := c.acquire(ctx, endpointDailySchedule); err != nil {
		return DailySchedule{}, err
	}

	var sched DailySchedule
	path := fmt.Sprintf("/games/%04d/%02d/%02d/schedule.json", year, month, day)
	resource := fmt.Sprintf("schedule %04d-%02d-%02d", year, month, day)
	if err := c.getJSON(ctx, endpointDailySchedule, path, resource, &sched); err != nil {
		return DailySchedule{}, err
	}

	c.cache.Set(key, sched, c.ttl.DailySchedule)
	return sched, nil
}

// ValidateGameID reports whether a game id exists upstream. NotFound is a
// definitive false; any other failure is inconclusive and logged as such.
func (c *Client) ValidateGameID(ctx context.Context, gameID string) bool {
	_, err := c.FetchGame(ctx, gameID)
	if err == nil {
		return true
	}
	if _, ok := providers.AsNotFoundError(err); ok {
		logging.Warn(c.logger, "game id not found upstream", slog.String(logging.FieldGameID, gameID))
		return false
	}
	logging.Warn(c.logger, "game id validation inconclusive", slog.String(logging.FieldGameID, gameID), "error", err)
	return false
}

// acquire waits on the endpoint's rate window, translating an exhausted
// backoff budget into the provider taxonomy.
func (c *Client) acquire(ctx context.Context, endpoint string) error {
	err := c.limiter.Acquire(ctx, endpoint)
	if err == nil {
		return nil
	}
	if errors.Is(err, ratelimit.ErrBackoffExhausted) {
		return &providers.RateLimitError{Provider: providerName, Message: "local backoff budget exhausted"}
	}
	return err
}

func (c *Client) buildRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("api_key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path, resource string, payload any) error {
	req, err := c.buildRequest(ctx, path)
	if err != nil {
		return err
	}
	logging.Info(c.logger, "fetching upstream data",
		slog.String(logging.FieldEndpoint, endpoint),
		slog.String(logging.FieldPath, path),
	)

	start := c.now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordUpstreamAttempt(endpoint, time.Since(start), err)
	if err != nil {
		return &providers.UpstreamError{Provider: providerName, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(endpoint, resource, resp)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(payload); decodeErr != nil {
		return &providers.UpstreamError{Provider: providerName, Message: "malformed payload: " + decodeErr.Error()}
	}
	return nil
}

func (c *Client) statusError(endpoint, resource string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	snippet := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &providers.NotFoundError{Provider: providerName, Resource: resource}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &providers.AuthError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    "credential rejected or lacking NCAA men's basketball entitlement",
		}
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		// Force the next callers of this endpoint to back off before the
		// upstream sees them.
		c.limiter.Penalize(endpoint, ratePenaltyStamps)
		c.metrics.RecordRateLimit(endpoint, retryAfter)
		logging.Warn(c.logger, "upstream rate limit exceeded",
			slog.String(logging.FieldEndpoint, endpoint),
			slog.Int64(logging.FieldDurationMS, retryAfter.Milliseconds()),
		)
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter,
		}
	default:
		return &providers.UpstreamError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    snippet,
		}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}
