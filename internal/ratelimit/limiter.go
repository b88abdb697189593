// Package ratelimit enforces per-endpoint call ceilings over trailing
// one-second and one-minute windows, with multiplicative backoff when a
// ceiling is hit.
package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
)

// ErrBackoffExhausted is returned when a caller has waited the maximum
// number of times without the window draining.
var ErrBackoffExhausted = errors.New("rate limit backoff budget exhausted")

const defaultMaxWaits = 8

// Config carries the limiter ceilings and backoff knobs.
type Config struct {
	MaxPerSecond int
	MaxPerMinute int
	BaseBackoff  time.Duration
	// MaxWaits bounds the wait-and-recheck loop. Zero means the default.
	MaxWaits int
}

func (c Config) normalized() Config {
	if c.MaxPerSecond <= 0 {
		c.MaxPerSecond = 1
	}
	if c.MaxPerMinute <= 0 {
		c.MaxPerMinute = 10
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 2 * time.Second
	}
	if c.MaxWaits <= 0 {
		c.MaxWaits = defaultMaxWaits
	}
	return c
}

// Limiter tracks recent call timestamps per logical endpoint. Endpoints are
// independent: backing off on one never delays callers of another.
type Limiter struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	mu     sync.Mutex
	stamps []time.Time
}

// New constructs a Limiter.
func New(cfg Config, logger *slog.Logger) *Limiter {
	return &Limiter{
		cfg:     cfg.normalized(),
		logger:  logger,
		now:     time.Now,
		sleep:   sleepContext,
		windows: make(map[string]*window),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Acquire blocks the calling operation until a call slot is available for
// the endpoint, then registers the call. It re-checks the window after each
// backoff wait rather than trusting a single computed delay.
func (l *Limiter) Acquire(ctx context.Context, endpoint string) error {
	w := l.window(endpoint)
	for attempt := 0; ; attempt++ {
		delay, ok := w.tryRegister(l.now(), l.cfg)
		if ok {
			return nil
		}
		if attempt >= l.cfg.MaxWaits {
			logging.Warn(l.logger, "rate limit backoff exhausted",
				slog.String(logging.FieldEndpoint, endpoint),
				slog.Int("waits", attempt),
			)
			return ErrBackoffExhausted
		}
		logging.Info(l.logger, "rate limit approached, backing off",
			slog.String(logging.FieldEndpoint, endpoint),
			slog.Int64(logging.FieldDurationMS, delay.Milliseconds()),
		)
		if err := l.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Penalize injects n synthetic future timestamps into the endpoint window,
// one second apart starting now. Used after an upstream 429 so immediate
// follow-up calls are forced to back off further.
func (l *Limiter) Penalize(endpoint string, n int) {
	if n <= 0 {
		return
	}
	w := l.window(endpoint)
	now := l.now()

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := 0; i < n; i++ {
		w.stamps = append(w.stamps, now.Add(time.Duration(i)*time.Second))
	}
}

// Pending reports how many timestamps sit in the endpoint's trailing-minute
// window right now. Exposed for observability and tests.
func (l *Limiter) Pending(endpoint string) int {
	w := l.window(endpoint)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(l.now())
	return len(w.stamps)
}

func (l *Limiter) window(endpoint string) *window {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.windows[endpoint]
	if !ok {
		w = &window{}
		l.windows[endpoint] = w
	}
	return w
}

// tryRegister checks both trailing windows and either registers the call or
// returns the backoff delay to wait before re-checking. The check and the
// register happen under one lock so concurrent callers cannot both sneak
// under the ceiling.
func (w *window) tryRegister(now time.Time, cfg Config) (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(now)

	oneSecondAgo := now.Add(-time.Second)
	lastSecond := 0
	for _, ts := range w.stamps {
		if ts.After(oneSecondAgo) {
			lastSecond++
		}
	}
	lastMinute := len(w.stamps)

	if lastSecond >= cfg.MaxPerSecond || lastMinute >= cfg.MaxPerMinute {
		return backoffDelay(cfg, lastSecond, lastMinute), false
	}

	w.stamps = append(w.stamps, now)
	return 0, true
}

// prune drops timestamps older than the trailing minute. Caller holds w.mu.
func (w *window) prune(now time.Time) {
	cutoff := now.Add(-time.Minute)
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept
}

// backoffDelay scales the base backoff by 2^(per-second excess) and
// 1.5^(per-minute excess).
func backoffDelay(cfg Config, lastSecond, lastMinute int) time.Duration {
	secExcess := lastSecond - cfg.MaxPerSecond
	if secExcess < 0 {
		secExcess = 0
	}
	minExcess := lastMinute - cfg.MaxPerMinute
	if minExcess < 0 {
		minExcess = 0
	}
	multiplier := math.Pow(2, float64(secExcess)) * math.Pow(1.5, float64(minExcess))
	return time.Duration(float64(cfg.BaseBackoff) * multiplier)
}
