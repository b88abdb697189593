package metrics

import (
	"sync"
	"time"
)

type endpointStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	cacheHits       int
	cacheMisses     int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about upstream calls and
// sync cycles, mirroring everything into OpenTelemetry when configured.
type Recorder struct {
	mu            sync.Mutex
	stats         map[string]*endpointStats
	mockFallbacks int
	syncCycles    int
	otel          *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*endpointStats),
		otel:  otel,
	}
}

// RecordUpstreamAttempt increments counters for an upstream call on the
// given logical endpoint and stores the last observed latency.
func (r *Recorder) RecordUpstreamAttempt(endpoint string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStats(endpoint)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUpstreamAttempt(endpoint, duration, err)
	}
}

// RecordRateLimit tracks an upstream 429 and the last Retry-After hint.
func (r *Recorder) RecordRateLimit(endpoint string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStats(endpoint)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(endpoint, retryAfter)
	}
}

// RecordCacheHit tracks a response served from the TTL cache.
func (r *Recorder) RecordCacheHit(endpoint string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStats(endpoint).cacheHits++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCache(endpoint, true)
	}
}

// RecordCacheMiss tracks a lookup that fell through to the network path.
func (r *Recorder) RecordCacheMiss(endpoint string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStats(endpoint).cacheMisses++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCache(endpoint, false)
	}
}

// RecordMockFallback tracks a match response served from synthetic data.
func (r *Recorder) RecordMockFallback() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.mockFallbacks++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordMockFallback()
	}
}

// RecordSyncCycle tracks one orchestrated sync pass over a round.
func (r *Recorder) RecordSyncCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.syncCycles++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordSyncCycle(duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current stats for one endpoint.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	CacheHits       int
	CacheMisses     int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(endpoint string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[endpoint]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		CacheHits:       stats.cacheHits,
		CacheMisses:     stats.cacheMisses,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// UpstreamCalls returns the total attempts recorded for an endpoint.
func (r *Recorder) UpstreamCalls(endpoint string) int {
	return r.Snapshot(endpoint).Calls
}

// MockFallbacks returns the total synthetic responses served.
func (r *Recorder) MockFallbacks() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mockFallbacks
}

// SyncCycles returns the total sync passes recorded.
func (r *Recorder) SyncCycles() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.syncCycles
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(endpoint string) *endpointStats {
	stats, ok := r.stats[endpoint]
	if !ok {
		stats = &endpointStats{}
		r.stats[endpoint] = stats
	}
	return stats
}
