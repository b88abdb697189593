package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksUpstreamAttempts(t *testing.T) {
	r := NewRecorder()

	r.RecordUpstreamAttempt("game_data", 120*time.Millisecond, nil)
	r.RecordUpstreamAttempt("game_data", 80*time.Millisecond, errors.New("boom"))

	snap := r.Snapshot("game_data")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
	if snap.LastCallLatency != 80*time.Millisecond {
		t.Fatalf("expected last latency recorded, got %s", snap.LastCallLatency)
	}
	if r.UpstreamCalls("game_data") != 2 {
		t.Fatalf("UpstreamCalls mismatch")
	}
}

func TestRecorderTracksRateLimitAndCache(t *testing.T) {
	r := NewRecorder()

	r.RecordRateLimit("game_data", 10*time.Second)
	r.RecordCacheHit("game_data")
	r.RecordCacheMiss("game_data")
	r.RecordCacheMiss("game_data")

	snap := r.Snapshot("game_data")
	if snap.RateLimitHits != 1 || snap.LastRetryAfter != 10*time.Second {
		t.Fatalf("unexpected rate limit stats: %+v", snap)
	}
	if snap.CacheHits != 1 || snap.CacheMisses != 2 {
		t.Fatalf("unexpected cache stats: %+v", snap)
	}
}

func TestRecorderTracksFallbacksAndCycles(t *testing.T) {
	r := NewRecorder()

	r.RecordMockFallback()
	r.RecordMockFallback()
	r.RecordSyncCycle(time.Second, nil)

	if r.MockFallbacks() != 2 {
		t.Fatalf("expected 2 fallbacks, got %d", r.MockFallbacks())
	}
	if r.SyncCycles() != 1 {
		t.Fatalf("expected 1 cycle, got %d", r.SyncCycles())
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.RecordUpstreamAttempt("game_data", time.Second, nil)
	r.RecordRateLimit("game_data", 0)
	r.RecordCacheHit("game_data")
	r.RecordCacheMiss("game_data")
	r.RecordMockFallback()
	r.RecordSyncCycle(time.Second, nil)
	r.RecordHTTPRequest("GET", "/scores", 200, time.Millisecond)
	if r.UpstreamCalls("game_data") != 0 || r.MockFallbacks() != 0 {
		t.Fatalf("nil recorder must report zeros")
	}
}

func TestSetupDisabledReturnsWorkingRecorder(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder even when telemetry disabled")
	}
	if handler != nil {
		t.Fatalf("expected no prometheus handler when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupEnabledBuildsPrometheusHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true, ServiceName: "test"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()
	if rec == nil || handler == nil {
		t.Fatalf("expected recorder and handler")
	}
	rec.RecordUpstreamAttempt("game_data", time.Millisecond, nil)
}
