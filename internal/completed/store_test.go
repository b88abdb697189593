package completed

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := NewStore("", nil)
	before := time.Now().UnixMilli()

	s.Put("match-1-21", 56, 71, "duke")

	rec, ok := s.Get("match-1-21")
	if !ok {
		t.Fatalf("expected record after put")
	}
	if rec.TeamAScore != 56 || rec.TeamBScore != 71 || rec.WinnerID != "duke" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.LastUpdated < before {
		t.Fatalf("expected non-decreasing lastUpdated, got %d < %d", rec.LastUpdated, before)
	}
}

func TestFirstWriteWins(t *testing.T) {
	s := NewStore("", nil)

	s.Put("match-1-21", 56, 71, "duke")
	s.Put("match-1-21", 0, 0, "mount-st-marys")

	rec, _ := s.Get("match-1-21")
	if rec.WinnerID != "duke" || rec.TeamAScore != 56 {
		t.Fatalf("first record must be permanent ground truth, got %+v", rec)
	}
}

func TestGetMissing(t *testing.T) {
	s := NewStore("", nil)
	if _, ok := s.Get("nope"); ok {
		t.Fatalf("expected absence for unknown id")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completed", "games.json")

	s := NewStore(path, nil)
	s.Put("match-1-5", 63, 83, "auburn")
	s.Put("match-1-8", 89, 68, "gonzaga")

	reloaded := NewStore(path, nil)
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 rehydrated records, got %d", reloaded.Len())
	}
	rec, ok := reloaded.Get("match-1-5")
	if !ok || rec.WinnerID != "auburn" || rec.TeamBScore != 83 {
		t.Fatalf("unexpected rehydrated record %+v ok=%v", rec, ok)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewStore(path, nil)
	if s.Len() != 0 {
		t.Fatalf("corrupt store must start empty, got %d records", s.Len())
	}
	// The store must still accept and persist new records.
	s.Put("match-1-1", 70, 65, "creighton")
	if _, ok := NewStore(path, nil).Get("match-1-1"); !ok {
		t.Fatalf("expected store to recover and persist after corruption")
	}
}

func TestUnwritablePathIsNotFatal(t *testing.T) {
	s := NewStore(filepath.Join(string(os.PathSeparator), "proc", "no-such-dir", "games.json"), nil)
	s.Put("match-1-1", 70, 65, "creighton")

	// In-memory table stays authoritative despite the failed persist.
	if _, ok := s.Get("match-1-1"); !ok {
		t.Fatalf("in-memory write must succeed even when persistence fails")
	}
}
