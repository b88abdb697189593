package domain

import "testing"

func sampleMatch() Match {
	return Match{
		ID:    "match-1-21",
		Round: 1,
		Date:  "March 21, 2025",
		Time:  "2:00 PM",
		TeamA: Team{ID: "mount-st-marys", Name: "Mount St. Mary's", Seed: 16},
		TeamB: Team{ID: "duke", Name: "Duke", Seed: 1},
		Predictions: map[string]string{
			"agent-1": "duke",
		},
		Teams: []Team{
			{ID: "mount-st-marys", Name: "Mount St. Mary's", Seed: 16},
			{ID: "duke", Name: "Duke", Seed: 1},
		},
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := sampleMatch()
	clone := orig.Clone()

	clone.Predictions["agent-2"] = "mount-st-marys"
	clone.Teams[0].Score = 55
	clone.TeamA.Score = 55

	if _, ok := orig.Predictions["agent-2"]; ok {
		t.Fatalf("clone predictions map shares storage with original")
	}
	if orig.Teams[0].Score != 0 || orig.TeamA.Score != 0 {
		t.Fatalf("clone teams share storage with original: %+v", orig.Teams[0])
	}
}

func TestWithSlotsRebuildsTeamsMirror(t *testing.T) {
	orig := sampleMatch()
	a := orig.TeamA
	b := orig.TeamB
	a.Score = 60
	b.Score = 71

	updated := orig.WithSlots(a, b)

	if updated.TeamA.Score != 60 || updated.TeamB.Score != 71 {
		t.Fatalf("unexpected slot scores: %+v %+v", updated.TeamA, updated.TeamB)
	}
	if len(updated.Teams) != 2 || updated.Teams[0].Score != 60 || updated.Teams[1].Score != 71 {
		t.Fatalf("teams mirror not rebuilt: %+v", updated.Teams)
	}
	if orig.TeamA.Score != 0 {
		t.Fatalf("WithSlots mutated the original match")
	}
}
