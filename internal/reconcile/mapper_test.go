package reconcile

import (
	"testing"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/domain"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/providers/sportradar"
)

func bracketMatch() domain.Match {
	return domain.Match{
		ID:    "match-1-21",
		Round: 1,
		TeamA: domain.Team{ID: "mount-st-marys", Name: "Mount St. Mary's", Seed: 16},
		TeamB: domain.Team{ID: "duke", Name: "Duke", Seed: 1},
		Predictions: map[string]string{
			"steve": "duke",
		},
	}
}

func TestMergeScoresUnavailable(t *testing.T) {
	box := sportradar.Boxscore{
		Status: "inprogress",
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's Mountaineers"},
		Away:   sportradar.BoxscoreTeam{Name: "Duke Blue Devils"},
	}

	got := NewMapper(nil, nil).Merge(box, bracketMatch())

	if got.TeamA.Score != 0 || !got.TeamA.ScoreUnavailable {
		t.Fatalf("expected unavailable team A score, got %+v", got.TeamA)
	}
	if got.TeamB.Score != 0 || !got.TeamB.ScoreUnavailable {
		t.Fatalf("expected unavailable team B score, got %+v", got.TeamB)
	}
	if !got.DataUnavailable {
		t.Fatalf("expected dataUnavailable when scores are placeholders")
	}
	if got.Winner != "" {
		t.Fatalf("no winner may be derived without numeric scores, got %q", got.Winner)
	}
}

func TestMergeCompletedGameSetsWinner(t *testing.T) {
	box := sportradar.Boxscore{
		Status: sportradar.GameStatusComplete,
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's Mountaineers", Points: sportradar.NumericPoints(56)},
		Away:   sportradar.BoxscoreTeam{Name: "Duke Blue Devils", Points: sportradar.NumericPoints(93)},
	}

	got := NewMapper(nil, nil).Merge(box, bracketMatch())

	if got.TeamA.Score != 56 || got.TeamB.Score != 93 {
		t.Fatalf("unexpected scores: %+v / %+v", got.TeamA, got.TeamB)
	}
	if got.TeamA.ScoreUnavailable || got.TeamB.ScoreUnavailable {
		t.Fatalf("numeric scores must clear the unavailable flags")
	}
	if got.Winner != "duke" {
		t.Fatalf("expected duke as winner, got %q", got.Winner)
	}
	if got.DataUnavailable {
		t.Fatalf("dataUnavailable must stay false with both scores numeric")
	}
}

func TestMergeSwappedSidesReorients(t *testing.T) {
	box := sportradar.Boxscore{
		Status: sportradar.GameStatusClosed,
		Home:   sportradar.BoxscoreTeam{Name: "Duke Blue Devils", Points: sportradar.NumericPoints(93)},
		Away:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's Mountaineers", Points: sportradar.NumericPoints(56)},
	}

	got := NewMapper(nil, nil).Merge(box, bracketMatch())

	if got.TeamA.Score != 56 || got.TeamB.Score != 93 {
		t.Fatalf("sides not reoriented: %+v / %+v", got.TeamA, got.TeamB)
	}
	if got.Winner != "duke" {
		t.Fatalf("expected duke as winner, got %q", got.Winner)
	}
}

func TestMergeLiveGameNeverSetsWinner(t *testing.T) {
	box := sportradar.Boxscore{
		Status: "inprogress",
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's", Points: sportradar.NumericPoints(30)},
		Away:   sportradar.BoxscoreTeam{Name: "Duke", Points: sportradar.NumericPoints(45)},
	}

	got := NewMapper(nil, nil).Merge(box, bracketMatch())
	if got.Winner != "" {
		t.Fatalf("in-progress game must not carry a winner, got %q", got.Winner)
	}
	if got.TeamB.Score != 45 {
		t.Fatalf("live scores still merge: %+v", got.TeamB)
	}
}

func TestMergePartialScoreBlocksWinner(t *testing.T) {
	box := sportradar.Boxscore{
		Status: sportradar.GameStatusComplete,
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's", Points: sportradar.Points{}},
		Away:   sportradar.BoxscoreTeam{Name: "Duke", Points: sportradar.NumericPoints(93)},
	}

	got := NewMapper(nil, nil).Merge(box, bracketMatch())
	if got.Winner != "" {
		t.Fatalf("one placeholder score must block winner derivation, got %q", got.Winner)
	}
	if !got.DataUnavailable {
		t.Fatalf("expected dataUnavailable with one placeholder score")
	}
	if !got.TeamA.ScoreUnavailable || !got.TeamB.ScoreUnavailable {
		t.Fatalf("one placeholder must flag both slots: %+v / %+v", got.TeamA, got.TeamB)
	}
	if got.TeamB.Score != 93 {
		t.Fatalf("numeric side still maps its score through: %+v", got.TeamB)
	}
}

func TestMergePayloadWithoutSidesLeavesMatchAlone(t *testing.T) {
	got := NewMapper(nil, nil).Merge(sportradar.Boxscore{Status: "inprogress"}, bracketMatch())

	if got.DataUnavailable || got.TeamA.ScoreUnavailable || got.TeamB.ScoreUnavailable {
		t.Fatalf("sideless payload must leave the match unchanged: %+v", got)
	}
	if got.TeamA.Score != 0 || got.TeamB.Score != 0 || got.Winner != "" {
		t.Fatalf("sideless payload must not alter scores or winner: %+v", got)
	}
}

func TestMergeOneSidedPayloadLeavesMatchAlone(t *testing.T) {
	box := sportradar.Boxscore{
		Status: sportradar.GameStatusComplete,
		Home:   sportradar.BoxscoreTeam{Name: "Duke Blue Devils", Points: sportradar.NumericPoints(93)},
	}

	got := NewMapper(nil, nil).Merge(box, bracketMatch())
	if got.Winner != "" || got.DataUnavailable {
		t.Fatalf("payload missing one side must leave the match unchanged: %+v", got)
	}
	if got.TeamB.Score != 0 || got.TeamB.ScoreUnavailable {
		t.Fatalf("no score may be applied from a one-sided payload: %+v", got.TeamB)
	}
}

func TestMergeEmptySlotsLeavesMatchAlone(t *testing.T) {
	m := bracketMatch()
	m.TeamB = domain.Team{ID: "tbd"}

	box := sportradar.Boxscore{
		Status: sportradar.GameStatusComplete,
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's", Points: sportradar.NumericPoints(56)},
		Away:   sportradar.BoxscoreTeam{Name: "Duke", Points: sportradar.NumericPoints(93)},
	}

	got := NewMapper(nil, nil).Merge(box, m)
	if got.TeamA.Score != 0 || got.Winner != "" {
		t.Fatalf("unpopulated slot must leave the match unchanged, got %+v", got)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	m := bracketMatch()
	box := sportradar.Boxscore{
		Status: sportradar.GameStatusComplete,
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's", Points: sportradar.NumericPoints(56)},
		Away:   sportradar.BoxscoreTeam{Name: "Duke", Points: sportradar.NumericPoints(93)},
	}

	got := NewMapper(nil, nil).Merge(box, m)

	if m.TeamA.Score != 0 || m.Winner != "" || m.DataUnavailable {
		t.Fatalf("input match was mutated: %+v", m)
	}
	got.Predictions["steve"] = "gonzaga"
	if m.Predictions["steve"] != "duke" {
		t.Fatalf("predictions map must be deep-copied")
	}
	if len(got.Teams) != 2 || got.Teams[1].Score != 93 {
		t.Fatalf("teams mirror must track the merged slots: %+v", got.Teams)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	box := sportradar.Boxscore{
		Status: sportradar.GameStatusClosed,
		Home:   sportradar.BoxscoreTeam{Name: "Mount St. Mary's", Points: sportradar.NumericPoints(56)},
		Away:   sportradar.BoxscoreTeam{Name: "Duke", Points: sportradar.NumericPoints(93)},
	}

	mapper := NewMapper(nil, nil)
	once := mapper.Merge(box, bracketMatch())
	twice := mapper.Merge(box, once)

	if twice.TeamA.Score != once.TeamA.Score || twice.Winner != once.Winner {
		t.Fatalf("repeated merge drifted: %+v vs %+v", once, twice)
	}
}

func TestNameSubstringMatcherUsesAliasAndNickname(t *testing.T) {
	matcher := NameSubstringMatcher()

	side := sportradar.BoxscoreTeam{Name: "Saint Mary's Gaels", Alias: "SMC", Nickname: "Gaels"}
	if !matcher.Matches(side, domain.Team{Name: "Gaels"}) {
		t.Fatalf("nickname containment must match")
	}
	if matcher.Matches(side, domain.Team{Name: "Gonzaga"}) {
		t.Fatalf("unrelated names must not match")
	}
	if matcher.Matches(side, domain.Team{Name: ""}) {
		t.Fatalf("empty bracket name must never match")
	}
}

func TestMockBoxscore(t *testing.T) {
	box := NewMapper(nil, nil).MockBoxscore(bracketMatch())
	if box.Status != sportradar.GameStatusScheduled {
		t.Fatalf("mock payloads must look scheduled, got %q", box.Status)
	}
	if !box.Home.Points.Unavailable() || !box.Away.Points.Unavailable() {
		t.Fatalf("mock scores must be unavailable")
	}
	if box.Home.Name != "Mount St. Mary's" || box.Away.Name != "Duke" {
		t.Fatalf("mock sides must mirror the bracket slots: %+v", box)
	}
}
