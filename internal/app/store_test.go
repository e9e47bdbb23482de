package app

import (
	"testing"
	"time"

	"fieldtag/internal/domain"
)

func TestBelongingGameGroup(t *testing.T) {
	s := NewGameStateStore()
	if s.BelongingGameGroup("gid") {
		t.Fatal("unset game should belong to no group")
	}

	s.Game().ID = "gid"
	if !s.BelongingGameGroup("gid") {
		t.Fatal("matching id should belong")
	}
	if s.BelongingGameGroup("other") {
		t.Fatal("different id should not belong")
	}
}

func TestIsCurrentUserJoined(t *testing.T) {
	s := NewGameStateStore()
	s.Game().AddLiveThiefUsers([]domain.User{{ID: "u1"}})
	s.Game().AddPoliceUsers([]domain.User{{ID: "u2"}})
	s.Game().AddRejectThiefUsers([]domain.User{{ID: "u3"}})

	for _, id := range []string{"u1", "u2", "u3"} {
		if !s.IsCurrentUserJoined(id) {
			t.Fatalf("%s should count as joined", id)
		}
	}
	if s.IsCurrentUserJoined("ghost") {
		t.Fatal("unknown id should not count as joined")
	}
}

func TestResetDiscardsStateAndFlags(t *testing.T) {
	s := NewGameStateStore()
	s.Game().ID = "gid"
	s.Game().IsSetValidAreaDone = true
	s.SetGameTimeUp(true)
	s.SetEditTeams(true)
	s.SetExplained(ExplainedFlags{PoliceMap: true})

	s.Reset()

	if s.Game().IsSetGame() || s.Game().IsSetValidAreaDone {
		t.Fatal("game state not replaced by a fresh one")
	}
	if s.IsGameTimeUp() || s.IsEditTeams() || s.Explained().PoliceMap {
		t.Fatal("session flags not cleared")
	}
}

func TestApplyRecordOverwritesEverything(t *testing.T) {
	s := NewGameStateStore()
	started := true
	rec := domain.Record{
		ID:            "gid",
		LiveUsers:     []string{"u1"},
		PoliceUsers:   []string{"u2"},
		ValidAreas:    []domain.AreaPoint{{Key: "a"}},
		PrisonArea:    []domain.AreaPoint{{Key: "p"}},
		GameMasterID:  "u2",
		GameTimeLimit: "2026-08-30T12:00:00Z",
		IsGameStarted: &started,
		AbilityList:   []domain.Ability{{AbilityName: "radar", IsSetting: true, TargetRole: domain.SidePolice}},
	}
	users := []domain.UserInfo{{UserID: "u1", Name: "User1"}, {UserID: "u2", Name: "User2"}}

	if err := s.ApplyRecord(rec, users); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	g := s.Game()
	if g.ID != "gid" || g.GameMasterID != "u2" {
		t.Fatalf("ids not applied: %+v", g)
	}
	if len(g.LiveUsers) != 1 || g.LiveUsers[0].Name != "User1" {
		t.Fatalf("live roster not rebuilt: %+v", g.LiveUsers)
	}
	if g.GameTimeLimit == nil || !g.GameTimeLimit.Equal(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("time limit not applied: %v", g.GameTimeLimit)
	}
	if g.IsGameStarted == nil || !*g.IsGameStarted {
		t.Fatal("started flag not applied")
	}
	if len(g.AbilityList) != 1 || len(g.ValidAreas) != 1 || len(g.PrisonArea) != 1 {
		t.Fatalf("areas/abilities not applied: %+v", g)
	}
}

func TestApplyRecordRejectsBadTime(t *testing.T) {
	s := NewGameStateStore()
	if err := s.ApplyRecord(domain.Record{ID: "gid", GameTimeLimit: "yesterday"}, nil); err == nil {
		t.Fatal("expected parse error for bad time limit")
	}
}

func TestThiefWinConditionsUsesStoreFlag(t *testing.T) {
	s := NewGameStateStore()
	s.Game().AddLiveThiefUsers([]domain.User{{ID: "u1"}})

	if s.ThiefWinConditions() {
		t.Fatal("thieves should not win before time is up")
	}
	s.SetGameTimeUp(true)
	if !s.ThiefWinConditions() {
		t.Fatal("thieves should win when time is up with survivors")
	}
}
