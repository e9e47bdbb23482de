package domain

import (
	"reflect"
	"testing"
)

func u(id string) User {
	return User{ID: id, Name: "Name-" + id}
}

// rosterCount returns how many of the three rosters contain the id.
func rosterCount(g *GameState, id string) int {
	n := 0
	for _, roster := range [][]User{g.LiveUsers, g.PoliceUsers, g.RejectUsers} {
		if containsID(roster, id) {
			n++
		}
	}
	return n
}

func TestChangeToPoliceMovesFromOtherRosters(t *testing.T) {
	g := NewGameState()
	g.AddLiveThiefUsers([]User{u("u1"), u("u2")})
	g.AddRejectThiefUsers([]User{u("u3")})

	g.ChangeToPolice([]User{u("u1"), u("u3")})

	if got := UserIDs(g.PoliceUsers); !reflect.DeepEqual(got, []string{"u1", "u3"}) {
		t.Fatalf("police = %v, want [u1 u3]", got)
	}
	if got := UserIDs(g.LiveUsers); !reflect.DeepEqual(got, []string{"u2"}) {
		t.Fatalf("live = %v, want [u2]", got)
	}
	if len(g.RejectUsers) != 0 {
		t.Fatalf("reject should be empty, got %v", UserIDs(g.RejectUsers))
	}
}

func TestTransitionsPreservePartition(t *testing.T) {
	g := NewGameState()
	g.AddLiveThiefUsers([]User{u("u1"), u("u2"), u("u3")})
	g.AddPoliceUsers([]User{u("u4")})

	steps := []func(){
		func() { g.ChangeToPolice([]User{u("u1")}) },
		func() { g.ChangeToRejectThief([]User{u("u2"), u("u4")}) },
		func() { g.ChangeToLiveThief([]User{u("u2")}) },
		func() { g.ChangeToPolice([]User{u("u1")}) }, // repeat, already police
		func() { g.ChangeToRejectThief([]User{u("u3")}) },
		func() { g.ChangeToLiveThief([]User{u("u4"), u("u3")}) },
	}

	for i, step := range steps {
		step()
		for _, id := range []string{"u1", "u2", "u3", "u4"} {
			if n := rosterCount(g, id); n != 1 {
				t.Fatalf("after step %d: %s appears in %d rosters, want 1", i, id, n)
			}
		}
	}
}

func TestChangeIsIdempotentPerUser(t *testing.T) {
	g := NewGameState()
	g.AddLiveThiefUsers([]User{u("u1")})

	g.ChangeToPolice([]User{u("u1")})
	g.ChangeToPolice([]User{u("u1")})

	if got := UserIDs(g.PoliceUsers); !reflect.DeepEqual(got, []string{"u1"}) {
		t.Fatalf("police = %v, want [u1]", got)
	}
}

func TestAddVariantsDedupe(t *testing.T) {
	g := NewGameState()

	g.AddPoliceUsers([]User{u("u1")})
	g.AddPoliceUsers([]User{u("u1")})
	if got := UserIDs(g.PoliceUsers); !reflect.DeepEqual(got, []string{"u1"}) {
		t.Fatalf("police = %v, want [u1]", got)
	}

	g.AddLiveThiefUsers([]User{u("u2"), u("u2")})
	if got := UserIDs(g.LiveUsers); !reflect.DeepEqual(got, []string{"u2"}) {
		t.Fatalf("live = %v, want [u2]", got)
	}

	g.AddRejectThiefUsers([]User{u("u3")})
	g.AddRejectThiefUsers([]User{u("u3")})
	if got := UserIDs(g.RejectUsers); !reflect.DeepEqual(got, []string{"u3"}) {
		t.Fatalf("reject = %v, want [u3]", got)
	}
}

func TestKickOutUsersRemovesFromEveryRoster(t *testing.T) {
	for _, start := range []string{"live", "police", "reject"} {
		g := NewGameState()
		switch start {
		case "live":
			g.AddLiveThiefUsers([]User{u("u1")})
		case "police":
			g.AddPoliceUsers([]User{u("u1")})
		case "reject":
			g.AddRejectThiefUsers([]User{u("u1")})
		}

		g.KickOutUsers([]User{u("u1")})

		if n := rosterCount(g, "u1"); n != 0 {
			t.Fatalf("start=%s: u1 still in %d rosters after kick", start, n)
		}
	}
}

func TestKickOutAbsentUserIsNoop(t *testing.T) {
	g := NewGameState()
	g.AddLiveThiefUsers([]User{u("u1")})

	g.KickOutUsers([]User{u("ghost")})

	if got := UserIDs(g.LiveUsers); !reflect.DeepEqual(got, []string{"u1"}) {
		t.Fatalf("live = %v, want [u1]", got)
	}
}

func TestDeleteThiefUsersLeavesPolice(t *testing.T) {
	g := NewGameState()
	g.AddLiveThiefUsers([]User{u("u1")})
	g.AddRejectThiefUsers([]User{u("u2")})
	g.AddPoliceUsers([]User{u("u3")})

	g.DeleteThiefUsers([]User{u("u1"), u("u2"), u("u3")})

	if len(g.LiveUsers) != 0 || len(g.RejectUsers) != 0 {
		t.Fatalf("thief rosters not emptied: live=%v reject=%v", UserIDs(g.LiveUsers), UserIDs(g.RejectUsers))
	}
	if got := UserIDs(g.PoliceUsers); !reflect.DeepEqual(got, []string{"u3"}) {
		t.Fatalf("police = %v, want [u3]", got)
	}
}

func TestWinConditions(t *testing.T) {
	g := NewGameState()

	if !g.PoliceWinConditions() {
		t.Fatal("empty live roster should mean police win")
	}
	if g.WinnerSide() != SidePolice {
		t.Fatalf("winner = %s, want %s", g.WinnerSide(), SidePolice)
	}

	g.AddLiveThiefUsers([]User{u("u1")})
	if g.PoliceWinConditions() {
		t.Fatal("police should not win while a live thief remains")
	}
	if !g.ThiefWinConditions(true) {
		t.Fatal("thieves should win when time is up with a live thief")
	}
	if g.ThiefWinConditions(false) {
		t.Fatal("thieves should not win before time is up")
	}
	if g.WinnerSide() != SideThief {
		t.Fatalf("winner = %s, want %s", g.WinnerSide(), SideThief)
	}
}

func TestWinnerMessageNamesTheSide(t *testing.T) {
	g := NewGameState()
	if msg := g.WinnerMessage(); msg == "" || msg[:6] != "Police" {
		t.Fatalf("message %q should lead with the police label", msg)
	}
	g.AddLiveThiefUsers([]User{u("u1")})
	if msg := g.WinnerMessage(); msg == "" || msg[:7] != "Thieves" {
		t.Fatalf("message %q should lead with the thief label", msg)
	}
}

func TestMembershipPredicates(t *testing.T) {
	g := NewGameState()
	g.AddLiveThiefUsers([]User{u("u1")})
	g.AddPoliceUsers([]User{u("u2")})
	g.AddRejectThiefUsers([]User{u("u3")})

	if !g.IsCurrentUserLive(u("u1")) || g.IsCurrentUserLive(u("u2")) {
		t.Fatal("live membership wrong")
	}
	if !g.IsCurrentUserPolice(u("u2")) || g.IsCurrentUserPolice(u("u3")) {
		t.Fatal("police membership wrong")
	}
	if !g.IsCurrentUserReject(u("u3")) || g.IsCurrentUserReject(u("u1")) {
		t.Fatal("reject membership wrong")
	}
}

func TestUpdateAllUsersRebuildsRostersInRecordOrder(t *testing.T) {
	g := NewGameState()
	rec := Record{
		LiveUsers:   []string{"u1"},
		PoliceUsers: []string{"u2"},
		RejectUsers: []string{"u3"},
	}
	directory := []UserInfo{
		{UserID: "u3", Name: "User3"},
		{UserID: "u1", Name: "User1"},
		{UserID: "u2", Name: "User2"},
	}

	g.UpdateAllUsers(rec, directory)

	if got := UserIDs(g.LiveUsers); !reflect.DeepEqual(got, []string{"u1"}) {
		t.Fatalf("live = %v, want [u1]", got)
	}
	if got := UserIDs(g.PoliceUsers); !reflect.DeepEqual(got, []string{"u2"}) {
		t.Fatalf("police = %v, want [u2]", got)
	}
	if got := UserIDs(g.RejectUsers); !reflect.DeepEqual(got, []string{"u3"}) {
		t.Fatalf("reject = %v, want [u3]", got)
	}
	if g.LiveUsers[0].Name != "User1" {
		t.Fatalf("name = %s, want User1", g.LiveUsers[0].Name)
	}
}

func TestUpdateAllUsersSkipsUnknownIds(t *testing.T) {
	g := NewGameState()
	rec := Record{LiveUsers: []string{"u1", "ghost", "u2"}}
	directory := []UserInfo{{UserID: "u1", Name: "User1"}, {UserID: "u2", Name: "User2"}}

	g.UpdateAllUsers(rec, directory)

	if got := UserIDs(g.LiveUsers); !reflect.DeepEqual(got, []string{"u1", "u2"}) {
		t.Fatalf("live = %v, want [u1 u2]", got)
	}
}
