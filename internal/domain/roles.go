package domain

// Role transitions. Every mutating operation here uses filter semantics:
// removing an id that is not present is a no-op, never an error, and a user
// is removed from the other rosters before being appended to the target one
// so the roster partition holds after any sequence of calls.

// ChangeToPolice moves the given users into the police roster. Users already
// police stay where they are; no duplicates are created.
func (g *GameState) ChangeToPolice(users []User) {
	ids := idSet(users)
	g.LiveUsers = removeByID(g.LiveUsers, ids)
	g.RejectUsers = removeByID(g.RejectUsers, ids)
	g.PoliceUsers = appendMissing(g.PoliceUsers, users)
}

// ChangeToLiveThief moves the given users into the live-thief roster.
func (g *GameState) ChangeToLiveThief(users []User) {
	ids := idSet(users)
	g.PoliceUsers = removeByID(g.PoliceUsers, ids)
	g.RejectUsers = removeByID(g.RejectUsers, ids)
	g.LiveUsers = appendMissing(g.LiveUsers, users)
}

// ChangeToRejectThief moves the given users into the arrested roster.
func (g *GameState) ChangeToRejectThief(users []User) {
	ids := idSet(users)
	g.LiveUsers = removeByID(g.LiveUsers, ids)
	g.PoliceUsers = removeByID(g.PoliceUsers, ids)
	g.RejectUsers = appendMissing(g.RejectUsers, users)
}

// KickOutUsers removes the given users from all three rosters. Afterwards
// they hold no role in this game.
func (g *GameState) KickOutUsers(users []User) {
	ids := idSet(users)
	g.LiveUsers = removeByID(g.LiveUsers, ids)
	g.PoliceUsers = removeByID(g.PoliceUsers, ids)
	g.RejectUsers = removeByID(g.RejectUsers, ids)
}

// DeleteThiefUsers removes the given users from both thief rosters,
// regardless of police membership.
func (g *GameState) DeleteThiefUsers(users []User) {
	ids := idSet(users)
	g.LiveUsers = removeByID(g.LiveUsers, ids)
	g.RejectUsers = removeByID(g.RejectUsers, ids)
}

// AddLiveThiefUsers appends freshly merged users to the live roster without
// touching the other rosters. Ids already present are skipped.
func (g *GameState) AddLiveThiefUsers(users []User) {
	g.LiveUsers = appendMissing(g.LiveUsers, users)
}

// AddRejectThiefUsers appends users to the arrested roster, skipping ids
// already present.
func (g *GameState) AddRejectThiefUsers(users []User) {
	g.RejectUsers = appendMissing(g.RejectUsers, users)
}

// AddPoliceUsers appends users to the police roster, skipping ids already
// present.
func (g *GameState) AddPoliceUsers(users []User) {
	g.PoliceUsers = appendMissing(g.PoliceUsers, users)
}

// UpdateAllUsers rebuilds the three rosters from a persisted record and the
// flattened user directory, preserving the record's id order. Ids without a
// directory entry are skipped.
func (g *GameState) UpdateAllUsers(rec Record, users []UserInfo) {
	byID := make(map[string]UserInfo, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	g.LiveUsers = buildRoster(rec.LiveUsers, byID)
	g.PoliceUsers = buildRoster(rec.PoliceUsers, byID)
	g.RejectUsers = buildRoster(rec.RejectUsers, byID)
}

// ThiefWinConditions reports whether the thieves won: the game clock ran out
// while at least one live thief remained.
func (g *GameState) ThiefWinConditions(timeUp bool) bool {
	return timeUp && len(g.LiveUsers) > 0
}

// PoliceWinConditions reports whether the police won: no live thief remains.
func (g *GameState) PoliceWinConditions() bool {
	return len(g.LiveUsers) == 0
}

// WinnerSide returns SidePolice when no live thief remains, SideThief
// otherwise.
func (g *GameState) WinnerSide() string {
	if len(g.LiveUsers) == 0 {
		return SidePolice
	}
	return SideThief
}

// WinnerMessage returns the announcement text for the winning side.
func (g *GameState) WinnerMessage() string {
	if g.WinnerSide() == SidePolice {
		return "Police win! Every thief has been arrested."
	}
	return "Thieves win! Survivors held out until the time limit."
}

// IsCurrentUserPolice reports whether the user is on the police roster.
func (g *GameState) IsCurrentUserPolice(u User) bool {
	return containsID(g.PoliceUsers, u.ID)
}

// IsCurrentUserLive reports whether the user is on the live-thief roster.
func (g *GameState) IsCurrentUserLive(u User) bool {
	return containsID(g.LiveUsers, u.ID)
}

// IsCurrentUserReject reports whether the user is on the arrested roster.
func (g *GameState) IsCurrentUserReject(u User) bool {
	return containsID(g.RejectUsers, u.ID)
}

// IsUserInPrisonArea reports whether the point lies inside the prison zone.
func (g *GameState) IsUserInPrisonArea(p Point) bool {
	return PointInArea(p, g.PrisonArea)
}

// IsUserInValidArea reports whether the point lies inside the playable
// boundary. An unset boundary contains nothing.
func (g *GameState) IsUserInValidArea(p Point) bool {
	return PointInArea(p, g.ValidAreas)
}

func idSet(users []User) map[string]struct{} {
	ids := make(map[string]struct{}, len(users))
	for _, u := range users {
		ids[u.ID] = struct{}{}
	}
	return ids
}

func removeByID(roster []User, ids map[string]struct{}) []User {
	out := make([]User, 0, len(roster))
	for _, u := range roster {
		if _, drop := ids[u.ID]; drop {
			continue
		}
		out = append(out, u)
	}
	return out
}

func appendMissing(roster []User, users []User) []User {
	present := idSet(roster)
	for _, u := range users {
		if _, ok := present[u.ID]; ok {
			continue
		}
		roster = append(roster, u)
		present[u.ID] = struct{}{}
	}
	return roster
}

func containsID(roster []User, id string) bool {
	for _, u := range roster {
		if u.ID == id {
			return true
		}
	}
	return false
}

func buildRoster(ids []string, byID map[string]UserInfo) []User {
	out := make([]User, 0, len(ids))
	for _, id := range ids {
		info, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, User{ID: info.UserID, Name: info.Name})
	}
	return out
}
