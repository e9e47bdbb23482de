package app

import (
	"fieldtag/internal/domain"
)

// ExplainedFlags remembers which screens already showed their one-time
// explanation overlay this session.
type ExplainedFlags struct {
	MasterMap   bool
	PoliceMap   bool
	ThiefMap    bool
	AbilityPick bool
	QRScan      bool
	Result      bool
}

// GameStateStore is the single mutable holder of the device's GameState plus
// transient UI flags. All mutations run on the one logical mutator call
// stack a device has, so no internal locking is needed; cross-device
// conflicts are resolved by reconciliation, not by this store.
type GameStateStore struct {
	game *domain.GameState

	isEditTeams               bool
	isGameTimeUp              bool
	shouldShowGameExplanation bool
	explained                 ExplainedFlags
}

// NewGameStateStore returns a store holding a fresh empty GameState.
func NewGameStateStore() *GameStateStore {
	return &GameStateStore{game: domain.NewGameState()}
}

// Game returns the live GameState instance. Callers mutate it through the
// transition operations; the store never hands out copies.
func (s *GameStateStore) Game() *domain.GameState {
	return s.game
}

// Reset discards the current GameState for a fresh empty one and clears the
// session flags. Used when the user leaves or is kicked from a game.
func (s *GameStateStore) Reset() {
	s.game = domain.NewGameState()
	s.isEditTeams = false
	s.isGameTimeUp = false
	s.shouldShowGameExplanation = false
	s.explained = ExplainedFlags{}
}

// PutAllUsers replaces the three rosters wholesale.
func (s *GameStateStore) PutAllUsers(live, police, reject []domain.User) {
	s.game.LiveUsers = live
	s.game.PoliceUsers = police
	s.game.RejectUsers = reject
}

// UpdateAllUsers rebuilds the rosters from a persisted record and the user
// directory, preserving the record's ordering.
func (s *GameStateStore) UpdateAllUsers(rec domain.Record, users []domain.UserInfo) {
	s.game.UpdateAllUsers(rec, users)
}

// ApplyRecord overwrites the full local state from a canonical record plus
// the user directory: rosters, areas, master, timing, started flag and
// ability list. The device-local setup flags are left alone.
func (s *GameStateStore) ApplyRecord(rec domain.Record, users []domain.UserInfo) error {
	limit, err := rec.ParseTimeLimit()
	if err != nil {
		return err
	}
	g := s.game
	g.ID = rec.ID
	g.UpdateAllUsers(rec, users)
	g.ValidAreas = rec.ValidAreas
	g.PrisonArea = rec.PrisonArea
	g.GameMasterID = rec.GameMasterID
	g.GameTimeLimit = limit
	g.IsGameStarted = rec.IsGameStarted
	g.AbilityList = rec.AbilityList
	return nil
}

// BelongingGameGroup reports whether the given id names the game this device
// already joined. Used to treat a re-scan of the same QR code as a no-op.
func (s *GameStateStore) BelongingGameGroup(gameID string) bool {
	return s.game.IsSetGame() && s.game.ID == gameID
}

// IsCurrentUserJoined reports whether the id appears in any of the three
// rosters.
func (s *GameStateStore) IsCurrentUserJoined(userID string) bool {
	u := domain.User{ID: userID}
	return s.game.IsCurrentUserLive(u) || s.game.IsCurrentUserPolice(u) || s.game.IsCurrentUserReject(u)
}

func (s *GameStateStore) IsEditTeams() bool                 { return s.isEditTeams }
func (s *GameStateStore) SetEditTeams(v bool)               { s.isEditTeams = v }
func (s *GameStateStore) IsGameTimeUp() bool                { return s.isGameTimeUp }
func (s *GameStateStore) SetGameTimeUp(v bool)              { s.isGameTimeUp = v }
func (s *GameStateStore) ShouldShowGameExplanation() bool   { return s.shouldShowGameExplanation }
func (s *GameStateStore) SetShowGameExplanation(v bool)     { s.shouldShowGameExplanation = v }
func (s *GameStateStore) Explained() ExplainedFlags         { return s.explained }
func (s *GameStateStore) SetExplained(flags ExplainedFlags) { s.explained = flags }

// ThiefWinConditions evaluates the thief win predicate against the store's
// time-up flag.
func (s *GameStateStore) ThiefWinConditions() bool {
	return s.game.ThiefWinConditions(s.isGameTimeUp)
}
