package domain

import "time"

// Sides a user can play on. TargetRole of an ability names one of these.
const (
	SidePolice = "police"
	SideThief  = "thief"
)

// Ability is one configurable special action and which side may use it.
// IsSetting marks abilities the game master selected for this game.
type Ability struct {
	AbilityName string `json:"abilityName"`
	IsSetting   bool   `json:"isSetting"`
	TargetRole  string `json:"targetRole"`
}

// GameState is the per-game aggregate every device holds a copy of. The three
// role rosters partition the joined users: each joined user's id appears in
// exactly one of LiveUsers, PoliceUsers and RejectUsers. The transition
// operations in roles.go preserve that partition by always removing a user
// from the other rosters before appending.
type GameState struct {
	// ID stays empty until the game master commits the valid area for the
	// first time, which assigns a fresh unique id.
	ID string

	LiveUsers   []User
	PoliceUsers []User
	RejectUsers []User

	// ValidAreas holds the polygon vertices of the playable boundary,
	// PrisonArea those of the capture-holding zone. Empty means unset.
	ValidAreas []AreaPoint
	PrisonArea []AreaPoint

	GameMasterID  string
	GameTimeLimit *time.Time
	IsGameStarted *bool

	AbilityList []Ability

	// Device-local setup progress. Never persisted; reset only when the
	// whole state is replaced by a fresh one.
	IsSetValidAreaDone  bool
	IsSetPrisonAreaDone bool
	IsSetAbilityDone    bool
}

// NewGameState returns the empty pre-setup state a client boots with.
func NewGameState() *GameState {
	return &GameState{}
}

// IsSetGame reports whether the game has been committed at least once.
func (g *GameState) IsSetGame() bool {
	return g.ID != ""
}

// Record is the persisted wire shape of a game: rosters flattened to id
// lists, the time limit as an ISO-8601 string or "" when unset, and
// IsGameStarted null until the master starts or stops the game.
type Record struct {
	ID            string      `json:"id"`
	LiveUsers     []string    `json:"liveUsers"`
	PoliceUsers   []string    `json:"policeUsers"`
	RejectUsers   []string    `json:"rejectUsers"`
	ValidAreas    []AreaPoint `json:"validAreas"`
	PrisonArea    []AreaPoint `json:"prisonArea"`
	GameMasterID  string      `json:"gameMasterId"`
	GameTimeLimit string      `json:"gameTimeLimit"`
	IsGameStarted *bool       `json:"isGameStarted"`
	AbilityList   []Ability   `json:"abilityList"`
}

// ToRecord flattens the aggregate into its wire shape. The device-local
// setup flags are not part of the record.
func (g *GameState) ToRecord() Record {
	limit := ""
	if g.GameTimeLimit != nil {
		limit = g.GameTimeLimit.UTC().Format(time.RFC3339)
	}
	return Record{
		ID:            g.ID,
		LiveUsers:     UserIDs(g.LiveUsers),
		PoliceUsers:   UserIDs(g.PoliceUsers),
		RejectUsers:   UserIDs(g.RejectUsers),
		ValidAreas:    g.ValidAreas,
		PrisonArea:    g.PrisonArea,
		GameMasterID:  g.GameMasterID,
		GameTimeLimit: limit,
		IsGameStarted: g.IsGameStarted,
		AbilityList:   g.AbilityList,
	}
}

// ParseTimeLimit converts the record's wire time back to a timestamp.
// "" means no limit and yields nil.
func (r Record) ParseTimeLimit() (*time.Time, error) {
	if r.GameTimeLimit == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, r.GameTimeLimit)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
