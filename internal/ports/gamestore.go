package ports

import (
	"context"
	"errors"

	"fieldtag/internal/domain"
)

// ErrGameNotFound is returned by roster operations against a game id that has
// no persisted record.
var ErrGameNotFound = errors.New("game record not found")

// ErrUserNotInRoster is returned when a roster move names an id absent from
// the roster it should move out of (e.g. reviving a user who is not arrested).
var ErrUserNotInRoster = errors.New("user not in expected roster")

// GameStore is the hosted document store all devices in a game synchronize
// through. Roster moves are read-modify-write without concurrency tokens;
// conflicting writers are resolved last-writer-wins and corrected by the next
// reconciliation re-fetch.
type GameStore interface {
	// FetchTagGame returns the persisted record, or nil when absent.
	FetchTagGame(ctx context.Context, gameID string) (*domain.Record, error)

	// PutTagGame fully upserts one game record and returns the stored copy.
	PutTagGame(ctx context.Context, rec domain.Record) (*domain.Record, error)

	// JoinUser appends the user id to liveUsers. Ids already present in any
	// roster are left untouched.
	JoinUser(ctx context.Context, gameID, userID string) error

	// RejectUser moves the id from liveUsers to rejectUsers. Returns
	// ErrUserNotInRoster when the id is not live.
	RejectUser(ctx context.Context, gameID, userID string) error

	// ReviveUser moves the id from rejectUsers back to liveUsers. Returns
	// ErrUserNotInRoster when the id is not arrested.
	ReviveUser(ctx context.Context, gameID, userID string) error

	// RemoveUserFromGame strikes the id from all three roster lists.
	RemoveUserFromGame(ctx context.Context, gameID, userID string) error

	// FetchCurrentGameUsersInfo lists id/name pairs for every user on the
	// game's rosters.
	FetchCurrentGameUsersInfo(ctx context.Context, gameID string) ([]domain.UserInfo, error)

	// PutPosition stores the user's latest reported position for the game.
	PutPosition(ctx context.Context, gameID, userID string, p domain.Point) error

	// FetchPositions returns the positions reported for the game so far,
	// keyed by user id.
	FetchPositions(ctx context.Context, gameID string) (map[string]domain.Point, error)
}
