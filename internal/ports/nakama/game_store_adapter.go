package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"fieldtag/internal/domain"
	"fieldtag/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaGameStoreAdapter implements ports.GameStore on Nakama's storage
// engine. Game records are system-owned objects in CollectionGames keyed by
// game id. Roster moves are read-modify-write with Version left empty, so
// concurrent writers resolve last-writer-wins; devices repair divergence on
// their next reconciliation fetch.
//
// TODO: revisit LWW once nakama conditional writes can be retried cheaply;
// two moves of the same user racing within one round-trip can drop one move
// until the next roster notification re-syncs everyone.
type NakamaGameStoreAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaGameStoreAdapter creates a new game store adapter.
func NewNakamaGameStoreAdapter(nk runtime.NakamaModule) *NakamaGameStoreAdapter {
	return &NakamaGameStoreAdapter{nk: nk}
}

// FetchTagGame returns the persisted record, or nil when no object exists.
func (a *NakamaGameStoreAdapter) FetchTagGame(ctx context.Context, gameID string) (*domain.Record, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: CollectionGames, Key: gameID, UserID: ""},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read game %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return nil, nil
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(objects[0].Value), &rec); err != nil {
		return nil, fmt.Errorf("corrupt game record %s: %w", gameID, err)
	}
	return &rec, nil
}

// PutTagGame fully upserts one game record.
func (a *NakamaGameStoreAdapter) PutTagGame(ctx context.Context, rec domain.Record) (*domain.Record, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("game record is missing an id")
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game %s: %w", rec.ID, err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      CollectionGames,
			Key:             rec.ID,
			UserID:          "",
			Value:           string(value),
			Version:         "",
			PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write game %s: %w", rec.ID, err)
	}
	return &rec, nil
}

// JoinUser appends the user to liveUsers unless any roster already holds it.
func (a *NakamaGameStoreAdapter) JoinUser(ctx context.Context, gameID, userID string) error {
	return a.updateRecord(ctx, gameID, func(rec *domain.Record) error {
		for _, list := range [][]string{rec.LiveUsers, rec.PoliceUsers, rec.RejectUsers} {
			for _, id := range list {
				if id == userID {
					return nil
				}
			}
		}
		rec.LiveUsers = append(rec.LiveUsers, userID)
		return nil
	})
}

// RejectUser moves the id from liveUsers to rejectUsers.
func (a *NakamaGameStoreAdapter) RejectUser(ctx context.Context, gameID, userID string) error {
	return a.updateRecord(ctx, gameID, func(rec *domain.Record) error {
		moved := false
		rec.LiveUsers, moved = strikeID(rec.LiveUsers, userID)
		if !moved {
			return fmt.Errorf("reject %s in game %s: %w", userID, gameID, ports.ErrUserNotInRoster)
		}
		rec.RejectUsers = append(rec.RejectUsers, userID)
		return nil
	})
}

// ReviveUser moves the id from rejectUsers back to liveUsers.
func (a *NakamaGameStoreAdapter) ReviveUser(ctx context.Context, gameID, userID string) error {
	return a.updateRecord(ctx, gameID, func(rec *domain.Record) error {
		moved := false
		rec.RejectUsers, moved = strikeID(rec.RejectUsers, userID)
		if !moved {
			return fmt.Errorf("revive %s in game %s: %w", userID, gameID, ports.ErrUserNotInRoster)
		}
		rec.LiveUsers = append(rec.LiveUsers, userID)
		return nil
	})
}

// RemoveUserFromGame strikes the id from all three rosters.
func (a *NakamaGameStoreAdapter) RemoveUserFromGame(ctx context.Context, gameID, userID string) error {
	return a.updateRecord(ctx, gameID, func(rec *domain.Record) error {
		rec.LiveUsers, _ = strikeID(rec.LiveUsers, userID)
		rec.PoliceUsers, _ = strikeID(rec.PoliceUsers, userID)
		rec.RejectUsers, _ = strikeID(rec.RejectUsers, userID)
		return nil
	})
}

// FetchCurrentGameUsersInfo resolves id/name pairs for every rostered user.
func (a *NakamaGameStoreAdapter) FetchCurrentGameUsersInfo(ctx context.Context, gameID string) ([]domain.UserInfo, error) {
	rec, err := a.FetchTagGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ports.ErrGameNotFound
	}

	ids := make([]string, 0, len(rec.LiveUsers)+len(rec.PoliceUsers)+len(rec.RejectUsers))
	ids = append(ids, rec.LiveUsers...)
	ids = append(ids, rec.PoliceUsers...)
	ids = append(ids, rec.RejectUsers...)
	if len(ids) == 0 {
		return nil, nil
	}

	accounts, err := a.nk.UsersGetId(ctx, ids, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users of game %s: %w", gameID, err)
	}

	infos := make([]domain.UserInfo, 0, len(accounts))
	for _, u := range accounts {
		name := u.GetDisplayName()
		if name == "" {
			name = u.GetUsername()
		}
		infos = append(infos, domain.UserInfo{UserID: u.GetId(), Name: name})
	}
	return infos, nil
}

// positionRecord is the stored shape of one position report. The game id is
// embedded so FetchPositions can filter a shared collection.
type positionRecord struct {
	GameID    string  `json:"gameId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PutPosition stores the user's latest report, overwriting the previous one.
func (a *NakamaGameStoreAdapter) PutPosition(ctx context.Context, gameID, userID string, p domain.Point) error {
	value, err := json.Marshal(positionRecord{GameID: gameID, Latitude: p.Latitude, Longitude: p.Longitude})
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      CollectionPositions,
			Key:             gameID,
			UserID:          userID,
			Value:           string(value),
			Version:         "",
			PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_OWNER_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write position for %s: %w", userID, err)
	}
	return nil
}

// FetchPositions lists every position reported for the game so far. Listing
// pages through the whole collection; reports for other games are skipped by
// the embedded game id.
func (a *NakamaGameStoreAdapter) FetchPositions(ctx context.Context, gameID string) (map[string]domain.Point, error) {
	positions := make(map[string]domain.Point)

	cursor := ""
	for {
		objects, next, err := a.nk.StorageList(ctx, "", "", CollectionPositions, 100, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list positions for game %s: %w", gameID, err)
		}
		for _, obj := range objects {
			if obj.GetKey() != gameID {
				continue
			}
			var rec positionRecord
			if err := json.Unmarshal([]byte(obj.GetValue()), &rec); err != nil {
				continue // skip corrupt reports rather than failing the radar
			}
			if rec.GameID != gameID {
				continue
			}
			positions[obj.GetUserId()] = domain.Point{Latitude: rec.Latitude, Longitude: rec.Longitude}
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return positions, nil
}

func strikeID(list []string, userID string) ([]string, bool) {
	out := list[:0]
	found := false
	for _, id := range list {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	return out, found
}

// updateRecord is the shared read-modify-write cycle for roster moves.
func (a *NakamaGameStoreAdapter) updateRecord(ctx context.Context, gameID string, mutate func(*domain.Record) error) error {
	rec, err := a.FetchTagGame(ctx, gameID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("game %s: %w", gameID, ports.ErrGameNotFound)
	}
	if err := mutate(rec); err != nil {
		return err
	}
	if _, err := a.PutTagGame(ctx, *rec); err != nil {
		return err
	}
	return nil
}

var _ ports.GameStore = (*NakamaGameStoreAdapter)(nil)
