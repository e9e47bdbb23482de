package nakama

import (
	"context"
	"fmt"

	"fieldtag/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaNotifierAdapter implements ports.Notifier on Nakama's notification
// API. Game-wide sends resolve the recipient list from the current game
// record, so users who left since the caller's last fetch are not woken.
type NakamaNotifierAdapter struct {
	nk    runtime.NakamaModule
	games ports.GameStore
}

// NewNakamaNotifierAdapter creates a new notifier adapter.
func NewNakamaNotifierAdapter(nk runtime.NakamaModule, games ports.GameStore) *NakamaNotifierAdapter {
	return &NakamaNotifierAdapter{nk: nk, games: games}
}

// NotifyGame fans the notification out to every user on the game's rosters.
func (a *NakamaNotifierAdapter) NotifyGame(ctx context.Context, gameID string, n ports.Notification) error {
	rec, err := a.games.FetchTagGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients for game %s: %w", gameID, err)
	}
	if rec == nil {
		return fmt.Errorf("game %s: %w", gameID, ports.ErrGameNotFound)
	}

	ids := make([]string, 0, len(rec.LiveUsers)+len(rec.PoliceUsers)+len(rec.RejectUsers))
	ids = append(ids, rec.LiveUsers...)
	ids = append(ids, rec.PoliceUsers...)
	ids = append(ids, rec.RejectUsers...)
	return a.NotifyUsers(ctx, ids, n)
}

// NotifyUsers sends the notification to the given users only.
func (a *NakamaNotifierAdapter) NotifyUsers(ctx context.Context, userIDs []string, n ports.Notification) error {
	if len(userIDs) == 0 {
		return nil
	}

	sends := make([]*runtime.NotificationSend, 0, len(userIDs))
	for _, id := range userIDs {
		sends = append(sends, &runtime.NotificationSend{
			UserID:     id,
			Subject:    n.Subject,
			Content:    n.Data,
			Code:       NotificationCodeTag,
			Persistent: false,
		})
	}
	if err := a.nk.NotificationsSend(ctx, sends); err != nil {
		return fmt.Errorf("failed to send %s to %d users: %w", n.Subject, len(userIDs), err)
	}
	return nil
}

var _ ports.Notifier = (*NakamaNotifierAdapter)(nil)
