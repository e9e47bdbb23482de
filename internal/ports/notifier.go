package ports

import "context"

// Notification is one push message fanned out to devices. Data carries the
// notification_type discriminator plus type-specific fields; no delta payload
// is ever sent — receivers re-fetch canonical state instead.
type Notification struct {
	Subject string
	Data    map[string]interface{}
}

// Notifier delivers notifications to the devices of a game's participants.
type Notifier interface {
	// NotifyGame sends to every user currently on the game's rosters.
	NotifyGame(ctx context.Context, gameID string, n Notification) error

	// NotifyUsers sends to the given users only.
	NotifyUsers(ctx context.Context, userIDs []string, n Notification) error
}
