package ports

import "context"

// AccountPort updates account profiles on the backing platform.
type AccountPort interface {
	// UpdateProfile applies username/displayName to the given account.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}

// DeviceRegistry keeps the push address for each user current. A user's
// device id changes when they reinstall or switch phones; notifications are
// addressed through the latest registration.
type DeviceRegistry interface {
	// PutDevice registers deviceID as the user's push address.
	PutDevice(ctx context.Context, userID, deviceID string) error
}
