package app

import "fieldtag/internal/domain"

// UserStore holds the device's own user identity for the session. It is
// constructed once at process start next to the GameStateStore and passed to
// whatever needs to know "who am I".
type UserStore struct {
	user domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

// Put replaces the session identity, typically right after registration.
func (s *UserStore) Put(u domain.User) {
	s.user = u
}

// Get returns the session identity; zero value before registration.
func (s *UserStore) Get() domain.User {
	return s.user
}

// SetDeviceID updates only the push address, keeping id and name.
func (s *UserStore) SetDeviceID(deviceID string) {
	s.user.DeviceID = deviceID
}
