package app

import (
	"context"
	"errors"
	"time"

	"fieldtag/internal/domain"
	"fieldtag/internal/ports"
)

// noopLogger satisfies ports.Logger for tests that only need the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// fakeGameStore is an in-memory ports.GameStore that counts fetches and can
// be told to fail.
type fakeGameStore struct {
	rec       *domain.Record
	users     []domain.UserInfo
	positions map[string]domain.Point

	fetchGameCalls  int
	fetchUsersCalls int
	putCalls        int

	failFetch bool
}

var errFakeFetch = errors.New("fetch failed")

func (f *fakeGameStore) FetchTagGame(ctx context.Context, gameID string) (*domain.Record, error) {
	f.fetchGameCalls++
	if f.failFetch {
		return nil, errFakeFetch
	}
	if f.rec == nil || f.rec.ID != gameID {
		return nil, nil
	}
	cp := *f.rec
	return &cp, nil
}

func (f *fakeGameStore) PutTagGame(ctx context.Context, rec domain.Record) (*domain.Record, error) {
	f.putCalls++
	f.rec = &rec
	return &rec, nil
}

func (f *fakeGameStore) JoinUser(ctx context.Context, gameID, userID string) error {
	if f.rec == nil || f.rec.ID != gameID {
		return ports.ErrGameNotFound
	}
	for _, list := range [][]string{f.rec.LiveUsers, f.rec.PoliceUsers, f.rec.RejectUsers} {
		for _, id := range list {
			if id == userID {
				return nil
			}
		}
	}
	f.rec.LiveUsers = append(f.rec.LiveUsers, userID)
	return nil
}

func (f *fakeGameStore) RejectUser(ctx context.Context, gameID, userID string) error {
	if f.rec == nil || f.rec.ID != gameID {
		return ports.ErrGameNotFound
	}
	for i, id := range f.rec.LiveUsers {
		if id == userID {
			f.rec.LiveUsers = append(f.rec.LiveUsers[:i], f.rec.LiveUsers[i+1:]...)
			f.rec.RejectUsers = append(f.rec.RejectUsers, userID)
			return nil
		}
	}
	return ports.ErrUserNotInRoster
}

func (f *fakeGameStore) ReviveUser(ctx context.Context, gameID, userID string) error {
	if f.rec == nil || f.rec.ID != gameID {
		return ports.ErrGameNotFound
	}
	for i, id := range f.rec.RejectUsers {
		if id == userID {
			f.rec.RejectUsers = append(f.rec.RejectUsers[:i], f.rec.RejectUsers[i+1:]...)
			f.rec.LiveUsers = append(f.rec.LiveUsers, userID)
			return nil
		}
	}
	return ports.ErrUserNotInRoster
}

func (f *fakeGameStore) RemoveUserFromGame(ctx context.Context, gameID, userID string) error {
	if f.rec == nil || f.rec.ID != gameID {
		return ports.ErrGameNotFound
	}
	strike := func(list []string) []string {
		out := list[:0]
		for _, id := range list {
			if id != userID {
				out = append(out, id)
			}
		}
		return out
	}
	f.rec.LiveUsers = strike(f.rec.LiveUsers)
	f.rec.PoliceUsers = strike(f.rec.PoliceUsers)
	f.rec.RejectUsers = strike(f.rec.RejectUsers)
	return nil
}

func (f *fakeGameStore) FetchCurrentGameUsersInfo(ctx context.Context, gameID string) ([]domain.UserInfo, error) {
	f.fetchUsersCalls++
	if f.failFetch {
		return nil, errFakeFetch
	}
	return f.users, nil
}

func (f *fakeGameStore) PutPosition(ctx context.Context, gameID, userID string, p domain.Point) error {
	if f.positions == nil {
		f.positions = make(map[string]domain.Point)
	}
	f.positions[userID] = p
	return nil
}

func (f *fakeGameStore) FetchPositions(ctx context.Context, gameID string) (map[string]domain.Point, error) {
	return f.positions, nil
}

var _ ports.GameStore = (*fakeGameStore)(nil)

// recordingNotifier captures every fan-out for assertions.
type recordingNotifier struct {
	sent []ports.Notification
	err  error
}

func (n *recordingNotifier) NotifyGame(ctx context.Context, gameID string, msg ports.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) NotifyUsers(ctx context.Context, userIDs []string, msg ports.Notification) error {
	return n.NotifyGame(ctx, "", msg)
}

func (n *recordingNotifier) lastType() string {
	if len(n.sent) == 0 {
		return ""
	}
	kind, _ := n.sent[len(n.sent)-1].Data[KeyNotificationType].(string)
	return kind
}

var _ ports.Notifier = (*recordingNotifier)(nil)

// fakeScheduler records one-shot schedules without running them.
type fakeScheduler struct {
	scheduled map[string]time.Time
	fns       map[string]func()
	cancelled []string
}

func (f *fakeScheduler) Schedule(gameID string, at time.Time, fn func()) {
	if f.scheduled == nil {
		f.scheduled = make(map[string]time.Time)
		f.fns = make(map[string]func())
	}
	f.scheduled[gameID] = at
	f.fns[gameID] = fn
}

func (f *fakeScheduler) Cancel(gameID string) {
	f.cancelled = append(f.cancelled, gameID)
	delete(f.scheduled, gameID)
}

var _ ports.Scheduler = (*fakeScheduler)(nil)

// fakeDevices records push-address registrations.
type fakeDevices struct {
	registered map[string]string
}

func (f *fakeDevices) PutDevice(ctx context.Context, userID, deviceID string) error {
	if f.registered == nil {
		f.registered = make(map[string]string)
	}
	f.registered[userID] = deviceID
	return nil
}

var _ ports.DeviceRegistry = (*fakeDevices)(nil)
