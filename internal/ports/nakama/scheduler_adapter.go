package nakama

import (
	"sync"
	"time"

	"fieldtag/internal/ports"
)

// TimerScheduler implements ports.Scheduler with in-process one-shot timers.
// At most one trigger per game id is pending; scheduling again replaces the
// previous timer.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTimerScheduler creates an empty scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*time.Timer)}
}

// Schedule arms fn to fire at the given time. A past time fires immediately.
func (s *TimerScheduler) Schedule(gameID string, at time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[gameID]; ok {
		t.Stop()
	}
	s.timers[gameID] = time.AfterFunc(time.Until(at), func() {
		s.mu.Lock()
		delete(s.timers, gameID)
		s.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending trigger for the game, if any.
func (s *TimerScheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[gameID]; ok {
		t.Stop()
		delete(s.timers, gameID)
	}
}

var _ ports.Scheduler = (*TimerScheduler)(nil)
