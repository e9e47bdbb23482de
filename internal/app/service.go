package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldtag/internal/config"
	"fieldtag/internal/domain"
	"fieldtag/internal/ports"
)

var (
	ErrGameNotSet       = errors.New("no game has been set up yet")
	ErrNotGameMaster    = errors.New("actor is not the game master")
	ErrTooFewPlayers    = errors.New("not enough players to start")
	ErrGameNotStarted   = errors.New("game is not started")
	ErrAbilityNotUsable = errors.New("ability not available for this role")
)

// Service contains the tag-game use-cases a device performs on its local
// state and the shared store. Every mutation follows the same flow: mutate
// the local GameState optimistically, persist to the shared store, then fan
// out a change notification so other devices reconcile.
type Service struct {
	store    *GameStateStore
	users    *UserStore
	games    ports.GameStore
	notifier ports.Notifier
	schedule ports.Scheduler
	devices  ports.DeviceRegistry
	tokens   *JoinTokenService
	logger   ports.Logger

	now  func() time.Time
	wait func(time.Duration)
}

// NewService wires a Service from its collaborators. now/wait default to the
// real clock and may be overridden in tests.
func NewService(store *GameStateStore, users *UserStore, games ports.GameStore,
	notifier ports.Notifier, schedule ports.Scheduler, devices ports.DeviceRegistry,
	tokens *JoinTokenService, logger ports.Logger) *Service {
	return &Service{
		store:    store,
		users:    users,
		games:    games,
		notifier: notifier,
		schedule: schedule,
		devices:  devices,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
		wait:     time.Sleep,
	}
}

// CommitValidArea stores the playable boundary. The first commit assigns the
// game a fresh id, records the current user as game master and puts them on
// the live roster so the record is never roster-empty.
func (s *Service) CommitValidArea(ctx context.Context, points []domain.AreaPoint) error {
	g := s.store.Game()
	self := s.users.Get()

	created := false
	if !g.IsSetGame() {
		g.ID = uuid.NewString()
		g.GameMasterID = self.ID
		g.AddLiveThiefUsers([]domain.User{self})
		created = true
	}
	g.ValidAreas = points
	g.IsSetValidAreaDone = true

	if _, err := s.games.PutTagGame(ctx, g.ToRecord()); err != nil {
		return fmt.Errorf("failed to persist valid area: %w", err)
	}
	if created {
		if err := s.devices.PutDevice(ctx, self.ID, self.DeviceID); err != nil {
			s.logger.Warn("CommitValidArea: device registration failed for %s: %v", self.ID, err)
		}
		return nil
	}
	return s.notifyGame(ctx, NotificationChangeValidArea, nil)
}

// CommitPrisonArea stores the capture-holding zone.
func (s *Service) CommitPrisonArea(ctx context.Context, points []domain.AreaPoint) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	g.PrisonArea = points
	g.IsSetPrisonAreaDone = true

	if _, err := s.games.PutTagGame(ctx, g.ToRecord()); err != nil {
		return fmt.Errorf("failed to persist prison area: %w", err)
	}
	return s.notifyGame(ctx, NotificationChangePrisonArea, nil)
}

// CommitAbilities stores the master's ability selection for this game.
func (s *Service) CommitAbilities(ctx context.Context, list []domain.Ability) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	g.AbilityList = list
	g.IsSetAbilityDone = true

	if _, err := s.games.PutTagGame(ctx, g.ToRecord()); err != nil {
		return fmt.Errorf("failed to persist ability list: %w", err)
	}
	return nil
}

// MintJoinQR returns a signed join token for the current game and its QR
// rendering for the master's screen.
func (s *Service) MintJoinQR(size int) (string, []byte, error) {
	g := s.store.Game()
	if !g.IsSetGame() {
		return "", nil, ErrGameNotSet
	}
	token, err := s.tokens.Mint(g.ID)
	if err != nil {
		return "", nil, err
	}
	png, err := JoinQRPNG(token, size)
	if err != nil {
		return "", nil, err
	}
	return token, png, nil
}

// JoinGame joins the game a scanned QR token names. Scanning the QR of the
// game already joined is a no-op, so accidental re-scans are harmless.
func (s *Service) JoinGame(ctx context.Context, token string) error {
	gameID, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if s.store.BelongingGameGroup(gameID) {
		s.logger.Debug("JoinGame: already in game %s, ignoring re-scan", gameID)
		return nil
	}

	self := s.users.Get()
	if err := s.devices.PutDevice(ctx, self.ID, self.DeviceID); err != nil {
		s.logger.Warn("JoinGame: device registration failed for %s: %v", self.ID, err)
	}
	if err := s.games.JoinUser(ctx, gameID, self.ID); err != nil {
		return fmt.Errorf("failed to join game %s: %w", gameID, err)
	}

	rec, err := s.games.FetchTagGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to fetch joined game %s: %w", gameID, err)
	}
	if rec == nil {
		return ports.ErrGameNotFound
	}
	users, err := s.games.FetchCurrentGameUsersInfo(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to fetch users of game %s: %w", gameID, err)
	}
	if err := s.store.ApplyRecord(*rec, users); err != nil {
		return fmt.Errorf("bad record for game %s: %w", gameID, err)
	}

	return s.notifyGame(ctx, NotificationJoinUser, nil)
}

// LeaveGame removes the current user from the game and resets local state.
// The kickOutUsers notification tells the remaining devices to re-fetch.
func (s *Service) LeaveGame(ctx context.Context) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	self := s.users.Get()
	gameID := g.ID

	if err := s.games.RemoveUserFromGame(ctx, gameID, self.ID); err != nil {
		return fmt.Errorf("failed to leave game %s: %w", gameID, err)
	}
	if err := s.notifier.NotifyGame(ctx, gameID, s.notification(NotificationKickOutUsers, nil)); err != nil {
		s.logger.Error("LeaveGame: notify failed for %s: %v", gameID, err)
	}
	s.store.Reset()
	return nil
}

// KickUsers strikes the given users from the game. Master-only.
func (s *Service) KickUsers(ctx context.Context, users []domain.User) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	if g.GameMasterID != s.users.Get().ID {
		return ErrNotGameMaster
	}

	g.KickOutUsers(users)
	for _, u := range users {
		if err := s.games.RemoveUserFromGame(ctx, g.ID, u.ID); err != nil {
			return fmt.Errorf("failed to kick user %s: %w", u.ID, err)
		}
	}
	return s.notifyGame(ctx, NotificationKickOutUsers, nil)
}

// StartGame starts the game with the given absolute end time (zero means
// now plus the configured default length) and schedules the one-shot
// time-up trigger.
func (s *Service) StartGame(ctx context.Context, timeLimit time.Time) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	if g.GameMasterID != s.users.Get().ID {
		return ErrNotGameMaster
	}
	if len(g.LiveUsers)+len(g.PoliceUsers)+len(g.RejectUsers) < MinPlayersToStartGame {
		return ErrTooFewPlayers
	}

	if timeLimit.IsZero() {
		timeLimit = s.now().Add(config.GetDefaultGameLength())
	}
	if len(g.AbilityList) == 0 {
		g.AbilityList = defaultAbilities()
	}
	started := true
	g.GameTimeLimit = &timeLimit
	g.IsGameStarted = &started
	s.store.SetGameTimeUp(false)

	if _, err := s.games.PutTagGame(ctx, g.ToRecord()); err != nil {
		return fmt.Errorf("failed to persist game start: %w", err)
	}

	gameID := g.ID
	s.schedule.Schedule(gameID, timeLimit, func() {
		s.TimeUpGame(context.Background())
	})
	return s.notifyGame(ctx, NotificationGameStart, nil)
}

// StopGame ends the game early, cancelling the pending time-up trigger.
// Master-only.
func (s *Service) StopGame(ctx context.Context) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	if g.GameMasterID != s.users.Get().ID {
		return ErrNotGameMaster
	}

	started := false
	g.IsGameStarted = &started
	s.schedule.Cancel(g.ID)

	if _, err := s.games.PutTagGame(ctx, g.ToRecord()); err != nil {
		return fmt.Errorf("failed to persist game stop: %w", err)
	}
	return s.notifyGame(ctx, NotificationGameStop, nil)
}

// TimeUpGame is the scheduler's callback target. It flips the local time-up
// flag and fans out the flag-only notification; receivers don't re-fetch.
func (s *Service) TimeUpGame(ctx context.Context) {
	g := s.store.Game()
	if !g.IsSetGame() {
		return
	}
	s.store.SetGameTimeUp(true)
	if err := s.notifyGame(ctx, NotificationGameTimeUp, nil); err != nil {
		s.logger.Error("TimeUpGame: notify failed for %s: %v", g.ID, err)
	}
}

// CatchUser arrests a live thief: local transition first, then the storage
// roster move, then the rejectUser notification. A storage-level absent-id
// error is returned to the caller and not retried.
func (s *Service) CatchUser(ctx context.Context, user domain.User) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}

	g.ChangeToRejectThief([]domain.User{user})
	if err := s.games.RejectUser(ctx, g.ID, user.ID); err != nil {
		return fmt.Errorf("failed to arrest user %s: %w", user.ID, err)
	}
	return s.notifyGame(ctx, NotificationRejectUser, nil)
}

// ReviveUser releases an arrested thief back into the live roster.
func (s *Service) ReviveUser(ctx context.Context, user domain.User) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}

	g.ChangeToLiveThief([]domain.User{user})
	if err := s.games.ReviveUser(ctx, g.ID, user.ID); err != nil {
		return fmt.Errorf("failed to revive user %s: %w", user.ID, err)
	}
	return s.notifyGame(ctx, NotificationReviveUser, nil)
}

// PromotePolice moves the given users onto the police roster. The storage
// layer has no dedicated promote operation, so the whole record is upserted.
func (s *Service) PromotePolice(ctx context.Context, users []domain.User) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}

	g.ChangeToPolice(users)
	if _, err := s.games.PutTagGame(ctx, g.ToRecord()); err != nil {
		return fmt.Errorf("failed to persist police promotion: %w", err)
	}
	return s.notifyGame(ctx, NotificationPoliceUser, nil)
}

// ReportPosition stores the device's current position. A live thief outside
// the playable boundary is auto-arrested on the spot.
func (s *Service) ReportPosition(ctx context.Context, p domain.Point) error {
	g := s.store.Game()
	if !g.IsSetGame() {
		return ErrGameNotSet
	}
	self := s.users.Get()

	if err := s.games.PutPosition(ctx, g.ID, self.ID, p); err != nil {
		return fmt.Errorf("failed to report position: %w", err)
	}

	if g.IsCurrentUserLive(self) && len(g.ValidAreas) >= 3 && !g.IsUserInValidArea(p) {
		s.logger.Info("ReportPosition: user %s left the valid area, auto-arresting", self.ID)
		return s.CatchUser(ctx, self)
	}
	return nil
}

// UseRadar publishes a radar request, waits the fixed convergence buffer so
// participant devices can report their positions, then queries what arrived.
// Participants reporting after the buffer are not counted.
func (s *Service) UseRadar(ctx context.Context) (map[string]domain.Point, error) {
	g := s.store.Game()
	if !g.IsSetGame() {
		return nil, ErrGameNotSet
	}
	if g.IsGameStarted == nil || !*g.IsGameStarted {
		return nil, ErrGameNotStarted
	}
	self := s.users.Get()
	if !s.abilityUsable(AbilityRadar, self) {
		return nil, ErrAbilityNotUsable
	}

	err := s.notifyGame(ctx, NotificationAbility, map[string]interface{}{
		KeyAbilityType: AbilityRadar,
		KeyPublisherID: self.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish radar request: %w", err)
	}

	s.wait(config.GetRadarBuffer())

	positions, err := s.games.FetchPositions(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch radar positions: %w", err)
	}
	return positions, nil
}

// defaultAbilities enables the configured ability catalog. Used when the
// master starts a game without picking abilities.
func defaultAbilities() []domain.Ability {
	entries := config.GetAbilities()
	abilities := make([]domain.Ability, 0, len(entries))
	for _, e := range entries {
		abilities = append(abilities, domain.Ability{
			AbilityName: e.Name,
			IsSetting:   true,
			TargetRole:  e.TargetRole,
		})
	}
	return abilities
}

// abilityUsable reports whether the named ability is selected for this game
// and targets the side the user currently plays on.
func (s *Service) abilityUsable(name string, u domain.User) bool {
	g := s.store.Game()
	side := domain.SideThief
	if g.IsCurrentUserPolice(u) {
		side = domain.SidePolice
	}
	for _, a := range g.AbilityList {
		if a.AbilityName == name && a.IsSetting && a.TargetRole == side {
			return true
		}
	}
	return false
}

func (s *Service) notification(kind string, extra map[string]interface{}) ports.Notification {
	data := map[string]interface{}{KeyNotificationType: kind}
	for k, v := range extra {
		data[k] = v
	}
	return ports.Notification{Subject: kind, Data: data}
}

func (s *Service) notifyGame(ctx context.Context, kind string, extra map[string]interface{}) error {
	g := s.store.Game()
	if err := s.notifier.NotifyGame(ctx, g.ID, s.notification(kind, extra)); err != nil {
		return fmt.Errorf("failed to notify %s for game %s: %w", kind, g.ID, err)
	}
	return nil
}
