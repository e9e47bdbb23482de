package app

import (
	"context"

	"fieldtag/internal/domain"
	"fieldtag/internal/ports"
)

// ReconcileResult captures the view-relevant outcome of one reconciliation
// pass. Fetch failures are logged inside the reconciler and leave local
// state stale; they are not surfaced here because the next notification
// triggers another attempt anyway.
type ReconcileResult struct {
	// Removed is true when the current user no longer appears on any roster
	// of the canonical record: the device was kicked and local state has
	// been reset. The view layer surfaces a terminal alert on this.
	Removed bool

	// AbilityRequested names the ability another participant published
	// (e.g. "radar"), with PublisherID identifying who asked. The caller
	// reacts outside the reconciler, typically by reporting its position.
	AbilityRequested string
	PublisherID      string
}

// Reconciler maps inbound change notifications to the matching re-fetch of
// canonical state. Notifications carry no deltas, so every handler pulls the
// record (and, for roster changes, the user directory) from the store and
// overwrites the local copy. Handlers are stateless; dispatch is purely on
// the notification_type discriminator.
type Reconciler struct {
	store  *GameStateStore
	users  *UserStore
	games  ports.GameStore
	logger ports.Logger
}

func NewReconciler(store *GameStateStore, users *UserStore, games ports.GameStore, logger ports.Logger) *Reconciler {
	return &Reconciler{store: store, users: users, games: games, logger: logger}
}

// Handle dispatches one inbound notification payload. Unknown types are
// logged and ignored; fetch failures are logged and leave the local state
// unchanged until the next notification.
func (r *Reconciler) Handle(ctx context.Context, data map[string]interface{}) ReconcileResult {
	kind, _ := data[KeyNotificationType].(string)

	switch kind {
	case NotificationJoinUser, NotificationRejectUser, NotificationReviveUser, NotificationPoliceUser:
		r.refreshRosters(ctx, kind)
	case NotificationKickOutUsers:
		return r.handleKickOut(ctx)
	case NotificationChangeValidArea:
		r.refreshValidArea(ctx)
	case NotificationChangePrisonArea:
		r.refreshPrisonArea(ctx)
	case NotificationGameStart, NotificationGameStop, NotificationGameEnd:
		r.fullResync(ctx, kind)
	case NotificationGameTimeUp:
		// Time-up carries no state change worth fetching; flip the flag.
		r.store.SetGameTimeUp(true)
	case NotificationAbility:
		ability, _ := data[KeyAbilityType].(string)
		publisher, _ := data[KeyPublisherID].(string)
		return ReconcileResult{AbilityRequested: ability, PublisherID: publisher}
	default:
		r.logger.Warn("Reconcile: unknown notification type %q", kind)
	}
	return ReconcileResult{}
}

// fetchGame pulls the canonical record for the currently joined game.
// Returns nil (already logged) when the device has no game or the fetch
// fails.
func (r *Reconciler) fetchGame(ctx context.Context, kind string) *domain.Record {
	g := r.store.Game()
	if !g.IsSetGame() {
		r.logger.Debug("Reconcile[%s]: no game joined, ignoring", kind)
		return nil
	}
	rec, err := r.games.FetchTagGame(ctx, g.ID)
	if err != nil {
		r.logger.Error("Reconcile[%s]: fetch game %s failed: %v", kind, g.ID, err)
		return nil
	}
	if rec == nil {
		r.logger.Warn("Reconcile[%s]: game %s has no record", kind, g.ID)
		return nil
	}
	return rec
}

func (r *Reconciler) refreshRosters(ctx context.Context, kind string) {
	rec := r.fetchGame(ctx, kind)
	if rec == nil {
		return
	}
	users, err := r.games.FetchCurrentGameUsersInfo(ctx, rec.ID)
	if err != nil {
		r.logger.Error("Reconcile[%s]: fetch users for %s failed: %v", kind, rec.ID, err)
		return
	}
	r.store.UpdateAllUsers(*rec, users)
}

// handleKickOut fetches the record before touching local state: a removal
// notification is indistinguishable in type from any other roster change, so
// "was I removed" can only be decided against the canonical roster lists.
func (r *Reconciler) handleKickOut(ctx context.Context) ReconcileResult {
	rec := r.fetchGame(ctx, NotificationKickOutUsers)
	if rec == nil {
		return ReconcileResult{}
	}

	self := r.users.Get().ID
	if !recordContains(rec, self) {
		r.logger.Info("Reconcile[%s]: user %s removed from game %s", NotificationKickOutUsers, self, rec.ID)
		r.store.Reset()
		return ReconcileResult{Removed: true}
	}

	users, err := r.games.FetchCurrentGameUsersInfo(ctx, rec.ID)
	if err != nil {
		r.logger.Error("Reconcile[%s]: fetch users for %s failed: %v", NotificationKickOutUsers, rec.ID, err)
		return ReconcileResult{}
	}
	r.store.UpdateAllUsers(*rec, users)
	return ReconcileResult{}
}

func (r *Reconciler) refreshValidArea(ctx context.Context) {
	rec := r.fetchGame(ctx, NotificationChangeValidArea)
	if rec == nil {
		return
	}
	r.store.Game().ValidAreas = rec.ValidAreas
}

func (r *Reconciler) refreshPrisonArea(ctx context.Context) {
	rec := r.fetchGame(ctx, NotificationChangePrisonArea)
	if rec == nil {
		return
	}
	r.store.Game().PrisonArea = rec.PrisonArea
}

// fullResync overwrites rosters, areas, master, timing, started flag and
// ability list from the canonical record.
func (r *Reconciler) fullResync(ctx context.Context, kind string) {
	rec := r.fetchGame(ctx, kind)
	if rec == nil {
		return
	}
	users, err := r.games.FetchCurrentGameUsersInfo(ctx, rec.ID)
	if err != nil {
		r.logger.Error("Reconcile[%s]: fetch users for %s failed: %v", kind, rec.ID, err)
		return
	}

	if err := r.store.ApplyRecord(*rec, users); err != nil {
		r.logger.Error("Reconcile[%s]: bad record for %s: %v", kind, rec.ID, err)
	}
}

func recordContains(rec *domain.Record, userID string) bool {
	for _, list := range [][]string{rec.LiveUsers, rec.PoliceUsers, rec.RejectUsers} {
		for _, id := range list {
			if id == userID {
				return true
			}
		}
	}
	return false
}
