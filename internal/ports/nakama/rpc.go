package nakama

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"

	"fieldtag/internal/app"
	"fieldtag/internal/domain"
	"fieldtag/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// joinTokens signs and verifies join QR tokens. Configured in InitModule from
// the runtime environment.
var joinTokens *app.JoinTokenService

// scheduler holds the in-process time-up triggers for running games.
var scheduler = NewTimerScheduler()

// RegisterRPCs registers the tag-game RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	handlers := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateQR:       rpcCreateQR,
		RpcJoinGame:       rpcJoinGame,
		RpcReportPosition: rpcReportPosition,
		RpcUseRadar:       rpcUseRadar,
		RpcLeaveGame:      rpcLeaveGame,
	}
	for id, fn := range handlers {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// newService assembles a request-scoped app.Service around fresh local
// stores. Each RPC reconstructs state from storage, the same way a device
// that just woke up would.
func newService(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, deviceID string) (*app.Service, *app.GameStateStore) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	username, _ := ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string)

	store := app.NewGameStateStore()
	users := app.NewUserStore()
	users.Put(domain.User{ID: userID, Name: username, DeviceID: deviceID})

	games := NewNakamaGameStoreAdapter(nk)
	notifier := NewNakamaNotifierAdapter(nk, games)
	devices := NewNakamaDeviceAdapter(nk)

	svc := app.NewService(store, users, games, notifier, scheduler, devices, joinTokens, logger)
	return svc, store
}

// loadGame seeds the request-scoped store from the persisted record.
func loadGame(ctx context.Context, nk runtime.NakamaModule, store *app.GameStateStore, gameID string) error {
	games := NewNakamaGameStoreAdapter(nk)
	rec, err := games.FetchTagGame(ctx, gameID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ports.ErrGameNotFound
	}
	users, err := games.FetchCurrentGameUsersInfo(ctx, gameID)
	if err != nil {
		return err
	}
	return store.ApplyRecord(*rec, users)
}

type createQRRequest struct {
	GameID string `json:"gameId"`
	Size   int    `json:"size"`
}

type createQRResponse struct {
	Token string `json:"token"`
	QRPng string `json:"qrPng"`
}

// rpcCreateQR mints a join token for the caller's game and returns it with a
// QR rendering.
// Payload: {"gameId": "...", "size": 256}
func rpcCreateQR(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req createQRRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("gameId is required", 3) // INVALID_ARGUMENT
	}

	svc, store := newService(ctx, logger, nk, "")
	if err := loadGame(ctx, nk, store, req.GameID); err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return "", runtime.NewError("game not found", 5) // NOT_FOUND
		}
		logger.Error("rpcCreateQR: failed to load game %s: %v", req.GameID, err)
		return "", runtime.NewError("internal error", 13) // INTERNAL
	}

	token, png, err := svc.MintJoinQR(req.Size)
	if err != nil {
		logger.Error("rpcCreateQR: mint failed for game %s: %v", req.GameID, err)
		return "", runtime.NewError("internal error", 13)
	}

	b, _ := json.Marshal(createQRResponse{
		Token: token,
		QRPng: base64.StdEncoding.EncodeToString(png),
	})
	return string(b), nil
}

type joinGameRequest struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

// rpcJoinGame joins the caller into the game a scanned token names.
// Payload: {"token": "...", "deviceId": "..."}
func rpcJoinGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req joinGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Token == "" {
		return "", runtime.NewError("token is required", 3)
	}

	svc, _ := newService(ctx, logger, nk, req.DeviceID)
	if err := svc.JoinGame(ctx, req.Token); err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return "", runtime.NewError("game not found", 5)
		}
		logger.Error("rpcJoinGame: %v", err)
		return "", runtime.NewError("failed to join game", 13)
	}
	return `{"joined":true}`, nil
}

type reportPositionRequest struct {
	GameID    string  `json:"gameId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// rpcReportPosition stores the caller's position; a live thief outside the
// playable boundary is arrested as a side effect.
// Payload: {"gameId": "...", "latitude": 35.0, "longitude": 139.0}
func rpcReportPosition(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req reportPositionRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("gameId is required", 3)
	}

	svc, store := newService(ctx, logger, nk, "")
	if err := loadGame(ctx, nk, store, req.GameID); err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return "", runtime.NewError("game not found", 5)
		}
		logger.Error("rpcReportPosition: failed to load game %s: %v", req.GameID, err)
		return "", runtime.NewError("internal error", 13)
	}

	if err := svc.ReportPosition(ctx, domain.Point{Latitude: req.Latitude, Longitude: req.Longitude}); err != nil {
		logger.Error("rpcReportPosition: %v", err)
		return "", runtime.NewError("failed to report position", 13)
	}
	return `{"reported":true}`, nil
}

type useRadarRequest struct {
	GameID string `json:"gameId"`
}

// rpcUseRadar publishes a radar request, waits the convergence buffer and
// returns the positions reported within it, keyed by user id.
// Payload: {"gameId": "..."}
func rpcUseRadar(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req useRadarRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("gameId is required", 3)
	}

	svc, store := newService(ctx, logger, nk, "")
	if err := loadGame(ctx, nk, store, req.GameID); err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return "", runtime.NewError("game not found", 5)
		}
		logger.Error("rpcUseRadar: failed to load game %s: %v", req.GameID, err)
		return "", runtime.NewError("internal error", 13)
	}

	positions, err := svc.UseRadar(ctx)
	if err != nil {
		if errors.Is(err, app.ErrAbilityNotUsable) || errors.Is(err, app.ErrGameNotStarted) {
			return "", runtime.NewError(err.Error(), 9) // FAILED_PRECONDITION
		}
		logger.Error("rpcUseRadar: %v", err)
		return "", runtime.NewError("failed to use radar", 13)
	}

	b, err := json.Marshal(map[string]interface{}{"positions": positions})
	if err != nil {
		return "", runtime.NewError("internal error", 13)
	}
	return string(b), nil
}

type leaveGameRequest struct {
	GameID string `json:"gameId"`
}

// rpcLeaveGame removes the caller from the game.
// Payload: {"gameId": "..."}
func rpcLeaveGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req leaveGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("gameId is required", 3)
	}

	svc, store := newService(ctx, logger, nk, "")
	if err := loadGame(ctx, nk, store, req.GameID); err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return "", runtime.NewError("game not found", 5)
		}
		logger.Error("rpcLeaveGame: failed to load game %s: %v", req.GameID, err)
		return "", runtime.NewError("internal error", 13)
	}

	if err := svc.LeaveGame(ctx); err != nil {
		logger.Error("rpcLeaveGame: %v", err)
		return "", runtime.NewError("failed to leave game", 13)
	}
	return `{"left":true}`, nil
}
