package nakama

import (
	"context"
	"database/sql"

	"fieldtag/internal/app"
	"fieldtag/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and hooks for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	configPath := env[EnvConfigPath]
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("InitModule: game config not loaded, using defaults: %v", err)
	}

	secret, issuer := joinTokenParams(env)
	if secret == "" {
		logger.Warn("InitModule: %s missing from env, join QR minting disabled", EnvJoinSecret)
	} else {
		joinTokens = app.NewJoinTokenService(secret, issuer, config.GetJoinTokenTTL())
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("FieldTag Go module loaded.")
	return nil
}

func joinTokenParams(env map[string]string) (secret, issuer string) {
	secret = env[EnvJoinSecret]
	issuer = env[EnvJoinIssuer]
	if issuer == "" {
		issuer = "fieldtag"
	}
	return secret, issuer
}
