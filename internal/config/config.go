package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// AbilityEntry describes one ability offered to game masters during setup.
type AbilityEntry struct {
	Name       string `json:"name"`
	TargetRole string `json:"target_role"`
}

type GameConfig struct {
	// RadarBufferSeconds is the fixed convergence wait between publishing a
	// radar request and querying reported positions.
	RadarBufferSeconds int `json:"radar_buffer_seconds"`
	// DefaultGameMinutes is the game length used when the master starts a
	// game without picking a time limit.
	DefaultGameMinutes int `json:"default_game_minutes"`
	// JoinTokenTTLMinutes bounds how long a printed QR code stays scannable.
	JoinTokenTTLMinutes int            `json:"join_token_ttl_minutes"`
	Abilities           []AbilityEntry `json:"abilities"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetRadarBuffer returns the radar convergence wait, defaulting to 10s when
// no config file was loaded or the value is unset.
func GetRadarBuffer() time.Duration {
	if cfg == nil || cfg.RadarBufferSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.RadarBufferSeconds) * time.Second
}

// GetDefaultGameLength returns the fallback game duration.
func GetDefaultGameLength() time.Duration {
	if cfg == nil || cfg.DefaultGameMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(cfg.DefaultGameMinutes) * time.Minute
}

// GetJoinTokenTTL returns how long a minted join token stays valid.
func GetJoinTokenTTL() time.Duration {
	if cfg == nil || cfg.JoinTokenTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(cfg.JoinTokenTTLMinutes) * time.Minute
}

// GetAbilities returns the configured ability catalog, or the built-in one
// when no config file was loaded.
func GetAbilities() []AbilityEntry {
	if cfg == nil || len(cfg.Abilities) == 0 {
		return []AbilityEntry{
			{Name: "radar", TargetRole: "police"},
			{Name: "decoy", TargetRole: "thief"},
		}
	}
	return cfg.Abilities
}
