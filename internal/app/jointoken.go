package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// JoinTokenService mints and verifies the signed tokens embedded in join QR
// codes. A token binds one game id with an expiry so stale printouts stop
// working after the configured TTL.
type JoinTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewJoinTokenService(secret, issuer string, ttl time.Duration) *JoinTokenService {
	return &JoinTokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// Mint signs a join token for the given game.
func (s *JoinTokenService) Mint(gameID string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("join token service is not configured")
	}
	if gameID == "" {
		return "", fmt.Errorf("game id is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"gid": gameID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature and expiry and returns the game id the token was
// minted for.
func (s *JoinTokenService) Verify(raw string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("join token service is not configured")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid join token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid join token claims")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return "", fmt.Errorf("join token issued by %q, want %q", iss, s.issuer)
	}
	gameID, _ := claims["gid"].(string)
	if gameID == "" {
		return "", fmt.Errorf("join token missing game id")
	}
	return gameID, nil
}
