package app

import (
	"strings"
	"testing"
	"time"
)

func TestJoinTokenRoundTrip(t *testing.T) {
	svc := NewJoinTokenService("secret", "fieldtag", time.Hour)

	token, err := svc.Mint("game-1")
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	gameID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if gameID != "game-1" {
		t.Fatalf("game id = %s, want game-1", gameID)
	}
}

func TestJoinTokenExpired(t *testing.T) {
	svc := NewJoinTokenService("secret", "fieldtag", -time.Minute)

	token, err := svc.Mint("game-1")
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := svc.Verify(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestJoinTokenWrongSecret(t *testing.T) {
	minter := NewJoinTokenService("secret-a", "fieldtag", time.Hour)
	verifier := NewJoinTokenService("secret-b", "fieldtag", time.Hour)

	token, err := minter.Mint("game-1")
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestJoinTokenIssuerMismatch(t *testing.T) {
	minter := NewJoinTokenService("secret", "someone-else", time.Hour)
	verifier := NewJoinTokenService("secret", "fieldtag", time.Hour)

	token, err := minter.Mint("game-1")
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	_, err = verifier.Verify(token)
	if err == nil || !strings.Contains(err.Error(), "issued by") {
		t.Fatalf("err = %v, want issuer mismatch", err)
	}
}

func TestJoinTokenRequiresGameID(t *testing.T) {
	svc := NewJoinTokenService("secret", "fieldtag", time.Hour)
	if _, err := svc.Mint(""); err == nil {
		t.Fatal("minting without a game id must fail")
	}
}

func TestJoinTokenUnconfiguredService(t *testing.T) {
	svc := NewJoinTokenService("", "fieldtag", time.Hour)
	if _, err := svc.Mint("game-1"); err == nil {
		t.Fatal("empty secret must refuse to mint")
	}
	if _, err := svc.Verify("whatever"); err == nil {
		t.Fatal("empty secret must refuse to verify")
	}
}
