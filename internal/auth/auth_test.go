package auth

import (
	"testing"
	"time"
)

func TestMintAndParseTokens(t *testing.T) {
	id := Identity{UserID: 7, Email: "u@example.com", Role: "admin"}
	pair, err := MintTokens(id, "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}

	c, err := ParseAccessToken(pair.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if c.UserID != 7 || c.Role != "admin" || c.Email != "u@example.com" {
		t.Errorf("unexpected claims %+v", c)
	}

	if _, err := ParseAccessToken(pair.RefreshToken, "secret"); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := ParseRefreshToken(pair.RefreshToken, "secret"); err != nil {
		t.Errorf("ParseRefreshToken() error = %v", err)
	}
	if _, err := ParseAccessToken(pair.AccessToken, "other"); err == nil {
		t.Error("token accepted with wrong secret")
	}
}

func TestExpiredToken(t *testing.T) {
	pair, err := MintTokens(Identity{UserID: 1}, "secret", -time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(pair.AccessToken, "secret"); err == nil {
		t.Error("expired token accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatch")
	}
}
