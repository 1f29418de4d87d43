package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, userID, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenRoundTrip(t *testing.T) {
	token := signToken(t, "s3cret", "planner-1", "planner", time.Minute)

	user, err := ParseToken("s3cret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if user.UserID != "planner-1" || user.Role != "planner" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token := signToken(t, "s3cret", "planner-1", "", time.Minute)
	if _, err := ParseToken("other", token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired := signToken(t, "s3cret", "planner-1", "", -time.Minute)
	if _, err := ParseToken("s3cret", expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGetUserID(t *testing.T) {
	if got := GetUserID(context.Background()); got != "" {
		t.Fatalf("expected anonymous, got %q", got)
	}
	ctx := WithUser(context.Background(), UserContext{UserID: "u1"})
	if got := GetUserID(ctx); got != "u1" {
		t.Fatalf("expected u1, got %q", got)
	}
}
