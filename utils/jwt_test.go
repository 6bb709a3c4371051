package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", "a1", "a@shop.test", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("s3cret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "a1" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateToken("other", token); err == nil {
		t.Error("token accepted with the wrong secret")
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := GenerateToken("", "a1", "a@shop.test", RoleAdmin, time.Hour); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("GenerateToken with empty secret: err = %v", err)
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: RoleAdmin}).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ValidateToken("", forged); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("ValidateToken with empty secret: err = %v", err)
	}
}
