package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidate(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{Role: "user", UserID: 42}, testSecret, "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	params, err := ValidateJWT(raw, "1", testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if params.UserID != 42 {
		t.Errorf("expected user id 42, got %d", params.UserID)
	}
	if params.Role != "user" {
		t.Errorf("expected role %q, got %q", "user", params.Role)
	}
}

func TestValidateJWTRejects(t *testing.T) {
	valid, err := GenerateJWT(JWTParams{Role: "user", UserID: 1}, testSecret, "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken.Header["kid"] = "1"
	expired, err := expiredToken.SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	badSubjectToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	badSubjectToken.Header["kid"] = "1"
	badSubject, err := badSubjectToken.SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		version string
		secret  []byte
	}{
		{"wrong version", valid, "2", testSecret},
		{"wrong secret", valid, "1", []byte("another-secret-another-secret-xx")},
		{"expired", expired, "1", testSecret},
		{"garbage", "not-a-token", "1", testSecret},
		{"non numeric subject", badSubject, "1", testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.token, tt.version, tt.secret); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}

	if _, err := ValidateJWT(badSubject, "1", testSecret); !errors.Is(err, ErrInvalidSubject) {
		t.Errorf("expected ErrInvalidSubject, got %v", err)
	}
}
