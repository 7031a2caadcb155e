package token

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/viewer"
)

func testEnv() *env.Env {
	e := env.New(nil)
	secret := config.AppSecretValue("test-secret-32-bytes-long-12345")
	e.Config.AppSecret.Value = &secret
	return e
}

func TestNewAccessToken(t *testing.T) {
	e := testEnv()
	raw, err := NewAccessToken(jwt.JWTParams{UserID: 5, Role: role.RoleUser.String()}, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params, err := jwt.ValidateJWT(raw, SecretVersion, e.AppSecret())
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if params.UserID != 5 {
		t.Errorf("expected user 5, got %d", params.UserID)
	}

	if _, err := NewAccessToken(jwt.JWTParams{UserID: 5}, env.New(nil)); !errors.Is(err, ErrNoAppSecret) {
		t.Errorf("expected ErrNoAppSecret, got %v", err)
	}
}

func TestFromRequest(t *testing.T) {
	e := testEnv()

	tests := []struct {
		name    string
		setup   func(*http.Request)
		want    string
		wantErr error
	}{
		{
			name:  "bearer header",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			want:  "abc",
		},
		{
			name:  "token header",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Token xyz") },
			want:  "xyz",
		},
		{
			name:    "unknown scheme",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Basic xyz") },
			wantErr: ErrMalformedJWT,
		},
		{
			name:  "cookie",
			setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access", Value: "cookie-token"}) },
			want:  "cookie-token",
		},
		{
			name:    "nothing",
			setup:   func(*http.Request) {},
			wantErr: ErrNoToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			got, err := FromRequest(r, e)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestViewerFromCtx(t *testing.T) {
	if !ViewerFromCtx(context.Background()).IsAnonymous() {
		t.Error("empty context should yield an anonymous viewer")
	}
	ctx := ViewerWithCtx(context.Background(), viewer.Authenticated(3, role.RoleAdmin))
	if v := ViewerFromCtx(ctx); v.ID != 3 || !v.IsAdmin() {
		t.Errorf("unexpected viewer %+v", v)
	}
}

func TestExpiredAccessTokenCookie(t *testing.T) {
	e := testEnv()
	e.Config.Env = config.EnvProd

	c := ExpiredAccessTokenCookie(e)
	if c.Name != "__Host-Http-access" {
		t.Errorf("unexpected cookie name %q", c.Name)
	}
	if c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("cookie does not expire the token: %+v", c)
	}
	if !c.Secure || !c.HttpOnly {
		t.Error("prod cookie must be secure and http only")
	}
}
