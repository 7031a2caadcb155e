// Package token issues access tokens and carries the request viewer.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/viewer"
)

const (
	// SecretVersion is the kid used when the app secret has no version.
	SecretVersion = "1"
)

var (
	ErrNoToken      = errors.New("no access token in request")
	ErrNoAppSecret  = errors.New("app secret is not configured")
	ErrMalformedJWT = errors.New("malformed authorization header")
)

type viewerKeyType struct{}

var viewerKey viewerKeyType

func AccessTokenName(env *env.Env) string {
	if env.IsProd() {
		return "__Host-Http-access"
	}
	return "access"
}

// KeyVersion is the kid access tokens are signed and checked with.
func KeyVersion(env *env.Env) string {
	if v := env.Config.AppSecret.Version; v != "" {
		return v
	}
	return SecretVersion
}

// NewAccessToken signs a token for params with the app secret.
func NewAccessToken(params jwt.JWTParams, env *env.Env) (string, error) {
	secret := env.AppSecret()
	if len(secret) == 0 {
		return "", ErrNoAppSecret
	}
	token, err := jwt.GenerateJWT(params, secret, KeyVersion(env))
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return token, nil
}

// NewAccessTokenCookie wraps token in an HttpOnly cookie.
func NewAccessTokenCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(jwt.JWTDuration.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   env.IsProd(),
	}
}

// FromRequest returns the raw access token sent as
// "Authorization: Bearer|Token <jwt>" or in the access cookie.
func FromRequest(r *http.Request, env *env.Env) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || strings.TrimSpace(raw) == "" {
			return "", ErrMalformedJWT
		}
		switch strings.ToLower(scheme) {
		case "bearer", "token":
			return strings.TrimSpace(raw), nil
		default:
			return "", ErrMalformedJWT
		}
	}

	cookie, err := r.Cookie(AccessTokenName(env))
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func ViewerWithCtx(ctx context.Context, v viewer.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromCtx returns the viewer of the request, anonymous if none was
// identified.
func ViewerFromCtx(ctx context.Context) viewer.Viewer {
	if v, ok := ctx.Value(viewerKey).(viewer.Viewer); ok {
		return v
	}
	return viewer.Anonymous()
}

// ExpiredAccessTokenCookie returns a cookie that makes the client drop
// its access token.
func ExpiredAccessTokenCookie(env *env.Env) *http.Cookie {
	c := NewAccessTokenCookie("", env)
	c.MaxAge = -1
	return c
}
