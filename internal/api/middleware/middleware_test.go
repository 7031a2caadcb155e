package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	fgJwt "github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/viewer"
)

const appSecret = "test-secret-32-bytes-long-12345"

func testEnv() *env.Env {
	e := env.New(nil)
	secret := config.AppSecretValue(appSecret)
	e.Config.AppSecret.Value = &secret
	return e
}

func expiredToken(t *testing.T) string {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "5",
		"role": "user",
		"iat":  past.Add(-time.Hour).Unix(),
		"exp":  past.Unix(),
	})
	tok.Header["kid"] = token.SecretVersion
	raw, err := tok.SignedString([]byte(appSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) apiError.ErrorCode {
	t.Helper()
	var body apiError.Error
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Code
}

func TestIdentifyViewer(t *testing.T) {
	e := testEnv()
	valid, err := token.NewAccessToken(fgJwt.JWTParams{UserID: 5, Role: role.RoleAdmin.String()}, e)
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}

	tests := []struct {
		name       string
		setup      func(*http.Request)
		wantStatus int
		wantViewer viewer.Viewer
		wantCode   apiError.ErrorCode
	}{
		{
			name:       "no token is anonymous",
			setup:      func(*http.Request) {},
			wantStatus: http.StatusOK,
			wantViewer: viewer.Anonymous(),
		},
		{
			name:       "bearer token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
			wantViewer: viewer.Authenticated(5, role.RoleAdmin),
		},
		{
			name:       "cookie token",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access", Value: valid}) },
			wantStatus: http.StatusOK,
			wantViewer: viewer.Authenticated(5, role.RoleAdmin),
		},
		{
			name:       "garbage token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Token not-a-jwt") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidAccessToken,
		},
		{
			name:       "expired token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expiredToken(t)) },
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.ExpiredAccessToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got viewer.Viewer
			handler := InjectEnv(e)(IdentifyViewer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = token.ViewerFromCtx(r.Context())
			})))

			r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			tt.setup(r)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantCode != "" {
				if code := decodeCode(t, w); code != tt.wantCode {
					t.Errorf("expected code %q, got %q", tt.wantCode, code)
				}
				return
			}
			if got != tt.wantViewer {
				t.Errorf("expected viewer %+v, got %+v", tt.wantViewer, got)
			}
		})
	}
}

func TestRequireViewer(t *testing.T) {
	handler := RequireViewer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if code := decodeCode(t, w); code != apiError.NotAuthenticated {
		t.Errorf("unexpected code %q", code)
	}

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(token.ViewerWithCtx(r.Context(), viewer.Authenticated(1, role.RoleUser)))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(role.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		viewer viewer.Viewer
		status int
		code   apiError.ErrorCode
	}{
		{name: "anonymous", viewer: viewer.Anonymous(), status: http.StatusUnauthorized, code: apiError.NotAuthenticated},
		{name: "user", viewer: viewer.Authenticated(2, role.RoleUser), status: http.StatusForbidden, code: apiError.InsufficientPermissions},
		{name: "admin", viewer: viewer.Authenticated(1, role.RoleAdmin), status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r = r.WithContext(token.ViewerWithCtx(r.Context(), tt.viewer))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.code != "" {
				if code := decodeCode(t, w); code != tt.code {
					t.Errorf("unexpected code %q", code)
				}
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	limited := RateLimit(config.HTTP{RateLimitRequests: 1, RateLimitWindowSeconds: 60})(ok)
	w := httptest.NewRecorder()
	limited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	limited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", w.Code)
	}
	if code := decodeCode(t, w); code != apiError.TooManyRequests {
		t.Errorf("unexpected code %q", code)
	}

	unlimited := RateLimit(config.HTTP{})(ok)
	for i := range 5 {
		w := httptest.NewRecorder()
		unlimited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://foodgram.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	r.Header.Set("Origin", "https://foodgram.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://foodgram.example" {
		t.Errorf("expected allowed origin, got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allowed origin %q", got)
	}
}

func TestRecordMetrics(t *testing.T) {
	router := chi.NewRouter()
	router.Use(RecordMetrics)
	router.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/12", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}

	if n := testutil.CollectAndCount(metrics.HTTPRequestDuration); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}
