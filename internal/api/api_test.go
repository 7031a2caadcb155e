package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
)

func newTestRouter(t *testing.T) (http.Handler, *database.MockStore, string) {
	t.Helper()
	dir := t.TempDir()
	mockDB := database.NewMockStore(gomock.NewController(t))
	e := env.Null()
	e.Database = mockDB
	e.FileStore = filestore.NewLocal(dir, "/media", "http://localhost:8080")
	e.Config.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	secret := config.AppSecretValue("test-secret-32-bytes-long-12345")
	e.Config.AppSecret.Value = &secret
	return NewRouter(e), mockDB, dir
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) apiError.ErrorCode {
	t.Helper()
	var body apiError.Error
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Code
}

func TestRouter(t *testing.T) {
	h, _, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
		code   apiError.ErrorCode
	}{
		{name: "ping", method: http.MethodGet, target: "/api/ping", status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", status: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/api/nope", status: http.StatusNotFound, code: apiError.RouteNotFound},
		{name: "wrong method", method: http.MethodPut, target: "/api/tags", status: http.StatusMethodNotAllowed, code: apiError.MethodNotAllowed},
		{name: "cart needs a viewer", method: http.MethodGet, target: "/api/recipes/download_shopping_cart", status: http.StatusUnauthorized, code: apiError.NotAuthenticated},
		{name: "me needs a viewer", method: http.MethodGet, target: "/api/users/me", status: http.StatusUnauthorized, code: apiError.NotAuthenticated},
		{name: "admin needs a viewer", method: http.MethodPost, target: "/api/admin/tags", status: http.StatusUnauthorized, code: apiError.NotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.code != "" {
				if code := errorCode(t, w); code != tt.code {
					t.Errorf("expected %q, got %q", tt.code, code)
				}
			}
		})
	}
}

func TestRouterRejectsBadToken(t *testing.T) {
	h, _, _ := newTestRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	r.Header.Set("Authorization", "Token not-a-jwt")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRouterServesMedia(t *testing.T) {
	h, _, dir := newTestRouter(t)

	path := filepath.Join(dir, "recipes", "images", "a.png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/recipes/images/a.png", nil))
	if w.Code != http.StatusOK || w.Body.String() != "png" {
		t.Errorf("unexpected response %d %q", w.Code, w.Body.String())
	}
}

func TestRouterServesDocs(t *testing.T) {
	h, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding doc: %v", err)
	}
	if doc.Info.Title != "Foodgram API" {
		t.Errorf("unexpected title %q", doc.Info.Title)
	}
	for path, method := range map[string]string{
		"/api/recipes":                        "get",
		"/api/recipes/{id}/favorite":          "post",
		"/api/recipes/{id}/shopping_cart":     "delete",
		"/api/users/{id}/subscribe":           "post",
		"/api/recipes/download_shopping_cart": "get",
	} {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("doc is missing %s %s", strings.ToUpper(method), path)
		}
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/swagger/doc.json", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if code := errorCode(t, w); code != apiError.MethodNotAllowed {
		t.Errorf("expected %q, got %q", apiError.MethodNotAllowed, code)
	}
}
