package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/edge"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/viewer"
)

func newRouter(t *testing.T, v viewer.Viewer) (http.Handler, *database.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockStore(ctrl)
	e := env.Null()
	e.Database = mockDB

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := token.ViewerWithCtx(env.WithCtx(req.Context(), e), v)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/recipes", HandleListRecipes)
	r.Post("/recipes", HandleCreateRecipe)
	r.Get("/recipes/download_shopping_cart", HandleDownloadShoppingCart)
	r.Get("/recipes/{id}", HandleGetRecipe)
	r.Delete("/recipes/{id}", HandleDeleteRecipe)
	r.Post("/recipes/{id}/favorite", AddEdge(edge.Favorite))
	r.Delete("/recipes/{id}/shopping_cart", RemoveEdge(edge.ShoppingCart))
	return r, mockDB
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError.Error {
	t.Helper()
	var body apiError.Error
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestHandleListRecipes(t *testing.T) {
	h, mockDB := newRouter(t, viewer.Anonymous())

	mockDB.EXPECT().
		ListRecipes(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f database.RecipeFilter) ([]database.ListRecipesRow, error) {
			if f.IsFavorited {
				t.Error("favorites filter applied to an anonymous viewer")
			}
			if len(f.TagSlugs) != 2 {
				t.Errorf("expected two tag slugs, got %v", f.TagSlugs)
			}
			return nil, nil
		})

	w := serve(h, http.MethodGet, "/recipes?tags=lunch&tags=dinner&is_favorited=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestHandleListRecipesBadQuery(t *testing.T) {
	h, _ := newRouter(t, viewer.Anonymous())

	for _, target := range []string{"/recipes?page=0", "/recipes?page=9223372036854775807", "/recipes?author=abc"} {
		w := serve(h, http.MethodGet, target, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestHandleGetRecipeNotFound(t *testing.T) {
	h, mockDB := newRouter(t, viewer.Anonymous())

	mockDB.EXPECT().ListRecipes(gomock.Any(), gomock.Any()).Return(nil, nil)

	w := serve(h, http.MethodGet, "/recipes/42", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != apiError.RecipeNotFound {
		t.Errorf("unexpected code %q", body.Code)
	}
}

func TestHandleCreateRecipeValidation(t *testing.T) {
	h, _ := newRouter(t, viewer.Authenticated(1, role.RoleUser))

	w := serve(h, http.MethodPost, "/recipes", `{"name": "Soup", "cooking_time": 0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body.Code != apiError.ValidationFailed {
		t.Errorf("unexpected code %q", body.Code)
	}
	for _, field := range []string{"cooking_time", "ingredients", "image"} {
		if len(body.Fields[field]) == 0 {
			t.Errorf("expected an error on %q, got %v", field, body.Fields)
		}
	}
}

func TestHandleCreateRecipeUnknownField(t *testing.T) {
	h, _ := newRouter(t, viewer.Authenticated(1, role.RoleUser))

	w := serve(h, http.MethodPost, "/recipes", `{"title": "Soup"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != apiError.BadRequest {
		t.Errorf("unexpected code %q", body.Code)
	}
}

func TestHandleDeleteRecipeNotOwned(t *testing.T) {
	h, mockDB := newRouter(t, viewer.Authenticated(1, role.RoleUser))

	mockDB.EXPECT().
		GetRecipeOwner(gomock.Any(), int64(3)).
		Return(database.GetRecipeOwnerRow{ID: 3, AuthorID: 9}, nil)

	w := serve(h, http.MethodDelete, "/recipes/3", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != apiError.RecipeNotOwned {
		t.Errorf("unexpected code %q", body.Code)
	}
}

func TestHandleAddFavorite(t *testing.T) {
	short := database.ShortRecipe{ID: 3, Name: "Soup", Image: "recipes/images/a.png", CookingTime: 20}

	tests := []struct {
		name      string
		lookupErr error
		createErr error
		status    int
		code      apiError.ErrorCode
	}{
		{name: "created", status: http.StatusCreated},
		{
			name:      "duplicate",
			createErr: &pgconn.PgError{Code: "23505"},
			status:    http.StatusBadRequest,
			code:      apiError.AlreadyFavorited,
		},
		{
			name:      "missing recipe",
			lookupErr: pgx.ErrNoRows,
			status:    http.StatusNotFound,
			code:      apiError.RecipeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockDB := newRouter(t, viewer.Authenticated(1, role.RoleUser))

			mockDB.EXPECT().GetShortRecipe(gomock.Any(), int64(3)).Return(short, tt.lookupErr)
			if tt.lookupErr == nil {
				mockDB.EXPECT().
					CreateFavorite(gomock.Any(), database.EdgeParams{UserID: 1, RecipeID: 3}).
					Return(tt.createErr)
			}

			w := serve(h, http.MethodPost, "/recipes/3/favorite", "")
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.code != "" {
				if body := decodeError(t, w); body.Code != tt.code {
					t.Errorf("unexpected code %q", body.Code)
				}
				return
			}
			var resp ShortRecipeResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.ID != 3 || resp.Name != "Soup" || resp.CookingTime != 20 {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestHandleRemoveFromShoppingCartMissing(t *testing.T) {
	h, mockDB := newRouter(t, viewer.Authenticated(1, role.RoleUser))

	mockDB.EXPECT().GetShortRecipe(gomock.Any(), int64(3)).Return(database.ShortRecipe{ID: 3}, nil)
	mockDB.EXPECT().DeleteShoppingCartItem(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	w := serve(h, http.MethodDelete, "/recipes/3/shopping_cart", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != apiError.NotInCart {
		t.Errorf("unexpected code %q", body.Code)
	}
}

func TestHandleDownloadShoppingCart(t *testing.T) {
	h, mockDB := newRouter(t, viewer.Authenticated(1, role.RoleUser))

	mockDB.EXPECT().
		GetShoppingCartIngredients(gomock.Any(), int64(1)).
		Return([]database.GetShoppingCartIngredientsRow{
			{Name: "salt", MeasurementUnit: "g", Amount: 5},
			{Name: "egg", MeasurementUnit: "pcs", Amount: 2},
			{Name: "salt", MeasurementUnit: "g", Amount: 3},
		}, nil)

	w := serve(h, http.MethodGet, "/recipes/download_shopping_cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "shopping_cart.txt") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if got, want := w.Body.String(), "egg: 2 (pcs)\nsalt: 8 (g)"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHandleDownloadShoppingCartEmpty(t *testing.T) {
	h, mockDB := newRouter(t, viewer.Authenticated(1, role.RoleUser))

	mockDB.EXPECT().GetShoppingCartIngredients(gomock.Any(), int64(1)).Return(nil, nil)

	w := serve(h, http.MethodGet, "/recipes/download_shopping_cart", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Code != apiError.CartEmpty {
		t.Errorf("unexpected code %q", body.Code)
	}
}
