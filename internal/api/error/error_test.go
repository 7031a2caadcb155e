package error

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-dz/foodgram/internal/validation"
)

func TestEncodeError(t *testing.T) {
	tests := []struct {
		name       string
		code       ErrorCode
		wantStatus int
	}{
		{name: "cart empty", code: CartEmpty, wantStatus: http.StatusNotFound},
		{name: "not owned", code: RecipeNotOwned, wantStatus: http.StatusForbidden},
		{name: "conflict", code: AlreadyFavorited, wantStatus: http.StatusBadRequest},
		{name: "unknown", code: UnknownError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := EncodeError(w, tt.code, "message", "42"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var body map[string]any
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["detail"] != "message" || body["error_id"] != "42" || body["code"] != string(tt.code) {
				t.Errorf("unexpected body %v", body)
			}
			if _, ok := body["fields"]; ok {
				t.Error("fields must be omitted when empty")
			}
		})
	}
}

func TestEncodeValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	verr := validation.Field("ingredients", "this field is required")
	if err := EncodeValidationError(w, verr, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var body Error
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Fields["ingredients"]) != 1 {
		t.Errorf("expected ingredients field error, got %v", body.Fields)
	}
}
