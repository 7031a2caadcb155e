package ping

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "ready", status: http.StatusOK},
		{name: "database down", err: errors.New("connection refused"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := database.NewMockStore(gomock.NewController(t))
			mockDB.EXPECT().GetAdminCount(gomock.Any()).Return(int64(1), tt.err)
			e := env.Null()
			e.Database = mockDB

			r := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
			w := httptest.NewRecorder()
			HandleReady(w, r.WithContext(env.WithCtx(r.Context(), e)))
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}
