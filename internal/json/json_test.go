package json

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name      string
		body      string
		wantError bool
		want      string
	}{
		{name: "single object", body: `{"name":"salad"}`, want: "salad"},
		{name: "trailing whitespace", body: "{\"name\":\"soup\"}\n", want: "soup"},
		{name: "trailing value", body: `{"name":"a"}{"name":"b"}`, wantError: true},
		{name: "malformed", body: `{"name":`, wantError: true},
		{name: "empty", body: ``, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := Decode(strings.NewReader(tt.body), &p)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.want {
				t.Errorf("expected name %q, got %q", tt.want, p.Name)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := Write(rec, http.StatusCreated, map[string]int{"id": 3}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if body := rec.Body.String(); body != `{"id":3}` {
		t.Errorf("unexpected body %q", body)
	}
}
