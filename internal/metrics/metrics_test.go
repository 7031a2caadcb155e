package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEdgeToggle(t *testing.T) {
	counter := EdgeTogglesTotal.WithLabelValues("favorite", "add", OutcomeConflict)
	before := testutil.ToFloat64(counter)

	RecordEdgeToggle("favorite", "add", OutcomeConflict)

	if after := testutil.ToFloat64(counter); after != before+1 {
		t.Errorf("expected %v, got %v", before+1, after)
	}
}

func TestRecordShoppingListDownload(t *testing.T) {
	counter := ShoppingListDownloadsTotal.WithLabelValues(OutcomeEmpty)
	before := testutil.ToFloat64(counter)

	RecordShoppingListDownload(OutcomeEmpty)

	if after := testutil.ToFloat64(counter); after != before+1 {
		t.Errorf("expected %v, got %v", before+1, after)
	}
}

func TestHandler(t *testing.T) {
	RecordRequest("/api/recipes", http.MethodGet, http.StatusOK, 10*time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "foodgram_http_request_duration_seconds") {
		t.Error("expected request histogram in output")
	}
}
