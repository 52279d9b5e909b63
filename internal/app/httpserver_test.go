package app

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Spok95/driving-school-bot/internal/readiness"
)

func TestRoutes_Readyz(t *testing.T) {
	latch := readiness.New()
	h := Routes((*sql.DB)(nil), latch)

	get := func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		return rec.Code
	}

	if code := get(); code != http.StatusServiceUnavailable {
		t.Fatalf("before open: %d", code)
	}
	latch.Open()
	if code := get(); code != http.StatusOK {
		t.Fatalf("after open: %d", code)
	}
}

func TestRoutes_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	Routes(nil, readiness.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
