package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestApp(t *testing.T) (*App, *http.ServeMux) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(Config{}, log)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.storeEnabled, a.auth, a.metrics)
	return a, mux
}

func TestNew_InMemoryMode(t *testing.T) {
	a, mux := newTestApp(t)

	if a.storeEnabled {
		t.Fatalf("no store configured, storeEnabled must be false")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, rec.Code)
		}
	}
}

func TestReadyz_RequiresStore(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(Config{ReadinessRequireStore: true}, log)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.storeEnabled, a.auth, a.metrics)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestAuthFlowThroughApp(t *testing.T) {
	a, mux := newTestApp(t)

	reg := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"a@example.com","password":"correct horse"}`))
	reg.Header.Set("Content-Type", "application/json")
	regRec := httptest.NewRecorder()
	mux.ServeHTTP(regRec, reg)
	if regRec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", regRec.Code, regRec.Body)
	}

	login := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"correct horse"}`))
	login.Header.Set("Content-Type", "application/json")
	loginRec := httptest.NewRecorder()
	mux.ServeHTTP(loginRec, login)
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", loginRec.Code, loginRec.Body)
	}

	if got := testutil.ToFloat64(a.metrics.logins.WithLabelValues("success")); got != 1 {
		t.Fatalf("gate_logins_total{result=\"success\"} = %v, want 1", got)
	}
	// Register and login each created a session.
	if got := testutil.ToFloat64(a.metrics.sessionsCreated); got != 2 {
		t.Fatalf("gate_sessions_created_total = %v, want 2", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, mux := newTestApp(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gate_sessions_created_total") {
		t.Fatalf("metrics output missing gate counters")
	}
}
