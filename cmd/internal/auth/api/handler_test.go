package authapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gate/cmd/identity"
	"gate/cmd/internal/auth/session"
	"gate/cmd/security/password"
)

type testDirectory struct{ users *identity.MemoryStore }

func (d testDirectory) LookupUser(ctx context.Context, userID string) (session.Identity, error) {
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if identity.IsNotFound(err) {
			return session.Identity{}, session.ErrUserNotFound
		}
		return session.Identity{}, err
	}
	return session.Identity{UserID: u.ID, Email: u.Email}, nil
}

func newTestMux(t *testing.T) (*http.ServeMux, *identity.MemoryStore) {
	t.Helper()

	users := identity.NewMemoryStore()
	sessions := session.NewManager(
		session.DefaultConfig(),
		session.NewMemoryStore(testDirectory{users: users}),
	)

	h, err := NewHandler(
		slog.New(slog.NewTextHandler(testWriter{t}, nil)),
		LoadConfigFromEnv(),
		users,
		sessions,
		password.DefaultConfig(),
	)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	mux := http.NewServeMux()
	h.Register(mux)
	return mux, users
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	res := rec.Result()
	defer res.Body.Close()

	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestRegister(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"User@Example.com","password":"correct horse"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Email != "user@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.ID == "" {
		t.Fatalf("missing user id")
	}

	c := sessionCookie(t, rec)
	if c.Value == "" || !c.HttpOnly || !c.Secure {
		t.Fatalf("bad session cookie: %+v", c)
	}

	// The fresh cookie authenticates immediately.
	me := doJSON(t, mux, http.MethodGet, "/me", "", c)
	if me.Code != http.StatusOK {
		t.Fatalf("me status = %d, body = %s", me.Code, me.Body)
	}
	var meResp meResponse
	if err := json.Unmarshal(me.Body.Bytes(), &meResp); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if meResp.User.ID != resp.User.ID || meResp.User.Email != "user@example.com" {
		t.Fatalf("unexpected me response: %+v", meResp)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mux, _ := newTestMux(t)

	first := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"correct horse"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("status = %d", first.Code)
	}

	dup := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"A@Example.COM","password":"other password"}`)
	if dup.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", dup.Code, dup.Body)
	}
	if !strings.Contains(dup.Body.String(), "email_taken") {
		t.Fatalf("body = %s", dup.Body)
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	mux, _ := newTestMux(t)

	cases := []struct {
		name string
		body string
		code string
	}{
		{name: "not json", body: `{{{`, code: "invalid_json"},
		{name: "unknown field", body: `{"email":"a@example.com","password":"correct horse","admin":true}`, code: "invalid_json"},
		{name: "missing email", body: `{"password":"correct horse"}`, code: "invalid_request"},
		{name: "short password", body: `{"email":"a@example.com","password":"short"}`, code: "password_too_short"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/auth/register", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			if !strings.Contains(rec.Body.String(), tc.code) {
				t.Fatalf("body = %s, want code %q", rec.Body, tc.code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	mux, _ := newTestMux(t)

	if rec := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"correct horse"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	rec := doJSON(t, mux, http.MethodPost, "/auth/login",
		`{"email":"  A@EXAMPLE.com ","password":"correct horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	c := sessionCookie(t, rec)
	me := doJSON(t, mux, http.MethodGet, "/me", "", c)
	if me.Code != http.StatusOK {
		t.Fatalf("me status = %d", me.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	mux, _ := newTestMux(t)

	if rec := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"correct horse"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	// Wrong password and unknown email are indistinguishable to the client.
	wrongPw := doJSON(t, mux, http.MethodPost, "/auth/login",
		`{"email":"a@example.com","password":"wrong horse"}`)
	unknown := doJSON(t, mux, http.MethodPost, "/auth/login",
		`{"email":"nobody@example.com","password":"correct horse"}`)

	for _, rec := range []*httptest.ResponseRecorder{wrongPw, unknown} {
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		if !strings.Contains(rec.Body.String(), "invalid_credentials") {
			t.Fatalf("body = %s", rec.Body)
		}
	}
}

func TestLogout(t *testing.T) {
	mux, _ := newTestMux(t)

	reg := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"correct horse"}`)
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d", reg.Code)
	}
	c := sessionCookie(t, reg)

	out := doJSON(t, mux, http.MethodPost, "/auth/logout", "", c)
	if out.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", out.Code)
	}
	if cleared := sessionCookie(t, out); cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cleared)
	}

	// The old cookie no longer authenticates.
	me := doJSON(t, mux, http.MethodGet, "/me", "", c)
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("me status = %d", me.Code)
	}

	// Repeat logout with a stale cookie stays a no-op.
	again := doJSON(t, mux, http.MethodPost, "/auth/logout", "", c)
	if again.Code != http.StatusNoContent {
		t.Fatalf("repeat logout status = %d", again.Code)
	}
}

func TestMe_NoCookie(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMe_DeletedUser(t *testing.T) {
	mux, users := newTestMux(t)

	reg := doJSON(t, mux, http.MethodPost, "/auth/register",
		`{"email":"a@example.com","password":"correct horse"}`)
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d", reg.Code)
	}
	c := sessionCookie(t, reg)

	var resp authResponse
	if err := json.Unmarshal(reg.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	users.Delete(context.Background(), resp.User.ID)

	me := doJSON(t, mux, http.MethodGet, "/me", "", c)
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("me status = %d, body = %s", me.Code, me.Body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	for _, path := range []string{"/auth/register", "/auth/login", "/auth/logout"} {
		rec := doJSON(t, mux, http.MethodGet, path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("GET %s status = %d", path, rec.Code)
		}
	}
	if rec := doJSON(t, mux, http.MethodPost, "/me", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /me status = %d", rec.Code)
	}
}
