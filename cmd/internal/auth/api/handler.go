package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gate/cmd/identity"
	"gate/cmd/internal/auth/session"
	"gate/cmd/security/password"
)

// Metrics receives login outcome events. The Handler never blocks on it.
type Metrics interface {
	LoginSucceeded()
	LoginFailed()
}

type nopMetrics struct{}

func (nopMetrics) LoginSucceeded() {}
func (nopMetrics) LoginFailed()    {}

// Handler wires HTTP auth endpoints to identity and session services.
//
// Credentials travel only in request bodies; the session id travels only
// in the __Host-session cookie.
type Handler struct {
	log *slog.Logger
	cfg Config

	users    identity.Store
	sessions *session.Manager
	hasher   password.Config

	metrics Metrics

	// dummyHash is verified against when login hits an unknown email, so
	// that "no such user" and "wrong password" take comparable time.
	dummyHash string
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithMetrics overrides the default no-op metrics sink.
func WithMetrics(m Metrics) HandlerOption {
	return func(h *Handler) {
		if h == nil || m == nil {
			return
		}
		h.metrics = m
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, users identity.Store, sessions *session.Manager, hasher password.Config, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if users == nil {
		return nil, errors.New("auth: nil identity store")
	}
	if sessions == nil {
		return nil, errors.New("auth: nil session manager")
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		metrics:  nopMetrics{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	dummy, err := hasher.Hash("dummy-password-for-timing-only")
	if err != nil {
		return nil, err
	}
	h.dummyHash = dummy

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/auth/logout", h.handleLogout)
	mux.HandleFunc("/me", h.handleMe)
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := identity.NormalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if err := h.hasher.Validate(req.Password); err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, "password_too_short", "password is too short")
		case errors.Is(err, password.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, "password_too_long", "password is too long")
		default:
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid password")
		}
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.log.Error("auth.register.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, err := h.users.CreateUser(ctx, identity.CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Now:          now,
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("auth.register.create.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	s, err := h.sessions.Create(ctx, now, u.ID)
	if err != nil {
		h.log.Error("auth.register.session.fail", "err", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	session.SetCookie(w, s.ID, s.ExpiresAt)
	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(u)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := identity.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			// Timing resistance: burn a verify even when the user is missing.
			_ = h.hasher.VerifyQuiet(h.dummyHash, req.Password)
			h.metrics.LoginFailed()
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		h.log.Error("auth.login.lookup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	if !h.hasher.VerifyQuiet(u.PasswordHash, req.Password) {
		h.metrics.LoginFailed()
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	s, err := h.sessions.Create(ctx, now, u.ID)
	if err != nil {
		h.log.Error("auth.login.session.fail", "err", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.metrics.LoginSucceeded()
	session.SetCookie(w, s.ID, s.ExpiresAt)
	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(u)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Logout is idempotent: a missing or stale cookie still clears state.
	if id, ok := session.FromRequest(r); ok {
		if err := h.sessions.Invalidate(r.Context(), id); err != nil {
			h.log.Error("auth.logout.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
	}

	session.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, ok := session.FromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no session")
		return
	}

	v, err := h.sessions.Validate(r.Context(), time.Now().UTC(), id)
	if err != nil {
		h.log.Error("auth.me.validate.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	if v == nil {
		session.ClearCookie(w)
		writeError(w, http.StatusUnauthorized, "unauthorized", "no session")
		return
	}

	// Keep the cookie's lifetime in lockstep with the (possibly renewed)
	// session expiry.
	session.SetCookie(w, v.Session.ID, v.Session.ExpiresAt)

	writeJSON(w, http.StatusOK, meResponse{
		User: sessionUserResponse{
			ID:    v.User.UserID,
			Email: strings.TrimSpace(v.User.Email),
		},
		SessionExpiresAt: v.Session.ExpiresAt,
	})
}
