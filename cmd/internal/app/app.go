// Package app wires the gate server runtime: config, logging, metrics,
// stores, and HTTP routes.
//
// It is intentionally small and deterministic to keep CI gates strict and
// behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gate/cmd/identity"
	api "gate/cmd/internal/auth/api"
	"gate/cmd/internal/auth/session"
	"gate/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Store is a small app-level lifecycle abstraction.
// It exists to allow backing resources to be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used for in-memory store mode.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the gate server runtime.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool       *pgxpool.Pool
	storeEnabled bool

	metrics *Metrics
	auth    *api.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	metrics := NewMetrics()

	st, dbPool, storeEnabled, users, sessStore, err := newStores(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(sessCfg, sessStore, session.WithMetrics(metrics))

	hasher, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	authHandler, err := api.NewHandler(log, api.LoadConfigFromEnv(), users, sessions, hasher, api.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:          cfg,
		log:          log,
		store:        st,
		dbPool:       dbPool,
		storeEnabled: storeEnabled,
		metrics:      metrics,
		auth:         authHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.storeEnabled, a.auth, a.metrics)

	handler := WithRequestMetrics(mux, a.metrics)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "store_enabled", a.storeEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStores decides between Postgres, Redis, and in-memory persistence.
//
// Postgres backs both identity and sessions; Redis backs sessions only and
// keeps users in memory, which suits short-lived dev setups; with neither
// configured everything is in memory and nothing survives a restart.
func newStores(ctx context.Context, cfg Config, log Logger) (Store, *pgxpool.Pool, bool, identity.Store, session.Store, error) {
	if cfg.DatabaseURL != "" {
		pool, err := NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, false, nil, nil, err
		}

		users, err := identity.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, nil, false, nil, nil, err
		}
		sessions, err := session.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, nil, false, nil, nil, err
		}

		log.Info("store.postgres")
		return dbStore{pool: pool}, pool, true, users, sessions, nil
	}

	if cfg.RedisAddr != "" {
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, false, nil, nil, err
		}

		users := identity.NewMemoryStore()
		sessions := session.NewRedisStore(client, identityDirectory{users: users})

		log.Info("store.redis", "addr", cfg.RedisAddr)
		return redisStore{client: client}, nil, true, users, sessions, nil
	}

	log.Info("store.inmemory")
	users := identity.NewMemoryStore()
	sessions := session.NewMemoryStore(identityDirectory{users: users})
	return nopStore{}, nil, false, users, sessions, nil
}

type dbStore struct {
	pool *pgxpool.Pool
}

func (s dbStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

type redisStore struct {
	client *redis.Client
}

func (s redisStore) Close(_ context.Context) error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
