// Package app wires a workspace into running services: database, key-value
// backend, persistence, accounts, notifications, metrics and live sessions.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"virtualco/internal/auth"
	"virtualco/internal/config"
	"virtualco/internal/db"
	"virtualco/internal/domain"
	"virtualco/internal/events"
	"virtualco/internal/kv"
	"virtualco/internal/metrics"
	"virtualco/internal/migrate"
	"virtualco/internal/notify"
	"virtualco/internal/persist"
	"virtualco/internal/repo"
	"virtualco/internal/session"
)

type App struct {
	Config   config.Server
	DB       *sql.DB
	KV       kv.Store
	Repo     repo.Repo
	Events   events.Writer
	Persist  *persist.Service
	Auth     auth.Service
	Sessions *session.Registry
	// Webhooks is nil when no webhook URLs are configured.
	Webhooks *notify.Dispatcher
	Notifier notify.Sink
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Log      logrus.FieldLogger

	closers []func() error
}

// Open prepares the workspace database and the configured KV backend.
func Open(ctx context.Context, cfg config.Server, log logrus.FieldLogger) (*App, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	conn, err := db.Open(db.Config{Workspace: cfg.Workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a := &App{
		Config: cfg,
		DB:     conn,
		Repo:   repo.Repo{DB: conn},
		Events: events.Writer{DB: conn},
		Log:    log,
	}
	a.closers = append(a.closers, conn.Close)

	store, err := a.openKV(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.KV = store
	a.Persist = persist.New(store, a.Events, log)
	a.Auth = auth.Service{Repo: a.Repo, Events: a.Events, Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}

	sinks := notify.Multi{notify.LogSink{Log: log}}
	if hooks := notify.URLs(cfg.WebhookURLs); len(hooks) > 0 {
		a.Webhooks = notify.NewDispatcher(hooks, log)
		sinks = append(sinks, a.Webhooks)
	}
	a.Notifier = sinks

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)
	a.Sessions = session.NewRegistry(log)
	log.WithFields(logrus.Fields{"backend": cfg.Backend, "db": db.Path(cfg.Workspace)}).Info("workspace opened")
	return a, nil
}

func (a *App) openKV(ctx context.Context) (kv.Store, error) {
	switch a.Config.Backend {
	case config.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := kv.DialRedis(dialCtx, a.Config.RedisURL, "virtualco:")
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	case config.BackendMemory:
		return kv.NewMemory(), nil
	case config.BackendSQLite, "":
		return repo.KV{DB: a.DB}, nil
	}
	return nil, fmt.Errorf("unknown kv backend %q", a.Config.Backend)
}

// NewSession opens a live session wired to persistence, notifications and
// metrics. A zero seed draws one from the clock.
func (a *App) NewSession(ownerID string, p domain.Project, st config.Settings, seed uint64) (*session.Session, error) {
	return session.New(session.Options{
		OwnerID:  ownerID,
		Project:  p,
		Settings: st,
		Seed:     seed,
		Saver:    a.Persist,
		Notifier: a.Notifier,
		Metrics:  a.Metrics,
		Log:      a.Log,
	})
}

// Close shuts down live sessions and releases the backends in reverse
// order of opening.
func (a *App) Close() error {
	if a.Sessions != nil {
		a.Sessions.CloseAll()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
