package app_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/app"
	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/kv"
	"virtualco/internal/repo"
)

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func serverConfig(t *testing.T, backend config.Backend) config.Server {
	cfg := config.DefaultServer()
	cfg.Workspace = t.TempDir()
	cfg.JWTSecret = "secret"
	cfg.Backend = backend
	return cfg
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	a, err := app.Open(ctx, serverConfig(t, config.BackendSQLite), quietLog())
	require.NoError(t, err)
	assert.IsType(t, repo.KV{}, a.KV)
	assert.Nil(t, a.Webhooks)
	require.NoError(t, a.Close())

	a, err = app.Open(ctx, serverConfig(t, config.BackendMemory), quietLog())
	require.NoError(t, err)
	assert.IsType(t, &kv.Memory{}, a.KV)
	require.NoError(t, a.Close())

	_, err = app.Open(ctx, serverConfig(t, config.Backend("etcd")), quietLog())
	require.Error(t, err)
}

func TestWebhooksAreOptional(t *testing.T) {
	cfg := serverConfig(t, config.BackendMemory)
	cfg.WebhookURLs = []string{" ", "http://127.0.0.1:1/hook"}
	a, err := app.Open(context.Background(), cfg, quietLog())
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Webhooks)
}

func TestSessionsPersistThroughWorkspace(t *testing.T) {
	ctx := context.Background()
	a, err := app.Open(ctx, serverConfig(t, config.BackendSQLite), quietLog())
	require.NoError(t, err)
	defer a.Close()

	u, err := a.Auth.Signup(ctx, "owner@example.com", "long enough", "Owner")
	require.NoError(t, err)

	s, err := a.NewSession(u.ID, domain.Project{Name: "Acme", Domain: "saas", Duration: 6}, config.Default(), 3)
	require.NoError(t, err)
	a.Sessions.Put(s)
	require.NoError(t, s.Tick(ctx))

	id, err := s.Save(ctx)
	require.NoError(t, err)
	sims, err := a.Persist.ListSimulations(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, id, sims[0].ID)
	assert.Equal(t, 1, a.Sessions.Len())

	require.NoError(t, a.Close())
	assert.Equal(t, 0, a.Sessions.Len())
}
