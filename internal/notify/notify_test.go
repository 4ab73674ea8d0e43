package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/config"
	"virtualco/internal/notify"
)

func TestEnabledFollowsToggles(t *testing.T) {
	toggles := config.Default().Notifications
	for _, k := range []notify.Kind{notify.KindAgentMessage, notify.KindTaskUpdate, notify.KindMilestone, notify.KindFinancialAlert} {
		assert.True(t, notify.Enabled(toggles, k))
	}
	toggles.FinancialAlerts = false
	assert.False(t, notify.Enabled(toggles, notify.KindFinancialAlert))
	assert.False(t, notify.Enabled(toggles, "other"))
}

func TestDispatcherPostsMatchingKinds(t *testing.T) {
	got := make(chan notify.Notification, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get("X-Virtualco-Secret"))
		var n notify.Notification
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		got <- n
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	d := notify.NewDispatcher([]notify.Webhook{{URL: srv.URL, Secret: "s3cret", Kinds: []string{"milestone"}}}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Notify(notify.Notification{Kind: notify.KindAgentMessage, Title: "skipped"})
	d.Notify(notify.Notification{Kind: notify.KindMilestone, Title: "Sprint"})

	select {
	case n := <-got:
		assert.Equal(t, "Sprint", n.Title)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook not delivered")
	}
	select {
	case n := <-got:
		t.Fatalf("unexpected delivery %v", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcherLogsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	logger, hook := test.NewNullLogger()
	d := notify.NewDispatcher(notify.URLs([]string{srv.URL, " "}), logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	d.Notify(notify.Notification{Kind: notify.KindMilestone})

	require.Eventually(t, func() bool { return len(hook.AllEntries()) > 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, hook.LastEntry().Message, "deliver failed")
}
