package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultWebhookTimeout = 5 * time.Second
	defaultWebhookQueue   = 256
)

type Webhook struct {
	URL     string
	Secret  string
	Kinds   []string
	Timeout time.Duration
}

// Dispatcher posts notifications to webhooks from a single goroutine.
// Notify never blocks; when the queue is full the notification is dropped.
type Dispatcher struct {
	hooks  []Webhook
	client *http.Client
	queue  chan Notification
	log    logrus.FieldLogger
}

func NewDispatcher(hooks []Webhook, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		hooks:  hooks,
		client: &http.Client{Timeout: defaultWebhookTimeout},
		queue:  make(chan Notification, defaultWebhookQueue),
		log:    log,
	}
}

// URLs builds webhooks without secrets or filters.
func URLs(urls []string) []Webhook {
	var out []Webhook
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, Webhook{URL: u})
		}
	}
	return out
}

func (d *Dispatcher) Notify(n Notification) {
	if len(d.hooks) == 0 {
		return
	}
	select {
	case d.queue <- n:
	default:
		d.log.WithField("kind", n.Kind).Warn("webhook: queue full, dropping notification")
	}
}

// Run delivers queued notifications until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-d.queue:
			d.dispatchAll(ctx, n)
		}
	}
}

func (d *Dispatcher) dispatchAll(ctx context.Context, n Notification) {
	for _, hook := range d.hooks {
		if strings.TrimSpace(hook.URL) == "" {
			continue
		}
		if !newKindFilter(hook.Kinds).match(string(n.Kind)) {
			continue
		}
		if err := d.post(ctx, hook, n); err != nil {
			d.log.WithField("url", hook.URL).WithError(err).Warn("webhook: deliver failed")
		}
	}
}

func (d *Dispatcher) post(ctx context.Context, hook Webhook, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	client := d.client
	if hook.Timeout > 0 && hook.Timeout != d.client.Timeout {
		client = &http.Client{Timeout: hook.Timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Virtualco-Event", string(n.Kind))
	req.Header.Set("X-Virtualco-Delivery", uuid.NewString())
	if n.SessionID != "" {
		req.Header.Set("X-Virtualco-Session", n.SessionID)
	}
	if strings.TrimSpace(hook.Secret) != "" {
		req.Header.Set("X-Virtualco-Secret", hook.Secret)
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

type kindFilter struct {
	all bool
	set map[string]struct{}
}

func newKindFilter(kinds []string) kindFilter {
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		if k = strings.TrimSpace(k); k != "" {
			set[k] = struct{}{}
		}
	}
	if len(set) == 0 {
		return kindFilter{all: true}
	}
	return kindFilter{set: set}
}

func (f kindFilter) match(kind string) bool {
	if f.all {
		return true
	}
	_, ok := f.set[kind]
	return ok
}
