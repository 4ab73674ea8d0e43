package virtualcosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal virtualco HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults. baseURL includes the API base
// path, e.g. http://localhost:8080/v1.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Project describes the startup being simulated.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Domain      string `json:"domain"`
	Duration    int    `json:"duration"`
}

// User is an account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

// APIKey is returned once with its plaintext Key.
type APIKey struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Key       string `json:"key,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SimulationSummary is one entry of the saved simulation list.
type SimulationSummary struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	Domain      string    `json:"domain"`
	Progress    float64   `json:"progress"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// State is the live session view (partial). Data carries the full entity
// collections undecoded.
type State struct {
	ID            string          `json:"id"`
	SimulationID  string          `json:"simulationId,omitempty"`
	Project       Project         `json:"project"`
	Running       bool            `json:"running"`
	Speed         float64         `json:"speed"`
	SimulationDay int             `json:"simulationDay"`
	Snapshots     int             `json:"snapshots"`
	Settings      map[string]any  `json:"settings"`
	Data          json.RawMessage `json:"data"`
}

// Snapshot summarizes a captured snapshot.
type Snapshot struct {
	ID            string `json:"id"`
	TakenAt       string `json:"takenAt"`
	Label         string `json:"label"`
	SimulationDay int    `json:"simulationDay"`
	IsBranch      bool   `json:"isBranch,omitempty"`
	ParentID      string `json:"parentId,omitempty"`
}

// Event is an audit log entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	EntityKind string         `json:"entity_kind"`
	Payload    map[string]any `json:"payload"`
}

// APIError wraps non-2xx responses. Code and Message come from the error
// envelope when the body carries one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, email, password, name string) (User, error) {
	body := map[string]any{"email": email, "password": password, "name": name}
	var resp User
	err := c.do(ctx, http.MethodPost, "signup", body, &resp)
	return resp, err
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "login", map[string]any{"email": email, "password": password}, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp.User, err
}

// CreateAPIKey mints a key for the authenticated user.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (APIKey, error) {
	var resp APIKey
	err := c.do(ctx, http.MethodPost, "api-keys", map[string]any{"name": name}, &resp)
	return resp, err
}

// SaveSimulation stores a full simulation document and returns its id.
func (c *Client) SaveSimulation(ctx context.Context, sim any) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "simulations", sim, &resp)
	return resp.ID, err
}

// Simulations lists saved simulations, newest first.
func (c *Client) Simulations(ctx context.Context) ([]SimulationSummary, error) {
	var resp []SimulationSummary
	err := c.do(ctx, http.MethodGet, "simulations", nil, &resp)
	return resp, err
}

// Simulation fetches a saved simulation document.
func (c *Client) Simulation(ctx context.Context, id string) (json.RawMessage, error) {
	var resp json.RawMessage
	err := c.do(ctx, http.MethodGet, "simulations/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// DeleteSimulation removes a saved simulation.
func (c *Client) DeleteSimulation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "simulations/"+url.PathEscape(id), nil, nil)
}

// Settings returns the stored settings, or the defaults.
func (c *Client) Settings(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	err := c.do(ctx, http.MethodGet, "settings", nil, &resp)
	return resp, err
}

// UpdateSettings applies a partial settings update.
func (c *Client) UpdateSettings(ctx context.Context, patch map[string]any) (map[string]any, error) {
	var resp map[string]any
	err := c.do(ctx, http.MethodPut, "settings", patch, &resp)
	return resp, err
}

// OpenSession opens a live session for a new project. A zero seed lets the
// server pick one.
func (c *Client) OpenSession(ctx context.Context, p Project, seed uint64) (State, error) {
	body := map[string]any{"project": p}
	if seed != 0 {
		body["seed"] = seed
	}
	var resp State
	err := c.do(ctx, http.MethodPost, "session", body, &resp)
	return resp, err
}

// ResumeSession opens a live session from a saved simulation.
func (c *Client) ResumeSession(ctx context.Context, simulationID string) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodPost, "session", map[string]any{"simulationId": simulationID}, &resp)
	return resp, err
}

// Session returns the live session state.
func (c *Client) Session(ctx context.Context) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodGet, "session", nil, &resp)
	return resp, err
}

// CloseSession discards the live session.
func (c *Client) CloseSession(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "session", nil, nil)
}

func (c *Client) Start(ctx context.Context) (State, error) { return c.control(ctx, "start") }
func (c *Client) Stop(ctx context.Context) (State, error)  { return c.control(ctx, "stop") }
func (c *Client) Reset(ctx context.Context) (State, error) { return c.control(ctx, "reset") }
func (c *Client) Tick(ctx context.Context) (State, error)  { return c.control(ctx, "tick") }

// SkipDays fast-forwards the live session.
func (c *Client) SkipDays(ctx context.Context, days int) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodPost, "session/skip", map[string]any{"days": days}, &resp)
	return resp, err
}

// SetSpeed changes the tick speed multiplier.
func (c *Client) SetSpeed(ctx context.Context, speed float64) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodPut, "session/speed", map[string]any{"speed": speed}, &resp)
	return resp, err
}

// Save persists the live session and returns the simulation id.
func (c *Client) Save(ctx context.Context) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "session/save", nil, &resp)
	return resp.ID, err
}

// Snapshots lists snapshots in capture order.
func (c *Client) Snapshots(ctx context.Context) ([]Snapshot, error) {
	var resp []Snapshot
	err := c.do(ctx, http.MethodGet, "session/snapshots", nil, &resp)
	return resp, err
}

// Capture takes a labelled snapshot.
func (c *Client) Capture(ctx context.Context, label string) (Snapshot, error) {
	var resp Snapshot
	err := c.do(ctx, http.MethodPost, "session/snapshots", map[string]any{"label": label}, &resp)
	return resp, err
}

// Restore rolls the live session back to a snapshot.
func (c *Client) Restore(ctx context.Context, snapshotID string) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodPost, "session/snapshots/"+url.PathEscape(snapshotID)+"/restore", nil, &resp)
	return resp, err
}

// Export downloads the live session as a JSON bundle.
func (c *Client) Export(ctx context.Context) (json.RawMessage, error) {
	var resp json.RawMessage
	err := c.do(ctx, http.MethodGet, "session/export", nil, &resp)
	return resp, err
}

// Events returns recent audit events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := "events"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp struct {
		Items []Event `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Items, err
}

func (c *Client) control(ctx context.Context, op string) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodPost, "session/"+op, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		return apiErr
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
