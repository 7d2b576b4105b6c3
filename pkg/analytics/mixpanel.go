package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.mixpanel.com"

// Tracker sends product analytics events to Mixpanel. A tracker built with
// an empty token, or with tracking disabled, drops events silently so
// callers never branch on configuration.
type Tracker struct {
	token   string
	kitName string
	enabled bool
	baseURL string
	client  *http.Client
}

func NewTracker(token, kitName string, track bool) *Tracker {
	return &Tracker{
		token:   token,
		kitName: kitName,
		enabled: track && token != "",
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the tracker at a different ingestion endpoint.
func (t *Tracker) WithBaseURL(baseURL string) *Tracker {
	t.baseURL = baseURL
	return t
}

func (t *Tracker) Enabled() bool {
	return t.enabled
}

type trackedEvent struct {
	Event      string                 `json:"event"`
	Properties map[string]interface{} `json:"properties"`
}

// Track sends one event attributed to the session. A disabled tracker
// reports success without network traffic.
func (t *Tracker) Track(ctx context.Context, name, sessionID string, properties map[string]interface{}) error {
	if !t.enabled {
		return nil
	}

	props := map[string]interface{}{
		"token":       t.token,
		"distinct_id": sessionID,
		"kit_name":    t.kitName,
		"time":        time.Now().Unix(),
	}
	for k, v := range properties {
		props[k] = v
	}

	payload, err := json.Marshal([]trackedEvent{{Event: name, Properties: props}})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/track", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("mixpanel request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mixpanel error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

// DemoLaunch records the session launch event.
func (t *Tracker) DemoLaunch(ctx context.Context, sessionID string) error {
	return t.Track(ctx, "demo_launch", sessionID, nil)
}
