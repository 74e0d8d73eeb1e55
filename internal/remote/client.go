// Package remote implements the HTTP client side of the bin monitor: the
// buzzer mute poll, the ML status poll and telemetry reporting to the
// collector. All calls are synchronous and best-effort; the control loop
// tolerates every failure and simply carries stale state.
package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/bin-sensor/internal/logic"
)

const userAgent = "bin-sensor/1.0"

// Client talks to the collector service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// New creates a client for the collector at baseURL. The timeout bounds how
// long a single call can stall the control loop.
func New(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}

// PollMute fetches the remote mute flag. Any failure or unexpected response
// shape reads as not muted.
func (c *Client) PollMute() bool {
	resp, err := c.get("/buzzer")
	if err != nil {
		c.log.Debugw("mute poll failed", "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debugw("mute poll bad status", "status", resp.Status)
		return false
	}

	var body struct {
		Stop bool `json:"stop"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Stop
}

// PollML fetches the classifier status. A transport failure or non-OK
// status returns an error and the caller keeps all previous values. A
// readable body is mined field by field: missing fields come back nil
// (retain previous), a missing wet marker reads as false.
func (c *Client) PollML() (logic.MLUpdate, error) {
	resp, err := c.get("/ml-status")
	if err != nil {
		return logic.MLUpdate{}, fmt.Errorf("ml poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return logic.MLUpdate{}, fmt.Errorf("ml poll: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return logic.MLUpdate{}, fmt.Errorf("ml poll: read body: %w", err)
	}
	return extractML(raw), nil
}

// extractML mines the recognized fields out of a JSON body. A body that
// does not parse at all yields an update with every field absent.
func extractML(raw []byte) logic.MLUpdate {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return logic.MLUpdate{}
	}

	var u logic.MLUpdate
	if v, ok := fields["wet_detected"].(bool); ok {
		u.Wet = v
	}
	if v, ok := fields["confidence"].(float64); ok {
		u.Confidence = &v
	}
	if v, ok := fields["current_prediction"].(string); ok {
		u.Prediction = &v
	}
	return u
}

// Telemetry is one state snapshot reported to the collector.
type Telemetry struct {
	Gas      int
	Moisture int
	Distance float64
	Wet      bool
	Full     bool
	FillPct  int
	Status   string
}

// SendTelemetry reports one snapshot. Failures are returned for logging
// only; nothing is queued or retried, the next send carries fresher data.
func (c *Client) SendTelemetry(t Telemetry) error {
	q := url.Values{}
	q.Set("gas", strconv.Itoa(t.Gas))
	q.Set("moisture", strconv.Itoa(t.Moisture))
	q.Set("distance", fmt.Sprintf("%.2f", t.Distance))
	q.Set("wet", boolToFlag(t.Wet))
	q.Set("full", boolToFlag(t.Full))
	q.Set("fill", strconv.Itoa(t.FillPct))
	q.Set("status", t.Status)

	resp, err := c.get("/update?" + q.Encode())
	if err != nil {
		return fmt.Errorf("send telemetry: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send telemetry: unexpected status %s", resp.Status)
	}
	return nil
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
