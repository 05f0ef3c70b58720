package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"ueconsole/internal/store"
)

// Client talks to the telephony core's REST surface. Every method is one
// fire-and-wait request; nothing here touches the stores. A non-2xx reply
// becomes a *RequestError the caller surfaces and drops — no retries, the
// backend stays the source of truth.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{http: c}
}

// =========================
// ERRORS
// =========================

// ValidationError is raised locally, before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RequestError is a non-success reply from the backend.
type RequestError struct {
	Op     string
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
}

func checkStatus(op string, resp *resty.Response) error {
	if resp.IsError() {
		return &RequestError{Op: op, Status: resp.StatusCode()}
	}
	return nil
}

// =========================
// SNAPSHOT
// =========================

// Snapshot is the full pulled state: line configuration plus every
// subscriber record the backend knows.
type Snapshot struct {
	PcscfSocket string                   `json:"pcscfSocket"`
	ImsDomain   string                   `json:"imsDomain"`
	Clients     []store.SubscriberRecord `json:"clients"`
}

func (c *Client) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&snap).
		Get("/portalData")
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err := checkStatus("load snapshot", resp); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LoadCalls pulls the backend's current call list, for an operator-triggered
// refresh of the call table.
func (c *Client) LoadCalls(ctx context.Context) ([]store.CallRecord, error) {
	var calls []store.CallRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&calls).
		Get("/calls")
	if err != nil {
		return nil, fmt.Errorf("load calls: %w", err)
	}
	if err := checkStatus("load calls", resp); err != nil {
		return nil, err
	}
	return calls, nil
}
