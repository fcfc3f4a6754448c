package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirkDiggler/theme-clash/internal/errors"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 200 * time.Millisecond
	defaultAttemptTimeout = 5 * time.Second
)

// HTTPConfig configures the HTTP recorder
type HTTPConfig struct {
	// URL receives a POST per event
	URL        string
	HTTPClient *http.Client

	MaxAttempts    int
	InitialBackoff time.Duration
	AttemptTimeout time.Duration
}

// Validate ensures all required fields are provided
func (c *HTTPConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("URL", c.URL, vb)
	if c.MaxAttempts < 0 {
		vb.InvalidField("MaxAttempts", "must not be negative")
	}

	return vb.Build()
}

type httpRecorder struct {
	url            string
	client         *http.Client
	maxAttempts    int
	initialBackoff time.Duration
	attemptTimeout time.Duration
}

// NewHTTPRecorder creates a recorder that posts events to an HTTP endpoint
func NewHTTPRecorder(cfg *HTTPConfig) (Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &httpRecorder{
		url:            cfg.URL,
		client:         cfg.HTTPClient,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		attemptTimeout: cfg.AttemptTimeout,
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	if r.maxAttempts == 0 {
		r.maxAttempts = defaultMaxAttempts
	}
	if r.initialBackoff == 0 {
		r.initialBackoff = defaultInitialBackoff
	}
	if r.attemptTimeout == 0 {
		r.attemptTimeout = defaultAttemptTimeout
	}

	return r, nil
}

var _ Recorder = (*httpRecorder)(nil)

func (r *httpRecorder) RecordMatchStart(ctx context.Context, input *MatchStartInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	return r.post(ctx, startEvent(input))
}

func (r *httpRecorder) RecordMatchEnd(ctx context.Context, input *MatchEndInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	return r.post(ctx, endEvent(input))
}

// post delivers one event, retrying with doubling backoff
func (r *httpRecorder) post(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal history event")
	}

	var lastErr error
	backoff := r.initialBackoff

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = r.attempt(ctx, body)
		if lastErr == nil {
			return nil
		}

		slog.Warn("history event delivery failed",
			"action", event.Action,
			"room_id", event.RoomID,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"error", lastErr)

		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "history event delivery abandoned")
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return errors.WrapWithCode(lastErr, errors.CodeUnavailable,
		fmt.Sprintf("failed to deliver %s event after %d attempts", event.Action, r.maxAttempts))
}

func (r *httpRecorder) attempt(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Unavailablef("history service answered %s", resp.Status)
	}
	return nil
}
