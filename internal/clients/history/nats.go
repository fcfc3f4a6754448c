package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/KirkDiggler/theme-clash/internal/errors"
)

// DefaultSubjectPrefix is where events are published: <prefix>.start and
// <prefix>.end
const DefaultSubjectPrefix = "themeclash.history"

// Publisher is the part of *nats.Conn the recorder uses
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSConfig configures the NATS recorder
type NATSConfig struct {
	Conn          Publisher
	SubjectPrefix string
}

// Validate ensures all required dependencies are provided
func (c *NATSConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Conn == nil {
		vb.RequiredField("Conn")
	}

	return vb.Build()
}

type natsRecorder struct {
	conn   Publisher
	prefix string
}

// NewNATSRecorder creates a recorder that publishes events to NATS
func NewNATSRecorder(cfg *NATSConfig) (Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &natsRecorder{conn: cfg.Conn, prefix: prefix}, nil
}

// DialNATS connects to a NATS server with reconnects enabled
func DialNATS(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to connect to NATS")
	}
	return nc, nil
}

var _ Recorder = (*natsRecorder)(nil)

func (r *natsRecorder) RecordMatchStart(ctx context.Context, input *MatchStartInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	return r.publish(ctx, startEvent(input))
}

func (r *natsRecorder) RecordMatchEnd(ctx context.Context, input *MatchEndInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	return r.publish(ctx, endEvent(input))
}

func (r *natsRecorder) publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal history event")
	}

	subject := r.prefix + "." + event.Action
	if err := r.conn.Publish(subject, data); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to publish history event")
	}
	if err := r.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to flush history event")
	}
	return nil
}
