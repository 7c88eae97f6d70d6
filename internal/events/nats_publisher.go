package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartats/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("smartats/events")

type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url string, connectTimeout time.Duration, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name("smartats-jobs"),
		nats.Timeout(connectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, evt JobEvent) error {
	_, span := tracer.Start(ctx, "NATSPublisher.Publish")
	defer span.End()

	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshaling job event: %w", err)
	}

	subject := evt.Type.Subject()
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		return fmt.Errorf("publishing to NATS: %w", err)
	}

	p.logger.Debug("published job event",
		zap.Int64("job_id", evt.JobID),
		zap.String("subject", subject))
	return nil
}

func (p *NATSPublisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
