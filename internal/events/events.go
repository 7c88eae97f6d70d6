// Package events carries job lifecycle notifications to subscribers outside
// the request path.
package events

import (
	"context"
	"errors"
	"strings"
	"time"
)

type JobEventType string

const (
	JobCreated   JobEventType = "job.created"
	JobUpdated   JobEventType = "job.updated"
	JobPublished JobEventType = "job.published"
	JobClosed    JobEventType = "job.closed"
	JobDeleted   JobEventType = "job.deleted"
)

// Subject is the NATS subject for the event type, e.g. "jobs.published".
func (t JobEventType) Subject() string {
	return "jobs." + strings.TrimPrefix(string(t), "job.")
}

type JobEvent struct {
	Type       JobEventType `json:"type"`
	JobID      int64        `json:"job_id"`
	OperatorID int64        `json:"operator_id"`
	Status     string       `json:"status,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, evt JobEvent) error
}

// Fanout delivers each event to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, evt JobEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
