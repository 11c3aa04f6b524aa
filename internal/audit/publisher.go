package audit

import (
	"context"
	"log/slog"
	"time"

	device "apotheca/pkg/platform/middleware/device"
	request "apotheca/pkg/platform/middleware/request"
)

// Publisher hands events to the worker without blocking the request path.
// Audit is best-effort for identity events: a full inbox drops the event and
// logs, it never fails the business operation.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit enriches the event from the request context (request ID, device
// summary) and queues it.
func (p *Publisher) Emit(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.RequestID == "" {
		e.RequestID = request.GetRequestID(ctx)
	}
	if e.Device == "" {
		e.Device = device.FromContext(ctx)
	}

	select {
	case p.inbox <- e:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", e.Action,
			"uid", e.UID,
		)
	}
}
