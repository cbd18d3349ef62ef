package publishers

import (
	"context"
	"fmt"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
)

// Publisher announces events to a downstream sink (SQS, SNS, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Primary is the system of record articles are published to.
type Primary interface {
	Publish(ctx context.Context, article domain.Article) (Receipt, error)
}

// sender delivers a serialized event to a queue-like sink.
type sender interface {
	Send(ctx context.Context, evt Event) error
}

// Receipt is the status and body returned by the primary sink.
type Receipt struct {
	StatusCode int
	Body       string
}

// OK reports whether the receipt carries a 2xx status.
func (r Receipt) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// StatusError is returned when a sink answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected response status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected response status %d: %s", e.StatusCode, e.Body)
}
