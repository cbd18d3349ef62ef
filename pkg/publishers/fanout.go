package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout publishes to the primary sink and, once it accepts, announces the
// event to every mirror.
type Fanout struct {
	primary    Primary
	publishers []Publisher
	log        Logger
}

// NewFanout builds a dispatcher around primary and the given mirrors.
func NewFanout(primary Primary, mirrors []Publisher, log Logger) *Fanout {
	cp := make([]Publisher, 0, len(mirrors))
	for _, p := range mirrors {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	return &Fanout{primary: primary, publishers: cp, log: ensureLogger(log)}
}

// Publish sends the article to the primary sink. Mirror failures are logged
// and never returned: the primary's outcome is authoritative.
func (f *Fanout) Publish(ctx context.Context, evt Event) (Receipt, error) {
	if f == nil || f.primary == nil {
		return Receipt{}, errors.New("no primary publisher configured")
	}

	receipt, err := f.primary.Publish(ctx, evt.Article)
	if err != nil {
		return receipt, err
	}

	if delivered, err := f.Mirror(ctx, evt); err != nil {
		f.log.WarnObj("mirror publish failed", "mirror_errors", map[string]any{
			"link":      evt.Article.SourceLink,
			"delivered": delivered,
			"mirrors":   len(f.publishers),
			"error":     err.Error(),
		})
	}
	return receipt, nil
}

// Mirror forwards the event to every registered mirror.
// It returns the number of mirrors that successfully handled the event.
func (f *Fanout) Mirror(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Size returns the number of active mirrors.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases mirror clients.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		if c, ok := p.(closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
