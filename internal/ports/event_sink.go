package ports

import (
	"context"

	"github.com/Halone228/funpay-api/internal/domain"
)

// EventSink receives events produced by the runner, in emission order.
type EventSink interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
