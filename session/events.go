package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/octabyte/bm-session/enums"
	otellogger "github.com/octabyte/bm-session/otel/logger"
	"github.com/octabyte/bm-session/utils"
)

const publishTimeout = 2 * time.Second

// Event describes a settled session transition. Tokens are never included.
type Event struct {
	Type   enums.SessionEvent `json:"type"`
	UserID string             `json:"userId"`
	Role   enums.Role         `json:"role"`
	Reason string             `json:"reason,omitempty"`
	At     time.Time          `json:"at"`
}

// Listener is called synchronously after each transition, while the mutation
// lock is still held. It may read the Manager but must not mutate it.
type Listener func(ctx context.Context, event Event)

// Publisher ships encoded events somewhere, e.g. a queue.Publisher.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// PublishTo returns a Listener that JSON-encodes events and hands them to pub.
// Publish failures are logged and otherwise ignored.
func PublishTo(pub Publisher) Listener {
	return func(ctx context.Context, event Event) {
		body, err := utils.StructToBytes(event)
		if err != nil {
			otellogger.ErrorCtx(ctx, "failed to encode session event", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		if err := pub.Publish(ctx, body); err != nil {
			otellogger.WarnCtx(ctx, "failed to publish session event",
				zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
}
