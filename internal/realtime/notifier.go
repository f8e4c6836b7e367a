package realtime

import (
	"context"

	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

// Notifier is how services tell connected calendars that state changed.
// Delivery is best effort; failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, channel string, event SSEEvent, data any)
}

// Publisher fans a message out to every instance (see bus.Bus).
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

type hubNotifier struct {
	hub *SSEHub
	pub Publisher
	log *logger.Logger
}

// NewNotifier broadcasts on hub directly, or through pub when one is given;
// pub's forwarder is then responsible for the local broadcast.
func NewNotifier(log *logger.Logger, hub *SSEHub, pub Publisher) Notifier {
	return &hubNotifier{hub: hub, pub: pub, log: log.With("service", "Notifier")}
}

func (n *hubNotifier) Notify(ctx context.Context, channel string, event SSEEvent, data any) {
	msg := SSEMessage{Channel: channel, Event: event, Data: data}
	if n.pub != nil {
		err := n.pub.Publish(ctx, msg)
		if err == nil {
			return
		}
		n.log.Warn("SSE publish failed; broadcasting locally", "channel", channel, "event", event, "error", err)
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}

type nopNotifier struct{}

func NewNopNotifier() Notifier { return nopNotifier{} }

func (nopNotifier) Notify(context.Context, string, SSEEvent, any) {}
