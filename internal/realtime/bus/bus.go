package bus

import (
	"context"

	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

// Bus carries SSE messages between service instances. Every instance runs a
// forwarder that rebroadcasts what it receives on its local hub.
type Bus interface {
	realtime.Publisher
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
