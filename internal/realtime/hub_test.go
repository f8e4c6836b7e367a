package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := "assignment-1"

	clientA := hub.NewSSEClient()
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventAssignmentCreated, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEventsScheduled, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventAssignmentCreated {
		t.Fatalf("first event: got=%s", got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventEventsScheduled {
		t.Fatalf("second event: got=%s", got.Event)
	}

	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("subscribers after close: %d", n)
	}

	clientB := hub.NewSSEClient()
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventProgressUpdated})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventProgressUpdated {
		t.Fatalf("reconnect event: got=%s", got.Event)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	a := hub.NewSSEClient()
	b := hub.NewSSEClient()
	hub.AddChannel(a, ChannelCalendar)
	hub.AddChannel(b, "other")
	hub.AddChannel(b, "  ")

	hub.Broadcast(SSEMessage{Channel: ChannelCalendar, Event: SSEEventEventUpdated})
	recvMessage(t, a.Outbound, time.Second)
	select {
	case msg := <-b.Outbound:
		t.Fatalf("client on other channel got %s", msg.Event)
	default:
	}

	hub.RemoveChannel(a, ChannelCalendar)
	hub.Broadcast(SSEMessage{Channel: ChannelCalendar, Event: SSEEventEventUpdated})
	select {
	case msg := <-a.Outbound:
		t.Fatalf("unsubscribed client got %s", msg.Event)
	default:
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient()
	hub.AddChannel(client, ChannelCalendar)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/sse/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(done)
	}()
	hub.Broadcast(SSEMessage{Channel: ChannelCalendar, Event: SSEEventEventDeleted, Data: map[string]string{"id": "x"}})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: EventDeleted") || !strings.Contains(body, `"id":"x"`) {
		t.Fatalf("body=%q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type=%q", ct)
	}
}

type fakePublisher struct {
	err  error
	msgs []SSEMessage
}

func (f *fakePublisher) Publish(ctx context.Context, msg SSEMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestNotifierPrefersPublisherAndFallsBack(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient()
	hub.AddChannel(client, "a1")

	pub := &fakePublisher{}
	n := NewNotifier(mustTestLogger(t), hub, pub)
	n.Notify(context.Background(), "a1", SSEEventAssignmentUpdated, nil)
	if len(pub.msgs) != 1 {
		t.Fatalf("publisher calls=%d", len(pub.msgs))
	}
	select {
	case msg := <-client.Outbound:
		t.Fatalf("published message must not be broadcast locally twice: %s", msg.Event)
	default:
	}

	pub.err = errors.New("redis down")
	n.Notify(context.Background(), "a1", SSEEventAssignmentUpdated, nil)
	if got := recvMessage(t, client.Outbound, time.Second); got.Event != SSEEventAssignmentUpdated {
		t.Fatalf("fallback event: %s", got.Event)
	}
}
