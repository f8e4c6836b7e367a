package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/events", 200, time.Millisecond)
	m.ObservePlan("ai", "ok")
	m.AddStudyHours(1)
	m.ObserveProgressCache("hit")
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("nil metrics wrote %q err=%v", buf.String(), err)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/events", 200, 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/events", 200, 30*time.Millisecond)
	m.ObservePlan("heuristic", "ok")
	m.ObserveProgressCache("miss")
	m.AddScheduledEvents("study", 10)
	m.AddScheduledEvents("review", 0)
	m.APIInflightInc()
	m.APIInflightDec()

	if got := m.apiRequests.Value("GET", "/api/events", "200"); got != 2 {
		t.Fatalf("api requests %v want 2", got)
	}
	if got := m.apiLatency.Count("GET", "/api/events"); got != 2 {
		t.Fatalf("latency count %d want 2", got)
	}
	if got := m.apiInflight.Value(); got != 0 {
		t.Fatalf("inflight %v want 0", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`sp_api_requests_total{method="GET",route="/api/events",status="200"} 2`,
		`sp_api_request_duration_seconds_bucket{method="GET",route="/api/events",le="0.05"} 2`,
		`sp_api_request_duration_seconds_bucket{method="GET",route="/api/events",le="0.025"} 0`,
		`sp_plan_generations_total{planner="heuristic",outcome="ok"} 1`,
		`sp_events_scheduled_total{type="study"} 10`,
		`sp_progress_cache_requests_total{result="miss"} 1`,
		"# TYPE sp_api_request_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, `type="review"`) {
		t.Fatalf("zero add created a series")
	}
}

func TestLabelEscaping(t *testing.T) {
	if got := labelString([]string{"a", "b"}, []string{`x"y`}); got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString: %s", got)
	}
	if got := withLe("", "1"); got != `{le="1"}` {
		t.Fatalf("withLe: %s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders("api-key=abc, broken ,x=")
	if len(h) != 1 || h["api-key"] != "abc" {
		t.Fatalf("headers: %v", h)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty should be nil")
	}
}
