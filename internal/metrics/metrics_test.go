package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Escalation("issued")
	m.Escalation("issued")
	m.Escalation("failed")
	m.WriteFailure("create tasks")

	if got := testutil.ToFloat64(m.escalations.WithLabelValues("issued")); got != 2 {
		t.Fatalf("expected 2 issued escalations, got %v", got)
	}
	if got := testutil.ToFloat64(m.writeFailures.WithLabelValues("create tasks")); got != 1 {
		t.Fatalf("expected 1 write failure, got %v", got)
	}
}

func TestMetrics_Gauges(t *testing.T) {
	m := New()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.SubscriptionStarted("tasks")
	m.SubscriptionStarted("tasks")
	m.SubscriptionStopped("tasks")

	if got := testutil.ToFloat64(m.sessions); got != 1 {
		t.Fatalf("expected 1 session, got %v", got)
	}
	if got := testutil.ToFloat64(m.subscriptions.WithLabelValues("tasks")); got != 1 {
		t.Fatalf("expected 1 subscription, got %v", got)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.Escalation("issued")
	m.SessionOpened()
	m.ObserveRequest("/", 200, time.Millisecond)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("/tasks", 200, 10*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ascend_http_request_duration_seconds") {
		t.Fatal("expected request histogram in exposition")
	}
}
