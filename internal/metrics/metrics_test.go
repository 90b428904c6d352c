package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/edgard/menubot/internal/metrics"
)

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	m.ObserveRequest("voice", "ok")
	m.ObserveStage("generate", time.Second)
	m.ObserveDelivery("segments", 3)
}

func TestCollectors(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveRequest("voice", "ok")
	m.ObserveRequest("voice", "ok")
	m.ObserveRequest("text", "degraded")
	m.ObserveStage("transcribe", 1500*time.Millisecond)
	m.ObserveDelivery("segments", 3)
	m.ObserveDelivery("document", 0)

	expected := `
# HELP menubot_deliveries_total Delivered answers by delivery mode
# TYPE menubot_deliveries_total counter
menubot_deliveries_total{mode="document"} 1
menubot_deliveries_total{mode="segments"} 1
# HELP menubot_requests_total Handled inbound messages by kind and outcome
# TYPE menubot_requests_total counter
menubot_requests_total{kind="text",outcome="degraded"} 1
menubot_requests_total{kind="voice",outcome="ok"} 2
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected),
		"menubot_requests_total", "menubot_deliveries_total"); err != nil {
		t.Errorf("unexpected metrics:\n%v", err)
	}

	if n, err := testutil.GatherAndCount(m.Registry, "menubot_stage_duration_seconds"); err != nil || n != 1 {
		t.Errorf("stage series = %d, %v; want 1", n, err)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestRouter(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveRequest("text", "ok")

	tests := []struct {
		name     string
		pinger   metrics.Pinger
		path     string
		wantCode int
		wantBody string
	}{
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, wantBody: `menubot_requests_total{kind="text",outcome="ok"} 1`},
		{name: "healthy", pinger: fakePinger{}, path: "/healthz", wantCode: http.StatusOK, wantBody: "ok"},
		{name: "no pinger", path: "/healthz", wantCode: http.StatusOK, wantBody: "ok"},
		{name: "unhealthy", pinger: fakePinger{err: errors.New("database is locked")}, path: "/healthz", wantCode: http.StatusServiceUnavailable, wantBody: "database is locked"},
		{name: "unknown", path: "/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(metrics.NewRouter(m.Registry, tt.pinger))
			defer srv.Close()

			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantCode {
				t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.wantCode)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("GET %s body = %q, want it to contain %q", tt.path, body, tt.wantBody)
			}
		})
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	srv := metrics.NewServer("127.0.0.1:0", metrics.New().Registry, nil, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
