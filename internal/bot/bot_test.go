package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/menubot/internal/bot/handlers"
	"github.com/edgard/menubot/internal/bot/tasks"
	"github.com/edgard/menubot/internal/config"
)

var discard = slog.New(slog.DiscardHandler)

type blockingPoller struct{ started atomic.Bool }

func (p *blockingPoller) Start(ctx context.Context) {
	p.started.Store(true)
	<-ctx.Done()
}

type returningPoller struct{}

func (returningPoller) Start(ctx context.Context) {}

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	poller := &blockingPoller{}
	var served atomic.Bool
	server := runnerFunc(func(ctx context.Context) error {
		served.Store(true)
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewBot(discard, Options{Poller: poller, Server: server}).Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if !poller.started.Load() || !served.Load() {
		t.Error("not every component was started")
	}
}

func TestRunFailsWhenListenerStops(t *testing.T) {
	t.Parallel()

	err := NewBot(discard, Options{Poller: returningPoller{}}).Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want error")
	}
}

func TestRunReturnsServerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("address in use")
	server := runnerFunc(func(ctx context.Context) error { return boom })

	err := NewBot(discard, Options{Poller: &blockingPoller{}, Server: server}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
}

func TestRunDrainsInflightRequests(t *testing.T) {
	t.Parallel()

	inflight := &handlers.Inflight{}
	var finished atomic.Bool
	inflight.Go(context.Background(), func(ctx context.Context) {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewBot(discard, Options{Poller: &blockingPoller{}, Inflight: inflight}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !finished.Load() {
		t.Error("Run() returned before the in-flight request finished")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 1)
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"every_second": func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"every_second": {Enabled: true, Schedule: "* * * * * *"},
		"disabled":     {Enabled: false, Schedule: "* * * * * *"},
		"unregistered": {Enabled: true, Schedule: "* * * * * *"},
		"bad_schedule": {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap["bad_schedule"] = taskMap["every_second"]

	s, err := NewScheduler(discard, cfg, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() error = nil, want error")
	}
	if got := s.Scheduled(); got != 1 {
		t.Errorf("Scheduled() = %d, want 1", got)
	}

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Error("scheduled task did not run")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
