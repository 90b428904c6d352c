// Package bot implements the bot lifecycle: it runs the Telegram update loop,
// the maintenance scheduler and the optional metrics server together, and
// drains in-flight requests on shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/menubot/internal/bot/handlers"
)

// DefaultDrainTimeout bounds how long shutdown waits for running requests.
const DefaultDrainTimeout = 30 * time.Second

// Poller receives updates until ctx is cancelled. *tgbot.Bot implements it.
type Poller interface {
	Start(ctx context.Context)
}

// Runner is a component that runs until ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger       *slog.Logger
	poller       Poller
	scheduler    *Scheduler
	server       Runner
	inflight     *handlers.Inflight
	drainTimeout time.Duration
}

// Options holds the components a Bot runs. Scheduler, Server and Inflight
// are optional.
type Options struct {
	Poller       Poller
	Scheduler    *Scheduler
	Server       Runner
	Inflight     *handlers.Inflight
	DrainTimeout time.Duration
}

// NewBot creates a new instance of the bot.
func NewBot(logger *slog.Logger, opts Options) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = DefaultDrainTimeout
	}
	return &Bot{
		logger:       logger.With("component", "bot_orchestrator"),
		poller:       opts.Poller,
		scheduler:    opts.Scheduler,
		server:       opts.Server,
		inflight:     opts.Inflight,
		drainTimeout: opts.DrainTimeout,
	}
}

// Run starts the bot and all its components, handling graceful shutdown on context cancellation.
// It returns an error if any component fails during startup or execution.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")

		b.poller.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	if b.server != nil {
		g.Go(func() error {
			return b.server.Run(gCtx)
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	b.drain()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// drain waits for in-flight requests so their cleanup and ledger writes finish.
func (b *Bot) drain() {
	if b.inflight == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.drainTimeout)
	defer cancel()

	b.logger.Info("Waiting for in-flight requests...", "timeout", b.drainTimeout)
	if err := b.inflight.Wait(ctx); err != nil {
		b.logger.Warn("In-flight requests still running at shutdown", "error", err)
	}
}
