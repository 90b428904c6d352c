// Package generate asks a generative text service for weekly menus.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/menubot/internal/errs"
	"github.com/edgard/menubot/internal/prompt"
)

// Generator sends one prompt and returns the raw answer.
type Generator interface {
	Generate(ctx context.Context, req prompt.Request) (string, error)
}

// Result is what the pipeline delivers. A degraded result carries the
// apology text and the GenerationFailure that caused it.
type Result struct {
	Text     string
	Degraded bool
	Cause    error
}

// Adapter wraps a Generator so generation never fails the request.
type Adapter struct {
	gen     Generator
	apology string
	timeout time.Duration
	log     *slog.Logger
}

// NewAdapter creates an Adapter. A zero timeout leaves the context untouched.
func NewAdapter(gen Generator, apology string, timeout time.Duration, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		gen:     gen,
		apology: apology,
		timeout: timeout,
		log:     log.With("component", "generate"),
	}
}

// Generate returns the generated text, or the apology when the service
// failed or answered with nothing.
func (a *Adapter) Generate(ctx context.Context, req prompt.Request) Result {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty answer")
	}
	if err != nil {
		cause := errs.New(errs.KindGeneration, "menu generation failed", err)
		a.log.ErrorContext(ctx, "Menu generation failed, sending apology",
			"error", err, "desired_count", req.DesiredCount, "duration", time.Since(start))
		return Result{Text: a.apology, Degraded: true, Cause: cause}
	}

	a.log.DebugContext(ctx, "Menu generated",
		"desired_count", req.DesiredCount, "length", len(text), "duration", time.Since(start))
	return Result{Text: text}
}
