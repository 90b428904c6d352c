// Package delivery sends a generated answer back to the user, either menu by
// menu or, when no menus could be recognized, as one message or attachment.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/edgard/menubot/internal/menu"
	"github.com/edgard/menubot/internal/tempfile"
)

// Defaults used when the configuration leaves a field empty.
const (
	DefaultThreshold     = 3500
	DefaultMaxMessageLen = 4096
	DefaultDocumentName  = "menu_planner_output.txt"
)

// Sender is the outbound side of one conversation.
type Sender interface {
	SendText(ctx context.Context, text string) error
	SendDocument(ctx context.Context, path, filename string) error
}

// Mode is how an answer was delivered.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeSegments Mode = "segments"
	ModeText     Mode = "text"
	ModeDocument Mode = "document"
)

// Report summarizes one delivery.
type Report struct {
	Mode     Mode
	Messages int
}

// Options configure a Deliverer.
type Options struct {
	Threshold     int
	MaxMessageLen int
	DocumentName  string
	EmptyText     string
}

// Deliverer routes answers to a Sender.
type Deliverer struct {
	opts Options
	log  *slog.Logger
}

// New creates a Deliverer, filling unset options with defaults.
func New(opts Options, log *slog.Logger) *Deliverer {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = DefaultMaxMessageLen
	}
	if opts.DocumentName == "" {
		opts.DocumentName = DefaultDocumentName
	}
	if log == nil {
		log = slog.Default()
	}
	return &Deliverer{opts: opts, log: log.With("component", "delivery")}
}

// Deliver sends raw to sender. When plan holds menus they are sent one
// section at a time; otherwise raw goes out as a single message, or as a
// document created in scope when it exceeds the threshold. Send failures do
// not stop the remaining messages and are returned joined.
func (d *Deliverer) Deliver(ctx context.Context, scope *tempfile.Scope, sender Sender, raw string, plan menu.Plan) (Report, error) {
	if !plan.Empty() {
		return d.sendUnits(ctx, sender, ModeSegments, segmentUnits(plan))
	}

	if strings.TrimSpace(raw) == "" {
		return d.sendUnits(ctx, sender, ModeNone, []string{d.opts.EmptyText})
	}

	if utf8.RuneCountInString(raw) <= d.opts.Threshold {
		return d.sendUnits(ctx, sender, ModeText, []string{raw})
	}

	return d.sendDocument(ctx, scope, sender, raw)
}

// segmentUnits lists the messages for a parsed plan: the preamble, then
// title, shopping list and preparation of every menu, skipping absent parts.
func segmentUnits(plan menu.Plan) []string {
	var units []string
	if plan.Preamble != "" {
		units = append(units, plan.Preamble)
	}
	for _, seg := range plan.Segments {
		for _, part := range []string{seg.Title, seg.ShoppingList, seg.Preparation} {
			if strings.TrimSpace(part) != "" {
				units = append(units, part)
			}
		}
	}
	return units
}

func (d *Deliverer) sendUnits(ctx context.Context, sender Sender, mode Mode, units []string) (Report, error) {
	report := Report{Mode: mode}
	var errList []error
	for _, unit := range units {
		for _, msg := range SplitText(unit, d.opts.MaxMessageLen) {
			if err := sender.SendText(ctx, msg); err != nil {
				d.log.WarnContext(ctx, "Failed to send message", "mode", mode, "error", err)
				errList = append(errList, err)
				continue
			}
			report.Messages++
		}
	}
	return report, errors.Join(errList...)
}

func (d *Deliverer) sendDocument(ctx context.Context, scope *tempfile.Scope, sender Sender, raw string) (Report, error) {
	report := Report{Mode: ModeDocument}

	f, err := scope.Create(".txt")
	if err != nil {
		return report, fmt.Errorf("failed to create document: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := scope.Remove(path); err != nil {
			d.log.WarnContext(ctx, "Failed to remove document", "path", path, "error", err)
		}
	}()

	_, err = f.WriteString(raw)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return report, fmt.Errorf("failed to write document: %w", err)
	}

	if err := sender.SendDocument(ctx, path, d.opts.DocumentName); err != nil {
		d.log.WarnContext(ctx, "Failed to send document", "error", err)
		return report, fmt.Errorf("failed to send document: %w", err)
	}
	report.Messages = 1

	d.log.DebugContext(ctx, "Answer sent as document", "length", utf8.RuneCountInString(raw))
	return report, nil
}
