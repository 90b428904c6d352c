package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/menubot/internal/audio"
	"github.com/edgard/menubot/internal/config"
	"github.com/edgard/menubot/internal/database"
	"github.com/edgard/menubot/internal/delivery"
	"github.com/edgard/menubot/internal/errs"
	"github.com/edgard/menubot/internal/generate"
	"github.com/edgard/menubot/internal/menu"
	"github.com/edgard/menubot/internal/metrics"
	"github.com/edgard/menubot/internal/prompt"
	"github.com/edgard/menubot/internal/tempfile"
)

const (
	defaultTypingInterval = 4 * time.Second
	defaultLedgerTimeout  = 5 * time.Second
)

// Ingestor turns a voice reference into a decoded WAV file inside scope.
type Ingestor interface {
	Ingest(ctx context.Context, scope *tempfile.Scope, ref *audio.VoiceRef) (*audio.Decoded, error)
}

// Transcriber converts a WAV file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Generator produces an answer that is always deliverable.
type Generator interface {
	Generate(ctx context.Context, req prompt.Request) generate.Result
}

// Deliverer sends an answer to the conversation.
type Deliverer interface {
	Deliver(ctx context.Context, scope *tempfile.Scope, sender delivery.Sender, raw string, plan menu.Plan) (delivery.Report, error)
}

// Ledger stores request metadata.
type Ledger interface {
	RecordRequest(ctx context.Context, req *database.Request) error
}

// Timeouts bound the stages that are not bounded by their own adapter.
type Timeouts struct {
	Download       time.Duration
	Transcribe     time.Duration
	Ledger         time.Duration
	TypingInterval time.Duration
}

// Deps are the collaborators of a Pipeline. Ledger and Metrics are optional.
type Deps struct {
	Ingestor    Ingestor
	Transcriber Transcriber
	Prompts     *prompt.Builder
	Generator   Generator
	Deliverer   Deliverer
	Ledger      Ledger
	Metrics     *metrics.Metrics
	Messages    config.Messages
	Timeouts    Timeouts
	TempDir     string
	Logger      *slog.Logger
}

// Pipeline handles inbound messages. It keeps no state between requests and
// is safe for concurrent use.
type Pipeline struct {
	deps     Deps
	messages config.Messages
	timeouts Timeouts
	log      *slog.Logger
}

// New creates a Pipeline.
func New(deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	timeouts := deps.Timeouts
	if timeouts.TypingInterval <= 0 {
		timeouts.TypingInterval = defaultTypingInterval
	}
	if timeouts.Ledger <= 0 {
		timeouts.Ledger = defaultLedgerTimeout
	}
	return &Pipeline{
		deps:     deps,
		messages: deps.Messages,
		timeouts: timeouts,
		log:      deps.Logger.With("component", "pipeline"),
	}
}

// Handle processes one message and replies through conv. It never panics and
// never returns an error: every failure becomes a reply and an Outcome.
// Temporary files created for the request are removed before it returns.
func (p *Pipeline) Handle(ctx context.Context, chatID int64, msg Message, conv Conversation) (outcome Outcome) {
	start := time.Now()
	rec := &database.Request{
		ID:           uuid.NewString(),
		ChatID:       chatID,
		Kind:         string(msg.Kind()),
		DeliveryMode: string(delivery.ModeNone),
		CreatedAt:    start,
	}
	log := p.log.With("request_id", rec.ID, "chat_id", chatID, "kind", rec.Kind)
	scope := tempfile.NewScope(p.deps.TempDir)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "Panic while handling message", "panic", r, "stack", string(debug.Stack()))
			outcome = OutcomeUnexpected
			p.reply(ctx, conv, log, p.messages.GeneralError)
		}
		if err := scope.Cleanup(); err != nil {
			log.WarnContext(ctx, "Failed to remove temporary files", "error", err)
		}

		rec.Outcome = string(outcome)
		rec.DurationMS = time.Since(start).Milliseconds()
		p.record(ctx, log, rec)
		p.deps.Metrics.ObserveRequest(rec.Kind, rec.Outcome)
		log.InfoContext(ctx, "Message handled",
			"outcome", outcome,
			"desired_count", rec.DesiredCount,
			"segments", rec.Segments,
			"delivery_mode", rec.DeliveryMode,
			"duration", time.Since(start))
	}()

	log.InfoContext(ctx, "Handling message")
	return p.handle(ctx, log, scope, msg, conv, rec)
}

func (p *Pipeline) handle(ctx context.Context, log *slog.Logger, scope *tempfile.Scope, msg Message, conv Conversation, rec *database.Request) Outcome {
	var text string
	switch m := msg.(type) {
	case VoiceMessage:
		transcript, outcome := p.transcribeVoice(ctx, log, scope, m, conv)
		if outcome != OutcomeOK {
			return outcome
		}
		text = transcript
	case TextMessage:
		p.reply(ctx, conv, log, p.messages.TextAck)
		text = m.Body
	default:
		log.ErrorContext(ctx, "Unsupported message type", "type", fmt.Sprintf("%T", msg))
		p.reply(ctx, conv, log, p.messages.GeneralError)
		return OutcomeUnexpected
	}

	req := p.deps.Prompts.Build(text)
	rec.DesiredCount = req.DesiredCount
	log.DebugContext(ctx, "Prompt built", "desired_count", req.DesiredCount)

	stopTyping := p.keepTyping(ctx, conv, log)
	defer stopTyping()
	stageStart := time.Now()
	result := p.deps.Generator.Generate(ctx, req)
	stopTyping()
	p.deps.Metrics.ObserveStage("generate", time.Since(stageStart))

	outcome := OutcomeOK
	if result.Degraded {
		outcome = OutcomeDegraded
		log.WarnContext(ctx, "Generation degraded to apology", "error", result.Cause)
	}

	plan := menu.Parse(result.Text)
	rec.Segments = len(plan.Segments)

	stageStart = time.Now()
	report, err := p.deps.Deliverer.Deliver(ctx, scope, conv, result.Text, plan)
	p.deps.Metrics.ObserveStage("deliver", time.Since(stageStart))
	p.deps.Metrics.ObserveDelivery(string(report.Mode), rec.Segments)
	rec.DeliveryMode = string(report.Mode)
	if err != nil {
		log.ErrorContext(ctx, "Delivery incomplete", "mode", report.Mode, "sent", report.Messages, "error", err)
	}
	return outcome
}

// transcribeVoice ingests and transcribes a voice message, acknowledging each
// step to the user. Any outcome other than OutcomeOK has already been
// reported to the user.
func (p *Pipeline) transcribeVoice(ctx context.Context, log *slog.Logger, scope *tempfile.Scope, m VoiceMessage, conv Conversation) (string, Outcome) {
	ingestCtx, cancel := withTimeout(ctx, p.timeouts.Download)
	stageStart := time.Now()
	decoded, err := p.deps.Ingestor.Ingest(ingestCtx, scope, m.Ref)
	cancel()
	p.deps.Metrics.ObserveStage("ingest", time.Since(stageStart))
	if err != nil {
		switch errs.KindOf(err) {
		case errs.KindNoAudioPayload:
			log.WarnContext(ctx, "Voice message without audio payload")
			p.reply(ctx, conv, log, p.messages.NoAudio)
			return "", OutcomeNoAudio
		case errs.KindTranscode:
			log.ErrorContext(ctx, "Failed to decode voice message", "error", err)
			p.reply(ctx, conv, log, p.messages.ProcessingError)
			return "", OutcomeTranscodeFailed
		default:
			log.ErrorContext(ctx, "Unexpected ingestion error", "error", err)
			p.reply(ctx, conv, log, p.messages.GeneralError)
			return "", OutcomeUnexpected
		}
	}

	p.reply(ctx, conv, log, p.messages.VoiceAck)

	transcribeCtx, cancel := withTimeout(ctx, p.timeouts.Transcribe)
	stageStart = time.Now()
	transcript, err := p.deps.Transcriber.Transcribe(transcribeCtx, decoded.Path)
	cancel()
	p.deps.Metrics.ObserveStage("transcribe", time.Since(stageStart))
	if err != nil {
		log.ErrorContext(ctx, "Failed to transcribe voice message", "error", err, "audio_duration", decoded.Duration)
		p.reply(ctx, conv, log, p.messages.ProcessingError)
		return "", OutcomeTranscriptionFailed
	}

	log.DebugContext(ctx, "Voice message transcribed", "audio_duration", decoded.Duration, "transcript_length", len(transcript))
	p.reply(ctx, conv, log, fmt.Sprintf(p.messages.TranscriptEcho, transcript))
	return transcript, OutcomeOK
}

func (p *Pipeline) reply(ctx context.Context, conv Conversation, log *slog.Logger, text string) {
	if text == "" {
		return
	}
	if err := conv.SendText(ctx, text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err)
	}
}

// keepTyping shows the typing indicator until the returned stop function is
// called. Stop may be called more than once.
func (p *Pipeline) keepTyping(ctx context.Context, conv Conversation, log *slog.Logger) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.timeouts.TypingInterval)
		defer ticker.Stop()
		for {
			if err := conv.Typing(ctx); err != nil && ctx.Err() == nil {
				log.DebugContext(ctx, "Failed to send typing indicator", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (p *Pipeline) record(ctx context.Context, log *slog.Logger, rec *database.Request) {
	if p.deps.Ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeouts.Ledger)
	defer cancel()
	if err := p.deps.Ledger.RecordRequest(ctx, rec); err != nil {
		log.WarnContext(ctx, "Failed to record request", "error", err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
