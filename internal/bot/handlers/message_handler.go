package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/menubot/internal/audio"
	"github.com/edgard/menubot/internal/pipeline"
)

// NewMessageHandler returns the default handler. It turns voice, audio and
// plain text messages into pipeline messages and runs them off the update
// loop. Unknown commands get the help text; everything else is ignored.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	log := h.deps.Logger.With("handler", "message")
	chatID := update.Message.Chat.ID

	msg, command := inboundMessage(update.Message)
	if command {
		log.DebugContext(ctx, "Unknown command", "chat_id", chatID)
		h.deps.reply(ctx, b, log, chatID, h.deps.Config.Bot.Messages.Help)
		return
	}
	if msg == nil {
		log.DebugContext(ctx, "Ignoring unsupported message", "chat_id", chatID)
		return
	}

	conv := h.deps.conversation(b, chatID)
	h.deps.Inflight.Go(ctx, func(ctx context.Context) {
		h.deps.Pipeline.Handle(ctx, chatID, msg, conv)
	})
}

// inboundMessage maps a Telegram message to a pipeline message. command is
// true for slash commands that reached the default handler.
func inboundMessage(m *models.Message) (msg pipeline.Message, command bool) {
	switch {
	case m.Voice != nil:
		return pipeline.VoiceMessage{Ref: voiceRef(m.Voice.FileID, m.Voice.MimeType, m.Voice.Duration, m.Voice.FileSize)}, false
	case m.Audio != nil:
		return pipeline.VoiceMessage{Ref: voiceRef(m.Audio.FileID, m.Audio.MimeType, m.Audio.Duration, m.Audio.FileSize)}, false
	}

	text := strings.TrimSpace(m.Text)
	switch {
	case text == "":
		return nil, false
	case strings.HasPrefix(text, "/"):
		return nil, true
	}
	return pipeline.TextMessage{Body: text}, false
}

func voiceRef(fileID, mimeType string, seconds int, size int64) *audio.VoiceRef {
	if fileID == "" {
		return nil
	}
	return &audio.VoiceRef{
		FileID:   fileID,
		MimeType: mimeType,
		Duration: time.Duration(seconds) * time.Second,
		Size:     size,
	}
}
