package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/menubot/internal/config"
	"github.com/edgard/menubot/internal/database"
	"github.com/edgard/menubot/internal/pipeline"
	"github.com/edgard/menubot/internal/telegram"
)

// MessageHandler processes one inbound voice or text message.
type MessageHandler interface {
	Handle(ctx context.Context, chatID int64, msg pipeline.Message, conv pipeline.Conversation) pipeline.Outcome
}

// ConversationFunc returns the reply channel for a chat.
type ConversationFunc func(b *tgbot.Bot, chatID int64) pipeline.Conversation

// HandlerDeps provides dependencies for Telegram command and message handlers.
// Conversations defaults to a telegram.ChatSender bound to the chat.
type HandlerDeps struct {
	Logger        *slog.Logger
	Config        *config.Config
	Store         database.Store
	Pipeline      MessageHandler
	Inflight      *Inflight
	Conversations ConversationFunc
}

func (d HandlerDeps) conversation(b *tgbot.Bot, chatID int64) pipeline.Conversation {
	if d.Conversations != nil {
		return d.Conversations(b, chatID)
	}
	return telegram.NewChatSender(b, chatID, d.Config.Bot.SendTimeout)
}

// reply sends text to chatID, logging failures.
func (d HandlerDeps) reply(ctx context.Context, b *tgbot.Bot, log *slog.Logger, chatID int64, text string) {
	if err := d.conversation(b, chatID).SendText(ctx, text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
