package telegram

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageAPI is the part of *bot.Bot used to reply in a chat.
type MessageAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// ChatSender sends replies to one chat. Each call is bounded by timeout.
type ChatSender struct {
	api     MessageAPI
	chatID  int64
	timeout time.Duration
}

// NewChatSender creates a sender for chatID. A zero timeout only uses the caller's context.
func NewChatSender(api MessageAPI, chatID int64, timeout time.Duration) *ChatSender {
	return &ChatSender{api: api, chatID: chatID, timeout: timeout}
}

func (s *ChatSender) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// SendText sends text as a plain message.
func (s *ChatSender) SendText(ctx context.Context, text string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.api.SendMessage(ctx, &bot.SendMessageParams{ChatID: s.chatID, Text: text}); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", s.chatID, err)
	}
	return nil
}

// SendDocument uploads the file at path under filename.
func (s *ChatSender) SendDocument(ctx context.Context, path, filename string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.api.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   s.chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: f},
	})
	if err != nil {
		return fmt.Errorf("failed to send document to chat %d: %w", s.chatID, err)
	}
	return nil
}

// Typing shows the typing indicator in the chat.
func (s *ChatSender) Typing(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.api.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: s.chatID, Action: models.ChatActionTyping})
	return err
}
