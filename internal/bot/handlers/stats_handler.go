package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/menubot/internal/database"
)

// NewStatsHandler returns a handler for the admin-only /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps: deps, now: time.Now}.Handle
}

type statsHandler struct {
	deps HandlerDeps
	now  func() time.Time
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	day, err := h.deps.Store.Summarize(ctx, h.now().Add(-24*time.Hour))
	if err != nil {
		log.ErrorContext(ctx, "Failed to summarize requests", "error", err)
		h.deps.reply(ctx, b, log, chatID, h.deps.Config.Bot.Messages.GeneralError)
		return
	}
	total, err := h.deps.Store.Summarize(ctx, time.Time{})
	if err != nil {
		log.ErrorContext(ctx, "Failed to summarize requests", "error", err)
		h.deps.reply(ctx, b, log, chatID, h.deps.Config.Bot.Messages.GeneralError)
		return
	}

	h.deps.reply(ctx, b, log, chatID, formatStats(day, total))
}

func formatStats(day, total *database.Summary) string {
	var sb strings.Builder
	writeSummary(&sb, "Laatste 24 uur", day)
	sb.WriteString("\n")
	writeSummary(&sb, "Totaal", total)
	return sb.String()
}

func writeSummary(sb *strings.Builder, title string, s *database.Summary) {
	fmt.Fprintf(sb, "%s\n", title)
	fmt.Fprintf(sb, "Verzoeken: %d (spraak %d, tekst %d)\n", s.Total, s.Voice, s.Text)
	fmt.Fprintf(sb, "Teruggevallen: %d, mislukt: %d\n", s.Degraded, s.Failed)
	fmt.Fprintf(sb, "Segmenten verstuurd: %d\n", s.Segments)
	fmt.Fprintf(sb, "Gemiddelde duur: %s\n", (time.Duration(s.AvgDurationMS) * time.Millisecond).Round(time.Millisecond))
}
