package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/menubot/internal/telegram"
)

// RegisterAllCommands returns every bot command keyed by its slash name.
// Inbound voice and text messages go through the default handler from
// NewMessageHandler instead.
func RegisterAllCommands(deps HandlerDeps) map[string]telegram.RegisteredHandler {
	handlers := make(map[string]telegram.RegisteredHandler)

	handlers["/start"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "Uitleg over de menuplanner",
	}
	handlers["/help"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "Hoe vraag ik een menu aan?",
	}

	if deps.Store != nil {
		handlers["/stats"] = telegram.RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "stats",
			Handler:     NewStatsHandler(deps),
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  []tgbot.Middleware{AdminOnly(deps)},
		}
	}

	return handlers
}
