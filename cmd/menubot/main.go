// Package main contains the entrypoint for the menu planner Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/edgard/menubot/internal/audio"
	"github.com/edgard/menubot/internal/bot"
	"github.com/edgard/menubot/internal/bot/handlers"
	"github.com/edgard/menubot/internal/bot/tasks"
	"github.com/edgard/menubot/internal/config"
	"github.com/edgard/menubot/internal/database"
	"github.com/edgard/menubot/internal/delivery"
	"github.com/edgard/menubot/internal/errs"
	"github.com/edgard/menubot/internal/generate"
	"github.com/edgard/menubot/internal/llm"
	"github.com/edgard/menubot/internal/logger"
	"github.com/edgard/menubot/internal/metrics"
	"github.com/edgard/menubot/internal/pipeline"
	"github.com/edgard/menubot/internal/prompt"
	"github.com/edgard/menubot/internal/telegram"
	"github.com/edgard/menubot/internal/transcribe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, runs the bot until ctx is cancelled and returns
// the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		if errors.Is(err, errs.ErrMissingCredentials) {
			slog.Error("Missing credentials, refusing to start", "error", err)
			return 1
		}
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	m := metrics.New()

	transcriber, generator, err := newBackends(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize model backends", "error", err)
		return 1
	}

	inflight := &handlers.Inflight{}
	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Inflight: inflight,
	}

	// The message handler needs the pipeline, which needs the bot for file
	// downloads. It is bound before the update loop starts.
	var onMessage tgbot.HandlerFunc
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			onMessage(ctx, b, update)
		}),
	}
	if cfg.Telegram.APIURL != "" {
		botOpts = append(botOpts, tgbot.WithServerURL(cfg.Telegram.APIURL))
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	fetcher := telegram.NewFileFetcher(tg, cfg.Telegram.Token, telegram.FetchOptions{
		APIURL:   cfg.Telegram.APIURL,
		MaxBytes: cfg.Audio.MaxDownloadBytes,
		Retries:  cfg.Audio.DownloadRetries,
	}, log)

	hDeps.Pipeline = pipeline.New(pipeline.Deps{
		Ingestor:    audio.NewIngestor(fetcher, audio.NewFFmpeg(cfg.Audio.FFmpegPath), cfg.Audio.MaxDuration, log),
		Transcriber: transcriber,
		Prompts:     prompt.NewBuilder(cfg.Menu.Household, cfg.Menu.OffersURL, cfg.Menu.DefaultCount, cfg.Menu.MaxCount),
		Generator:   generate.NewAdapter(generator, cfg.Bot.Messages.GenerationApology, cfg.Bot.GenerateTimeout, log),
		Deliverer: delivery.New(delivery.Options{
			Threshold:     cfg.Delivery.Threshold,
			MaxMessageLen: cfg.Delivery.MaxMessageLength,
			DocumentName:  cfg.Delivery.DocumentName,
			EmptyText:     cfg.Bot.Messages.EmptyAnswer,
		}, log),
		Ledger:   store,
		Metrics:  m,
		Messages: cfg.Bot.Messages,
		Timeouts: pipeline.Timeouts{
			Download:       cfg.Bot.DownloadTimeout,
			Transcribe:     cfg.Bot.TranscribeTimeout,
			TypingInterval: cfg.Bot.TypingInterval,
		},
		TempDir: cfg.Bot.TempDir,
		Logger:  log,
	})

	onMessage = handlers.NewMessageHandler(hDeps)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.PublishCommands(ctx, tg, cmdHandlers); err != nil {
		log.Warn("Failed to publish bot commands", "error", err)
	}

	tDeps := tasks.TaskDeps{Logger: log, Store: store, Config: cfg}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	opts := bot.Options{Poller: tg, Scheduler: sched, Inflight: inflight}
	if cfg.HTTP.Enable {
		opts.Server = metrics.NewServer(cfg.HTTP.Addr, m.Registry, store, log)
	}
	app := bot.NewBot(log, opts)

	log.Info("Starting bot...",
		"transcription_backend", cfg.Transcription.Backend,
		"generation_backend", cfg.Generation.Backend,
		"generation_model", cfg.Generation.Model)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

// newBackends creates the transcription and generation clients for the
// configured backends. A shared client is created once.
func newBackends(ctx context.Context, cfg *config.Config, log *slog.Logger) (pipeline.Transcriber, generate.Generator, error) {
	retry := llm.Retrier{MaxRetries: cfg.Generation.MaxRetries, Delay: cfg.Generation.RetryDelay, Log: log}
	genOpts := generate.Options{
		Model:           cfg.Generation.Model,
		Temperature:     cfg.Generation.Temperature,
		MaxOutputTokens: cfg.Generation.MaxOutputTokens,
		Retry:           retry,
	}

	needOpenAI := cfg.Transcription.Backend == "whisper" || cfg.Generation.Backend == "openai"
	needGemini := cfg.Transcription.Backend == "gemini" || cfg.Generation.Backend == "gemini"

	var (
		openaiClient *openai.Client
		geminiClient *genai.Client
		err          error
	)
	if needOpenAI {
		if openaiClient, err = llm.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL); err != nil {
			return nil, nil, fmt.Errorf("openai client: %w", err)
		}
	}
	if needGemini {
		if geminiClient, err = llm.NewGenAI(ctx, cfg.Gemini.APIKey, cfg.Gemini.BaseURL); err != nil {
			return nil, nil, fmt.Errorf("gemini client: %w", err)
		}
	}

	var transcriber pipeline.Transcriber
	switch cfg.Transcription.Backend {
	case "gemini":
		transcriber = transcribe.NewGemini(geminiClient, cfg.Transcription.Model, log)
	default:
		transcriber = transcribe.NewWhisper(openaiClient, cfg.Transcription.Model, cfg.Transcription.Language, log)
	}

	var generator generate.Generator
	switch cfg.Generation.Backend {
	case "openai":
		generator = generate.NewOpenAI(openaiClient, genOpts, log)
	default:
		generator = generate.NewGemini(geminiClient, genOpts, log)
	}

	return transcriber, generator, nil
}
