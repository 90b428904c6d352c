package generate

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/edgard/menubot/internal/llm"
	"github.com/edgard/menubot/internal/prompt"
)

// Options are the sampling settings shared by all backends.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int
	Retry           llm.Retrier
}

// Gemini generates through the Gemini API.
type Gemini struct {
	client *genai.Client
	opts   Options
	log    *slog.Logger
}

// NewGemini creates a Gemini generator.
func NewGemini(client *genai.Client, opts Options, log *slog.Logger) *Gemini {
	if log == nil {
		log = slog.Default()
	}
	return &Gemini{client: client, opts: opts, log: log.With("component", "gemini_generator")}
}

func (g *Gemini) Generate(ctx context.Context, req prompt.Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(g.opts.Temperature),
		MaxOutputTokens:   int32(g.opts.MaxOutputTokens),
	}
	contents := []*genai.Content{genai.NewContentFromText(req.UserContent, genai.RoleUser)}

	retry := g.opts.Retry
	if retry.Log == nil {
		retry.Log = g.log
	}
	resp, err := llm.Do(ctx, retry, "gemini.generate", func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.opts.Model, contents, cfg)
	})
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text, err := llm.GeminiText(resp)
	if err != nil {
		return "", fmt.Errorf("gemini generation: %w", err)
	}
	return text, nil
}
