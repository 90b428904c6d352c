package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edgard/menubot/internal/llm"
	"github.com/edgard/menubot/internal/prompt"
)

// OpenAI generates through the chat completions API.
type OpenAI struct {
	client *openai.Client
	opts   Options
	log    *slog.Logger
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(client *openai.Client, opts Options, log *slog.Logger) *OpenAI {
	if log == nil {
		log = slog.Default()
	}
	return &OpenAI{client: client, opts: opts, log: log.With("component", "openai_generator")}
}

func (o *OpenAI) Generate(ctx context.Context, req prompt.Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: o.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.UserContent},
		},
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.MaxOutputTokens,
	}

	retry := o.opts.Retry
	if retry.Log == nil {
		retry.Log = o.log
	}
	resp, err := llm.Do(ctx, retry, "openai.chat", func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return o.client.CreateChatCompletion(ctx, chatReq)
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	o.log.DebugContext(ctx, "Chat completion received", "total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
