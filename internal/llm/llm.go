// Package llm builds the Gemini and OpenAI SDK clients shared by the
// transcription and generation backends.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// NewGenAI creates a Gemini API client. baseURL is optional.
func NewGenAI(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

// NewOpenAI creates an OpenAI client. baseURL is optional.
func NewOpenAI(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

// Retrier retries calls that failed with a transient server error.
type Retrier struct {
	MaxRetries int
	Delay      time.Duration
	Log        *slog.Logger
}

// Retryable reports whether err is a transient Gemini or OpenAI failure.
func Retryable(err error) bool {
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code == http.StatusInternalServerError || gErr.Code == http.StatusServiceUnavailable
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) {
		return gErrPtr.Code == http.StatusInternalServerError || gErrPtr.Code == http.StatusServiceUnavailable
	}
	var oErr *openai.APIError
	if errors.As(err, &oErr) {
		return oErr.HTTPStatusCode == http.StatusInternalServerError ||
			oErr.HTTPStatusCode == http.StatusServiceUnavailable ||
			oErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var rErr *openai.RequestError
	if errors.As(err, &rErr) {
		return rErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return false
}

// Do runs call, retrying transient failures up to MaxRetries times.
func Do[T any](ctx context.Context, r Retrier, name string, call func(context.Context) (T, error)) (T, error) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	delay := r.Delay
	if delay <= 0 {
		delay = time.Second
	}
	maxRetries := max(r.MaxRetries, 0)

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		res, err := call(ctx)
		if err == nil {
			return res, nil
		}
		if !Retryable(err) {
			return res, backoff.Permanent(err)
		}
		log.WarnContext(ctx, "API call failed, checking for retry",
			"call", name, "attempt", attempt, "max_retries", maxRetries, "error", err)
		return res, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(maxRetries+1)))
}
