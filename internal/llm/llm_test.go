package llm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/edgard/menubot/internal/llm"
)

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "gemini 503", err: genai.APIError{Code: http.StatusServiceUnavailable}, want: true},
		{name: "gemini 400", err: genai.APIError{Code: http.StatusBadRequest}, want: false},
		{name: "openai 500", err: &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, want: true},
		{name: "openai 429", err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, want: true},
		{name: "openai 401", err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, want: false},
		{name: "openai request 502", err: &openai.RequestError{HTTPStatusCode: http.StatusBadGateway}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := llm.Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := llm.Do(context.Background(), llm.Retrier{MaxRetries: 2, Delay: time.Millisecond}, "test",
		func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", genai.APIError{Code: http.StatusServiceUnavailable}
			}
			return "ok", nil
		})
	if err != nil || got != "ok" {
		t.Fatalf("Do() = %q, %v; want ok, nil", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := llm.Do(context.Background(), llm.Retrier{MaxRetries: 5, Delay: time.Millisecond}, "test",
		func(context.Context) (string, error) {
			calls++
			return "", errors.New("bad request")
		})
	if err == nil {
		t.Fatal("Do() error = nil")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := llm.Do(context.Background(), llm.Retrier{MaxRetries: 1, Delay: time.Millisecond}, "test",
		func(context.Context) (int, error) {
			calls++
			return 0, genai.APIError{Code: http.StatusInternalServerError}
		})
	if err == nil {
		t.Fatal("Do() error = nil")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestGeminiText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "nil", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name: "blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantErr: true,
		},
		{
			name: "max tokens without content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
			},
			wantErr: true,
		},
		{
			name: "text",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content:      genai.NewContentFromText("MENU 1: Soep", genai.RoleModel),
					FinishReason: genai.FinishReasonStop,
				}},
			},
			want: "MENU 1: Soep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := llm.GeminiText(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GeminiText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GeminiText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientConstructorsRequireKeys(t *testing.T) {
	t.Parallel()

	if _, err := llm.NewOpenAI("", ""); err == nil {
		t.Error("NewOpenAI() accepted an empty key")
	}
	if _, err := llm.NewGenAI(context.Background(), "", ""); err == nil {
		t.Error("NewGenAI() accepted an empty key")
	}
}
