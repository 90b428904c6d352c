// Package transcribe converts decoded voice notes to text.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/edgard/menubot/internal/errs"
	"github.com/edgard/menubot/internal/llm"
)

// Transcriber returns the text spoken in the WAV file at path.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Instruction is sent with the audio to Gemini.
const Instruction = "Transcribeer dit spraakbericht letterlijk. Geef alleen de uitgeschreven tekst terug, zonder inleiding, vertaling of commentaar."

func failure(message string, err error) error {
	return errs.New(errs.KindTranscription, message, err)
}

// checkTranscript rejects transcripts that hold no text.
func checkTranscript(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", failure("empty transcript", nil)
	}
	return text, nil
}

// Whisper transcribes through the OpenAI audio API.
type Whisper struct {
	client   *openai.Client
	model    string
	language string
	log      *slog.Logger
}

// NewWhisper creates a Whisper transcriber. An empty model selects whisper-1.
func NewWhisper(client *openai.Client, model, language string, log *slog.Logger) *Whisper {
	if model == "" {
		model = openai.Whisper1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Whisper{client: client, model: model, language: language, log: log.With("component", "whisper")}
}

func (w *Whisper) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: path,
		Language: w.language,
	})
	if err != nil {
		return "", failure("whisper transcription failed", err)
	}
	w.log.DebugContext(ctx, "Transcription received", "length", len(resp.Text), "language", resp.Language)
	return checkTranscript(resp.Text)
}

// Gemini transcribes by sending the audio inline to a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewGemini creates a Gemini transcriber.
func NewGemini(client *genai.Client, model string, log *slog.Logger) *Gemini {
	if log == nil {
		log = slog.Default()
	}
	return &Gemini{client: client, model: model, log: log.With("component", "gemini_transcriber")}
}

func (g *Gemini) Transcribe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", failure("failed to read decoded audio", err)
	}
	if len(data) == 0 {
		return "", failure("decoded audio is empty", errors.New(path))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Instruction),
			genai.NewPartFromBytes(data, "audio/wav"),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", failure("gemini transcription failed", fmt.Errorf("gemini API call failed: %w", err))
	}

	text, err := llm.GeminiText(resp)
	if err != nil {
		return "", failure("gemini transcription failed", err)
	}
	g.log.DebugContext(ctx, "Transcription received", "length", len(text))
	return checkTranscript(text)
}
