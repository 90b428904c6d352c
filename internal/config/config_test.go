package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/menubot/internal/errs"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TELEGRAM_TOKEN", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"MENUBOT_TELEGRAM_TOKEN", "MENUBOT_OPENAI_API_KEY", "MENUBOT_GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("GEMINI_API_KEY", "gm")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.Token != "tg" || cfg.OpenAI.APIKey != "oa" || cfg.Gemini.APIKey != "gm" {
		t.Errorf("credentials not read from plain env names: %+v", cfg.Telegram)
	}
	if cfg.Delivery.Threshold != 3500 {
		t.Errorf("Delivery.Threshold = %d, want 3500", cfg.Delivery.Threshold)
	}
	if cfg.Delivery.DocumentName != "menu_planner_output.txt" {
		t.Errorf("Delivery.DocumentName = %q", cfg.Delivery.DocumentName)
	}
	if cfg.Menu.DefaultCount != 3 || cfg.Menu.MaxCount != 0 {
		t.Errorf("Menu counts = %d/%d", cfg.Menu.DefaultCount, cfg.Menu.MaxCount)
	}
	if cfg.Bot.GenerateTimeout != 2*time.Minute {
		t.Errorf("Bot.GenerateTimeout = %v", cfg.Bot.GenerateTimeout)
	}
	if cfg.Generation.Backend != "openai" || cfg.Generation.Model != DefaultOpenAIChatModel {
		t.Errorf("Generation = %s/%q, want openai/%q", cfg.Generation.Backend, cfg.Generation.Model, DefaultOpenAIChatModel)
	}
	if cfg.Transcription.Model != DefaultWhisperModel {
		t.Errorf("Transcription.Model = %q, want %q", cfg.Transcription.Model, DefaultWhisperModel)
	}
	if cfg.Bot.Messages.NoAudio != "Geen audio gevonden in het bericht." {
		t.Errorf("NoAudio = %q", cfg.Bot.Messages.NoAudio)
	}
	task, ok := cfg.Scheduler.Tasks[TaskTempSweep]
	if !ok || !task.Enabled || task.Schedule != DefaultTempSweep {
		t.Errorf("temp sweep task = %+v (present %v)", task, ok)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	clearCredentials(t)
	t.Setenv("MENUBOT_TELEGRAM_TOKEN", "tg")
	t.Setenv("MENUBOT_OPENAI_API_KEY", "oa")
	t.Setenv("MENUBOT_DELIVERY_THRESHOLD", "1200")

	path := writeFile(t, "config.yaml", `
log:
  level: debug
  format: text
generation:
  backend: openai
  temperature: 0.7
delivery:
  threshold: 9000
menu:
  household: "1 volwassene"
scheduler:
  tasks:
    temp_sweep:
      enabled: false
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Delivery.Threshold != 1200 {
		t.Errorf("env must win over file: threshold = %d", cfg.Delivery.Threshold)
	}
	if cfg.Generation.Model != DefaultOpenAIChatModel {
		t.Errorf("Generation.Model = %q", cfg.Generation.Model)
	}
	if cfg.Generation.Temperature != 0.7 {
		t.Errorf("Generation.Temperature = %v", cfg.Generation.Temperature)
	}
	if cfg.Menu.Household != "1 volwassene" {
		t.Errorf("Menu.Household = %q", cfg.Menu.Household)
	}
	if cfg.Scheduler.Tasks[TaskTempSweep].Enabled {
		t.Error("temp_sweep should be disabled by the file")
	}
	if !cfg.Scheduler.Tasks[TaskLedgerMaintenance].Enabled {
		t.Error("ledger_maintenance should keep its default")
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "no telegram token", env: map[string]string{"OPENAI_API_KEY": "oa", "GEMINI_API_KEY": "gm"}},
		{name: "whisper without openai key", env: map[string]string{"TELEGRAM_TOKEN": "tg", "GEMINI_API_KEY": "gm"}},
		{name: "gemini generation without gemini key", env: map[string]string{"TELEGRAM_TOKEN": "tg", "OPENAI_API_KEY": "oa", "MENUBOT_GENERATION_BACKEND": "gemini"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentials(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("", "")
			if !errors.Is(err, errs.ErrMissingCredentials) {
				t.Fatalf("Load() error = %v, want missing credentials", err)
			}
		})
	}
}

func TestLoadDefaultsNeedOnlyOpenAIKey(t *testing.T) {
	clearCredentials(t)
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("OPENAI_API_KEY", "oa")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Transcription.Backend != "whisper" || cfg.Generation.Backend != "openai" {
		t.Errorf("backends = %s/%s, want whisper/openai", cfg.Transcription.Backend, cfg.Generation.Backend)
	}
}

func TestLoadGeminiOnlyNeedsGeminiKey(t *testing.T) {
	clearCredentials(t)
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("GEMINI_API_KEY", "gm")
	t.Setenv("MENUBOT_TRANSCRIPTION_BACKEND", "gemini")
	t.Setenv("MENUBOT_GENERATION_BACKEND", "gemini")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Transcription.Model != DefaultGeminiAudioModel {
		t.Errorf("Transcription.Model = %q", cfg.Transcription.Model)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown backend", yaml: "generation:\n  backend: llama\n"},
		{name: "threshold zero", yaml: "delivery:\n  threshold: 0\n"},
		{name: "message over platform limit", yaml: "delivery:\n  max_message_length: 5000\n"},
		{name: "bad log level", yaml: "log:\n  level: loud\n"},
		{name: "echo without verb", yaml: "bot:\n  messages:\n    transcript_echo: \"Transcriptie\"\n"},
		{name: "enabled task without schedule", yaml: "scheduler:\n  tasks:\n    temp_sweep:\n      schedule: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentials(t)
			t.Setenv("TELEGRAM_TOKEN", "tg")
			t.Setenv("OPENAI_API_KEY", "oa")
			t.Setenv("GEMINI_API_KEY", "gm")

			_, err := Load(writeFile(t, "config.yaml", tt.yaml), "")
			if err == nil {
				t.Fatal("Load() error = nil, want validation error")
			}
			if errors.Is(err, errs.ErrMissingCredentials) {
				t.Fatalf("Load() error = %v, want validation error", err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearCredentials(t)
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Cleanup(func() { os.Unsetenv("MENUBOT_TEST_DOTENV_ONLY") })

	path := writeFile(t, ".env", "OPENAI_API_KEY=from-file\nMENUBOT_TEST_DOTENV_ONLY=yes\n")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv("OPENAI_API_KEY"); got != "from-env" {
		t.Errorf("existing env must win, got %q", got)
	}
	if got := os.Getenv("MENUBOT_TEST_DOTENV_ONLY"); got != "yes" {
		t.Errorf("MENUBOT_TEST_DOTENV_ONLY = %q, want yes", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
