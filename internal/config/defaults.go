package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultOpenAIChatModel   = "gpt-4o-mini"
	DefaultWhisperModel      = "whisper-1"
	DefaultGeminiAudioModel  = "gemini-2.0-flash"
	DefaultHousehold         = "2 volwassenen en 2 kinderen (ongeveer 3 volwassen porties)"
	DefaultOffersURL         = "https://www.jumbo.com/acties/weekaanbiedingen"
	DefaultLedgerMaintenance = "0 0 4 * * *"
	DefaultTempSweep         = "0 */15 * * * *"
)

// Task names known to the scheduler.
const (
	TaskLedgerMaintenance = "ledger_maintenance"
	TaskTempSweep         = "temp_sweep"
)

var defaults = map[string]any{
	"log.level":  "info",
	"log.format": "json",

	"telegram.token":         "",
	"telegram.admin_user_id": 0,
	"telegram.api_url":       "",

	"bot.download_timeout":   30 * time.Second,
	"bot.transcribe_timeout": 2 * time.Minute,
	"bot.generate_timeout":   2 * time.Minute,
	"bot.send_timeout":       30 * time.Second,
	"bot.typing_interval":    4 * time.Second,
	"bot.temp_dir":           "",
	"bot.temp_max_age":       time.Hour,

	"bot.messages.welcome":            "Hallo! Stuur me een spraakbericht met je verzoek, bijvoorbeeld: 'Geef mij 3 weekmenu's voor mijn gezin op basis van de aanbiedingen van deze week.'",
	"bot.messages.help":               "Stuur een spraakbericht of een tekstbericht met je verzoek. Noem een getal om het aantal menu's te kiezen, bijvoorbeeld: 'Maak 4 menu's met vis.' Zonder getal krijg je 3 menu's.",
	"bot.messages.voice_ack":          "Audio ontvangen, ik transcribeer het nu...",
	"bot.messages.text_ack":           "Oké, ik maak de menu's, even geduld...",
	"bot.messages.transcript_echo":    "Transcriptie:\n%s\n\nIk ga nu menu's samenstellen...",
	"bot.messages.no_audio":           "Geen audio gevonden in het bericht.",
	"bot.messages.processing_error":   "Er is iets misgegaan tijdens de verwerking. Probeer het later opnieuw.",
	"bot.messages.generation_apology": "Sorry, ik kon de menu's nu niet genereren. Probeer het later opnieuw.",
	"bot.messages.general_error":      "Er ging iets onverwachts mis. Probeer het later opnieuw.",
	"bot.messages.empty_answer":       "Ik heb geen menu's kunnen samenstellen. Probeer je verzoek anders te formuleren.",
	"bot.messages.not_authorized":     "Je hebt geen toegang tot dit commando.",

	"audio.ffmpeg_path":        "ffmpeg",
	"audio.max_download_bytes": 20 << 20,
	"audio.max_duration":       5 * time.Minute,
	"audio.download_retries":   3,

	"transcription.backend":  "whisper",
	"transcription.model":    "",
	"transcription.language": "nl",

	"generation.backend":           "openai",
	"generation.model":             "",
	"generation.temperature":       0.4,
	"generation.max_output_tokens": 2048,
	"generation.max_retries":       2,
	"generation.retry_delay":       2 * time.Second,

	"openai.api_key":  "",
	"openai.base_url": "",
	"gemini.api_key":  "",
	"gemini.base_url": "",

	"menu.household":     DefaultHousehold,
	"menu.default_count": 3,
	"menu.max_count":     0,
	"menu.offers_url":    DefaultOffersURL,

	"delivery.threshold":          3500,
	"delivery.max_message_length": 4096,
	"delivery.document_name":      "menu_planner_output.txt",

	"database.path":      "menubot.db",
	"database.retention": 30 * 24 * time.Hour,

	"scheduler.tasks." + TaskLedgerMaintenance + ".enabled":  true,
	"scheduler.tasks." + TaskLedgerMaintenance + ".schedule": DefaultLedgerMaintenance,
	"scheduler.tasks." + TaskTempSweep + ".enabled":          true,
	"scheduler.tasks." + TaskTempSweep + ".schedule":         DefaultTempSweep,

	"http.enable": false,
	"http.addr":   ":8080",
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// applyModelDefaults fills in the model for the selected backends when none is configured.
func (c *Config) applyModelDefaults() {
	if c.Generation.Model == "" {
		switch c.Generation.Backend {
		case "openai":
			c.Generation.Model = DefaultOpenAIChatModel
		default:
			c.Generation.Model = DefaultGeminiModel
		}
	}
	if c.Transcription.Model == "" {
		switch c.Transcription.Backend {
		case "gemini":
			c.Transcription.Model = DefaultGeminiAudioModel
		default:
			c.Transcription.Model = DefaultWhisperModel
		}
	}
}
