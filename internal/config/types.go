// Package config loads the bot configuration from defaults, an optional YAML
// file, a .env file and MENUBOT_* environment variables.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Log           LogConfig           `mapstructure:"log"`
	Telegram      TelegramConfig      `mapstructure:"telegram"`
	Bot           BotConfig           `mapstructure:"bot"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Generation    GenerationConfig    `mapstructure:"generation"`
	OpenAI        OpenAIConfig        `mapstructure:"openai"`
	Gemini        GeminiConfig        `mapstructure:"gemini"`
	Menu          MenuConfig          `mapstructure:"menu"`
	Delivery      DeliveryConfig      `mapstructure:"delivery"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	HTTP          HTTPConfig          `mapstructure:"http"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"gte=0"`
	APIURL      string `mapstructure:"api_url"       validate:"omitempty,url"`
}

type BotConfig struct {
	DownloadTimeout   time.Duration `mapstructure:"download_timeout"   validate:"min=1s,max=10m"`
	TranscribeTimeout time.Duration `mapstructure:"transcribe_timeout" validate:"min=1s,max=10m"`
	GenerateTimeout   time.Duration `mapstructure:"generate_timeout"   validate:"min=1s,max=10m"`
	SendTimeout       time.Duration `mapstructure:"send_timeout"       validate:"min=1s,max=10m"`
	TypingInterval    time.Duration `mapstructure:"typing_interval"    validate:"min=1s"`
	TempDir           string        `mapstructure:"temp_dir"`
	TempMaxAge        time.Duration `mapstructure:"temp_max_age"       validate:"min=1m"`
	Messages          Messages      `mapstructure:"messages"`
}

// Messages holds every user-facing reply. TranscriptEcho takes the transcript
// as its only %s verb.
type Messages struct {
	Welcome           string `mapstructure:"welcome"            validate:"required"`
	Help              string `mapstructure:"help"               validate:"required"`
	VoiceAck          string `mapstructure:"voice_ack"          validate:"required"`
	TextAck           string `mapstructure:"text_ack"           validate:"required"`
	TranscriptEcho    string `mapstructure:"transcript_echo"    validate:"required"`
	NoAudio           string `mapstructure:"no_audio"           validate:"required"`
	ProcessingError   string `mapstructure:"processing_error"   validate:"required"`
	GenerationApology string `mapstructure:"generation_apology" validate:"required"`
	GeneralError      string `mapstructure:"general_error"      validate:"required"`
	EmptyAnswer       string `mapstructure:"empty_answer"       validate:"required"`
	NotAuthorized     string `mapstructure:"not_authorized"     validate:"required"`
}

type AudioConfig struct {
	FFmpegPath       string        `mapstructure:"ffmpeg_path"        validate:"required"`
	MaxDownloadBytes int64         `mapstructure:"max_download_bytes" validate:"gt=0"`
	MaxDuration      time.Duration `mapstructure:"max_duration"       validate:"gte=0"`
	DownloadRetries  int           `mapstructure:"download_retries"   validate:"gte=0,lte=10"`
}

type TranscriptionConfig struct {
	Backend  string `mapstructure:"backend"  validate:"required,oneof=whisper gemini"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

type GenerationConfig struct {
	Backend         string        `mapstructure:"backend"           validate:"required,oneof=gemini openai"`
	Model           string        `mapstructure:"model"`
	Temperature     float32       `mapstructure:"temperature"       validate:"gte=0,lte=2"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens" validate:"gt=0"`
	MaxRetries      int           `mapstructure:"max_retries"       validate:"gte=0,lte=10"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type MenuConfig struct {
	Household    string `mapstructure:"household"     validate:"required"`
	DefaultCount int    `mapstructure:"default_count" validate:"gte=1"`
	MaxCount     int    `mapstructure:"max_count"     validate:"gte=0"`
	OffersURL    string `mapstructure:"offers_url"    validate:"required,url"`
}

type DeliveryConfig struct {
	Threshold        int    `mapstructure:"threshold"          validate:"gt=0"`
	MaxMessageLength int    `mapstructure:"max_message_length" validate:"gt=0,lte=4096"`
	DocumentName     string `mapstructure:"document_name"      validate:"required"`
}

type DatabaseConfig struct {
	Path      string        `mapstructure:"path"      validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"gte=0"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig uses six-field cron expressions (seconds first).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

type HTTPConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"   validate:"required_if=Enable true"`
}
