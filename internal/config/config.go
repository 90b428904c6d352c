package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/edgard/menubot/internal/errs"
)

// EnvPrefix prefixes every environment override, e.g. MENUBOT_LOG_LEVEL.
const EnvPrefix = "MENUBOT"

// Credential variables accepted without the prefix.
var credentialEnv = map[string]string{
	"telegram.token": "TELEGRAM_TOKEN",
	"openai.api_key": "OPENAI_API_KEY",
	"gemini.api_key": "GEMINI_API_KEY",
}

// LoadDotEnv loads variables from a .env file. Variables already present in
// the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("env file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	slog.Debug("env file loaded", "path", path)
	return nil
}

// Load builds the configuration in order of increasing precedence: defaults,
// the YAML file at path (optional), then environment variables. envFile is
// loaded into the environment first. The returned error carries
// errs.KindMissingCredentials when a required API credential is absent.
func Load(path, envFile string) (*Config, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, plain := range credentialEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, plain); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Debug("config file loaded", "path", path)
		} else if errors.Is(err, fs.ErrNotExist) {
			slog.Info("config file not found, using defaults", "path", path)
		} else {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyModelDefaults()

	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct constraints of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if strings.Count(c.Bot.Messages.TranscriptEcho, "%s") != 1 {
		return fmt.Errorf("invalid configuration: bot.messages.transcript_echo must contain exactly one %%s")
	}
	return nil
}

// CheckCredentials verifies that the Telegram token and the API keys needed
// by the selected transcription and generation backends are set.
func (c *Config) CheckCredentials() error {
	var missing []string
	if c.Telegram.Token == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}

	needOpenAI := c.Transcription.Backend == "whisper" || c.Generation.Backend == "openai"
	needGemini := c.Transcription.Backend == "gemini" || c.Generation.Backend == "gemini"
	if needOpenAI && c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if needGemini && c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	if len(missing) > 0 {
		return errs.Errorf(errs.KindMissingCredentials, "missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}
