package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	HTTPAddr          string
	LogLevel          string
	BotToken          string
	PracticeWordCount int
	Database          DatabaseConfig
	Lookup            LookupConfig
	Speech            SpeechConfig
	Translator        TranslatorConfig
	ProviderTimeout   time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// LookupConfig holds dictionary lookup settings
type LookupConfig struct {
	BaseURL       string
	Limit         int
	ExtendedLimit int
	CacheTTL      time.Duration
}

// SpeechConfig holds Azure text-to-speech settings
type SpeechConfig struct {
	Key     string
	Region  string
	BaseURL string
	Voices  []string
}

// TranslatorConfig holds Azure translator settings
type TranslatorConfig struct {
	Key      string
	Endpoint string
	Region   string
	From     string
	To       string
}

const defaultVoices = "ja-JP-NaokiNeural,ja-JP-NanamiNeural,ja-JP-AoiNeural"

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "kakitori"),
			User:     getEnv("DB_USER", "kakitori"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Lookup: LookupConfig{
			BaseURL: strings.TrimRight(getEnv("JISHO_BASE_URL", "https://jisho.org"), "/"),
		},
		Speech: SpeechConfig{
			Key:     os.Getenv("AZURE_SPEECH_KEY"),
			Region:  getEnv("AZURE_SPEECH_REGION", "eastus2"),
			BaseURL: os.Getenv("AZURE_SPEECH_BASE_URL"),
			Voices:  splitList(getEnv("AZURE_SPEECH_VOICES", defaultVoices)),
		},
		Translator: TranslatorConfig{
			Key:      os.Getenv("AZURE_TRANSLATOR_KEY"),
			Endpoint: strings.TrimRight(os.Getenv("AZURE_TRANSLATOR_ENDPOINT"), "/"),
			Region:   getEnv("AZURE_TRANSLATOR_REGION", "eastus2"),
			From:     getEnv("TRANSLATE_FROM", "en"),
			To:       getEnv("TRANSLATE_TO", "pt-br"),
		},
	}

	var err error
	if cfg.PracticeWordCount, err = getEnvInt("PRACTICE_WORD_COUNT", 5); err != nil {
		return nil, err
	}
	if cfg.Lookup.Limit, err = getEnvInt("LOOKUP_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.Lookup.ExtendedLimit, err = getEnvInt("LOOKUP_EXTENDED_LIMIT", 15); err != nil {
		return nil, err
	}
	if cfg.Lookup.CacheTTL, err = getEnvDuration("LOOKUP_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = getEnvDuration("PROVIDER_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if len(c.Speech.Voices) != 3 {
		return fmt.Errorf("AZURE_SPEECH_VOICES must list exactly 3 voices, got %d", len(c.Speech.Voices))
	}
	if c.PracticeWordCount < 1 {
		return fmt.Errorf("PRACTICE_WORD_COUNT must be positive")
	}
	if c.Lookup.Limit < 1 {
		return fmt.Errorf("LOOKUP_LIMIT must be positive")
	}
	if c.Lookup.ExtendedLimit < c.Lookup.Limit {
		return fmt.Errorf("LOOKUP_EXTENDED_LIMIT must not be below LOOKUP_LIMIT")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SpeechConfigured reports whether speech synthesis credentials are present
func (c *Config) SpeechConfigured() bool {
	return c.Speech.Key != ""
}

// TranslatorConfigured reports whether gloss translation credentials are present
func (c *Config) TranslatorConfigured() bool {
	return c.Translator.Key != "" && c.Translator.Endpoint != ""
}

// BotEnabled reports whether the Telegram practice bot should run
func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
