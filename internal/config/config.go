// Package config loads the babelbot TOML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultCanonicalLang   = "en"
	DefaultTranslateURL    = "http://127.0.0.1:5000"
	DefaultSentimentURL    = "http://127.0.0.1:8090"
	DefaultIntentURL       = "http://127.0.0.1:8091"
	DefaultOllamaURL       = "http://127.0.0.1:11434"
	DefaultChatModel       = "llama2"
	DefaultMemoryWindow    = 10
	DefaultIntentThreshold = 0.3
	DefaultChunkLimit      = 2000
	DefaultQueueSize       = 256
	DefaultCatalogPath     = "intents.json"
	DefaultPGHost          = "127.0.0.1"
	DefaultPGPort          = 5432
	DefaultPGUser          = "postgres"
	DefaultPGDatabase      = "babelbot"
	DefaultPGSSLMode       = "disable"
	DefaultDynamoTable     = "chat_history"
)

// DefaultSystemPrompt is the instruction prepended to every generative request.
const DefaultSystemPrompt = "You are an AI assistant that provides helpful and friendly responses."

type Config struct {
	Log         LogConfig         `toml:"log"`
	Server      ServerConfig      `toml:"server"`
	Discord     DiscordConfig     `toml:"discord"`
	Telegram    TelegramConfig    `toml:"telegram"`
	Language    LanguageConfig    `toml:"language"`
	Sentiment   SentimentConfig   `toml:"sentiment"`
	Intent      IntentConfig      `toml:"intent"`
	Chat        ChatConfig        `toml:"chat"`
	Memory      MemoryConfig      `toml:"memory"`
	Delivery    DeliveryConfig    `toml:"delivery"`
	Persistence PersistenceConfig `toml:"persistence"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DiscordConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token" validate:"required_if=Enabled true"`
	// GuildID scopes slash-command registration to one guild. Empty
	// registers the commands globally.
	GuildID string `toml:"guild_id"`
}

type TelegramConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token" validate:"required_if=Enabled true"`
}

// LanguageConfig points at a LibreTranslate-compatible detection and
// translation service.
type LanguageConfig struct {
	Canonical      string `toml:"canonical" validate:"required,len=2"`
	BaseURL        string `toml:"base_url" validate:"required,url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
}

type SentimentConfig struct {
	BaseURL        string `toml:"base_url" validate:"required,url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
}

type IntentConfig struct {
	BaseURL        string  `toml:"base_url" validate:"required,url"`
	CatalogPath    string  `toml:"catalog_path" validate:"required"`
	Threshold      float64 `toml:"threshold" validate:"gte=0,lte=1"`
	TimeoutSeconds int     `toml:"timeout_seconds" validate:"gte=0"`
}

type ChatConfig struct {
	BaseURL        string `toml:"base_url" validate:"required,url"`
	Model          string `toml:"model" validate:"required"`
	SystemPrompt   string `toml:"system_prompt"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
}

type MemoryConfig struct {
	// Window is the number of retained turns per user (K).
	Window int `toml:"window" validate:"gt=0"`
}

type DeliveryConfig struct {
	// ChunkLimit bounds chunk size for transports without a platform
	// constant (the local HTTP channel). Discord and Telegram use their
	// platform limits.
	ChunkLimit int `toml:"chunk_limit" validate:"gt=0"`
}

type PersistenceConfig struct {
	Driver    string         `toml:"driver" validate:"oneof=none dynamodb postgres"`
	QueueSize int            `toml:"queue_size" validate:"gt=0"`
	DynamoDB  DynamoDBConfig `toml:"dynamodb"`
	Postgres  PostgresConfig `toml:"postgres"`
}

type DynamoDBConfig struct {
	Table  string `toml:"table"`
	Region string `toml:"region"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// DSN renders the pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Language: LanguageConfig{
			Canonical: DefaultCanonicalLang,
			BaseURL:   DefaultTranslateURL,
		},
		Sentiment: SentimentConfig{
			BaseURL: DefaultSentimentURL,
		},
		Intent: IntentConfig{
			BaseURL:     DefaultIntentURL,
			CatalogPath: DefaultCatalogPath,
			Threshold:   DefaultIntentThreshold,
		},
		Chat: ChatConfig{
			BaseURL:      DefaultOllamaURL,
			Model:        DefaultChatModel,
			SystemPrompt: DefaultSystemPrompt,
		},
		Memory: MemoryConfig{
			Window: DefaultMemoryWindow,
		},
		Delivery: DeliveryConfig{
			ChunkLimit: DefaultChunkLimit,
		},
		Persistence: PersistenceConfig{
			Driver:    "none",
			QueueSize: DefaultQueueSize,
			DynamoDB: DynamoDBConfig{
				Table: DefaultDynamoTable,
			},
			Postgres: PostgresConfig{
				Host:     DefaultPGHost,
				Port:     DefaultPGPort,
				User:     DefaultPGUser,
				Database: DefaultPGDatabase,
				SSLMode:  DefaultPGSSLMode,
			},
		},
	}
}

// Load reads the TOML file at path, falling back to defaults when the file
// does not exist, and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks structural constraints on the loaded configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
