package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Marketplace backend
	APIBaseURL string `env:"API_BASE_URL" envDefault:"https://api.studydeck.io"`
	APIToken   string `env:"API_TOKEN"`

	// Session the engine's persisted state belongs to
	SessionID string `env:"SESSION_ID" envDefault:"local"`

	// Persistence: Postgres when set, in-memory otherwise
	DatabaseURL string `env:"DATABASE_URL"`

	// Telegram ops logging
	BotToken          string `env:"BOT_TOKEN"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int    `env:"LOG_TOPIC_ERROR"`
	LogTopicSuccess   int    `env:"LOG_TOPIC_SUCCESS"`
	LogTopicInfo      int    `env:"LOG_TOPIC_INFO"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
