package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/georiddle.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../frontend/build"`

	// CORS origins for the browser client, comma separated.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	// Places directory.
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`

	// Riddle generator: any OpenAI-compatible chat-completions endpoint.
	RiddleBaseURL string `env:"RIDDLE_BASE_URL" envDefault:"https://router.huggingface.co/v1"`
	RiddleAPIKey  string `env:"RIDDLE_API_KEY"`
	RiddleModel   string `env:"RIDDLE_MODEL" envDefault:"openai/gpt-oss-120b:fireworks-ai"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
