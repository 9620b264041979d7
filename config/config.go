package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed by CORS in addition to browser extensions
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}

	Storage struct {
		DatabasePath string `env:"DATABASE_PATH" envDefault:"./database/analyses.db"`

		// Source texts longer than this are stored head+tail only
		MaxTextBytes int `env:"STORAGE_MAX_TEXT_BYTES" envDefault:"100000"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of analyses to accumulate before writing
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"20"`

		// Maximum time to wait before writing a non-full batch
		MaxBatchWaitTime time.Duration `env:"BATCH_WAIT_TIME" envDefault:"5s"`

		// Number of queue workers
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries
		RetryDelay time.Duration `env:"BATCH_RETRY_DELAY" envDefault:"2s"`

		QueueBufferSize int `env:"QUEUE_BUFFER_SIZE" envDefault:"100"`
	}

	// Analyses older than MaxAge are pruned every Interval; zero keeps them forever
	Retention struct {
		MaxAge   time.Duration `env:"RETENTION_MAX_AGE" envDefault:"0s"`
		Interval time.Duration `env:"RETENTION_INTERVAL" envDefault:"24h"`
	}

	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
		APIURL   string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	}

	// Optional TOML file with the default investment preferences
	PreferencesFile string `env:"PREFERENCES_FILE"`
}

// LoadConfig reads an optional .env file (or the given files) and then the
// environment. A missing .env file is not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
