package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"PORT" envDefault:"5000"`
	}

	// Database configuration
	Database struct {
		// Path to the sqlite listing corpus
		Path string `env:"DATABASE_PATH" envDefault:"database/listings.db"`
	}

	// AI estimator configuration
	AI struct {
		APIKey string `env:"ANTHROPIC_API_KEY"`

		// Model names tried in order; the first that answers wins
		ModelNames []string `env:"AI_MODEL_NAMES" envSeparator:"," envDefault:"claude-sonnet-4-5,claude-3-7-sonnet-latest,claude-3-5-haiku-latest"`

		// Overall timeout for one estimate call (in seconds)
		TimeoutSeconds int `env:"AI_TIMEOUT" envDefault:"30"`
	}

	// Ingest pipeline configuration
	Ingest struct {
		// Maximum number of queued listing batches
		QueueSize int `env:"INGEST_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"INGEST_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"INGEST_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"INGEST_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
