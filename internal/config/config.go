package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the replay analyzer worker.
type Config struct {
	DBURL      string `env:"DB_URL,required,notEmpty"`
	RedisURL   string `env:"REDIS_URL,required,notEmpty"`
	RedisQueue string `env:"REDIS_QUEUE" envDefault:"analyze_replays"`

	// WorkerCount > 1 consumes jobs through a pool of that many goroutines.
	WorkerCount   int `env:"WORKER_COUNT" envDefault:"1"`
	JobBufferSize int `env:"JOB_BUFFER_SIZE" envDefault:"16"`
	// IngestWorkers bounds the per-participant fold of one replay.
	IngestWorkers int `env:"INGEST_WORKERS" envDefault:"1"`

	MetricsAddr  string   `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	RefreshViews []string `env:"REFRESH_VIEWS" envSeparator:"," envDefault:"replay_dashboard_summary,replay_unit_supply_peaks"`
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.JobBufferSize < 0 {
		return nil, fmt.Errorf("JOB_BUFFER_SIZE must not be negative, got %d", cfg.JobBufferSize)
	}
	if cfg.IngestWorkers < 1 {
		return nil, fmt.Errorf("INGEST_WORKERS must be at least 1, got %d", cfg.IngestWorkers)
	}

	return cfg, nil
}
