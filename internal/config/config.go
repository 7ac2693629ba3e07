// Package config loads the exporter's settings from defaults, an optional
// YAML file and CHRONOS_ environment variables.
package config

import (
	"time"

	"github.com/XavierBriggs/Chronos/internal/platform/resilience"
)

// Config contains process configuration
type Config struct {
	// APIKey authenticates against the hisports API
	APIKey string `koanf:"api_key" validate:"required"`

	// APIBaseURL overrides the hisports endpoint, mostly for testing
	APIBaseURL string `koanf:"api_base_url" validate:"omitempty,url"`

	HTTPTimeout  time.Duration `koanf:"http_timeout" validate:"gt=0"`
	MaxRetries   int           `koanf:"max_retries" validate:"min=1,max=10"`
	FetchWorkers int           `koanf:"fetch_workers" validate:"min=1,max=64"`

	// OutputDir is where CSV sheets are written
	OutputDir string `koanf:"output_dir" validate:"required"`

	// LogLevel controls verbosity: debug, info, warn, error
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	// League selects the registered league module
	League string `koanf:"league" validate:"required"`

	// Redis backs the box score cache and the event stream. Both are off
	// when RedisURL is empty.
	RedisURL      string        `koanf:"redis_url" validate:"required_if=StreamEnabled true"`
	RedisPassword string        `koanf:"redis_password"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	StreamEnabled bool          `koanf:"stream_enabled"`

	// ArchiveDSN enables the Postgres archive when set
	ArchiveDSN string `koanf:"archive_dsn"`

	// MetricsFile receives run metrics in Prometheus text format when set
	MetricsFile string `koanf:"metrics_file"`

	CircuitEnabled          bool          `koanf:"circuit_enabled"`
	CircuitFailureThreshold int           `koanf:"circuit_failure_threshold"`
	CircuitOpenTimeout      time.Duration `koanf:"circuit_open_timeout"`
	CircuitHalfOpenMaxReq   int           `koanf:"circuit_half_open_max_req"`
}

// New returns a Config populated with defaults
func New() *Config {
	breaker := resilience.DefaultCircuitBreakerConfig()

	return &Config{
		HTTPTimeout:             10 * time.Second,
		MaxRetries:              3,
		FetchWorkers:            4,
		OutputDir:               ".",
		LogLevel:                "info",
		LogFormat:               "console",
		League:                  "hockey_viaha",
		CacheTTL:                24 * time.Hour,
		CircuitEnabled:          breaker.Enabled,
		CircuitFailureThreshold: breaker.FailureThreshold,
		CircuitOpenTimeout:      breaker.OpenTimeout,
		CircuitHalfOpenMaxReq:   breaker.HalfOpenMaxReq,
	}
}

// CircuitBreaker returns the breaker settings for the API client
func (c *Config) CircuitBreaker() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.CircuitEnabled,
		FailureThreshold: c.CircuitFailureThreshold,
		OpenTimeout:      c.CircuitOpenTimeout,
		HalfOpenMaxReq:   c.CircuitHalfOpenMaxReq,
	}
}
