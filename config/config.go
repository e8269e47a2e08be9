package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting of the service. Empty optional groups (database,
// Kafka, Redis, tracing, archive) switch the matching component off.
type Config struct {
	ServerPort   int        `env:"SERVER_PORT" envDefault:"8080"`
	DatabaseURL  string     `env:"DATABASE_URL"`
	JWTSecretKey string     `env:"JWT_SECRET_KEY,required,notEmpty"`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"30s"`
	SeedingPolicy     string        `env:"SEEDING_POLICY" envDefault:"registration"`
	SeedingRandomSeed uint64        `env:"SEEDING_RANDOM_SEED"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Kafka           KafkaConfig
	Redis           RedisConfig
	Tracing         TracingConfig
	R2              R2Config
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"tournament-events"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type RedisConfig struct {
	URL           string `env:"REDIS_URL"`
	ChannelPrefix string `env:"REDIS_CHANNEL_PREFIX" envDefault:"tournament:"`
}

func (r RedisConfig) Enabled() bool { return r.URL != "" }

type TracingConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"tournament-engine"`
}

func (t TracingConfig) Enabled() bool { return t.Endpoint != "" }

type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	BucketName      string `env:"R2_BUCKET_NAME"`
	PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

func (r R2Config) Enabled() bool { return r.BucketName != "" }

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.SchedulerInterval <= 0 {
		return errors.New("SCHEDULER_INTERVAL must be positive")
	}
	switch c.SeedingPolicy {
	case "registration", "random":
	default:
		return fmt.Errorf("SEEDING_POLICY must be registration or random, got %q", c.SeedingPolicy)
	}
	if c.R2.Enabled() && (c.R2.AccountID == "" || c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.PublicBaseURL == "") {
		return errors.New("R2 archive needs R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_PUBLIC_BASE_URL")
	}
	return nil
}
