package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.SchedulerInterval != 30*time.Second {
		t.Fatalf("expected 30s scheduler interval, got %s", cfg.SchedulerInterval)
	}
	if cfg.SeedingPolicy != "registration" {
		t.Fatalf("expected registration seeding, got %q", cfg.SeedingPolicy)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected INFO log level, got %v", cfg.LogLevel)
	}
	if cfg.Kafka.Enabled() || cfg.Redis.Enabled() || cfg.Tracing.Enabled() || cfg.R2.Enabled() || cfg.DatabaseURL != "" {
		t.Fatal("optional integrations should be off by default")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SEEDING_POLICY", "random")
	t.Setenv("SEEDING_RANDOM_SEED", "42")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected port/level: %d %v", cfg.ServerPort, cfg.LogLevel)
	}
	if cfg.SeedingPolicy != "random" || cfg.SeedingRandomSeed != 42 {
		t.Fatalf("unexpected seeding: %q %d", cfg.SeedingPolicy, cfg.SeedingRandomSeed)
	}
	if !cfg.Kafka.Enabled() || len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Topic != "tournament-events" {
		t.Fatalf("unexpected kafka config: %+v", cfg.Kafka)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.ChannelPrefix != "tournament:" {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET_KEY"},
		{"bad port", map[string]string{"JWT_SECRET_KEY": "s", "SERVER_PORT": "70000"}, "SERVER_PORT"},
		{"port not a number", map[string]string{"JWT_SECRET_KEY": "s", "SERVER_PORT": "abc"}, "parsing environment"},
		{"bad seeding", map[string]string{"JWT_SECRET_KEY": "s", "SEEDING_POLICY": "elo"}, "SEEDING_POLICY"},
		{"partial r2", map[string]string{"JWT_SECRET_KEY": "s", "R2_BUCKET_NAME": "b"}, "R2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}
