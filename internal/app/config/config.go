package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr      string `envconfig:"APP_HTTP_ADDR" default:":8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"internal/migrations"`

	// Empty brokers disable event publishing.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"order-events"`

	AdminKey string `envconfig:"ADMIN_KEY" default:"meowadmin"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (Config, error) {
	// .env is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	return c, nil
}
