package config

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database holds the connection settings for the shared handle.
type Database struct {
	URL       string `validate:"required"`
	AuthToken string
	LogSQL    bool
}

// Config is the runtime configuration of the storefront process.
type Config struct {
	AppPort     string `validate:"required"`
	RabbitMQURL string
	AutoMigrate bool
	Database    Database
}

// Load reads configuration from the environment (and a .env file when one
// exists) through v. Pass nil to use a fresh viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment only")
	}

	if v == nil {
		v = viper.New()
	}
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_LOG_SQL", false)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		Database: Database{
			URL:       v.GetString("TURSO_DB_URL"),
			AuthToken: v.GetString("TURSO_DB_AUTH_TOKEN"),
			LogSQL:    v.GetBool("DB_LOG_SQL"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
