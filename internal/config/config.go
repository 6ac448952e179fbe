package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	// API Configuration
	APIPort    string
	APIHost    string
	AdminToken string

	// Diffbot
	DiffbotAPIURL  string
	DiffbotTimeout time.Duration
	DiffbotToken   string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	timeout, err := getEnvAsDuration("DIFFBOT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "sqlite://productposts.db"),
		KafkaBrokers:   lookupEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "product-imports"),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", "productposts-worker"),
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),
		DiffbotAPIURL:  getEnv("DIFFBOT_API_URL", "https://api.diffbot.com"),
		DiffbotTimeout: timeout,
		DiffbotToken:   strings.TrimSpace(getEnv("DIFFBOT_TOKEN", "")),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Brokers splits KafkaBrokers on commas. KAFKA_BROKERS set to an empty
// string disables the queue.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv is getEnv for keys where an explicitly empty value is meaningful.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}
