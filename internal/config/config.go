package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when TELEGRAM_BOT_TOKEN is not set.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

type Config struct {
	TelegramToken  string        `env:"TELEGRAM_BOT_TOKEN"`
	AllowedDomains []string      `env:"ALLOWED_DOMAINS"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFile        string        `env:"LOG_FILE"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT"`
	PreviewLength  int           `env:"PREVIEW_LENGTH"`
	AppPort        int           `env:"APP_PORT"`
	WorkerCount    int           `env:"WORKER_COUNT"`
	KafkaEnabled   bool          `env:"KAFKA_ENABLED"`
	KafkaHost      string        `env:"KAFKA_HOST"`
	KafkaTopic     string        `env:"KAFKA_TOPIC"`
	InitAttempts   int           `env:"BOT_INIT_ATTEMPTS"`
	InitBackoff    time.Duration `env:"BOT_INIT_BACKOFF"`
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("Error loading .env file")
		return nil, err
	}

	config := &Config{
		TelegramToken:  getEnvAsString("TELEGRAM_BOT_TOKEN", ""),
		AllowedDomains: getEnvAsSlice("ALLOWED_DOMAINS", []string{"wildberries.ru", "www.wildberries.ru"}),
		LogLevel:       getEnvAsString("LOG_LEVEL", "info"),
		LogFile:        getEnvAsString("LOG_FILE", ""),
		FetchTimeout:   getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		PreviewLength:  getEnvAsInt("PREVIEW_LENGTH", 3500),
		AppPort:        getEnvAsInt("APP_PORT", 8081),
		WorkerCount:    getEnvAsInt("WORKER_COUNT", runtime.NumCPU()),
		KafkaEnabled:   getEnvAsBool("KAFKA_ENABLED", false),
		KafkaHost:      getEnvAsString("KAFKA_HOST", "localhost:29092"),
		KafkaTopic:     getEnvAsString("KAFKA_TOPIC", "products.parsed"),
		InitAttempts:   getEnvAsInt("BOT_INIT_ATTEMPTS", 3),
		InitBackoff:    getEnvAsDuration("BOT_INIT_BACKOFF", time.Second),
	}

	if config.TelegramToken == "" {
		return nil, ErrMissingToken
	}

	return config, nil
}

func getEnvAsString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true"
}

// getEnvAsDuration accepts either a Go duration ("15s") or a plain number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
