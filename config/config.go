package config

import (
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents an app config.
type Config struct {
	Telegram   Telegram
	Polling    Polling
	PostgreSQL PostgreSQL
	Payments   Payments
	Logger     Logger
}

// Telegram represents a telegram bot configuration.
type Telegram struct {
	BotToken  string `env:"BOT_TOKEN" env-required:"true"`
	APIServer string `env:"TELEGRAM_API_SERVER" env-default:"https://api.telegram.org"`
}

// Polling represents updates polling configuration.
type Polling struct {
	// Timeout is the long polling timeout in seconds.
	Timeout                int           `env:"POLLING_TIMEOUT" env-default:"60"`
	Interval               time.Duration `env:"POLLING_INTERVAL" env-default:"1s"`
	BackoffInitialInterval time.Duration `env:"POLLING_BACKOFF_INITIAL_INTERVAL" env-default:"5s"`
	BackoffMaxInterval     time.Duration `env:"POLLING_BACKOFF_MAX_INTERVAL" env-default:"20m"`
}

// PostgreSQL represents a PostgreSQL database configuration.
// The polling offset is kept in memory when Host is empty.
type PostgreSQL struct {
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `env:"POSTGRES_DB" env-default:"flastel"`
	Host     string `env:"POSTGRES_HOST" env-default:""`
	Port     string `env:"POSTGRES_PORT" env-default:"5432"`
	SSLMode  string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
}

// Enabled reports whether the database is configured.
func (p PostgreSQL) Enabled() bool {
	return p.Host != ""
}

// Payments represents the example product configuration.
type Payments struct {
	// ProviderToken is empty for payments in Telegram Stars.
	ProviderToken string `env:"PAYMENT_PROVIDER_TOKEN" env-default:""`
	Currency      string `env:"PAYMENT_CURRENCY" env-default:"XTR"`
	// Price is expressed in major units, e.g. "100" stars or "1.99" dollars.
	Price string `env:"PAYMENT_PRICE" env-default:"100"`
}

// Logger represents a logger configuration.
type Logger struct {
	LogLevel        string `env:"FLASTEL_LOGGER_LOG_LEVEL" env-default:"info"`
	LogFilename     string `env:"FLASTEL_LOGGER_LOG_FILENAME" env-default:""`
	PrettyLogOutput bool   `env:"FLASTEL_LOGGER_PRETTY_LOG_OUTPUT" env-default:"false"`
}

var (
	config Config
	once   sync.Once
)

// Get returns a new config.
func Get() *Config {
	once.Do(func() {
		err := cleanenv.ReadEnv(&config)
		if err != nil {
			log.Fatalf("read env: %v", err)
		}
	})

	return &config
}
