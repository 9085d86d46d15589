package config

import (
	"fmt"

	pkgconfig "github.com/foodfleet/api/pkg/config"
	"github.com/foodfleet/api/pkg/database"
)

// Config holds all configuration for the FoodFleet API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Postgres
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"foodfleet"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"foodfleet_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"foodfleet"`
	PostgresSSL  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Cart and checkout session TTL in hours (default: 7 days)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// Pricing
	TaxRateBps       int64 `env:"TAX_RATE_BPS" envDefault:"800"`
	DeliveryFeeCents int64 `env:"DELIVERY_FEE_CENTS" envDefault:"500"`

	// Order submission
	SubmitTimeoutSeconds int `env:"SUBMIT_TIMEOUT_SECONDS" envDefault:"30"`

	// Payment. With no gateway URL configured the simulator is used.
	PaymentGatewayURL  string  `env:"PAYMENT_GATEWAY_URL" envDefault:""`
	PaymentSimDelayMS  int     `env:"PAYMENT_SIM_DELAY_MS" envDefault:"500"`
	PaymentSimFailRate float64 `env:"PAYMENT_SIM_FAIL_RATE" envDefault:"0.2"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.TaxRateBps < 0 || c.TaxRateBps > 10000 {
		return fmt.Errorf("invalid tax rate: %d bps", c.TaxRateBps)
	}
	if c.DeliveryFeeCents < 0 {
		return fmt.Errorf("invalid delivery fee: %d cents", c.DeliveryFeeCents)
	}
	if c.PaymentSimFailRate < 0 || c.PaymentSimFailRate >= 1 {
		return fmt.Errorf("invalid payment failure rate: %f", c.PaymentSimFailRate)
	}
	if c.SubmitTimeoutSeconds < 1 {
		return fmt.Errorf("invalid submit timeout: %d seconds", c.SubmitTimeoutSeconds)
	}
	return nil
}

// PostgresConfig assembles the database pool configuration.
func (c *Config) PostgresConfig() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	return pg
}

// RedisConfig assembles the Redis client configuration.
func (c *Config) RedisConfig() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPass,
		DB:       c.RedisDB,
	}
}
