package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"inventory-service"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LocalMode    bool   `envconfig:"LOCAL_MODE" default:"true"` // in-memory store, no AWS
	SeedDemoData bool   `envconfig:"SEED_DEMO_DATA" default:"true"`

	AWSRegion            string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	AWSEndpoint          string `envconfig:"AWS_ENDPOINT"`
	AWSAccessKeyID       string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey   string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	ProductTableName     string `envconfig:"PRODUCT_TABLE_NAME" default:"inventory-products"`
	TransactionTableName string `envconfig:"TRANSACTION_TABLE_NAME" default:"inventory-transactions"`
	AlertTableName       string `envconfig:"ALERT_TABLE_NAME" default:"inventory-alerts"`
	ReportTableName      string `envconfig:"REPORT_TABLE_NAME" default:"inventory-reports"`

	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"inventory-events"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"inventory-service"`

	RedisEnabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	StatsCacheTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"30s"`

	StatsTimezone       string          `envconfig:"STATS_TIMEZONE" default:"UTC"`
	ReorderSafetyMargin decimal.Decimal `envconfig:"REORDER_SAFETY_MARGIN" default:"0"`
	ReportWorkers       int             `envconfig:"REPORT_WORKERS" default:"2"`
	RateLimit           string          `envconfig:"RATE_LIMIT" default:"100-M"` // ulule format; empty disables

	TLSEnabled      bool   `envconfig:"TLS_ENABLED" default:"false"`
	SpireSocketPath string `envconfig:"SPIRE_SOCKET_PATH" default:"unix:///run/spire/sockets/agent.sock"`

	location *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return fmt.Errorf("STATS_TIMEZONE %q: %w", c.StatsTimezone, err)
	}
	c.location = loc

	if c.ReorderSafetyMargin.IsNegative() {
		return fmt.Errorf("REORDER_SAFETY_MARGIN must not be negative, got %s", c.ReorderSafetyMargin)
	}
	if c.ReportWorkers < 1 {
		return fmt.Errorf("REPORT_WORKERS must be at least 1, got %d", c.ReportWorkers)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	c.RateLimit = strings.TrimSpace(c.RateLimit)
	return nil
}

// Location is the timezone that decides which transactions count as today.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
