package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTP        HTTP        `yaml:"http"`
	Postgres    Postgres    `yaml:"postgres"`
	Redis       Redis       `yaml:"redis"`
	Kafka       Kafka       `yaml:"kafka"`
	Reservation Reservation `yaml:"reservation"`
	Retry       Retry       `yaml:"retry"`
	Log         Log         `yaml:"log"`
	Tracing     Tracing     `yaml:"tracing"`
}

type HTTP struct {
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
}

type Postgres struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	DBName          string        `yaml:"db_name" env:"DB_NAME" env-default:"ticket_inventory"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnectRetries  int           `yaml:"connect_retries" env:"DB_CONNECT_RETRIES" env-default:"10"`
}

type Redis struct {
	Addr         string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"30s"`
	ProcessedTTL time.Duration `yaml:"processed_ttl" env:"REDIS_PROCESSED_TTL" env-default:"24h"`
}

// Kafka.Enabled=false runs without a broker; orders are then advanced through
// the manual processing endpoint.
type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"true"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_ORDER_TOPIC" env-default:"order_events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"ticket-inventory-order-processor"`
}

// Reservation holds the hold timeout and sweep cadence. Both are explicit
// inputs; deployments have used 10 and 15 minute timeouts.
type Reservation struct {
	Timeout        time.Duration `yaml:"timeout" env:"RESERVATION_TIMEOUT" env-default:"15m"`
	SweepInterval  time.Duration `yaml:"sweep_interval" env:"RESERVATION_SWEEP_INTERVAL" env-default:"60s"`
	SweepBatchSize int           `yaml:"sweep_batch_size" env:"RESERVATION_SWEEP_BATCH_SIZE" env-default:"100"`
}

type Retry struct {
	MaxAttempts     int           `yaml:"max_attempts" env:"RETRY_MAX_ATTEMPTS" env-default:"5"`
	InitialInterval time.Duration `yaml:"initial_interval" env:"RETRY_INITIAL_INTERVAL" env-default:"20ms"`
	MaxInterval     time.Duration `yaml:"max_interval" env:"RETRY_MAX_INTERVAL" env-default:"1s"`
	SeatAttempts    int           `yaml:"seat_attempts" env:"RETRY_SEAT_ATTEMPTS" env-default:"3"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Env   string `yaml:"env" env:"LOG_ENV" env-default:"dev"`
}

type Tracing struct {
	Enabled  bool   `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" env:"TRACING_ENDPOINT" env-default:"localhost:4318"`
}

// Load reads the YAML file at path when it exists and applies environment
// overrides; without a file the environment alone is used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("error reading config %s: %w", path, err)
			}

			return &cfg, cfg.validate()
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error reading env config: %w", err)
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Reservation.Timeout <= 0 {
		return errors.New("reservation timeout must be positive")
	}

	if c.Reservation.SweepInterval <= 0 {
		return errors.New("reservation sweep interval must be positive")
	}

	if c.Retry.MaxAttempts < 1 || c.Retry.SeatAttempts < 1 {
		return errors.New("retry attempts must be at least 1")
	}

	return nil
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}
