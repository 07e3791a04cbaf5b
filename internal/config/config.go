// Package config handles loading and validating the listing service
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	NATS      NATSConfig      `yaml:"nats"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host            string          `yaml:"host"`
	Port            int             `yaml:"port"`
	ReadTimeout     time.Duration   `yaml:"read_timeout"`
	WriteTimeout    time.Duration   `yaml:"write_timeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RateLimitConfig defines per-client request limits. A zero PerSecond
// disables limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// DatabaseConfig defines PostgreSQL connection settings. An empty Host
// selects the in-memory store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a PostgreSQL database is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// RedisConfig defines the item list cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether the Redis cache is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// NATSConfig defines where item events are published. An empty URL disables
// publishing.
type NATSConfig struct {
	URL           string `yaml:"url"`
	ClientName    string `yaml:"client_name"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Enabled reports whether event publishing is configured.
func (n *NATSConfig) Enabled() bool {
	return n.URL != ""
}

// TelemetryConfig defines OpenTelemetry export over OTLP/gRPC.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	Insecure       bool          `yaml:"insecure"`
	ServiceName    string        `yaml:"service_name"`
	SampleRatio    float64       `yaml:"sample_ratio"`
	MetricInterval time.Duration `yaml:"metric_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	return finish(cfg)
}

// Default returns the configuration used when no file is given: an
// in-memory store with no cache, events or telemetry.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyRedisDefaults(&cfg.Redis)
	applyNATSDefaults(&cfg.NATS)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 3000
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	if s.RateLimit.PerSecond > 0 && s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = max(1, int(s.RateLimit.PerSecond*2))
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyRedisDefaults(r *RedisConfig) {
	if r.Key == "" {
		r.Key = "items:all"
	}
	if r.TTL == 0 {
		r.TTL = 30 * time.Second
	}
}

func applyNATSDefaults(n *NATSConfig) {
	if n.ClientName == "" {
		n.ClientName = "items-server"
	}
	if n.SubjectPrefix == "" {
		n.SubjectPrefix = "items"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "items-server"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

const maxPoolSize = 1000

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}
	if cfg.Server.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("server.rate_limit.per_second must not be negative"))
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required when database.host is set"))
		}
		if cfg.Database.PoolSize < 1 || cfg.Database.PoolSize > maxPoolSize {
			errs = append(errs, fmt.Errorf("database.pool_size must be between 1 and %d (got %d)", maxPoolSize, cfg.Database.PoolSize))
		}
	}

	if cfg.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis.ttl must not be negative"))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be between 0 and 1 (got %g)", cfg.Telemetry.SampleRatio))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
