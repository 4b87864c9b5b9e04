// Package config defines arena configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults that work against a local
//     Redis, Cassandra and Postgres.
//   - Load layers .env, an optional YAML file and ARENA_* env vars on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Relational drivers accepted in SQL.Driver.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address for the dashboard.
	Addr string `koanf:"addr"`

	// GameID is the fixed game every hit is recorded against.
	GameID int `koanf:"game_id"`

	Redis     RedisConfig     `koanf:"redis"`
	Cassandra CassandraConfig `koanf:"cassandra"`
	SQL       SQLConfig       `koanf:"sql"`
}

// RedisConfig addresses the live store.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// CassandraConfig addresses the wide-column store.
type CassandraConfig struct {
	Hosts       []string      `koanf:"hosts"`
	Keyspace    string        `koanf:"keyspace"`
	Consistency string        `koanf:"consistency"`
	Timeout     time.Duration `koanf:"timeout"`
}

// SQLConfig addresses the relational store.
type SQLConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":8501",
		GameID:    1,
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Cassandra: CassandraConfig{
			Hosts:       []string{"127.0.0.1"},
			Keyspace:    "monster_arena",
			Consistency: "quorum",
			Timeout:     600 * time.Millisecond,
		},
		SQL: SQLConfig{
			Driver: DriverPostgres,
			DSN:    "postgres://localhost:5432/monster_arena?sslmode=disable",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.GameID < 1:
		return fmt.Errorf("%w: game_id must be positive", ErrInvalidConfig)
	case c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr must not be empty", ErrInvalidConfig)
	case len(c.Cassandra.Hosts) == 0:
		return fmt.Errorf("%w: cassandra.hosts must not be empty", ErrInvalidConfig)
	case c.Cassandra.Keyspace == "":
		return fmt.Errorf("%w: cassandra.keyspace must not be empty", ErrInvalidConfig)
	}
	switch c.SQL.Driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown sql.driver %q", ErrInvalidConfig, c.SQL.Driver)
	}
	return nil
}
