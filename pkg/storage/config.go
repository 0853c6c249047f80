// Package storage is the persistence layer of the nornweave mesh: it
// stores source documents and their embedded chunks in PostgreSQL +
// pgvector and answers nearest-neighbor similarity queries scoped by
// knowledge domain.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the PostgreSQL connection settings for the storage layer.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// MinPoolSize is kept as idle connections; MaxPoolSize bounds the
	// total number of open connections.
	MinPoolSize int
	MaxPoolSize int

	// ConnectTimeout bounds Open; PoolTimeout is the default deadline
	// applied to an operation whose context carries none.
	ConnectTimeout  time.Duration
	PoolTimeout     time.Duration
	ConnMaxLifetime time.Duration
}

// NewConfig returns a config with defaults matching the dev
// docker-compose environment.
func NewConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            5432,
		User:            "nornweave",
		Password:        "nornweave_dev",
		Database:        "nornweave",
		SSLMode:         "disable",
		MinPoolSize:     2,
		MaxPoolSize:     10,
		ConnectTimeout:  10 * time.Second,
		PoolTimeout:     30 * time.Second,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// LoadConfigFromEnv reads NORNWEAVE_DB_* environment variables over the
// NewConfig defaults (e.g. NORNWEAVE_DB_HOST, NORNWEAVE_DB_MAX_POOL_SIZE).
func LoadConfigFromEnv() *Config {
	cfg := NewConfig()

	v := viper.New()
	v.SetEnvPrefix("NORNWEAVE_DB")
	v.AutomaticEnv()

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("user", cfg.User)
	v.SetDefault("password", cfg.Password)
	v.SetDefault("name", cfg.Database)
	v.SetDefault("sslmode", cfg.SSLMode)
	v.SetDefault("min_pool_size", cfg.MinPoolSize)
	v.SetDefault("max_pool_size", cfg.MaxPoolSize)
	v.SetDefault("connect_timeout", cfg.ConnectTimeout)
	v.SetDefault("pool_timeout", cfg.PoolTimeout)

	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.User = v.GetString("user")
	cfg.Password = v.GetString("password")
	cfg.Database = v.GetString("name")
	cfg.SSLMode = v.GetString("sslmode")
	cfg.MinPoolSize = v.GetInt("min_pool_size")
	cfg.MaxPoolSize = v.GetInt("max_pool_size")
	cfg.ConnectTimeout = v.GetDuration("connect_timeout")
	cfg.PoolTimeout = v.GetDuration("pool_timeout")

	return cfg
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedactedDSN returns the DSN with the password masked, safe for logging.
func (c *Config) RedactedDSN() string {
	dsn := c.DSN()
	return strings.Replace(dsn, "password="+c.Password, "password=***", 1)
}
