package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DogAPI   DogAPIConfig   `mapstructure:"dogapi"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the web front-end settings
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	CookieSecure    bool   `mapstructure:"cookie_secure"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DogAPIConfig holds dog breed API settings
type DogAPIConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	UserAgent            string   `mapstructure:"user_agent"`
	Proxies              []string `mapstructure:"proxies"`
}

// StorageConfig selects the backend of each selection storage kind
type StorageConfig struct {
	Session    SessionStorageConfig    `mapstructure:"session"`
	Persistent PersistentStorageConfig `mapstructure:"persistent"`
}

// SessionStorageConfig: driver is memory, redis or none
type SessionStorageConfig struct {
	Driver     string `mapstructure:"driver"`
	TTL        int    `mapstructure:"ttl"`
	QuotaBytes int    `mapstructure:"quota_bytes"`
}

// PersistentStorageConfig: driver is bolt, postgres or none
type PersistentStorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Load reads config.yaml from the working directory, or path when given, with
// environment variable overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the driver names.
func (c *Config) Validate() error {
	switch c.Storage.Session.Driver {
	case DriverMemory, DriverRedis, DriverNone:
	default:
		return fmt.Errorf("invalid storage.session.driver %q", c.Storage.Session.Driver)
	}

	switch c.Storage.Persistent.Driver {
	case DriverBolt, DriverPostgres, DriverNone:
	default:
		return fmt.Errorf("invalid storage.persistent.driver %q", c.Storage.Persistent.Driver)
	}

	if c.DogAPI.BaseURL == "" {
		return fmt.Errorf("dogapi.base_url is required")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.cookie_secure", false)

	v.SetDefault("dogapi.base_url", "https://dog.ceo/api/")
	v.SetDefault("dogapi.timeout", 15)
	v.SetDefault("dogapi.max_requests_per_second", 0)
	v.SetDefault("dogapi.user_agent", "dogbrowser/1.0")
	v.SetDefault("dogapi.proxies", []string{})

	v.SetDefault("storage.session.driver", DriverMemory)
	v.SetDefault("storage.session.ttl", 1800)
	v.SetDefault("storage.session.quota_bytes", 5*1024*1024)
	v.SetDefault("storage.persistent.driver", DriverBolt)
	v.SetDefault("storage.persistent.path", "./data/dogbrowser.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "dogbrowser")
	v.SetDefault("database.user", "dogbrowser_user")
	v.SetDefault("database.password", "dogbrowser_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
