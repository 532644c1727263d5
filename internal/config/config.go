package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from a YAML file and environment variables.
type Config struct {
	Env    string `mapstructure:"env"` // local, development, production
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		TTL      string `mapstructure:"ttl"` // session liveness
	} `mapstructure:"redis"`
	Postgres struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"postgres"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	Quiz struct {
		TTL        string `mapstructure:"ttl"` // remote question cache
		Size       int    `mapstructure:"size"`
		SessionTTL string `mapstructure:"session_ttl"` // idle session eviction
	} `mapstructure:"quiz"`
	Stats struct {
		RecentWindow int `mapstructure:"recent_window"`
	} `mapstructure:"stats"`
	Storage struct {
		Path string `mapstructure:"path"` // local question document; empty keeps it in memory
	} `mapstructure:"storage"`
}

// Load reads the YAML config at path. A missing file is not an error; every
// key can also come from the environment (server.port -> SERVER_PORT).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("env", "local")
	v.SetDefault("server.port", "8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "30m")
	v.SetDefault("postgres.url", "")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "vocab_quiz")
	v.SetDefault("quiz.ttl", "1m")
	v.SetDefault("quiz.size", 10)
	v.SetDefault("quiz.session_ttl", "30m")
	v.SetDefault("stats.recent_window", 3)
	v.SetDefault("storage.path", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("postgres.url", "POSTGRES_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		// An explicit path that does not exist surfaces as an fs error, not ConfigFileNotFoundError.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
