// Package config loads planet-search settings from flags, environment,
// .env files and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Sternrassler/swapi-planet-search/pkg/residents"
	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
)

// EnvPrefix is prepended to every environment variable, e.g.
// PLANET_SEARCH_BASE_URL.
const EnvPrefix = "PLANET_SEARCH"

// Config holds the resolved settings.
type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`

	// RedisAddr enables the revalidation store when set
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`

	ListenAddr string `mapstructure:"listen_addr"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	// ConfigFile is the file that was read, if any
	ConfigFile string `mapstructure:"-"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", swapi.DefaultBaseURL)
	v.SetDefault("user_agent", "planet-search/dev")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("max_concurrency", residents.BatchSize)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
}

// Load resolves configuration in order of precedence:
//  1. flags bound to v by the caller
//  2. PLANET_SEARCH_* environment variables
//  3. .env and .env.local
//  4. configFile, or .planet-search.yaml in the working directory
//  5. defaults
func Load(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".planet-search")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in a less
// obvious place.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UserAgent) == "" {
		return errors.New("user_agent must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", c.Timeout)
	}
	if c.MaxConcurrency < 1 || c.MaxConcurrency > residents.BatchSize {
		return fmt.Errorf("max_concurrency must be between 1 and %d (got %d)", residents.BatchSize, c.MaxConcurrency)
	}
	return nil
}

// SwapiConfig maps c onto the catalog client configuration. The Redis
// client is attached by the caller.
func (c *Config) SwapiConfig() swapi.Config {
	return swapi.Config{
		BaseURL:   c.BaseURL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
}

// FetcherConfig maps c onto the batch fetcher configuration.
func (c *Config) FetcherConfig() residents.Config {
	return residents.Config{MaxConcurrency: c.MaxConcurrency}
}

// loadEnvFiles loads .env then .env.local; missing files are ignored and
// variables already set in the environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}
