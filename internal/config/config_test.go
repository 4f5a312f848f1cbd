package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
)

// chdirTemp runs the test inside an empty directory so no stray .env or
// .planet-search.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseURL != swapi.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout)
	}
	if cfg.MaxConcurrency != 10 {
		t.Errorf("MaxConcurrency = %d, want 10", cfg.MaxConcurrency)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want disabled", cfg.RedisAddr)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want none", cfg.ConfigFile)
	}
}

func TestLoad_Environment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PLANET_SEARCH_BASE_URL", "http://localhost:9000/api")
	t.Setenv("PLANET_SEARCH_TIMEOUT", "3s")
	t.Setenv("PLANET_SEARCH_REDIS_ADDR", "localhost:6379")
	t.Setenv("PLANET_SEARCH_MAX_CONCURRENCY", "4")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseURL != "http://localhost:9000/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.FetcherConfig().MaxConcurrency != 4 {
		t.Errorf("FetcherConfig() = %+v", cfg.FetcherConfig())
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANET_SEARCH_USER_AGENT=from-dotenv/1.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PLANET_SEARCH_USER_AGENT") })

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UserAgent != "from-dotenv/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "search.yaml")
	body := "base_url: http://catalog.test/api\nlog_level: debug\nlog_pretty: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "http://catalog.test/api" || cfg.LogLevel != "debug" || !cfg.LogPretty {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	if _, err := Load(viper.New(), "does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{UserAgent: "x", MaxConcurrency: 10}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "blank user agent", mutate: func(c *Config) { c.UserAgent = " " }, wantErr: "user_agent must not be empty"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout must be >= 0 (got -1s)"},
		{name: "zero concurrency", mutate: func(c *Config) { c.MaxConcurrency = 0 }, wantErr: "max_concurrency must be between 1 and 10 (got 0)"},
		{name: "too much concurrency", mutate: func(c *Config) { c.MaxConcurrency = 11 }, wantErr: "max_concurrency must be between 1 and 10 (got 11)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSwapiConfig(t *testing.T) {
	cfg := Config{BaseURL: "http://x/api", UserAgent: "ua", Timeout: time.Second}
	sc := cfg.SwapiConfig()

	if sc.BaseURL != "http://x/api" || sc.UserAgent != "ua" || sc.Timeout != time.Second {
		t.Errorf("SwapiConfig() = %+v", sc)
	}
	if sc.Redis != nil {
		t.Error("SwapiConfig() must not attach Redis")
	}
}
