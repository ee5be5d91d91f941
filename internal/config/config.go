package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "STOCKSENT_CONFIG"
	portEnv          = "PORT"
	databasePathEnv  = "DATABASE_PATH"
	redisURLEnv      = "REDIS_URL"
	finnhubAPIKeyEnv = "FINNHUB_API_KEY"
	logLevelEnv      = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Queue     QueueConfig     `yaml:"queue"`
	Providers ProviderConfig  `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
	Collector CollectorConfig `yaml:"collector"`
}

// ServerConfig describes the web-facing process.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig describes the sqlite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// QueueConfig wires the Redis job queue. An empty URL means no queue is
// configured and collection runs inline.
type QueueConfig struct {
	RedisURL      string `yaml:"redisUrl"`
	Name          string `yaml:"name"`
	JobTTLMinutes int    `yaml:"jobTtlMinutes"`
}

// ProviderConfig groups external data source endpoints.
type ProviderConfig struct {
	Stooq   StooqConfig   `yaml:"stooq"`
	GDELT   GDELTConfig   `yaml:"gdelt"`
	Finnhub FinnhubConfig `yaml:"finnhub"`
}

// StooqConfig points at the CSV quote endpoint.
type StooqConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	TimeoutSec int    `yaml:"timeoutSec"`
}

// GDELTConfig points at the article-search endpoint.
type GDELTConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	TimeoutSec int    `yaml:"timeoutSec"`
	MaxRecords int    `yaml:"maxRecords"`
}

// FinnhubConfig wires symbol search and company profile lookups.
type FinnhubConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	APIKey     string `yaml:"apiKey"`
	TimeoutSec int    `yaml:"timeoutSec"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CollectorConfig bounds one collection cycle.
type CollectorConfig struct {
	WindowHours int `yaml:"windowHours"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(redisURLEnv); v != "" {
		c.Queue.RedisURL = v
	}
	if v := os.Getenv(finnhubAPIKeyEnv); v != "" {
		c.Providers.Finnhub.APIKey = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Queue.RedisURL != "" {
		base.Queue.RedisURL = override.Queue.RedisURL
	}
	if override.Queue.Name != "" {
		base.Queue.Name = override.Queue.Name
	}
	if override.Queue.JobTTLMinutes > 0 {
		base.Queue.JobTTLMinutes = override.Queue.JobTTLMinutes
	}

	if override.Providers.Stooq.BaseURL != "" {
		base.Providers.Stooq.BaseURL = override.Providers.Stooq.BaseURL
	}
	if override.Providers.Stooq.TimeoutSec > 0 {
		base.Providers.Stooq.TimeoutSec = override.Providers.Stooq.TimeoutSec
	}
	if override.Providers.GDELT.BaseURL != "" {
		base.Providers.GDELT.BaseURL = override.Providers.GDELT.BaseURL
	}
	if override.Providers.GDELT.TimeoutSec > 0 {
		base.Providers.GDELT.TimeoutSec = override.Providers.GDELT.TimeoutSec
	}
	if override.Providers.GDELT.MaxRecords > 0 {
		base.Providers.GDELT.MaxRecords = override.Providers.GDELT.MaxRecords
	}
	if override.Providers.Finnhub.BaseURL != "" {
		base.Providers.Finnhub.BaseURL = override.Providers.Finnhub.BaseURL
	}
	if override.Providers.Finnhub.APIKey != "" {
		base.Providers.Finnhub.APIKey = override.Providers.Finnhub.APIKey
	}
	if override.Providers.Finnhub.TimeoutSec > 0 {
		base.Providers.Finnhub.TimeoutSec = override.Providers.Finnhub.TimeoutSec
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Collector.WindowHours > 0 {
		base.Collector.WindowHours = override.Collector.WindowHours
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Path: "app.sqlite3"},
		Queue: QueueConfig{
			RedisURL:      "",
			Name:          "sentiment-scraper",
			JobTTLMinutes: 60,
		},
		Providers: ProviderConfig{
			Stooq: StooqConfig{
				BaseURL:    "https://stooq.com/q/l/",
				TimeoutSec: 10,
			},
			GDELT: GDELTConfig{
				BaseURL:    "https://api.gdeltproject.org/api/v2/doc/doc",
				TimeoutSec: 15,
				MaxRecords: 50,
			},
			Finnhub: FinnhubConfig{
				BaseURL:    "https://finnhub.io/api/v1",
				APIKey:     "",
				TimeoutSec: 10,
			},
		},
		Logging:   LoggingConfig{Level: "info"},
		Collector: CollectorConfig{WindowHours: 24},
	}
}
