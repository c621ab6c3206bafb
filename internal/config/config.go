package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Fetch strategies for the upstream transport.
const (
	StrategyDirect = "direct"
	StrategyPool   = "pool"
	StrategyRelay  = "relay"
)

type Config struct {
	Server ServerConfig
	Podimo PodimoConfig
	Cache  CacheConfig
	Store  StoreConfig
	Log    LogConfig
}

type ServerConfig struct {
	Bind           string // ip:port the webserver binds to
	Hostname       string // public hostname shown in example URLs
	Protocol       string // protocol for links shown to the user
	HandlerTimeout time.Duration
}

type PodimoConfig struct {
	GraphQLURL string
	Regions    []string
	Locales    []string
	Strategy   string
	RelayURL   string
	APIKeys    []string
	LoginDelay time.Duration
	Debug      bool
}

type CacheConfig struct {
	TokenTTL   time.Duration
	CatalogTTL time.Duration
	HeadTTL    time.Duration
}

type StoreConfig struct {
	// TokenDBPath enables on-disk token persistence when non-empty.
	TokenDBPath string
}

type LogConfig struct {
	// File switches logging to a rotating file when non-empty.
	File string
}

// fileConfig is the optional YAML overlay for list-shaped settings that are
// awkward to express in environment variables.
type fileConfig struct {
	Regions  []string `yaml:"regions"`
	Locales  []string `yaml:"locales"`
	Strategy string   `yaml:"strategy"`
	RelayURL string   `yaml:"relay_url"`
	APIKeys  []string `yaml:"api_keys"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Bind:           GetEnv("PODIMO_BIND_HOST", "127.0.0.1:12104").(string),
			Hostname:       GetEnv("PODIMO_HOSTNAME", "podimo.thijs.sh").(string),
			Protocol:       GetEnv("PODIMO_PROTOCOL", "https").(string),
			HandlerTimeout: GetEnv("HANDLER_TIMEOUT", 60*time.Second).(time.Duration),
		},
		Podimo: PodimoConfig{
			GraphQLURL: GetEnv("GRAPHQL_URL", "https://graphql.pdm-gateway.com/graphql").(string),
			Regions:    splitList(GetEnv("PODIMO_REGIONS", "nl,de").(string)),
			Locales:    splitList(GetEnv("PODIMO_LOCALES", "nl-NL,de-DE").(string)),
			Strategy:   GetEnv("FETCH_STRATEGY", StrategyDirect).(string),
			RelayURL:   GetEnv("RELAY_URL", "https://api.scraperapi.com/").(string),
			APIKeys:    splitList(GetEnv("SCRAPER_API_KEYS", "").(string)),
			LoginDelay: GetEnv("LOGIN_DELAY", 5*time.Second).(time.Duration),
			Debug:      GetEnv("DEBUG", false).(bool),
		},
		Cache: CacheConfig{
			TokenTTL:   GetEnv("TOKEN_CACHE_TTL", 5*24*time.Hour).(time.Duration),
			CatalogTTL: GetEnv("PODCAST_CACHE_TTL", 15*time.Minute).(time.Duration),
			HeadTTL:    GetEnv("HEAD_CACHE_TTL", 7*24*time.Hour).(time.Duration),
		},
		Store: StoreConfig{
			TokenDBPath: GetEnv("TOKEN_DB_PATH", "").(string),
		},
		Log: LogConfig{
			File: GetEnv("LOG_FILE", "").(string),
		},
	}

	if path := GetEnv("CONFIG_FILE", "").(string); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	switch cfg.Podimo.Strategy {
	case StrategyDirect, StrategyRelay:
	case StrategyPool:
		if len(cfg.Podimo.APIKeys) == 0 {
			return nil, fmt.Errorf("fetch strategy %q requires SCRAPER_API_KEYS", StrategyPool)
		}
	default:
		return nil, fmt.Errorf("unknown fetch strategy %q", cfg.Podimo.Strategy)
	}
	if cfg.Podimo.Strategy == StrategyRelay && len(cfg.Podimo.APIKeys) == 0 {
		return nil, fmt.Errorf("fetch strategy %q requires SCRAPER_API_KEYS", StrategyRelay)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if len(fc.Regions) > 0 {
		c.Podimo.Regions = fc.Regions
	}
	if len(fc.Locales) > 0 {
		c.Podimo.Locales = fc.Locales
	}
	if fc.Strategy != "" {
		c.Podimo.Strategy = fc.Strategy
	}
	if fc.RelayURL != "" {
		c.Podimo.RelayURL = fc.RelayURL
	}
	if len(fc.APIKeys) > 0 {
		c.Podimo.APIKeys = fc.APIKeys
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func GetEnv(key string, defaultValue any) any {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch def := defaultValue.(type) {
	case string:
		return value
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		return def
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		return def
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		return def
	default:
		panic(fmt.Sprintf("unsupported type %T", defaultValue))
	}
}
