package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the production bookstore API.
const DefaultBaseURL = "https://bookstore.incubation.bridgelabz.com"

// Config holds all configuration for the application
type Config struct {
	// API configuration
	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	// Catalog display settings
	Catalog struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"catalog"`

	// Wishlist settings
	Wishlist struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"wishlist"`

	// Session persistence
	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`

	// Logging configuration
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load builds the configuration from defaults, then the YAML file (when one
// is given and exists), then environment variables, in increasing priority.
func Load(configFile string) (*Config, error) {
	cfg := &Config{}

	// Defaults first
	cfg.API.BaseURL = DefaultBaseURL
	cfg.API.Timeout = 30 * time.Second
	cfg.Catalog.PageSize = 12
	cfg.Wishlist.CacheTTL = 30 * time.Second
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	loadFromEnv(cfg)

	if cfg.Session.Path == "" {
		cfg.Session.Path = defaultSessionPath()
	}
	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = 12
	}
	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return &ConfigError{Field: "api.base_url", Msg: "is required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Msg
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) {
	if url := os.Getenv("BOOKSTORE_API_URL"); url != "" {
		cfg.API.BaseURL = strings.TrimSuffix(url, "/")
	}
	if timeout := getDurationFromEnv("BOOKSTORE_API_TIMEOUT", 0); timeout > 0 {
		cfg.API.Timeout = timeout
	}
	if pageSize := getIntFromEnv("CATALOG_PAGE_SIZE", 0); pageSize > 0 {
		cfg.Catalog.PageSize = pageSize
	}
	if ttl := getDurationFromEnv("WISHLIST_CACHE_TTL", 0); ttl > 0 {
		cfg.Wishlist.CacheTTL = ttl
	}
	if path := os.Getenv("BOOKSTORE_SESSION_PATH"); path != "" {
		cfg.Session.Path = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// defaultSessionPath puts the session database under the user config
// directory, falling back to the working directory.
func defaultSessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bookstore", "session.db")
	}
	return "./bookstore-session.db"
}

func getIntFromEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fallback
		}
		return i
	}
	return fallback
}

func getDurationFromEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fallback
		}
		return d
	}
	return fallback
}
