package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the tweet collector
type Config struct {
	// Twitter API credentials and endpoint
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Search behavior
	Search SearchConfig `yaml:"search" json:"search"`

	// Document store settings
	Store StoreConfig `yaml:"store" json:"store"`

	// Rate limiting and transport retry configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter-specific configuration
type TwitterConfig struct {
	BearerToken string        `yaml:"bearer_token" json:"bearer_token"`
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// SearchConfig holds paginated search configuration
type SearchConfig struct {
	Count      int           `yaml:"count" json:"count"`
	ResultType string        `yaml:"result_type" json:"result_type"`
	MaxPages   int           `yaml:"max_pages" json:"max_pages"`
	PageDelay  time.Duration `yaml:"page_delay" json:"page_delay"`
}

// StoreConfig holds document store configuration
type StoreConfig struct {
	// Driver selects the backing store: "sqlite" or "memory"
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
}

// RateLimitConfig holds rate limiting and retry configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier" json:"backoff_multiplier"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			BaseURL:   "https://api.twitter.com/1.1",
			UserAgent: "tagwatch/1.0",
			Timeout:   30 * time.Second,
		},
		Search: SearchConfig{
			Count:      100,
			ResultType: "recent",
			MaxPages:   3,
			PageDelay:  5 * time.Second,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "./tagwatch.db",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			MaxRetries:        3,
			RetryDelay:        5 * time.Second,
			BackoffMultiplier: 2.0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("TAGWATCH_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	}
	if baseURL := os.Getenv("TAGWATCH_API_BASE_URL"); baseURL != "" {
		c.Twitter.BaseURL = baseURL
	}
	if userAgent := os.Getenv("TAGWATCH_USER_AGENT"); userAgent != "" {
		c.Twitter.UserAgent = userAgent
	}

	if count := os.Getenv("TAGWATCH_SEARCH_COUNT"); count != "" {
		var val int
		fmt.Sscanf(count, "%d", &val)
		if val > 0 {
			c.Search.Count = val
		}
	}
	if maxPages := os.Getenv("TAGWATCH_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Search.MaxPages = val
		}
	}
	if delay := os.Getenv("TAGWATCH_PAGE_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d > 0 {
			c.Search.PageDelay = d
		}
	}

	if driver := os.Getenv("TAGWATCH_STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if path := os.Getenv("TAGWATCH_STORE_PATH"); path != "" {
		c.Store.Path = path
	}

	if rpm := os.Getenv("TAGWATCH_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("TAGWATCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".tagwatch.yaml",
		".tagwatch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tagwatch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tagwatch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".tagwatch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".tagwatch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Twitter.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.Twitter.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Search.Count <= 0 {
		errs = append(errs, errors.New("search count must be positive"))
	}
	if c.Search.Count > 100 {
		errs = append(errs, errors.New("search count cannot exceed the API maximum of 100"))
	}
	if c.Search.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if c.Search.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	validResultTypes := map[string]bool{
		"recent": true, "popular": true, "mixed": true,
	}
	if !validResultTypes[strings.ToLower(c.Search.ResultType)] {
		errs = append(errs, errors.New("invalid result type"))
	}

	switch strings.ToLower(c.Store.Driver) {
	case "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store path is required for the sqlite driver"))
		}
	case "memory":
	default:
		errs = append(errs, errors.New("invalid store driver"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["bearer-token"].(string); ok && token != "" {
		c.Twitter.BearerToken = token
	}
	if storePath, ok := flags["store"].(string); ok && storePath != "" {
		c.Store.Path = storePath
	}
	if count, ok := flags["count"].(int); ok && count > 0 {
		c.Search.Count = count
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages > 0 {
		c.Search.MaxPages = maxPages
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tagwatch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
