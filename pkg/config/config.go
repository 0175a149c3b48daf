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

// Config holds all configuration options for the bot
type Config struct {
	// Remote API settings
	API APIConfig `yaml:"api" json:"api"`

	// Facebook credentials used to authenticate against the API
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Local store settings
	Store StoreConfig `yaml:"store" json:"store"`

	// Bot behaviour
	Bot BotConfig `yaml:"bot" json:"bot"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds the remote API endpoint and the fixed client identity headers
type APIConfig struct {
	BaseURL    string        `yaml:"base_url" json:"base_url"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	AppVersion string        `yaml:"app_version" json:"app_version"`
	Platform   string        `yaml:"platform" json:"platform"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"` // 0 means no timeout
}

// CredentialsConfig holds the Facebook token and id
type CredentialsConfig struct {
	FacebookToken string `yaml:"facebook_token" json:"facebook_token"`
	FacebookID    string `yaml:"facebook_id" json:"facebook_id"`
}

// StoreConfig holds local store configuration
type StoreConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// BotConfig holds bot behaviour settings
type BotConfig struct {
	// HiMessage is sent to new matches; {name} is replaced with the match's name
	HiMessage string `yaml:"hi_message" json:"hi_message"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	OnMatch bool `yaml:"on_match" json:"on_match"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			BaseURL:    "https://api.gotinder.com",
			UserAgent:  "Tinder/4.0.9 (iPhone; iOS 8.1.1; Scale/2.00)",
			AppVersion: "4",
			Platform:   "android",
			Timeout:    0,
		},
		Store: StoreConfig{
			BaseDirectory: filepath.Join(home, "tinderStore"),
		},
		Bot: BotConfig{
			HiMessage: "Hi {name}! How are you?",
		},
		Notifications: NotificationConfig{
			Enabled: true,
			OnMatch: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("TINDERBOT_FACEBOOK_TOKEN"); token != "" {
		c.Credentials.FacebookToken = token
	}
	if id := os.Getenv("TINDERBOT_FACEBOOK_ID"); id != "" {
		c.Credentials.FacebookID = id
	}
	if baseURL := os.Getenv("TINDERBOT_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("TINDERBOT_USER_AGENT"); userAgent != "" {
		c.API.UserAgent = userAgent
	}
	if timeout := os.Getenv("TINDERBOT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid TINDERBOT_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}

	if storeDir := os.Getenv("TINDERBOT_STORE_DIR"); storeDir != "" {
		c.Store.BaseDirectory = storeDir
	}

	if hi := os.Getenv("TINDERBOT_HI_MESSAGE"); hi != "" {
		c.Bot.HiMessage = hi
	}

	if notifEnabled := os.Getenv("TINDERBOT_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	if logLevel := os.Getenv("TINDERBOT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("TINDERBOT_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = FindConfigFile()
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

// FindConfigFile searches for a config file in the standard locations and
// returns the first one that exists, or "".
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".tinderbot.yaml",
		".tinderbot.yml",
		filepath.Join(home, ".config", "tinderbot", "config.yaml"),
		filepath.Join(home, ".config", "tinderbot", "config.yml"),
		filepath.Join(home, ".tinderbot.yaml"),
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

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, errors.New("API base URL must start with http:// or https://"))
	}
	if c.API.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}

	if c.Store.BaseDirectory == "" {
		errs = append(errs, errors.New("store base directory is required"))
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

// HasCredentials reports whether both Facebook credentials are set
func (c *Config) HasCredentials() bool {
	return c.Credentials.FacebookToken != "" && c.Credentials.FacebookID != ""
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

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
	if token, ok := flags["facebook-token"].(string); ok && token != "" {
		c.Credentials.FacebookToken = token
	}
	if id, ok := flags["facebook-id"].(string); ok && id != "" {
		c.Credentials.FacebookID = id
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if storeDir, ok := flags["store-dir"].(string); ok && storeDir != "" {
		c.Store.BaseDirectory = storeDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if enabled, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = enabled
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tinderbot.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	config.Store.BaseDirectory = expandHome(config.Store.BaseDirectory)
	config.Logging.File = expandHome(config.Logging.File)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// expandHome replaces a leading "~/" with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
