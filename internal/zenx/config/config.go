package config

import (
	"fmt"

	"github.com/longkey1/zenx/internal/zenx"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "deepseek/deepseek-r1-0528:free"
	DefaultReferer = "https://github.com/longkey1/zenx"
	DefaultTitle   = "ZenxAI"

	// DefaultSystemPrompt is sent ahead of every conversation.
	DefaultSystemPrompt = "You are ZenxAI, a helpful AI assistant. Always respond in English only, regardless of the language the user speaks. Be concise, helpful, and friendly."
)

// Config holds the configuration for the chat client
type Config struct {
	Model           string `toml:"model" mapstructure:"model"` // Format: "vendor/model" (e.g., "openai/gpt-4o")
	BaseURL         string `toml:"base_url" mapstructure:"base_url"`
	Referer         string `toml:"referer" mapstructure:"referer"` // Sent as HTTP-Referer
	Title           string `toml:"title" mapstructure:"title"`     // Sent as X-Title
	SystemPrompt    string `toml:"system_prompt" mapstructure:"system_prompt"`
	CredentialsFile string `toml:"credentials_file" mapstructure:"credentials_file"`
	LogFile         string `toml:"log_file" mapstructure:"log_file"`   // Empty = stderr (or discarded in the TUI)
	LogLevel        string `toml:"log_level" mapstructure:"log_level"` // zerolog level name
}

// GetModel returns the model identifier
func (c *Config) GetModel() string {
	return c.Model
}

// GetBaseURL returns the completion endpoint base URL
func (c *Config) GetBaseURL() string {
	return c.BaseURL
}

// GetReferer returns the origin identifier
func (c *Config) GetReferer() string {
	return c.Referer
}

// GetTitle returns the client-title identifier
func (c *Config) GetTitle() string {
	return c.Title
}

// GetVendor extracts the vendor name from the model identifier
func (c *Config) GetVendor() (string, error) {
	vendor, _, err := zenx.ParseModelID(c.Model)
	return vendor, err
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(credentialsFile string) *Config {
	return &Config{
		Model:           DefaultModel,
		BaseURL:         DefaultBaseURL,
		Referer:         DefaultReferer,
		Title:           DefaultTitle,
		SystemPrompt:    DefaultSystemPrompt,
		CredentialsFile: credentialsFile,
		LogFile:         "",
		LogLevel:        "warn",
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config.resolve()
}

func (c *Config) resolve() (*Config, error) {
	var err error
	if c.BaseURL, err = expandEnvVar(c.BaseURL); err != nil {
		return nil, err
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("base URL is not configured. Set it in config file (base_url) or environment variable (ZENX_BASE_URL)")
	}

	if _, _, err := zenx.ParseModelID(c.Model); err != nil {
		return nil, fmt.Errorf("invalid model in config: %w", err)
	}

	if c.CredentialsFile, err = expandEnvVar(c.CredentialsFile); err != nil {
		return nil, err
	}
	if c.CredentialsFile != "" {
		if c.CredentialsFile, err = ResolvePath(c.CredentialsFile); err != nil {
			return nil, fmt.Errorf("error resolving credentials file path '%s': %w", c.CredentialsFile, err)
		}
	}

	if c.LogFile != "" {
		if c.LogFile, err = ResolvePath(c.LogFile); err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %w", c.LogFile, err)
		}
	}

	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}

	return c, nil
}
