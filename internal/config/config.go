package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-2.5-flash"

// Config holds application configuration
type Config struct {
	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`
	Port         string `json:"port"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		GeminiModel: DefaultModel,
		Port:        "8080",
	}
}

// GetConfigPath returns the path to the configuration file
// On Windows: %APPDATA%/CareerPathAgent/config.json
// On Unix: ~/.config/CareerPathAgent/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		// Windows
		configDir = filepath.Join(os.Getenv("APPDATA"), "CareerPathAgent")
	} else {
		// Unix-like systems
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "CareerPathAgent")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path, then applies
// environment variable overrides
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFrom loads configuration from a specific path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default config path
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("gemini_api_key is required (set GEMINI_API_KEY or add it to the config file)")
	}

	if c.GeminiModel == "" {
		return fmt.Errorf("gemini_model is required")
	}

	return nil
}

// applyEnvOverrides lets environment variables take precedence over the
// config file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
}
