package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	SpreadsheetID   string
	CredentialsPath string
	ListenAddr      string
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment variables.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		CredentialsPath: os.Getenv("SHEETS_CREDENTIALS_PATH"),
		ListenAddr:      listenAddr(os.Getenv("LISTEN_ADDR")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SHEETS_SPREADSHEET_ID is required")
	}
	if c.CredentialsPath == "" {
		return fmt.Errorf("SHEETS_CREDENTIALS_PATH is required")
	}
	return nil
}

// LoadCredentials reads the service account JSON from the configured path.
func (c *Config) LoadCredentials() ([]byte, error) {
	data, err := os.ReadFile(c.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return data, nil
}

// listenAddr defaults the bind address when unset.
func listenAddr(s string) string {
	if s == "" {
		return ":8080"
	}
	return s
}
