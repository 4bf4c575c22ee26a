package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Defaults applied when the optional variables are unset.
const (
	DefaultAPIVersion = "v60.0"
	DefaultTokenURL   = "https://login.salesforce.com/services/oauth2/token"
	DefaultTimeout    = 30 * time.Second
)

// Config holds the Salesforce connected-app credentials and endpoint
// settings. Loaded once at startup and never mutated afterwards.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	InstanceURL  string
	APIVersion   string
	TokenURL     string
	HTTPTimeout  time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present but never required.
//
// Required: SALESFORCE_CLIENT_ID, SALESFORCE_CLIENT_SECRET,
// SALESFORCE_REFRESH_TOKEN, SALESFORCE_INSTANCE_URL.
// Optional: SALESFORCE_API_VERSION, SALESFORCE_TOKEN_URL.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:     os.Getenv("SALESFORCE_CLIENT_ID"),
		ClientSecret: os.Getenv("SALESFORCE_CLIENT_SECRET"),
		RefreshToken: os.Getenv("SALESFORCE_REFRESH_TOKEN"),
		InstanceURL:  strings.TrimRight(os.Getenv("SALESFORCE_INSTANCE_URL"), "/"),
		APIVersion:   os.Getenv("SALESFORCE_API_VERSION"),
		TokenURL:     os.Getenv("SALESFORCE_TOKEN_URL"),
		HTTPTimeout:  DefaultTimeout,
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required field is present.
func (c *Config) Validate() error {
	missing := make([]string, 0, 4)
	if c.ClientID == "" {
		missing = append(missing, "SALESFORCE_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "SALESFORCE_CLIENT_SECRET")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "SALESFORCE_REFRESH_TOKEN")
	}
	if c.InstanceURL == "" {
		missing = append(missing, "SALESFORCE_INSTANCE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Redacted returns a form of the config safe for logging. Secrets are
// masked down to a short prefix.
func (c *Config) Redacted() map[string]string {
	return map[string]string{
		"client_id":     mask(c.ClientID),
		"client_secret": mask(c.ClientSecret),
		"refresh_token": mask(c.RefreshToken),
		"instance_url":  c.InstanceURL,
		"api_version":   c.APIVersion,
		"token_url":     c.TokenURL,
	}
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
