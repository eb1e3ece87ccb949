package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultAPIBaseURL is the production wallet API endpoint used when no
// override is configured.
const DefaultAPIBaseURL = "https://wallet.moongate.app/api/v1"

// Config holds the runtime configuration for the server. All values come
// from the environment; every field has a usable default except the static
// token, which is optional and empty by default.
type Config struct {
	// APIBaseURL is the base URL of the upstream wallet API.
	APIBaseURL string `env:"MOONGATE_API_URL" env-default:"https://wallet.moongate.app/api/v1"`

	// StaticToken is an operator-supplied bearer token. When set it takes
	// priority over any persisted session and the interactive login flow.
	StaticToken string `env:"MOONGATE_AUTH_TOKEN"`

	// CallbackPort is the local port for the sign-in callback server.
	CallbackPort int `env:"MOONGATE_CALLBACK_PORT" env-default:"8787"`

	// SignInURL is the hosted identity-exchange page the local sign-in
	// page hands off to. Provider name and redirect URI are appended.
	SignInURL string `env:"MOONGATE_SIGNIN_URL" env-default:"https://wallet.moongate.app/signin"`

	// SessionDir is the directory holding the persisted session record.
	// Defaults to ~/.config/moongate when empty.
	SessionDir string `env:"MOONGATE_SESSION_DIR"`

	// SessionTTL is the lifetime of a session from creation or refresh.
	SessionTTL time.Duration `env:"MOONGATE_SESSION_TTL" env-default:"168h"`

	// RefreshThreshold is how close to expiry a token must be before a
	// refresh is attempted.
	RefreshThreshold time.Duration `env:"MOONGATE_REFRESH_THRESHOLD" env-default:"1h"`

	// LoginTimeout bounds how long the interactive sign-in flow waits for
	// the browser callback.
	LoginTimeout time.Duration `env:"MOONGATE_LOGIN_TIMEOUT" env-default:"5m"`

	// Debug enables debug-level logging.
	Debug bool `env:"MOONGATE_DEBUG" env-default:"false"`
}

// Load reads configuration from the environment and fills in derived
// defaults. It never reads configuration files.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment configuration: %w", err)
	}

	if cfg.SessionDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.SessionDir = filepath.Join(homeDir, ".config", "moongate")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL must not be empty")
	}
	if c.CallbackPort < 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("invalid callback port: %d", c.CallbackPort)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RefreshThreshold <= 0 || c.RefreshThreshold >= c.SessionTTL {
		return fmt.Errorf("refresh threshold %s must be positive and smaller than the session TTL %s", c.RefreshThreshold, c.SessionTTL)
	}
	if c.LoginTimeout <= 0 {
		return fmt.Errorf("login timeout must be positive, got %s", c.LoginTimeout)
	}
	return nil
}
