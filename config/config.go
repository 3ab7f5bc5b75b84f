package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"xenory/database"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMongo    = "mongo"
	StoreBackendSheets   = "sheets"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `envconfig:"DISCORD_TOKEN"`

	// OAuth2 configuration for the dashboard login
	OAuthClientID     string `envconfig:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string `envconfig:"OAUTH_CLIENT_SECRET"`
	OAuthCallbackURL  string `envconfig:"OAUTH_CALLBACK_URL"`

	// Web dashboard configuration
	WebEnabled     bool          `envconfig:"WEB_ENABLED" default:"true"`
	Port           int           `envconfig:"PORT" default:"3000"`
	SessionSecret  string        `envconfig:"SESSION_SECRET"`
	SessionMaxAge  time.Duration `envconfig:"SESSION_MAX_AGE" default:"24h"`
	TrustedProxies []string      `envconfig:"TRUSTED_PROXIES"`

	// Config store configuration
	StoreBackend string `envconfig:"STORE_BACKEND" default:"postgres"`

	// Postgres
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	DatabaseName string `envconfig:"DATABASE_NAME"`

	// MongoDB
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"xenory"`

	// Google Sheets
	SheetsSpreadsheetID   string `envconfig:"SHEETS_SPREADSHEET_ID"`
	SheetsCredentialsFile string `envconfig:"SHEETS_CREDENTIALS_FILE"`

	// Keep-alive configuration
	PublicURL         string        `envconfig:"PUBLIC_URL"`
	KeepAliveInterval time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"10m"`

	// Recruitment configuration
	ApplicationCloseDelay time.Duration `envconfig:"APPLICATION_CLOSE_DELAY" default:"5s"`

	// NATS configuration (optional event forwarding)
	NATSServers string `envconfig:"NATS_SERVERS"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// GetPublicURL returns the externally reachable base URL of the service.
// When PUBLIC_URL is unset it is derived from the OAuth callback URL.
func (c *Config) GetPublicURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	if c.OAuthCallbackURL == "" {
		return ""
	}
	base, _, _ := strings.Cut(c.OAuthCallbackURL, "/auth")
	return strings.TrimRight(base, "/")
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from the environment, reading .env first when present
func load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configuration required by the selected features is present
func (c *Config) Validate() error {
	if c.Environment == "test" {
		return nil
	}

	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}

	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		// If DatabaseName is provided, ensure it's not empty
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	case StoreBackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	case StoreBackendSheets:
		if c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the sheets store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.WebEnabled {
		if c.OAuthClientID == "" || c.OAuthClientSecret == "" || c.OAuthCallbackURL == "" {
			return fmt.Errorf("OAUTH_CLIENT_ID, OAUTH_CLIENT_SECRET and OAUTH_CALLBACK_URL are required when the dashboard is enabled")
		}
	}

	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		DiscordToken:          "test-token",
		Environment:           "test",
		StoreBackend:          StoreBackendPostgres,
		Port:                  3000,
		SessionMaxAge:         24 * time.Hour,
		KeepAliveInterval:     10 * time.Minute,
		ApplicationCloseDelay: 5 * time.Second,
		MongoDatabase:         "xenory",
		LogLevel:              "info",
	}
}
