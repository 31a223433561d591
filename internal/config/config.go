package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

// AI providers
const (
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	AI        AIConfig
	Gemini    GeminiConfig
	Azure     AzureConfig
	Assistant AssistantConfig
	Display   DisplayConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	// RequestTimeout bounds each API request; zero means no timeout
	RequestTimeout time.Duration
	AllowOrigins   []string
}

// StoreConfig selects the document store
type StoreConfig struct {
	Backend string
	URL     string
	// Timeout bounds each store call; zero means no timeout
	Timeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL        string
	Table      string
	AuditTable string
	MaxConns   int32
}

// AIConfig holds settings shared by every generative model provider
type AIConfig struct {
	Provider      string
	MaxAttempts   int
	RetryDelay    time.Duration
	RatePerMinute float64
	Burst         int
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	OpenAI  OpenAIConfig
	Storage StorageConfig
}

// OpenAIConfig holds Azure OpenAI configuration
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName string
	AccountKey  string
	Container   string
	ServiceURL  string
}

// AssistantConfig holds chat assistant configuration
type AssistantConfig struct {
	HistorySize int
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	Timezone string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load reads and validates configuration
func Load(envFiles ...string) (*Config, error) {
	cfg, err := Read(envFiles...)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Read loads .env files, an optional config file and environment variables
// without validating the result.
func Read(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("vitals")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.requesttimeout", time.Duration(0))
	v.SetDefault("server.alloworigins", []string{"*"})

	// Store defaults
	v.SetDefault("store.backend", StoreREST)
	v.SetDefault("store.timeout", time.Duration(0))

	// Database defaults
	v.SetDefault("database.table", "vital_signs_documents")
	v.SetDefault("database.audittable", "audit_logs")
	v.SetDefault("database.maxconns", 10)

	// AI defaults
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.maxattempts", 1)
	v.SetDefault("ai.retrydelay", time.Second)
	v.SetDefault("ai.rateperminute", 0)
	v.SetDefault("ai.burst", 1)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("azure.openai.apiversion", "2024-08-01-preview")

	// Azure Storage defaults
	v.SetDefault("azure.storage.container", "vitals-reports")

	// Assistant and display defaults
	v.SetDefault("assistant.historysize", 5)
	v.SetDefault("display.timezone", "Local")

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.requesttimeout", "REQUEST_TIMEOUT")

	// Store
	v.BindEnv("store.backend", "STORE_BACKEND")
	v.BindEnv("store.url", "STORE_URL", "VITALS_STORE_URL")
	v.BindEnv("store.timeout", "STORE_TIMEOUT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.table", "DATABASE_TABLE")

	// AI
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.maxattempts", "AI_MAX_ATTEMPTS")
	v.BindEnv("ai.rateperminute", "AI_RATE_PER_MINUTE")
	v.BindEnv("gemini.apikey", "GEMINI_API_KEY")
	v.BindEnv("gemini.model", "GEMINI_MODEL")
	v.BindEnv("gemini.baseurl", "GEMINI_BASE_URL")

	// Azure OpenAI
	v.BindEnv("azure.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")
	v.BindEnv("azure.openai.apiversion", "AZURE_OPENAI_API_VERSION")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.container", "AZURE_STORAGE_CONTAINER")
	v.BindEnv("azure.storage.serviceurl", "AZURE_STORAGE_SERVICE_URL")

	// Assistant and display
	v.BindEnv("assistant.historysize", "ASSISTANT_HISTORY_SIZE")
	v.BindEnv("display.timezone", "TZ_DISPLAY", "DISPLAY_TIMEZONE")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}

	if err := c.ValidateAI(); err != nil {
		return err
	}

	if c.Assistant.HistorySize < 1 {
		return fmt.Errorf("assistant.historysize must be at least 1")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if (c.Azure.Storage.AccountName == "") != (c.Azure.Storage.AccountKey == "") {
		return fmt.Errorf("azure storage needs both account name and account key")
	}

	return nil
}

// ValidateStore checks the document store settings
func (c *Config) ValidateStore() error {
	switch c.Store.Backend {
	case StoreREST:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the rest backend")
		}
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	return nil
}

// ValidateAI checks the generative model settings
func (c *Config) ValidateAI() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.apikey is required")
		}
	case ProviderAzure:
		if c.Azure.OpenAI.Endpoint == "" {
			return fmt.Errorf("azure.openai.endpoint is required")
		}
		if c.Azure.OpenAI.APIKey == "" {
			return fmt.Errorf("azure.openai.apikey is required")
		}
		if c.Azure.OpenAI.Deployment == "" {
			return fmt.Errorf("azure.openai.deployment is required")
		}
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}

	if c.AI.MaxAttempts < 1 {
		return fmt.Errorf("ai.maxattempts must be at least 1")
	}
	if c.AI.RatePerMinute < 0 {
		return fmt.Errorf("ai.rateperminute must not be negative")
	}
	return nil
}

// ReportsEnabled reports whether blob storage credentials are configured
func (c *Config) ReportsEnabled() bool {
	return c.Azure.Storage.AccountName != "" && c.Azure.Storage.AccountKey != ""
}

// Location resolves the display time zone
func (c *Config) Location() (*time.Location, error) {
	name := c.Display.Timezone
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", name, err)
	}
	return loc, nil
}

const redactedValue = "********"

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redactedValue
}

// Redacted returns a copy with keys and connection passwords masked
func (c *Config) Redacted() Config {
	out := *c
	out.Server.AllowOrigins = append([]string(nil), c.Server.AllowOrigins...)
	out.Gemini.APIKey = redact(c.Gemini.APIKey)
	out.Azure.OpenAI.APIKey = redact(c.Azure.OpenAI.APIKey)
	out.Azure.Storage.AccountKey = redact(c.Azure.Storage.AccountKey)
	if u, err := url.Parse(c.Database.URL); err == nil && c.Database.URL != "" {
		out.Database.URL = u.Redacted()
	} else {
		out.Database.URL = redact(c.Database.URL)
	}
	return out
}
