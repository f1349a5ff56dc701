package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers understood by the persistence layer.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMongo    = "mongo"
)

// LLM providers understood by the generation client.
const (
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Persistence
	StoreDriver   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Identity
	JWTSecret  string
	AdminEmail string

	// Generation
	LLMProvider          string
	GeminiAPIKey         string
	GeminiModel          string
	DeepSeekAPIKey       string
	DeepSeekAPIURL       string
	GuestGenerationLimit int

	// Outgoing mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
}

// lookupFunc resolves a setting from its environment variable name.
type lookupFunc func(envKey string) string

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var lookup lookupFunc
	switch env {
	case CI:
		lookup = os.Getenv
	case Development, Test:
		// .env is optional; real environment variables win over it
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		lookup = os.Getenv
	case Production:
		lookup = secretLookup
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg, err := load(lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(lookup lookupFunc) (*Config, error) {
	cfg := &Config{
		ServerPort:     withDefault(lookup("SERVER_PORT"), "8080"),
		ServerHost:     withDefault(lookup("SERVER_HOST"), "0.0.0.0"),
		CORSOrigins:    splitList(withDefault(lookup("CORS_ORIGINS"), "http://localhost:3000")),
		LogLevel:       withDefault(lookup("LOG_LEVEL"), "info"),
		StoreDriver:    strings.ToLower(withDefault(lookup("STORE_DRIVER"), StoreDriverPostgres)),
		DBHost:         withDefault(lookup("DB_HOST"), "localhost"),
		DBPort:         withDefault(lookup("DB_PORT"), "5432"),
		DBUser:         lookup("DB_USER"),
		DBPassword:     lookup("DB_PASSWORD"),
		DBName:         withDefault(lookup("DB_NAME"), "ecochef"),
		DBSSLMode:      withDefault(lookup("DB_SSL_MODE"), "disable"),
		SQLitePath:     withDefault(lookup("SQLITE_PATH"), "ecochef.db"),
		MongoURI:       lookup("MONGO_URI"),
		MongoDatabase:  withDefault(lookup("MONGO_DATABASE"), "ecochef"),
		RedisHost:      withDefault(lookup("REDIS_HOST"), "localhost"),
		RedisPort:      withDefault(lookup("REDIS_PORT"), "6379"),
		RedisPassword:  lookup("REDIS_PASSWORD"),
		RedisURL:       lookup("REDIS_URL"),
		JWTSecret:      lookup("JWT_SECRET"),
		AdminEmail:     strings.ToLower(strings.TrimSpace(lookup("ADMIN_EMAIL"))),
		LLMProvider:    strings.ToLower(withDefault(lookup("LLM_PROVIDER"), ProviderGemini)),
		GeminiAPIKey:   lookup("GEMINI_API_KEY"),
		GeminiModel:    withDefault(lookup("GEMINI_MODEL"), "gemini-2.5-flash"),
		DeepSeekAPIKey: lookup("DEEPSEEK_API_KEY"),
		DeepSeekAPIURL: withDefault(lookup("DEEPSEEK_API_URL"), "https://api.deepseek.com/v1/chat/completions"),
		SMTPHost:       lookup("SMTP_HOST"),
		SMTPUsername:   lookup("SMTP_USERNAME"),
		SMTPPassword:   lookup("SMTP_PASSWORD"),
		EmailFrom:      withDefault(lookup("EMAIL_FROM"), "no-reply@ecochef.app"),
	}

	var err error
	if cfg.RedisDB, err = intSetting(lookup, "REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.GuestGenerationLimit, err = intSetting(lookup, "GUEST_GENERATION_LIMIT", 3); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intSetting(lookup, "SMTP_PORT", 587); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the address the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// secretLookup reads a Docker secret named after the lower-cased variable,
// falling back to the environment.
func secretLookup(envKey string) string {
	if v := readSecret(strings.ToLower(envKey)); v != "" {
		return v
	}
	return os.Getenv(envKey)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func intSetting(lookup lookupFunc, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(lookup(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("must be an integer, got %q", raw)}
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
