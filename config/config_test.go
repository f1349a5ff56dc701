package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "ecochef")
	t.Setenv("JWT_SECRET", "test-secret-test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("GUEST_GENERATION_LIMIT", "5")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret-test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 5, cfg.GuestGenerationLimit)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "host=db.internal port=6543 user=postgres password=postgres dbname=ecochef sslmode=disable", cfg.DSN())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("STORE_DRIVER", "sqlite")
	for _, key := range []string{"SERVER_PORT", "SERVER_HOST", "LLM_PROVIDER", "GEMINI_MODEL", "GUEST_GENERATION_LIMIT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 3, cfg.GuestGenerationLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "ecochef.db", cfg.SQLitePath)
}

func TestLoadConfigRejectsBadInteger(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("GUEST_GENERATION_LIMIT", "three")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GUEST_GENERATION_LIMIT")
}

func TestLoadConfigProductionSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	secrets := map[string]string{
		"store_driver":   "mongo",
		"mongo_uri":      "mongodb://mongo:27017",
		"jwt_secret":     "production-secret-value",
		"gemini_api_key": "key-from-secret",
		"redis_url":      "redis://redis:6379/0",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value+"\n"), 0o600))
	}

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("ADMIN_EMAIL", "Chef@EcoChef.app")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "key-from-secret", cfg.GeminiAPIKey)
	assert.Equal(t, "chef@ecochef.app", cfg.AdminEmail)
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := &Config{
		StoreDriver: StoreDriverPostgres,
		LLMProvider: ProviderDeepSeek,
		JWTSecret:   "short",
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	for _, field := range []string{"DB_USER", "DB_PASSWORD", "JWT_SECRET", "DEEPSEEK_API_KEY", "REDIS_URL"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidateConfigUnknownDriver(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")

	err := ValidateConfig(&Config{StoreDriver: "cassandra", LLMProvider: ProviderGemini})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported driver "cassandra"`)
}
