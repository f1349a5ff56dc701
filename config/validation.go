package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// check inspects one aspect of a loaded configuration.
type check func(cfg *Config) []ValidationError

var (
	// Environment-specific requirements
	requirements = map[Environment][]check{
		Development: {requireStore, requireLLMKey},
		Test:        {requireStore},
		CI:          {requireStore, requireJWTSecret},
		Production:  {requireStore, requireJWTSecret, requireLLMKey, requireRedis},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string
	for _, c := range append([]check{requireKnownValues}, requirements[env]...) {
		for _, e := range c(cfg) {
			errs = append(errs, e.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

func requireKnownValues(cfg *Config) []ValidationError {
	var errs []ValidationError
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMongo:
	default:
		errs = append(errs, ValidationError{Field: "STORE_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.StoreDriver)})
	}
	switch cfg.LLMProvider {
	case ProviderGemini, ProviderDeepSeek:
	default:
		errs = append(errs, ValidationError{Field: "LLM_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", cfg.LLMProvider)})
	}
	if cfg.GuestGenerationLimit < 0 {
		errs = append(errs, ValidationError{Field: "GUEST_GENERATION_LIMIT", Message: "must not be negative"})
	}
	return errs
}

func requireStore(cfg *Config) []ValidationError {
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		var errs []ValidationError
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{Field: "DB_USER", Message: "is required for the postgres store"})
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "is required for the postgres store"})
		}
		return errs
	case StoreDriverMongo:
		if cfg.MongoURI == "" {
			return []ValidationError{{Field: "MONGO_URI", Message: "is required for the mongo store"}}
		}
	}
	return nil
}

func requireJWTSecret(cfg *Config) []ValidationError {
	if len(cfg.JWTSecret) < 16 {
		return []ValidationError{{Field: "JWT_SECRET", Message: "must be at least 16 characters"}}
	}
	return nil
}

func requireLLMKey(cfg *Config) []ValidationError {
	switch cfg.LLMProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return []ValidationError{{Field: "GEMINI_API_KEY", Message: "is required for the gemini provider"}}
		}
	case ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return []ValidationError{{Field: "DEEPSEEK_API_KEY", Message: "is required for the deepseek provider"}}
		}
	}
	return nil
}

func requireRedis(cfg *Config) []ValidationError {
	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		return []ValidationError{{Field: "REDIS_URL", Message: "REDIS_URL or REDIS_HOST is required"}}
	}
	return nil
}
