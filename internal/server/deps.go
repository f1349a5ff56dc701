package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/config"
	"github.com/ecochef/ecochef/backend/internal/database"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/service"
)

// Stores is the persistence layer selected by STORE_DRIVER.
type Stores struct {
	Recipes repository.RecipeStore
	Users   repository.UserStore

	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Migrate creates tables or indexes for the selected driver.
func (s *Stores) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

func (s *Stores) Close(ctx context.Context) error {
	return s.close(ctx)
}

// OpenStores connects to the configured document or relational store.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.StoreDriver == config.StoreDriverMongo {
		db, err := database.OpenMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		store := repository.NewMongoStore(db)
		return &Stores{
			Recipes: store,
			Users:   store,
			migrate: store.EnsureIndexes,
			close:   db.Client().Disconnect,
		}, nil
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store := repository.NewGormStore(db)
	return &Stores{
		Recipes: store,
		Users:   store,
		migrate: func(ctx context.Context) error {
			return database.RunMigrations(db.WithContext(ctx), logger)
		},
		close: func(context.Context) error {
			return database.Close(db)
		},
	}, nil
}

// NewGenerator builds the generation client for LLM_PROVIDER.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.RecipeGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini, "":
		return service.NewGeminiGenerator(ctx, service.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
	case config.ProviderDeepSeek:
		return service.NewDeepSeekGenerator(service.DeepSeekConfig{
			APIKey: cfg.DeepSeekAPIKey,
			APIURL: cfg.DeepSeekAPIURL,
		}, logger)
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
}
