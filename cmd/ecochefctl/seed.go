package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/server"
	"github.com/ecochef/ecochef/backend/internal/service"
)

// pantries are the fixed ingredient lists the seed command cooks from.
var pantries = []service.GenerationRequest{
	{Ingredients: "pasta, canned tomatoes, garlic, olive oil, basil", CookingTime: "quick"},
	{Ingredients: "rice, eggs, frozen peas, soy sauce, spring onions", CookingTime: "quick"},
	{Ingredients: "chickpeas, spinach, onion, curry powder, coconut milk", DietaryRestrictions: "vegan", CookingTime: "medium"},
	{Ingredients: "potatoes, leeks, butter, vegetable stock", DietaryRestrictions: "vegetarian", CookingTime: "medium"},
	{Ingredients: "chicken thighs, lemon, rosemary, carrots, potatoes", CookingTime: "long"},
	{Ingredients: "oats, bananas, milk, cinnamon, honey", DietaryRestrictions: "vegetarian", CookingTime: "quick"},
	{Ingredients: "black beans, corn tortillas, avocado, lime, red onion", DietaryRestrictions: "vegan", CookingTime: "quick"},
	{Ingredients: "lentils, carrots, celery, tomato paste, cumin", DietaryRestrictions: "gluten-free", CookingTime: "long"},
}

func newSeedCmd(a *app) *cobra.Command {
	var limit int
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate and store sample recipes from built-in pantry lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stores, err := server.OpenStores(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer stores.Close(ctx)
			if err := stores.Migrate(ctx); err != nil {
				return err
			}

			generator, err := server.NewGenerator(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			prompts, err := service.NewPromptFormatter()
			if err != nil {
				return err
			}

			seeder := &seeder{generator: generator, prompts: prompts, store: stores.Recipes, logger: a.logger}
			saved, err := seeder.run(ctx, selectPantries(limit), delay)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d recipes\n", saved)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "pantries", len(pantries), "number of pantry lists to cook from")
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "pause between generation calls")
	return cmd
}

func selectPantries(limit int) []service.GenerationRequest {
	if limit <= 0 || limit > len(pantries) {
		return pantries
	}
	return pantries[:limit]
}

type seeder struct {
	generator service.RecipeGenerator
	prompts   *service.PromptFormatter
	store     repository.RecipeStore
	logger    *zap.Logger
}

// run generates in strict mode so seeded recipes only use pantry items. A
// failing pantry is logged and skipped.
func (s *seeder) run(ctx context.Context, requests []service.GenerationRequest, delay time.Duration) (int, error) {
	saved := 0
	for i, req := range requests {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return saved, ctx.Err()
			case <-time.After(delay):
			}
		}

		req.Strict = true
		prompt, err := s.prompts.RecipePrompt(req)
		if err != nil {
			return saved, err
		}
		recipes, err := s.generator.GenerateRecipes(ctx, prompt)
		if err != nil {
			s.logger.Warn("generation failed for pantry", zap.String("ingredients", req.Ingredients), zap.Error(err))
			continue
		}

		batch := make([]*models.Recipe, len(recipes))
		for j := range recipes {
			recipes[j].UserID = models.GuestUserID
			recipes[j].MissingIngredients = models.JSONBStringArray{}
			batch[j] = &recipes[j]
		}
		if err := s.store.InsertRecipes(ctx, batch); err != nil {
			return saved, fmt.Errorf("failed to save seeded recipes: %w", err)
		}
		saved += len(batch)
		s.logger.Info("seeded pantry", zap.String("ingredients", req.Ingredients), zap.Int("recipes", len(batch)))
	}
	return saved, nil
}
