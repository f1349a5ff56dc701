package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecochef/ecochef/backend/internal/models"
)

func TestRecipePrompt(t *testing.T) {
	f := newTestPrompts(t)

	t.Run("non-strict asks for missing ingredients", func(t *testing.T) {
		p, err := f.RecipePrompt(GenerationRequest{Ingredients: "chicken, broccoli", CookingTime: CookingTimeQuick})
		require.NoError(t, err)
		assert.Equal(t, PromptRecipes, p.Kind)
		assert.Contains(t, p.User, "Ingredients: chicken, broccoli")
		assert.Contains(t, p.User, "Dietary Restrictions: none")
		assert.Contains(t, p.User, "quick (under 30 minutes)")
		assert.Contains(t, p.User, "identify which ingredients are required")
		assert.NotContains(t, p.User, "MUST ONLY use")
		assert.NotNil(t, p.Schema)
		assert.NotEmpty(t, p.System)
		assert.NotEmpty(t, p.Example)
	})

	t.Run("strict forbids extra ingredients", func(t *testing.T) {
		p, err := f.RecipePrompt(GenerationRequest{Ingredients: "rice", DietaryRestrictions: "vegan", Strict: true})
		require.NoError(t, err)
		assert.Contains(t, p.User, "MUST ONLY use the ingredients")
		assert.Contains(t, p.User, "Dietary Restrictions: vegan")
		assert.Contains(t, p.User, "Cooking Time: any")
		assert.True(t, p.Request.Strict)
	})
}

func TestDietAndSummaryPrompts(t *testing.T) {
	f := newTestPrompts(t)

	p, err := f.DietPrompt(GenerationRequest{Ingredients: "milk, oats", DietaryRestrictions: "vegan"})
	require.NoError(t, err)
	assert.Equal(t, PromptDietCheck, p.Kind)
	assert.Contains(t, p.User, "Dietary Restriction: vegan")
	assert.Contains(t, p.Schema.Required, "isValid")

	p, err = f.SummaryPrompt(&models.Recipe{
		Name:         "Oat Porridge",
		Ingredients:  models.JSONBStringArray{"oats", "milk"},
		Instructions: models.JSONBStringArray{"Simmer.", "Serve."},
	})
	require.NoError(t, err)
	assert.Contains(t, p.User, "Recipe Name: Oat Porridge")
	assert.Contains(t, p.User, "Ingredients: oats, milk")
	assert.Contains(t, p.User, "Instructions: Simmer. Serve.")
}
