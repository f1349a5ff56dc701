package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/repository"
	"github.com/ecochef/ecochef/backend/internal/testhelpers"
)

// stubGenerator is a well-behaved model: strict prompts never produce
// missing ingredients.
type stubGenerator struct {
	mu       sync.Mutex
	prompts  []Prompt
	missing  []string
	diet     *DietCheck
	summary  string
	err      error
	calls    map[PromptKind]int
	generate func(p Prompt) ([]models.Recipe, error)
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{
		diet:    &DietCheck{IsValid: true},
		summary: "A quick and tasty dish.",
		calls:   map[PromptKind]int{},
	}
}

func (g *stubGenerator) record(p Prompt) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, p)
	g.calls[p.Kind]++
}

func (g *stubGenerator) GenerateRecipes(ctx context.Context, p Prompt) ([]models.Recipe, error) {
	g.record(p)
	if g.err != nil {
		return nil, g.err
	}
	if g.generate != nil {
		return g.generate(p)
	}

	var missing models.JSONBStringArray
	if !p.Request.Strict {
		missing = append(missing, g.missing...)
	}
	base := strings.Split(p.Request.Ingredients, ",")
	recipes := make([]models.Recipe, 0, MaxCandidates)
	for i := 1; i <= MaxCandidates; i++ {
		recipes = append(recipes, models.Recipe{
			Name:               fmt.Sprintf("Recipe %d", i),
			Ingredients:        cleanList(base),
			MissingIngredients: missing,
			Instructions:       models.JSONBStringArray{"Prep everything.", "Cook for 15 minutes."},
			CookingTime:        "20 minutes",
			DietaryInformation: "None",
			Tags:               models.JSONBStringArray{"quick", "dinner"},
		})
	}
	return recipes, nil
}

func (g *stubGenerator) ValidateDiet(ctx context.Context, p Prompt) (*DietCheck, error) {
	g.record(p)
	if g.err != nil {
		return nil, g.err
	}
	return g.diet, nil
}

func (g *stubGenerator) Summarize(ctx context.Context, p Prompt) (string, error) {
	g.record(p)
	if g.err != nil {
		return "", g.err
	}
	return g.summary, nil
}

func (g *stubGenerator) lastPrompt() Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompts[len(g.prompts)-1]
}

type memDraftStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: map[string]Draft{}}
}

func (m *memDraftStore) SaveDraft(ctx context.Context, draft *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *memDraftStore) GetDraft(ctx context.Context, id string) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return &d, nil
}

func (m *memDraftStore) DeleteDraft(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(m.drafts, id)
	return nil
}

func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	return repository.NewGormStore(testhelpers.NewSQLiteDB(t))
}

func newTestPrompts(t *testing.T) *PromptFormatter {
	t.Helper()
	f, err := NewPromptFormatter()
	require.NoError(t, err)
	return f
}

func seedRecipe(t *testing.T, store repository.RecipeStore, name string) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		Name:               name,
		Ingredients:        models.JSONBStringArray{"rice", "beans"},
		MissingIngredients: models.JSONBStringArray{},
		Instructions:       models.JSONBStringArray{"Cook the rice.", "Add the beans."},
		CookingTime:        "30 minutes",
		UserID:             models.GuestUserID,
	}
	require.NoError(t, store.InsertRecipes(context.Background(), []*models.Recipe{r}))
	return r
}

var testLogger = zap.NewNop()
