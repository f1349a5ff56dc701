package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/ecochef/ecochef/backend/internal/models"
)

// MaxCandidates is the number of recipes one generation call yields.
const MaxCandidates = 3

// DietCheck is the verdict of the dietary pre-check.
type DietCheck struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason,omitempty"`
}

// RecipeGenerator talks to a hosted language model.
type RecipeGenerator interface {
	// GenerateRecipes returns between one and MaxCandidates validated recipes.
	GenerateRecipes(ctx context.Context, prompt Prompt) ([]models.Recipe, error)
	ValidateDiet(ctx context.Context, prompt Prompt) (*DietCheck, error)
	Summarize(ctx context.Context, prompt Prompt) (string, error)
}

// completer sends one rendered prompt and returns the raw JSON text.
type completer interface {
	complete(ctx context.Context, prompt Prompt) (string, error)
}

// structuredGenerator decodes provider output into domain values. Providers
// only implement transport.
type structuredGenerator struct {
	completer
	logger *zap.Logger
}

type recipePayload struct {
	RecipeName         string   `json:"recipeName"`
	Ingredients        []string `json:"ingredients"`
	MissingIngredients []string `json:"missingIngredients"`
	Instructions       []string `json:"instructions"`
	CookingTime        string   `json:"cookingTime"`
	DietaryInformation string   `json:"dietaryInformation"`
	Tags               []string `json:"tags"`
}

func (g *structuredGenerator) GenerateRecipes(ctx context.Context, prompt Prompt) ([]models.Recipe, error) {
	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	recipes, err := decodeRecipes(raw)
	if err != nil {
		g.logger.Warn("discarding malformed generation output", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, err
	}
	return recipes, nil
}

func (g *structuredGenerator) ValidateDiet(ctx context.Context, prompt Prompt) (*DietCheck, error) {
	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var check DietCheck
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &check); err != nil {
		return nil, fmt.Errorf("%w: diet check: %v", ErrDataContract, err)
	}
	return &check, nil
}

func (g *structuredGenerator) Summarize(ctx context.Context, prompt Prompt) (string, error) {
	raw, err := g.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return "", fmt.Errorf("%w: summary: %v", ErrDataContract, err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", fmt.Errorf("%w: empty summary", ErrDataContract)
	}
	return strings.TrimSpace(out.Summary), nil
}

// stripCodeFence removes a markdown ```json fence some models wrap around JSON.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeRecipes parses the {recipes: [...]} envelope. Every candidate must be
// complete; extra candidates beyond MaxCandidates are dropped.
func decodeRecipes(raw string) ([]models.Recipe, error) {
	var envelope struct {
		Recipes []recipePayload `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataContract, err)
	}
	if len(envelope.Recipes) == 0 {
		return nil, fmt.Errorf("%w: no recipes returned", ErrDataContract)
	}
	if len(envelope.Recipes) > MaxCandidates {
		envelope.Recipes = envelope.Recipes[:MaxCandidates]
	}

	recipes := make([]models.Recipe, 0, len(envelope.Recipes))
	for i, p := range envelope.Recipes {
		recipe := models.Recipe{
			Name:               strings.TrimSpace(p.RecipeName),
			Ingredients:        cleanList(p.Ingredients),
			MissingIngredients: cleanList(p.MissingIngredients),
			Instructions:       cleanList(p.Instructions),
			CookingTime:        strings.TrimSpace(p.CookingTime),
			DietaryInformation: strings.TrimSpace(p.DietaryInformation),
			Tags:               cleanList(p.Tags),
		}
		if err := checkCandidate(recipe); err != nil {
			return nil, fmt.Errorf("%w: recipe %d: %v", ErrDataContract, i+1, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func checkCandidate(r models.Recipe) error {
	switch {
	case r.Name == "":
		return fmt.Errorf("missing recipeName")
	case len(r.Ingredients) == 0:
		return fmt.Errorf("missing ingredients")
	case len(r.Instructions) == 0:
		return fmt.Errorf("missing instructions")
	case r.CookingTime == "":
		return fmt.Errorf("missing cookingTime")
	}
	return nil
}

func cleanList(items []string) models.JSONBStringArray {
	out := make(models.JSONBStringArray, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GeminiConfig configures the Gemini provider. BaseURL is only set in tests.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type geminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a RecipeGenerator on the Gemini API using
// structured JSON output.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (RecipeGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &structuredGenerator{
		completer: &geminiCompleter{client: client, model: cfg.Model},
		logger:    logger.Named("gemini"),
	}, nil
}

func (g *geminiCompleter) complete(ctx context.Context, prompt Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   prompt.Schema,
		Temperature:      genai.Ptr[float32](0.8),
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.User), config)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from model", ErrDataContract)
	}
	return text, nil
}
