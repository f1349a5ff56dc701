package service

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"google.golang.org/genai"
	"gopkg.in/yaml.v3"

	"github.com/ecochef/ecochef/backend/internal/models"
)

//go:embed prompts.yaml
var promptsYAML []byte

type PromptKind string

const (
	PromptRecipes   PromptKind = "recipes"
	PromptDietCheck PromptKind = "diet_check"
	PromptSummary   PromptKind = "summary"
)

// Prompt is a fully rendered request for the generation client. Schema
// drives structured output on providers that support it; Example is the
// same shape as literal JSON for those that do not.
type Prompt struct {
	Kind    PromptKind
	System  string
	User    string
	Schema  *genai.Schema
	Example string
	Request GenerationRequest
}

type promptDef struct {
	System  string `yaml:"system"`
	User    string `yaml:"user"`
	Example string `yaml:"example"`
}

type compiledPrompt struct {
	def promptDef
	user *template.Template
}

// PromptFormatter renders requests into the fixed prompt templates.
type PromptFormatter struct {
	prompts map[PromptKind]compiledPrompt
}

var cookingTimeLabels = map[string]string{
	"":                "any",
	CookingTimeAny:    "any",
	CookingTimeQuick:  "quick (under 30 minutes)",
	CookingTimeMedium: "medium (30-60 minutes)",
	CookingTimeLong:   "long (over 60 minutes)",
}

func NewPromptFormatter() (*PromptFormatter, error) {
	var defs map[PromptKind]promptDef
	if err := yaml.Unmarshal(promptsYAML, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}

	f := &PromptFormatter{prompts: make(map[PromptKind]compiledPrompt, len(defs))}
	for _, kind := range []PromptKind{PromptRecipes, PromptDietCheck, PromptSummary} {
		def, ok := defs[kind]
		if !ok {
			return nil, fmt.Errorf("prompt template %q is missing", kind)
		}
		tmpl, err := template.New(string(kind)).
			Funcs(template.FuncMap{"join": strings.Join}).
			Option("missingkey=error").
			Parse(def.User)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", kind, err)
		}
		f.prompts[kind] = compiledPrompt{def: def, user: tmpl}
	}
	return f, nil
}

func (f *PromptFormatter) render(kind PromptKind, data interface{}) (Prompt, error) {
	p := f.prompts[kind]
	var b strings.Builder
	if err := p.user.Execute(&b, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to render %s prompt: %w", kind, err)
	}
	return Prompt{
		Kind:    kind,
		System:  strings.TrimSpace(p.def.System),
		User:    strings.TrimSpace(b.String()),
		Example: strings.TrimSpace(p.def.Example),
	}, nil
}

type requestView struct {
	Ingredients         string
	DietaryRestrictions string
	CookingTime         string
	Strict              bool
}

func viewOf(req GenerationRequest) requestView {
	diet := req.DietaryRestrictions
	if diet == "" {
		diet = "none"
	}
	label, ok := cookingTimeLabels[req.CookingTime]
	if !ok {
		label = req.CookingTime
	}
	return requestView{
		Ingredients:         req.Ingredients,
		DietaryRestrictions: diet,
		CookingTime:         label,
		Strict:              req.Strict,
	}
}

// RecipePrompt renders the three-recipe generation prompt. Strict requests
// forbid ingredients outside the user's list.
func (f *PromptFormatter) RecipePrompt(req GenerationRequest) (Prompt, error) {
	p, err := f.render(PromptRecipes, viewOf(req))
	if err != nil {
		return Prompt{}, err
	}
	p.Schema = recipeListSchema
	p.Request = req
	return p, nil
}

func (f *PromptFormatter) DietPrompt(req GenerationRequest) (Prompt, error) {
	p, err := f.render(PromptDietCheck, viewOf(req))
	if err != nil {
		return Prompt{}, err
	}
	p.Schema = dietCheckSchema
	p.Request = req
	return p, nil
}

func (f *PromptFormatter) SummaryPrompt(recipe *models.Recipe) (Prompt, error) {
	p, err := f.render(PromptSummary, struct {
		Name         string
		Ingredients  []string
		Instructions []string
	}{recipe.Name, recipe.Ingredients, recipe.Instructions})
	if err != nil {
		return Prompt{}, err
	}
	p.Schema = summarySchema
	return p, nil
}

var stringList = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}

var recipeListSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recipes": {
			Type:        genai.TypeArray,
			Description: "A list of 3 generated recipes.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"recipeName":         {Type: genai.TypeString, Description: "The name of the generated recipe."},
					"ingredients":        stringList,
					"missingIngredients": stringList,
					"instructions":       stringList,
					"cookingTime":        {Type: genai.TypeString, Description: "The estimated cooking time for the recipe."},
					"dietaryInformation": {Type: genai.TypeString},
					"tags":               stringList,
				},
				Required: []string{"recipeName", "ingredients", "missingIngredients", "instructions", "cookingTime"},
			},
		},
	},
	Required: []string{"recipes"},
}

var dietCheckSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isValid": {Type: genai.TypeBoolean},
		"reason":  {Type: genai.TypeString},
	},
	Required: []string{"isValid"},
}

var summarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {Type: genai.TypeString},
	},
	Required: []string{"summary"},
}
