package service

import (
	"strings"

	"github.com/ecochef/ecochef/backend/internal/models"
)

// Decision is the outcome of the confirmation gate for one generation.
type Decision struct {
	RequiresConfirmation bool
	MissingIngredients   []string
}

// MissingIngredientUnion merges the missing ingredients of every candidate.
// Entries are trimmed, blanks dropped and duplicates removed ignoring case;
// the first spelling seen wins and order is preserved.
func MissingIngredientUnion(recipes []models.Recipe) []string {
	seen := make(map[string]struct{})
	union := []string{}
	for _, r := range recipes {
		for _, item := range r.MissingIngredients {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			union = append(union, item)
		}
	}
	return union
}

// Evaluate pauses for confirmation only when the model asked for extra
// ingredients and the request was not already strict.
func Evaluate(req GenerationRequest, recipes []models.Recipe) Decision {
	union := MissingIngredientUnion(recipes)
	return Decision{
		RequiresConfirmation: len(union) > 0 && !req.Strict,
		MissingIngredients:   union,
	}
}

// ApplySelection builds the strict follow-up request from the items the user
// accepted. accepted must be a subset of suggested; matching ignores case.
func ApplySelection(req GenerationRequest, suggested, accepted []string) (GenerationRequest, error) {
	allowed := make(map[string]struct{}, len(suggested))
	for _, s := range suggested {
		allowed[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	parts := []string{}
	if base := strings.TrimSpace(req.Ingredients); base != "" {
		parts = append(parts, base)
	}
	picked := make(map[string]struct{}, len(accepted))
	for _, a := range accepted {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if _, ok := allowed[key]; !ok {
			return req, fieldError("accepted", "contains an ingredient that was not suggested: "+a)
		}
		if _, dup := picked[key]; dup {
			continue
		}
		picked[key] = struct{}{}
		parts = append(parts, a)
	}

	req.Ingredients = strings.Join(parts, ", ")
	req.Strict = true
	return req, nil
}

// sanitizeMissing drops missing ingredients the user already listed, so a
// recipe never asks for something that was supplied.
func sanitizeMissing(req GenerationRequest, recipes []models.Recipe) {
	have := make(map[string]struct{})
	for _, item := range strings.Split(req.Ingredients, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			have[item] = struct{}{}
		}
	}
	for i := range recipes {
		kept := models.JSONBStringArray{}
		for _, m := range recipes[i].MissingIngredients {
			if _, ok := have[strings.ToLower(strings.TrimSpace(m))]; !ok {
				kept = append(kept, m)
			}
		}
		recipes[i].MissingIngredients = kept
	}
}
