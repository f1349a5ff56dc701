package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Cooking time preferences accepted by the generator.
const (
	CookingTimeAny    = "any"
	CookingTimeQuick  = "quick"
	CookingTimeMedium = "medium"
	CookingTimeLong   = "long"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and converts failures into ValidationErrors.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}

// ValidateGenerationRequest trims the request and checks it field by field.
// It never calls out to the network.
func ValidateGenerationRequest(req GenerationRequest) (GenerationRequest, error) {
	req.Ingredients = strings.TrimSpace(req.Ingredients)
	req.DietaryRestrictions = strings.TrimSpace(req.DietaryRestrictions)
	req.CookingTime = strings.ToLower(strings.TrimSpace(req.CookingTime))

	if err := validateStruct(req); err != nil {
		return req, err
	}
	return req, nil
}

type feedbackInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type signUpInput struct {
	Name     string `json:"name" validate:"min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6,max=72"`
}
