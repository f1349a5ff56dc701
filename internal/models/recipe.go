package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestUserID owns recipes and feedback created without a signed-in user.
const GuestUserID = "guest"

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONBStringArray source %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a generated or admin-authored recipe. Stored recipes are never
// updated; favorites and feedback only reference them.
type Recipe struct {
	ID                 string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt          time.Time        `gorm:"index" json:"created_at"`
	Name               string           `gorm:"size:255;not null" json:"name"`
	Ingredients        JSONBStringArray `gorm:"type:jsonb;not null" json:"ingredients"`
	MissingIngredients JSONBStringArray `gorm:"type:jsonb" json:"missing_ingredients,omitempty"`
	Instructions       JSONBStringArray `gorm:"type:jsonb;not null" json:"instructions"`
	CookingTime        string           `gorm:"size:100;not null" json:"cooking_time"`
	DietaryInformation string           `gorm:"type:text" json:"dietary_information,omitempty"`
	Tags               JSONBStringArray `gorm:"type:jsonb" json:"tags,omitempty"`
	UserID             string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
}

// BeforeCreate assigns an ID when the caller did not supply one.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RecipeFilters narrows a recipe listing. Zero values mean "no filter".
type RecipeFilters struct {
	UserID  string
	Tag     string
	Dietary string
	Search  string
	Limit   int
	Offset  int
}

// RatingSummary aggregates the feedback left on one recipe.
type RatingSummary struct {
	RecipeID string  `json:"recipe_id"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}
