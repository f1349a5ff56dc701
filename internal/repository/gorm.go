package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecochef/ecochef/backend/internal/models"
)

// GormStore implements RecipeStore and UserStore on a relational database.
// PostgreSQL is used in production and SQLite in tests and local runs.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// jsonText returns the SQL expression that exposes a JSON column as text.
func (s *GormStore) jsonText(column string) string {
	if s.db.Dialector.Name() == "postgres" {
		return "LOWER(" + column + "::text)"
	}
	return "LOWER(" + column + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func (s *GormStore) InsertRecipes(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(recipes).Error; err != nil {
		return fmt.Errorf("failed to insert recipes: %w", err)
	}
	return nil
}

func (s *GormStore) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

func (s *GormStore) ListRecipes(ctx context.Context, filters models.RecipeFilters) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if tag := strings.ToLower(strings.TrimSpace(filters.Tag)); tag != "" {
		query = query.Where(s.jsonText("tags")+" LIKE ? ESCAPE '\\'", `%"`+escapeLike(tag)+`"%`)
	}
	if diet := strings.ToLower(strings.TrimSpace(filters.Dietary)); diet != "" {
		query = query.Where("LOWER(dietary_information) LIKE ? ESCAPE '\\'", "%"+escapeLike(diet)+"%")
	}
	if search := strings.ToLower(strings.TrimSpace(filters.Search)); search != "" {
		like := "%" + escapeLike(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR "+s.jsonText("ingredients")+" LIKE ? ESCAPE '\\')", like, like)
	}

	var recipes []models.Recipe
	err := query.
		Order("created_at DESC").
		Limit(pageSize(filters.Limit)).
		Offset(filters.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *GormStore) DeleteRecipe(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Recipe{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		if err := tx.Delete(&models.Feedback{}, "recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe feedback: %w", err)
		}
		if err := tx.Delete(&models.Favorite{}, "recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe favorites: %w", err)
		}
		return nil
	})
}

func (s *GormStore) AddFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	favorite := &models.Favorite{UserID: userID, RecipeID: recipeID}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favorite)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add favorite: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) RemoveFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite ids: %w", err)
	}
	return ids, nil
}

func (s *GormStore) ListFavorites(ctx context.Context, userID string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("recipes.*").
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return recipes, nil
}

func (s *GormStore) InsertFeedback(ctx context.Context, feedback *models.Feedback) error {
	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (s *GormStore) ListFeedback(ctx context.Context, filters models.FeedbackFilters) ([]models.Feedback, error) {
	query := s.db.WithContext(ctx).Model(&models.Feedback{})
	if filters.RecipeID != "" {
		query = query.Where("recipe_id = ?", filters.RecipeID)
	}

	var feedback []models.Feedback
	err := query.
		Order("created_at DESC").
		Limit(pageSize(filters.Limit)).
		Offset(filters.Offset).
		Find(&feedback).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}

func (s *GormStore) RatingSummary(ctx context.Context, recipeID string) (*models.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	return &models.RatingSummary{RecipeID: recipeID, Average: row.Average, Count: row.Count}, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *GormStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *GormStore) findUser(ctx context.Context, cond string, arg string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
