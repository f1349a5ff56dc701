package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecochef/ecochef/backend/internal/models"
)

func TestNewSQLiteDBIsIsolated(t *testing.T) {
	first := NewSQLiteDB(t)
	second := NewSQLiteDB(t)

	require.NoError(t, first.Create(&models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "x"}).Error)

	var count int64
	require.NoError(t, second.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, first.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDatabaseSetup(t *testing.T) {
	db := SetupTestDatabase(t)
	assert.NotNil(t, db)

	recipe := &models.Recipe{
		Name:         "Lentil Soup",
		Ingredients:  models.JSONBStringArray{"lentils", "carrot"},
		Instructions: models.JSONBStringArray{"Simmer"},
		CookingTime:  "40 minutes",
		UserID:       models.GuestUserID,
	}
	require.NoError(t, db.Create(recipe).Error)
	assert.NotEmpty(t, recipe.ID)
}
