package service

import (
	"context"
	"testing"

	"recipehub/internal/models"
	"recipehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFavoriteTest(t *testing.T) (*FavoriteService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Recipe{},
		&models.Step{},
		&models.Ingredient{},
		&models.Favorite{},
	))

	recipeRepo := repository.NewRecipeRepository(db)
	return NewFavoriteService(repository.NewFavoriteRepository(db), recipeRepo), db
}

func TestAddFavoriteUpsertsNotes(t *testing.T) {
	t.Parallel()

	svc, db := setupFavoriteTest(t)
	ctx := context.Background()

	user := &models.User{Username: "bob", Email: "bob@example.com", Password: "pw"}
	require.NoError(t, db.Create(user).Error)
	recipe := &models.Recipe{Title: "Soup", UserID: user.ID}
	require.NoError(t, db.Create(recipe).Error)

	first, err := svc.AddFavorite(ctx, user.ID, recipe.ID, "needs more salt")
	require.NoError(t, err)
	assert.Equal(t, "needs more salt", first.Notes)

	second, err := svc.AddFavorite(ctx, user.ID, recipe.ID, "perfect as is")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-favoriting must not create a second row")
	assert.Equal(t, "perfect as is", second.Notes)

	var count int64
	db.Model(&models.Favorite{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddFavoriteUnknownRecipe(t *testing.T) {
	t.Parallel()

	svc, _ := setupFavoriteTest(t)

	_, err := svc.AddFavorite(context.Background(), 1, 999, "")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestRemoveFavoriteMissing(t *testing.T) {
	t.Parallel()

	svc, _ := setupFavoriteTest(t)

	err := svc.RemoveFavorite(context.Background(), 1, 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestIsFavorited(t *testing.T) {
	t.Parallel()

	svc, db := setupFavoriteTest(t)
	ctx := context.Background()

	user := &models.User{Username: "bob", Email: "bob@example.com", Password: "pw"}
	require.NoError(t, db.Create(user).Error)
	recipe := &models.Recipe{Title: "Soup", UserID: user.ID}
	require.NoError(t, db.Create(recipe).Error)

	got, err := svc.IsFavorited(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = svc.AddFavorite(ctx, user.ID, recipe.ID, "")
	require.NoError(t, err)

	got, err = svc.IsFavorited(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, got)
}
