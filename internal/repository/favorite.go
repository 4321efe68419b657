package repository

import (
	"context"
	"errors"

	"recipehub/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines the interface for favorite data operations
type FavoriteRepository interface {
	Upsert(ctx context.Context, userID, recipeID uint, notes string) (*models.Favorite, error)
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Favorite, error)
	Get(ctx context.Context, userID, recipeID uint) (*models.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Upsert saves a favorite. Favoriting an already-favorited recipe updates
// the notes instead of violating the (user, recipe) unique index.
func (r *favoriteRepository) Upsert(ctx context.Context, userID, recipeID uint, notes string) (*models.Favorite, error) {
	var existing models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		existing.Notes = notes
		if saveErr := r.db.WithContext(ctx).Save(&existing).Error; saveErr != nil {
			return nil, saveErr
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fav := models.Favorite{UserID: userID, RecipeID: recipeID, Notes: notes}
	if createErr := r.db.WithContext(ctx).Create(&fav).Error; createErr != nil {
		if IsUniqueViolation(createErr) {
			// Raced with another request for the same pair; re-read and update.
			if retryErr := r.db.WithContext(ctx).
				Where("user_id = ? AND recipe_id = ?", userID, recipeID).
				First(&fav).Error; retryErr == nil {
				fav.Notes = notes
				if saveErr := r.db.WithContext(ctx).Save(&fav).Error; saveErr != nil {
					return nil, saveErr
				}
				return &fav, nil
			}
		}
		return nil, createErr
	}
	return &fav, nil
}

// Remove deletes the favorite and reports whether a row existed.
func (r *favoriteRepository) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *favoriteRepository) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Favorite, error) {
	var favorites []*models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Recipe.User").
		Preload("Recipe.Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&favorites).Error
	return favorites, err
}

func (r *favoriteRepository) Get(ctx context.Context, userID, recipeID uint) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&fav).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fav, nil
}
