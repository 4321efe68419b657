package service

import (
	"context"
	"errors"

	"recipehub/internal/models"
	"recipehub/internal/repository"

	"gorm.io/gorm"
)

// FavoriteService manages per-user recipe bookmarks.
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	recipeRepo   repository.RecipeRepository
}

// NewFavoriteService creates a favorite service.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, recipeRepo repository.RecipeRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		recipeRepo:   recipeRepo,
	}
}

// AddFavorite bookmarks a recipe for the user. Favoriting twice updates the
// notes instead of failing or duplicating.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, recipeID uint, notes string) (*models.Favorite, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", recipeID)
		}
		return nil, err
	}
	return s.favoriteRepo.Upsert(ctx, userID, recipeID, notes)
}

// RemoveFavorite deletes the user's bookmark for a recipe.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	removed, err := s.favoriteRepo.Remove(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Favorite", recipeID)
	}
	return nil
}

// ListFavorites returns the user's bookmarks, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.Favorite, error) {
	return s.favoriteRepo.ListByUserID(ctx, userID, limit, offset)
}

// IsFavorited reports whether the user has bookmarked the recipe.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, recipeID uint) (bool, error) {
	fav, err := s.favoriteRepo.Get(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}
