package repository

import (
	"context"

	"recipehub/internal/cache"
	"recipehub/internal/database"
	"recipehub/internal/models"

	"gorm.io/gorm"
)

// RecipeFilter describes one browse/search request. Zero values mean "filter
// not active": empty Query, zero CuisineTagID, empty DietaryTagIDs, nil
// MaxTotalTime.
type RecipeFilter struct {
	Query         string
	CuisineTagID  uint
	DietaryTagIDs []uint
	MaxTotalTime  *int
	Limit         int
	Offset        int
}

// Active reports whether any filter or a non-empty query is set.
func (f RecipeFilter) Active() bool {
	return f.Query != "" || f.CuisineTagID != 0 || len(f.DietaryTagIDs) > 0 || f.MaxTotalTime != nil
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter) ([]*models.Recipe, error)
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error)
	Delete(ctx context.Context, id uint) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// searchRankFloor drops rows whose weighted relevance rounds to noise.
const searchRankFloor = 0.001

// rankedSearchVector is the weighted tsvector over title (A), description
// (B), tag names (C) and step text (C). Tag and step text are folded in via
// scalar subqueries so a recipe matching through several related rows still
// produces exactly one output row.
const rankedSearchVector = `
setweight(to_tsvector('english', coalesce(recipes.title, '')), 'A') ||
setweight(to_tsvector('english', coalesce(recipes.description, '')), 'B') ||
setweight(to_tsvector('english', coalesce((SELECT string_agg(tags.name, ' ') FROM tags JOIN recipe_tags ON recipe_tags.tag_id = tags.id WHERE recipe_tags.recipe_id = recipes.id), '')), 'C') ||
setweight(to_tsvector('english', coalesce((SELECT string_agg(steps.instruction_text, ' ') FROM steps WHERE steps.recipe_id = recipes.id), '')), 'C')`

// List returns the recipes satisfying every active criterion of the filter,
// each exactly once. With a query it orders by relevance (PostgreSQL) or
// recency (fallback); without one, newest first.
func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]*models.Recipe, error) {
	db := r.db.WithContext(ctx).Model(&models.Recipe{})

	ranked := false
	if filter.Query != "" {
		if database.SupportsFullTextSearch(r.db) {
			ranked = true
			rankExpr := "ts_rank(" + rankedSearchVector + ", plainto_tsquery('english', ?))"
			db = db.
				Select("recipes.*, "+rankExpr+" AS search_rank", filter.Query).
				Where(rankExpr+" >= ?", filter.Query, searchRankFloor)
		} else {
			db = applySubstringSearch(db, filter.Query)
		}
	}

	if filter.CuisineTagID != 0 {
		db = db.Where(
			"EXISTS (SELECT 1 FROM recipe_tags WHERE recipe_tags.recipe_id = recipes.id AND recipe_tags.tag_id = ?)",
			filter.CuisineTagID,
		)
	}

	// Dietary filters are conjunctive: every selected tag must be present,
	// so each id contributes its own membership predicate.
	for _, tagID := range filter.DietaryTagIDs {
		db = db.Where(
			"EXISTS (SELECT 1 FROM recipe_tags WHERE recipe_tags.recipe_id = recipes.id AND recipe_tags.tag_id = ?)",
			tagID,
		)
	}

	if filter.MaxTotalTime != nil {
		db = db.Where(
			"(recipes.prep_time IS NOT NULL OR recipes.cook_time IS NOT NULL) AND COALESCE(recipes.prep_time, 0) + COALESCE(recipes.cook_time, 0) <= ?",
			*filter.MaxTotalTime,
		)
	}

	// The id tiebreaker keeps ordering stable when timestamps collide.
	if ranked {
		db = db.Order("search_rank DESC, recipes.created_at DESC, recipes.id DESC")
	} else {
		db = db.Order("recipes.created_at DESC, recipes.id DESC")
	}

	var recipes []*models.Recipe
	err := db.
		Preload("User").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&recipes).Error
	return recipes, err
}

// applySubstringSearch is the engine-agnostic fallback: case-insensitive
// substring match over the same four fields with OR semantics. Tag and step
// matches go through EXISTS so a recipe matching via two steps still appears
// once.
func applySubstringSearch(db *gorm.DB, query string) *gorm.DB {
	like := "%" + query + "%"
	return db.Where(`LOWER(recipes.title) LIKE LOWER(?)
		OR LOWER(recipes.description) LIKE LOWER(?)
		OR EXISTS (SELECT 1 FROM tags JOIN recipe_tags ON recipe_tags.tag_id = tags.id WHERE recipe_tags.recipe_id = recipes.id AND LOWER(tags.name) LIKE LOWER(?))
		OR EXISTS (SELECT 1 FROM steps WHERE steps.recipe_id = recipes.id AND LOWER(steps.instruction_text) LIKE LOWER(?))`,
		like, like, like, like)
}

// GetByID serves the detail read cache-aside under cache.RecipeKey. Misses
// (gorm.ErrRecordNotFound) pass through uncached.
func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := cache.Aside(ctx, cache.RecipeKey(id), &recipe, cache.RecipeTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("User").
			Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
			Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("steps.step_number ASC") }).
			Preload("IngredientItems").
			First(&recipe, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

// Delete removes the recipe and its dependent rows. Deletion is explicit
// rather than FK-cascade so behavior matches across postgres and sqlite.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Step{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}
