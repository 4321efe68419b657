// Package service contains the business rules sitting between HTTP handlers
// and repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"recipehub/internal/cache"
	"recipehub/internal/middleware"
	"recipehub/internal/models"
	"recipehub/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// RecipeService owns recipe authoring and retrieval. It holds the *gorm.DB
// in addition to repositories because create/edit must run as one database
// transaction.
type RecipeService struct {
	recipeRepo repository.RecipeRepository
	tagRepo    repository.TagRepository
	db         *gorm.DB
}

// NewRecipeService creates a recipe service.
func NewRecipeService(recipeRepo repository.RecipeRepository, tagRepo repository.TagRepository, db *gorm.DB) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		tagRepo:    tagRepo,
		db:         db,
	}
}

// AuthorRecipeInput carries the loosely structured authoring form: tags as a
// comma-separated string, steps one per line, and ingredients as parallel
// name/amount arrays.
type AuthorRecipeInput struct {
	UserID            uint
	Title             string `validate:"required,max=200"`
	Description       string
	ImageURL          string `validate:"omitempty,url"`
	Ingredients       string
	PrepTime          *int `validate:"omitempty,gte=0"`
	CookTime          *int `validate:"omitempty,gte=0"`
	TagsCSV           string
	StepsText         string
	CuisineTagID      uint
	IngredientNames   []string
	IngredientAmounts []string
}

// UpdateRecipeInput is AuthorRecipeInput plus the target recipe.
type UpdateRecipeInput struct {
	AuthorRecipeInput
	RecipeID uint
}

// ListRecipesInput selects a page of the browse/search listing.
type ListRecipesInput struct {
	Filter repository.RecipeFilter
}

// ListResult pairs a recipe page with the "active filters found nothing"
// signal used for UI messaging.
type ListResult struct {
	Recipes       []*models.Recipe
	FilterWarning bool
}

// DefaultListLimit is the browse listing's page size.
const DefaultListLimit = 20

// ListRecipes runs the search/filter composer. The unfiltered first page at
// the default size is served cache-aside; any active filter, offset, or
// non-default limit bypasses the cache, since the single list key stores
// exactly one page shape.
func (s *RecipeService) ListRecipes(ctx context.Context, in ListRecipesInput) (*ListResult, error) {
	var recipes []*models.Recipe
	var err error

	if !in.Filter.Active() && in.Filter.Offset == 0 && in.Filter.Limit == DefaultListLimit {
		err = cache.Aside(ctx, cache.RecipeListKey, &recipes, cache.ListTTL, func() error {
			var fetchErr error
			recipes, fetchErr = s.recipeRepo.List(ctx, in.Filter)
			return fetchErr
		})
	} else {
		recipes, err = s.recipeRepo.List(ctx, in.Filter)
	}
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Recipes:       recipes,
		FilterWarning: in.Filter.Active() && len(recipes) == 0,
	}, nil
}

// GetRecipe loads one recipe with its author, ordered steps, ingredient rows
// and tags.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, err
	}
	return recipe, nil
}

// GetUserRecipes lists the recipes authored by one user, newest first.
func (s *RecipeService) GetUserRecipes(ctx context.Context, userID uint, limit, offset int) ([]*models.Recipe, error) {
	return s.recipeRepo.GetByUserID(ctx, userID, limit, offset)
}

// CreateRecipe validates the form and materializes the recipe, its tags,
// steps, and ingredient rows in one transaction. Validation failures abort
// before any write.
func (s *RecipeService) CreateRecipe(ctx context.Context, in AuthorRecipeInput) (*models.Recipe, error) {
	if err := s.validateAuthorInput(ctx, &in); err != nil {
		middleware.RecipeWrites.WithLabelValues("create", "rejected").Inc()
		return nil, err
	}

	recipe := &models.Recipe{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Ingredients: in.Ingredients,
		PrepTime:    in.PrepTime,
		CookTime:    in.CookTime,
		UserID:      in.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return s.materializeAssociations(tx, recipe, in)
	})
	if err != nil {
		middleware.RecipeWrites.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	middleware.RecipeWrites.WithLabelValues("create", "ok").Inc()
	cache.InvalidateRecipeList(ctx)
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields and all of its tag, step and
// ingredient associations in one transaction. Only the author may edit;
// the author is never reassigned.
func (s *RecipeService) UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own recipes")
	}

	if err := s.validateAuthorInput(ctx, &in.AuthorRecipeInput); err != nil {
		middleware.RecipeWrites.WithLabelValues("update", "rejected").Inc()
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.Title = in.Title
		recipe.Description = in.Description
		recipe.ImageURL = in.ImageURL
		recipe.Ingredients = in.Ingredients
		recipe.PrepTime = in.PrepTime
		recipe.CookTime = in.CookTime

		if err := tx.Omit("Tags", "Steps", "IngredientItems", "User").Save(recipe).Error; err != nil {
			return err
		}

		// Full replace, not diff/merge: drop every prior association before
		// recreating from the new input. Empty steps input means zero steps.
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Step{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}

		return s.materializeAssociations(tx, recipe, in.AuthorRecipeInput)
	})
	if err != nil {
		middleware.RecipeWrites.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	middleware.RecipeWrites.WithLabelValues("update", "ok").Inc()
	cache.Invalidate(ctx, cache.RecipeKey(recipe.ID))
	cache.InvalidateRecipeList(ctx)
	return s.GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe removes the recipe and its dependent rows after an author check.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own recipes")
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		middleware.RecipeWrites.WithLabelValues("delete", "error").Inc()
		return err
	}

	middleware.RecipeWrites.WithLabelValues("delete", "ok").Inc()
	cache.Invalidate(ctx, cache.RecipeKey(recipeID))
	cache.InvalidateRecipeList(ctx)
	return nil
}

// validateAuthorInput normalizes and checks the form before any write.
func (s *RecipeService) validateAuthorInput(ctx context.Context, in *AuthorRecipeInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.NewValidationError(authorInputMessage(verrs[0]))
		}
		return models.NewValidationError("Invalid recipe input")
	}

	if in.CuisineTagID != 0 {
		tag, err := s.tagRepo.GetByID(ctx, in.CuisineTagID)
		if err != nil {
			return err
		}
		if tag == nil || tag.Category != models.TagCategoryCuisine {
			return models.NewValidationError("Unknown cuisine selection")
		}
	}
	return nil
}

// authorInputMessage turns the first struct validation failure into the
// message the form surfaces.
func authorInputMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "max" {
			return "Recipe title too long (max 200 characters)"
		}
		return "Recipe title cannot be empty"
	case "ImageURL":
		return "Image URL is not a valid URL"
	case "PrepTime":
		return "Prep time cannot be negative"
	case "CookTime":
		return "Cook time cannot be negative"
	}
	return "Invalid recipe input"
}

// materializeAssociations creates the tag links, step rows, and ingredient
// rows for the recipe inside the caller's transaction.
func (s *RecipeService) materializeAssociations(tx *gorm.DB, recipe *models.Recipe, in AuthorRecipeInput) error {
	tags, err := resolveTags(tx, in.CuisineTagID, ParseTagNames(in.TagsCSV))
	if err != nil {
		return err
	}
	if len(tags) > 0 {
		if err := tx.Model(recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
	}

	for idx, line := range ParseSteps(in.StepsText) {
		step := models.Step{
			RecipeID:        recipe.ID,
			StepNumber:      idx + 1,
			InstructionText: line,
		}
		if err := tx.Create(&step).Error; err != nil {
			return err
		}
	}

	for _, item := range ZipIngredients(in.IngredientNames, in.IngredientAmounts) {
		row := models.Ingredient{
			RecipeID: recipe.ID,
			Name:     item.Name,
			Amount:   item.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}

// resolveTags looks up or creates each tag by exact name inside the
// transaction and prepends the cuisine selection. Each tag appears once even
// when the CSV repeats a name or also names the selected cuisine.
func resolveTags(tx *gorm.DB, cuisineTagID uint, names []string) ([]*models.Tag, error) {
	var tags []*models.Tag
	seen := map[uint]struct{}{}

	if cuisineTagID != 0 {
		var cuisine models.Tag
		if err := tx.First(&cuisine, cuisineTagID).Error; err != nil {
			return nil, err
		}
		tags = append(tags, &cuisine)
		seen[cuisine.ID] = struct{}{}
	}

	for _, name := range names {
		tag, err := repository.GetOrCreateTagByName(tx, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ParseTagNames splits a comma-separated tag string: trim whitespace, drop
// empty entries, keep the first occurrence of duplicates.
func ParseTagNames(csv string) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(csv, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ParseSteps splits newline-separated steps: trim each line, drop blanks,
// preserve input order.
func ParseSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		steps = append(steps, line)
	}
	return steps
}

// IngredientItem is one parsed (name, amount) pair.
type IngredientItem struct {
	Name   string
	Amount string
}

// ZipIngredients pairs the parallel name/amount arrays positionally. Entries
// with a blank trimmed name are skipped; a missing amount defaults to "".
func ZipIngredients(names, amounts []string) []IngredientItem {
	var items []IngredientItem
	for i, rawName := range names {
		name := strings.TrimSpace(rawName)
		if name == "" {
			continue
		}
		amount := ""
		if i < len(amounts) {
			amount = strings.TrimSpace(amounts[i])
		}
		items = append(items, IngredientItem{Name: name, Amount: amount})
	}
	return items
}
