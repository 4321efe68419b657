package server

import (
	"strconv"
	"strings"

	"recipehub/internal/models"
	"recipehub/internal/repository"
	"recipehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// recipeRequest is the shared authoring payload: tags arrive as one
// comma-separated string, steps one per line, ingredients as parallel arrays.
type recipeRequest struct {
	Title             string   `json:"title" form:"title"`
	Description       string   `json:"description" form:"description"`
	ImageURL          string   `json:"image_url" form:"image_url"`
	Ingredients       string   `json:"ingredients" form:"ingredients"`
	PrepTime          *int     `json:"prep_time" form:"prep_time"`
	CookTime          *int     `json:"cook_time" form:"cook_time"`
	TagsCSV           string   `json:"tags_csv" form:"tags_csv"`
	StepsText         string   `json:"steps_text" form:"steps_text"`
	CuisineTagID      uint     `json:"cuisine_tag_id" form:"cuisine_tag_id"`
	IngredientNames   []string `json:"ingredient_names" form:"ingredient_names"`
	IngredientAmounts []string `json:"ingredient_amounts" form:"ingredient_amounts"`
}

func (r recipeRequest) toInput(userID uint) service.AuthorRecipeInput {
	return service.AuthorRecipeInput{
		UserID:            userID,
		Title:             r.Title,
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		Ingredients:       r.Ingredients,
		PrepTime:          r.PrepTime,
		CookTime:          r.CookTime,
		TagsCSV:           r.TagsCSV,
		StepsText:         r.StepsText,
		CuisineTagID:      r.CuisineTagID,
		IngredientNames:   r.IngredientNames,
		IngredientAmounts: r.IngredientAmounts,
	}
}

// ListRecipes handles GET / with optional q, cuisine, dietary (repeatable)
// and max_time query parameters.
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	pagination := parsePagination(c, service.DefaultListLimit)

	// A whitespace-only q is the same as no query: it must not activate the
	// search path or the filter warning.
	filter := repository.RecipeFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}

	if cuisine := c.QueryInt("cuisine", 0); cuisine > 0 {
		filter.CuisineTagID = uint(cuisine)
	}

	for _, raw := range c.Context().QueryArgs().PeekMulti("dietary") {
		if id, err := strconv.ParseUint(string(raw), 10, 32); err == nil && id > 0 {
			filter.DietaryTagIDs = append(filter.DietaryTagIDs, uint(id))
		}
	}

	// A non-numeric or non-positive max_time is ignored rather than rejected.
	if raw := c.Query("max_time"); raw != "" {
		if maxTime, err := strconv.Atoi(raw); err == nil && maxTime > 0 {
			filter.MaxTotalTime = &maxTime
		}
	}

	result, err := s.recipeService.ListRecipes(c.Context(), service.ListRecipesInput{Filter: filter})
	if err != nil {
		return respondServiceError(c, err)
	}

	cuisineOptions, err := s.tagRepo.ListByCategory(c.Context(), models.TagCategoryCuisine)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	dietaryOptions, err := s.tagRepo.ListByCategory(c.Context(), models.TagCategoryDietary)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"recipes":         result.Recipes,
		"filter_warning":  result.FilterWarning,
		"cuisine_options": cuisineOptions,
		"dietary_options": dietaryOptions,
		"limit":           pagination.Limit,
		"offset":          pagination.Offset,
	})
}

// GetRecipe handles GET /recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.GetRecipe(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Split tags by category so clients can render cuisine and dietary
	// badges separately from free-form tags.
	var cuisineTags, dietaryTags, otherTags []models.Tag
	for _, tag := range recipe.Tags {
		switch tag.Category {
		case models.TagCategoryCuisine:
			cuisineTags = append(cuisineTags, tag)
		case models.TagCategoryDietary:
			dietaryTags = append(dietaryTags, tag)
		default:
			otherTags = append(otherTags, tag)
		}
	}

	payload := fiber.Map{
		"recipe":       recipe,
		"cuisine_tags": cuisineTags,
		"dietary_tags": dietaryTags,
		"other_tags":   otherTags,
	}
	if total, ok := recipe.TotalTime(); ok {
		payload["total_time"] = total
	}
	if userID, authed := s.optionalUserID(c); authed {
		favorited, favErr := s.favoriteService.IsFavorited(c.Context(), userID, recipe.ID)
		if favErr == nil {
			payload["is_favorited"] = favorited
		}
	}

	return c.JSON(payload)
}

// GetMyRecipes handles GET /recipes/my
func (s *Server) GetMyRecipes(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	pagination := parsePagination(c, service.DefaultListLimit)

	recipes, err := s.recipeService.GetUserRecipes(c.Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"recipes": recipes,
		"limit":   pagination.Limit,
		"offset":  pagination.Offset,
	})
}

// CreateRecipe handles POST /recipes/create
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req recipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.CreateRecipe(c.Context(), req.toInput(userID))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"recipe": recipe})
}

// UpdateRecipe handles POST/PUT /recipes/:id/edit
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req recipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.UpdateRecipe(c.Context(), service.UpdateRecipeInput{
		AuthorRecipeInput: req.toInput(userID),
		RecipeID:          id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"recipe": recipe})
}

// DeleteRecipe handles POST /recipes/:id/delete
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recipeService.DeleteRecipe(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Recipe deleted"})
}
