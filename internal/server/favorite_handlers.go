package server

import (
	"recipehub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListFavorites handles GET /favorites
func (s *Server) ListFavorites(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	pagination := parsePagination(c, 20)

	favorites, err := s.favoriteService.ListFavorites(c.Context(), userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"limit":     pagination.Limit,
		"offset":    pagination.Offset,
	})
}

// AddFavorite handles POST /favorites/:recipeId
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	recipeID, err := s.parseID(c, "recipeId")
	if err != nil {
		return nil
	}

	var req struct {
		Notes string `json:"notes" form:"notes"`
	}
	// Body is optional; a bare POST favorites with no notes.
	_ = c.BodyParser(&req)

	favorite, err := s.favoriteService.AddFavorite(c.Context(), userID, recipeID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"favorite": favorite})
}

// RemoveFavorite handles DELETE /favorites/:recipeId
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	recipeID, err := s.parseID(c, "recipeId")
	if err != nil {
		return nil
	}

	if err := s.favoriteService.RemoveFavorite(c.Context(), userID, recipeID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Favorite removed"})
}
