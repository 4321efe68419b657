package server

import (
	"recipehub/internal/models"
	"recipehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ExperimentPage handles GET /c50afae/. Every request draws a fresh variant;
// the impression write is best effort and never blocks the page.
func (s *Server) ExperimentPage(c *fiber.Ctx) error {
	variant := s.experimentService.DrawVariant()

	impressionID, logged := s.experimentService.LogImpression(
		c.UserContext(), variant, c.Path(), c.IP(), c.Get("User-Agent"))

	payload := fiber.Map{
		"variant": variant,
		"label":   models.VariantLabel(variant),
		"logged":  logged,
	}
	if logged {
		payload["impression_id"] = impressionID
	}

	return c.JSON(payload)
}

// ExperimentClick handles POST /c50afae/click/ from either a form post or a
// JSON body. An unknown variant is a 400; a storage failure still reports ok.
func (s *Server) ExperimentClick(c *fiber.Ctx) error {
	var req struct {
		Variant      string `json:"variant" form:"variant"`
		ImpressionID uint   `json:"impression_id" form:"impression_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		// Only the variant gates the 400. An unparseable impression_id is
		// dropped and the click recorded unlinked.
		var variantOnly struct {
			Variant string `json:"variant" form:"variant"`
		}
		if err := c.BodyParser(&variantOnly); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		req.Variant = variantOnly.Variant
		req.ImpressionID = 0
	}

	err := s.experimentService.LogClick(c.UserContext(), service.ClickInput{
		Variant:      req.Variant,
		ImpressionID: req.ImpressionID,
		Path:         c.Path(),
		IP:           c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// AnalyticsDashboard handles GET /analytics/
func (s *Server) AnalyticsDashboard(c *fiber.Ctx) error {
	stats, err := s.experimentService.Counts(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"experiment": "button-copy",
		"variants":   stats,
	})
}

// AnalyticsData handles GET /analytics/data, the raw counts feed the
// dashboard polls.
func (s *Server) AnalyticsData(c *fiber.Ctx) error {
	stats, err := s.experimentService.Counts(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"variants": stats})
}
