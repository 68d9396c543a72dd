package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/internal/resources"
)

type ResourcesHandler struct {
	matcher *resources.Matcher
}

func NewResourcesHandler(matcher *resources.Matcher) *ResourcesHandler {
	return &ResourcesHandler{matcher: matcher}
}

func (h *ResourcesHandler) ListCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"resources": resources.Catalog(),
	})
}

// MatchResources ranks the catalog against the caller's gap skill names.
func (h *ResourcesHandler) MatchResources(c *fiber.Ctx) error {
	var req struct {
		Skills []string `json:"skills"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result := h.matcher.Match(req.Skills)
	if result.Fallback {
		metrics.MatcherFallbacks.WithLabelValues("below_threshold").Inc()
	}
	if result.Default {
		metrics.MatcherFallbacks.WithLabelValues("no_gaps").Inc()
	}

	return c.JSON(result)
}
