// handlers/stats.go - Dashboard statistics
package handlers

import (
	"portfolio/services"

	"github.com/gofiber/fiber/v2"
)

type statsHandler struct {
	stats *services.StatsService
}

// GET /api/stats
func (h *statsHandler) Summary(c *fiber.Ctx) error {
	stats, err := h.stats.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"stats": stats})
}
