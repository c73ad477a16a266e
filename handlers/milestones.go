// handlers/milestones.go - Milestone endpoints nested under an achievement
package handlers

import (
	"portfolio/services"
	"portfolio/utils"

	"github.com/gofiber/fiber/v2"
)

func milestoneIDs(c *fiber.Ctx) (uint, uint, error) {
	achievementID, err := utils.ParamID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	milestoneID, err := utils.ParamID(c, "mid")
	if err != nil {
		return 0, 0, err
	}
	return achievementID, milestoneID, nil
}

// POST /api/achievements/:id/milestones
func (h *achievementHandler) AddMilestone(c *fiber.Ctx) error {
	achievementID, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in services.MilestoneInput
	if err := utils.ParseJSON(c, &in); err != nil {
		return err
	}

	milestone, err := h.achievements.AddMilestone(c.UserContext(), achievementID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"milestone": milestone})
}

// PUT /api/achievements/:id/milestones/:mid
func (h *achievementHandler) UpdateMilestone(c *fiber.Ctx) error {
	achievementID, milestoneID, err := milestoneIDs(c)
	if err != nil {
		return err
	}
	var in services.MilestoneInput
	if err := utils.ParseJSON(c, &in); err != nil {
		return err
	}

	milestone, err := h.achievements.UpdateMilestone(c.UserContext(), achievementID, milestoneID, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"milestone": milestone})
}

// PATCH /api/achievements/:id/milestones/:mid/toggle
func (h *achievementHandler) ToggleMilestone(c *fiber.Ctx) error {
	achievementID, milestoneID, err := milestoneIDs(c)
	if err != nil {
		return err
	}

	milestone, err := h.achievements.ToggleMilestone(c.UserContext(), achievementID, milestoneID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"milestone": milestone})
}

// DELETE /api/achievements/:id/milestones/:mid
func (h *achievementHandler) DeleteMilestone(c *fiber.Ctx) error {
	achievementID, milestoneID, err := milestoneIDs(c)
	if err != nil {
		return err
	}

	if err := h.achievements.DeleteMilestone(c.UserContext(), achievementID, milestoneID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Milestone deleted"})
}
