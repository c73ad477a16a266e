// handlers/achievements.go - Achievement and image endpoints
package handlers

import (
	"strings"

	"portfolio/services"
	"portfolio/utils"

	"github.com/gofiber/fiber/v2"
)

type achievementHandler struct {
	achievements *services.AchievementService
}

// List supports status, category_id, difficulty, search, limit and offset
// GET /api/achievements
func (h *achievementHandler) List(c *fiber.Ctx) error {
	categoryID, err := utils.QueryID(c, "category_id")
	if err != nil {
		return err
	}
	limit, err := utils.QueryInt(c, "limit", services.DefaultListLimit)
	if err != nil {
		return err
	}
	offset, err := utils.QueryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	achievements, err := h.achievements.List(c.UserContext(), services.AchievementFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		CategoryID: categoryID,
		Difficulty: strings.TrimSpace(c.Query("difficulty")),
		Search:     c.Query("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievements": achievements})
}

// GET /api/achievements/:id
func (h *achievementHandler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.achievements.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// POST /api/achievements
func (h *achievementHandler) Create(c *fiber.Ctx) error {
	var in services.AchievementInput
	if err := utils.ParseJSON(c, &in); err != nil {
		return err
	}

	achievement, err := h.achievements.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"achievement": achievement})
}

// PUT /api/achievements/:id
func (h *achievementHandler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in services.AchievementInput
	if err := utils.ParseJSON(c, &in); err != nil {
		return err
	}

	achievement, err := h.achievements.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievement": achievement})
}

// DELETE /api/achievements/:id
func (h *achievementHandler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := h.achievements.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Achievement deleted"})
}

// UploadImage expects a multipart form with an "image" file field
// POST /api/achievements/:id/image
func (h *achievementHandler) UploadImage(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	header, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Image file is required")
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	achievement, err := h.achievements.SetImage(c.UserContext(), id, services.ImageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievement": achievement})
}

// DELETE /api/achievements/:id/image
func (h *achievementHandler) RemoveImage(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	achievement, err := h.achievements.RemoveImage(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievement": achievement})
}
