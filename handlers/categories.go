// handlers/categories.go - Category endpoints
package handlers

import (
	"portfolio/services"
	"portfolio/utils"

	"github.com/gofiber/fiber/v2"
)

type categoryHandler struct {
	categories *services.CategoryService
}

// GET /api/categories
func (h *categoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GET /api/categories/:id
func (h *categoryHandler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.categories.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// POST /api/categories
func (h *categoryHandler) Create(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := utils.ParseJSON(c, &in); err != nil {
		return err
	}

	category, err := h.categories.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": category})
}

// PUT /api/categories/:id
func (h *categoryHandler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in services.CategoryInput
	if err := utils.ParseJSON(c, &in); err != nil {
		return err
	}

	category, err := h.categories.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"category": category})
}

// DELETE /api/categories/:id
func (h *categoryHandler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := h.categories.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
