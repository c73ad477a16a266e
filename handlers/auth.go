// handlers/auth.go - Account endpoints
package handlers

import (
	"portfolio/middleware"
	"portfolio/services"
	"portfolio/utils"

	"github.com/gofiber/fiber/v2"
)

type authHandler struct {
	auth *services.AuthService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register creates an account
// POST /api/auth/register
func (h *authHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := utils.ParseJSON(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login authenticates a registered user
// POST /api/auth/login
func (h *authHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := utils.ParseJSON(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/auth/me
func (h *authHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	return c.JSON(fiber.Map{"user": user})
}

// PUT /api/auth/password
func (h *authHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req changePasswordRequest
	if err := utils.ParseJSON(c, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.UserContext(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
