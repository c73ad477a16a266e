// middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"portfolio/models"

	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "user"

// TokenVerifier resolves a bearer token to the account it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.PublicUser, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user for the handlers behind it. Verification errors go to the
// app error handler unchanged.
func RequireAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := v.Verify(c.UserContext(), bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			return err
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user RequireAuth stored on the request.
func CurrentUser(c *fiber.Ctx) (*models.PublicUser, bool) {
	user, ok := c.Locals(userLocalKey).(*models.PublicUser)
	return user, ok && user != nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when the header has another shape.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
