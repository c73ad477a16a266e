// utils/http.go - Request parsing helpers for Fiber handlers
package utils

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	ErrInvalidID   = fiber.NewError(fiber.StatusBadRequest, "Invalid id")
)

// ParseJSON decodes the JSON request body into v with the app's decoder.
// Content-Type is not checked.
func ParseJSON(c *fiber.Ctx, v interface{}) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return ErrInvalidBody
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, key string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(key), 10, 32)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

// QueryInt reads an integer query parameter, returning def when it is absent.
func QueryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
	}
	return n, nil
}

// QueryID reads an optional positive id from the query string.
func QueryID(c *fiber.Ctx, key string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
	}
	id := uint(n)
	return &id, nil
}
