package handler // handler defines the HTTP surface over the domain services

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user id that the JWT
// middleware stored in the echo context.
func getUserID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errors.New("invalid user_id in context")
}
