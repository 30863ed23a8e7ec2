package middleware

import (
	"strings"

	"site-lock-system/internal/util"
	apperrors "site-lock-system/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the Bearer token and stores the caller's user id in
// request locals under "userID".
func Auth(tokens *util.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthenticated(c, "missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return unauthenticated(c, "invalid authorization format")
		}

		userID, err := tokens.Validate(tokenParts[1])
		if err != nil {
			return unauthenticated(c, "invalid authorization token")
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx, msg string) error {
	err := apperrors.Unauthenticated(msg)
	return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
		"error": apperrors.Message(err),
	})
}
