package middleware

import (
	"slices"

	"go-transfer/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// RequireRole lets the request through when the user holds any of the roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, r := range claims.Roles {
			if slices.Contains(roles, r) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
