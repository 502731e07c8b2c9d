package auth

import (
	"strings"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/Kyz7/landing/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// JWTProtected checks the bearer token and stores user_id, company_id and
// role in the request locals.
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_TOKEN_FORMAT", "Invalid token format", nil)
		}

		claims, err := utils.ParseJWT(tokenParts[1])
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", nil)
		}
		userID, err := claims.UserID()
		if err != nil || userID == 0 {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", nil)
		}

		c.Locals("user_id", userID)
		c.Locals("company_id", claims.CompanyID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

func RoleProtected(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		var u models.User
		if err := database.DB.Preload("Role").First(&u, userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}
		if u.Role == nil {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		for _, role := range allowedRoles {
			if u.Role.Name == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}
