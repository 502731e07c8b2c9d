package middleware

import (
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
)

// PermissionProtected lets the request through when the caller's role holds
// module:action. The user is reloaded so role changes apply at once.
func PermissionProtected(module string, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		user, err := loadUser(userID)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if user.Status != "" && user.Status != "active" {
			return response.Forbidden(c, "Account is not active")
		}
		if user.Role == nil {
			return response.Forbidden(c, "User has no role assigned")
		}

		if !allows(user.Role, module, action) {
			return response.Forbidden(c, "You don't have permission to perform this action")
		}
		return c.Next()
	}
}

func HasPermission(userID uint, module, action string) bool {
	user, err := loadUser(userID)
	if err != nil || user.Role == nil {
		return false
	}
	return allows(user.Role, module, action)
}

func loadUser(userID uint) (*models.User, error) {
	var user models.User
	if err := database.DB.Preload("Role.Permissions").First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func allows(role *models.Role, module, action string) bool {
	for _, perm := range role.Permissions {
		if perm.Module == module && perm.Action == action {
			return true
		}
	}
	return false
}
