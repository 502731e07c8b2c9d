package role

import (
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
)

func ListRolesHandler(c *fiber.Ctx) error {
	roles, err := ListRoles()
	if err != nil {
		return response.InternalError(c, "Failed to fetch roles")
	}
	return response.Success(c, roles, "Roles retrieved successfully")
}
