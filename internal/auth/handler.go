package auth

import (
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/utils"
	"github.com/Kyz7/landing/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin marketing viewer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	UserID       uint   `json:"user_id" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterHandler lets an admin add a user to their own company.
func RegisterHandler(c *fiber.Ctx) error {
	var body RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	companyID := c.Locals("company_id").(uint)
	u, err := RegisterUser(companyID, validation.SanitizeString(body.Name), body.Email, body.Password, body.Role)
	switch {
	case errors.Is(err, ErrEmailTaken):
		return response.Conflict(c, "Email already registered")
	case errors.Is(err, role.ErrRoleNotFound):
		return response.InternalError(c, "Failed to assign role")
	case err != nil:
		return response.InternalError(c, "Failed to create user")
	}

	return response.Created(c, u, "User registered successfully")
}

func LoginHandler(c *fiber.Ctx) error {
	var body LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	tokens, err := LoginUser(body.Email, body.Password)
	if errors.Is(err, ErrInactiveUser) {
		return response.Forbidden(c, "Account is not active")
	}
	if err != nil {
		return response.Unauthorized(c, "Invalid email or password")
	}

	return response.Success(c, tokens, "Login successful")
}

func RefreshHandler(c *fiber.Ctx) error {
	var body RefreshRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	accessToken, newRefreshToken, err := utils.RefreshTokenPair(body.UserID, body.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}

	var user models.User
	database.DB.Preload("Role").First(&user, body.UserID)

	return response.Success(c, TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    900,
		User:         &user,
	}, "Token refreshed successfully")
}

// LogoutHandler revokes every outstanding refresh token of the caller.
func LogoutHandler(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := utils.RevokeUserTokens(userID); err != nil {
		logger.Log.Error("revoke refresh tokens", zap.Uint("user_id", userID), zap.Error(err))
		return response.InternalError(c, "Failed to log out")
	}
	logger.Log.Info("user logged out", zap.Uint("user_id", userID))

	return response.Success(c, fiber.Map{"user_id": userID}, "Logout successful")
}

func MeHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := database.DB.Preload("Role.Permissions").First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User")
	}
	return response.Success(c, user, "Profile retrieved successfully")
}
