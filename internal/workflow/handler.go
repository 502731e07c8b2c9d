package workflow

import (
	"context"

	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type StatusRequest struct {
	Comment string `json:"comment"`
}

func PublishHandler(c *fiber.Ctx) error {
	return changeStatusHandler(c, Publish, "Landing page published successfully")
}

func UnpublishHandler(c *fiber.Ctx) error {
	return changeStatusHandler(c, Unpublish, "Landing page unpublished successfully")
}

type statusChange func(ctx context.Context, pageID, companyID, userID uint, comment string) (*models.LandingPage, error)

func changeStatusHandler(c *fiber.Ctx, change statusChange, message string) error {
	pageID, err := c.ParamsInt("id")
	if err != nil || pageID <= 0 {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}

	userID := c.Locals("user_id").(uint)
	companyID := c.Locals("company_id").(uint)

	var body StatusRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return response.BadRequest(c, "Invalid request body", err.Error())
		}
	}

	page, err := change(c.UserContext(), uint(pageID), companyID, userID, body.Comment)
	switch {
	case errors.Is(err, ErrPageNotFound):
		return response.NotFound(c, "Landing page")
	case errors.Is(err, ErrInvalidTransition):
		return response.Conflict(c, err.Error())
	case err != nil:
		return response.InternalError(c, "Failed to change landing page status")
	}

	return response.Success(c, page, message)
}

func HistoryHandler(c *fiber.Ctx) error {
	pageID, err := c.ParamsInt("id")
	if err != nil || pageID <= 0 {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID := c.Locals("company_id").(uint)

	history, err := History(uint(pageID), companyID)
	if errors.Is(err, ErrPageNotFound) {
		return response.NotFound(c, "Landing page")
	}
	if err != nil {
		return response.InternalError(c, "Failed to fetch landing page history")
	}

	return response.Success(c, history, "Landing page history retrieved successfully")
}
