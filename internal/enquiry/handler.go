package enquiry

import (
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
)

// ListHandler serves GET /landing-pages/:id/enquiries.
func ListHandler(c *fiber.Ctx) error {
	pageID, err := c.ParamsInt("id")
	if err != nil || pageID <= 0 {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID := c.Locals("company_id").(uint)

	var count int64
	database.DB.Model(&models.LandingPage{}).
		Where("id = ? AND company_id = ?", pageID, companyID).
		Count(&count)
	if count == 0 {
		return response.NotFound(c, "Landing page")
	}

	page, limit, offset := response.Paging(c)
	enquiries, total, err := ListForPage(companyID, uint(pageID), offset, limit)
	if err != nil {
		return response.InternalError(c, "Failed to fetch enquiries")
	}

	return response.SuccessWithMeta(c, enquiries, response.CalculateMeta(page, limit, total), "Enquiries retrieved successfully")
}
