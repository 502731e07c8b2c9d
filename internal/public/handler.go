package public

import (
	"bytes"

	"github.com/Kyz7/landing/internal/enquiry"
	"github.com/Kyz7/landing/internal/landing"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/metrics"
	"github.com/Kyz7/landing/internal/renderer"
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func EnquiryAction(slug string) string {
	return "/landing-page/" + slug + "/enquiries"
}

// PageHandler serves GET /public/landing-pages/:slug.
func PageHandler(c *fiber.Ctx) error {
	page, err := Lookup(c.UserContext(), c.Params("slug"))
	if errors.Is(err, landing.ErrNotFound) {
		return response.NotFound(c, "Landing page")
	}
	if err != nil {
		logger.Log.Error("public page lookup failed", zap.String("slug", c.Params("slug")), zap.Error(err))
		return response.InternalError(c, "Failed to load landing page")
	}

	CountView(c.UserContext(), page.ID)
	metrics.PageViewed("json")
	return response.Success(c, page, "Landing page retrieved successfully")
}

// PageHTMLHandler serves GET /landing-page/:slug.
func PageHTMLHandler(c *fiber.Ctx) error {
	page, err := Lookup(c.UserContext(), c.Params("slug"))
	if errors.Is(err, landing.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		logger.Log.Error("public page lookup failed", zap.String("slug", c.Params("slug")), zap.Error(err))
		return response.InternalError(c, "Failed to load landing page")
	}

	CountView(c.UserContext(), page.ID)
	metrics.PageViewed("html")
	return renderPage(c, fiber.StatusOK, page, renderer.FormState{})
}

// SubmitEnquiryHandler serves POST /public/landing-pages/:slug/enquiries.
func SubmitEnquiryHandler(c *fiber.Ctx) error {
	page, err := Lookup(c.UserContext(), c.Params("slug"))
	if errors.Is(err, landing.ErrNotFound) {
		return response.NotFound(c, "Landing page")
	}
	if err != nil {
		return response.InternalError(c, "Failed to load landing page")
	}

	var in enquiry.Input
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	created, err := enquiry.Submit(c.UserContext(), page.Model(), in, c.IP(), c.Get(fiber.HeaderUserAgent))
	var invalid *enquiry.ValidationError
	if errors.As(err, &invalid) {
		return response.ValidationError(c, invalid.Fields)
	}
	if err != nil {
		logger.Log.Error("enquiry submit failed", zap.Uint("landing_page_id", page.ID), zap.Error(err))
		return response.InternalError(c, "Failed to submit enquiry")
	}

	return response.Created(c, fiber.Map{"id": created.ID}, "Thank you! We will get back to you shortly")
}

// SubmitEnquiryFormHandler serves the HTML form post and re-renders the
// page with the outcome.
func SubmitEnquiryFormHandler(c *fiber.Ctx) error {
	page, err := Lookup(c.UserContext(), c.Params("slug"))
	if errors.Is(err, landing.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return response.InternalError(c, "Failed to load landing page")
	}

	var in enquiry.Input
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid form submission", err.Error())
	}

	var form renderer.FormState
	_, err = enquiry.Submit(c.UserContext(), page.Model(), in, c.IP(), c.Get(fiber.HeaderUserAgent))
	var invalid *enquiry.ValidationError
	switch {
	case errors.As(err, &invalid):
		form.Fail(invalid.Message(), formValues(in))
		return renderPage(c, fiber.StatusUnprocessableEntity, page, form)
	case err != nil:
		logger.Log.Error("enquiry submit failed", zap.Uint("landing_page_id", page.ID), zap.Error(err))
		form.Fail("Something went wrong, please try again", formValues(in))
		return renderPage(c, fiber.StatusInternalServerError, page, form)
	}

	form.Succeed()
	return renderPage(c, fiber.StatusOK, page, form)
}

func formValues(in enquiry.Input) renderer.EnquiryValues {
	return renderer.EnquiryValues{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		City:        in.City,
		Destination: in.Destination,
	}
}

func renderPage(c *fiber.Ctx, status int, page *Page, form renderer.FormState) error {
	var buf bytes.Buffer
	err := renderer.Default().Page(&buf, renderer.PageView{
		Name:            page.Name,
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Slug:            page.URLSlug,
		EnquiryAction:   EnquiryAction(page.URLSlug),
		Blocks:          renderer.RenderPage(renderer.Page{Name: page.Name, Title: page.Title}, page.Document()),
		Form:            form,
	})
	if err != nil {
		logger.Log.Error("page render failed", zap.String("slug", page.URLSlug), zap.Error(err))
		return response.InternalError(c, "Failed to render landing page")
	}
	return response.HTML(c, status, buf.Bytes())
}

func notFound(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := renderer.Default().NotFound(&buf); err != nil {
		return response.NotFound(c, "Landing page")
	}
	return response.HTML(c, fiber.StatusNotFound, buf.Bytes())
}
