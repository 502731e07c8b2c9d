package landing

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/middleware"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/renderer"
	"github.com/Kyz7/landing/internal/response"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/sections"
	"github.com/Kyz7/landing/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AddSectionRequest struct {
	Type string `json:"type" validate:"required"`
}

type MoveSectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type UpdateItemRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

// EditorState is returned by every structural editor operation.
type EditorState struct {
	Key      string              `json:"key,omitempty"`
	Index    *int                `json:"index,omitempty"`
	Active   string              `json:"active"`
	Version  int                 `json:"version"`
	Sections sections.SectionMap `json:"sections"`
}

func editorState(store *sections.Store) EditorState {
	return EditorState{
		Active:   store.Active(),
		Version:  store.Version(),
		Sections: store.Snapshot(),
	}
}

func pageID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func locals(c *fiber.Ctx) (companyID, userID uint) {
	return c.Locals("company_id").(uint), c.Locals("user_id").(uint)
}

// fail maps service and editor errors onto the response envelope.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, "Landing page")
	case errors.Is(err, ErrSlugTaken):
		return response.Conflict(c, ErrSlugTaken.Error())
	case errors.Is(err, ErrStaleVersion):
		return response.Conflict(c, ErrStaleVersion.Error())
	case errors.Is(err, ErrInvalidSlug):
		return response.ValidationError(c, map[string]string{"url_slug": ErrInvalidSlug.Error()})
	case errors.Is(err, ErrBadTemplate):
		return response.ValidationError(c, map[string]string{
			"template": "must be one of: " + strings.Join(sections.PresetNames(), " "),
		})
	case errors.Is(err, ErrBadSections):
		return response.BadRequest(c, err.Error(), nil)
	case errors.Is(err, sections.ErrUnknownSectionType), errors.Is(err, sections.ErrReservedKey):
		return response.BadRequest(c, err.Error(), nil)
	case errors.Is(err, sections.ErrSectionNotFound):
		return response.NotFound(c, "Section")
	case errors.Is(err, sections.ErrIndexOutOfRange),
		errors.Is(err, sections.ErrNotListSection):
		return response.UnprocessableEntity(c, err.Error())
	}

	logger.Log.Error("landing page operation failed", zap.String("path", c.Path()), zap.Error(err))
	return response.InternalError(c, err.Error())
}

func ListHandler(c *fiber.Ctx) error {
	companyID, _ := locals(c)
	page, limit, offset := response.Paging(c)

	status := c.Query("status")
	if status != "" && status != string(models.StatusDraft) && status != string(models.StatusPublished) {
		return response.BadRequest(c, "status must be draft or published", nil)
	}

	pages, total, err := List(companyID, ListFilter{Status: status, Search: c.Query("search")}, offset, limit)
	if err != nil {
		return response.InternalError(c, "Failed to fetch landing pages")
	}
	return response.SuccessWithMeta(c, pages, response.CalculateMeta(page, limit, total), "Landing pages retrieved successfully")
}

func CreateHandler(c *fiber.Ctx) error {
	companyID, userID := locals(c)

	var body CreateRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	if body.Status == string(models.StatusPublished) &&
		!middleware.HasPermission(userID, role.ModuleLandingPage, "publish") {
		return response.Forbidden(c, "Insufficient permissions to publish")
	}

	page, err := Create(c.UserContext(), companyID, userID, body)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, Detail(page), "Landing page created successfully")
}

func GetHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, _ := locals(c)

	page, err := Get(companyID, id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, Detail(page), "Landing page retrieved successfully")
}

func UpdateHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, userID := locals(c)

	var body UpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	page, err := Update(c.UserContext(), companyID, userID, id, body)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, Detail(page), "Landing page updated successfully")
}

func DeleteHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, _ := locals(c)

	if err := Delete(c.UserContext(), companyID, id); err != nil {
		return fail(c, err)
	}
	return response.NoContent(c)
}

// PreviewHandler renders the page as the public would see it, whatever its
// status.
func PreviewHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, _ := locals(c)

	page, err := Get(companyID, id)
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	err = renderer.Default().Page(&buf, renderer.PageView{
		Name:            page.Name,
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Slug:            page.URLSlug,
		EnquiryAction:   "#",
		Preview:         true,
		Blocks:          renderer.RenderPage(renderer.Page{Name: page.Name, Title: page.Title}, LoadSections(page)),
	})
	if err != nil {
		logger.Log.Error("preview render failed", zap.Uint("landing_page_id", page.ID), zap.Error(err))
		return response.InternalError(c, "Failed to render preview")
	}
	return response.HTML(c, fiber.StatusOK, buf.Bytes())
}

func AddSectionHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, userID := locals(c)

	var body AddSectionRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	var key string
	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		var err error
		key, err = s.AddSection(body.Type)
		return err
	})
	if err != nil {
		return fail(c, err)
	}

	state := editorState(store)
	state.Key = key
	return response.Created(c, state, "Section added successfully")
}

func UpdateSectionHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, userID := locals(c)
	key := c.Params("key")

	var patch map[string]interface{}
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if len(patch) == 0 {
		return response.BadRequest(c, "Request body must contain at least one field", nil)
	}

	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		return s.UpdateSection(key, patch)
	})
	if err != nil {
		return fail(c, err)
	}

	state := editorState(store)
	state.Key = key
	return response.Success(c, state, "Section updated successfully")
}

func RemoveSectionHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, userID := locals(c)
	key := c.Params("key")

	// Removing header, hero or footer leaves the document as it is.
	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		if sections.IsProtectedKey(key) {
			return nil
		}
		if !s.RemoveSection(key) {
			return sections.ErrSectionNotFound
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, editorState(store), "Section removed successfully")
}

func MoveSectionHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, userID := locals(c)
	key := c.Params("key")

	var body MoveSectionRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		if s.Snapshot().IndexOf(key) < 0 {
			return sections.ErrSectionNotFound
		}
		// A move past either end is a no-op and nothing is saved.
		if body.Direction == "down" {
			s.MoveSectionDown(key)
		} else {
			s.MoveSectionUp(key)
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	state := editorState(store)
	state.Key = key
	return response.Success(c, state, "Section moved successfully")
}

func itemIndex(c *fiber.Ctx) (int, bool) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func AddItemHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	companyID, userID := locals(c)
	key := c.Params("key")

	var index int
	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		var err error
		index, err = s.AddItem(key)
		return err
	})
	if err != nil {
		return fail(c, err)
	}

	state := editorState(store)
	state.Key = key
	state.Index = &index
	return response.Created(c, state, "Item added successfully")
}

func UpdateItemHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	index, ok := itemIndex(c)
	if !ok {
		return response.BadRequest(c, "Invalid item index", nil)
	}
	companyID, userID := locals(c)
	key := c.Params("key")

	var body UpdateItemRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validation.Struct(body); err != nil {
		return response.ValidationError(c, validation.FormatErrors(err))
	}

	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		return s.UpdateItem(key, index, body.Field, body.Value)
	})
	if err != nil {
		return fail(c, err)
	}

	state := editorState(store)
	state.Key = key
	state.Index = &index
	return response.Success(c, state, "Item updated successfully")
}

func RemoveItemHandler(c *fiber.Ctx) error {
	id, ok := pageID(c)
	if !ok {
		return response.BadRequest(c, "Invalid landing page ID", nil)
	}
	index, ok := itemIndex(c)
	if !ok {
		return response.BadRequest(c, "Invalid item index", nil)
	}
	companyID, userID := locals(c)
	key := c.Params("key")

	store, err := Edit(c.UserContext(), companyID, userID, id, func(s *sections.Store) error {
		return s.RemoveItem(key, index)
	})
	if err != nil {
		return fail(c, err)
	}

	state := editorState(store)
	state.Key = key
	return response.Success(c, state, "Item removed successfully")
}
