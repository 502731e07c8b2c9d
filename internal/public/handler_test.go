package public_test

import (
	"fmt"
	"testing"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/landing"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// publishedPage creates and publishes a travel-package page for company 1.
func publishedPage(t *testing.T, app *fiber.App, slug string) uint {
	t.Helper()
	_, token := testutils.UserWithToken(t, 1, role.Marketing)

	resp, err := testutils.MakeRequest(app, "POST", "/landing-pages", map[string]interface{}{
		"name":     "Kashmir Tour Packages",
		"title":    "Kashmir Tours",
		"url_slug": slug,
		"template": "travel-package",
	}, token)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code, resp.Body.String())

	var page struct {
		ID uint `json:"id"`
	}
	testutils.DecodeData(t, resp, &page)

	resp, err = testutils.MakeRequest(app, "POST", fmt.Sprintf("/landing-pages/%d/publish", page.ID), nil, token)
	require.NoError(t, err)
	require.Equal(t, 200, resp.Code, resp.Body.String())
	return page.ID
}

func loadPage(t *testing.T, id uint) models.LandingPage {
	t.Helper()
	var page models.LandingPage
	require.NoError(t, database.DB.First(&page, id).Error)
	return page
}

func TestPublicPageJSON(t *testing.T) {
	app := testutils.SetupTestApp(t)
	id := publishedPage(t, app, "kashmir")

	t.Run("Success - Published page", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/public/landing-pages/kashmir", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var page map[string]interface{}
		testutils.DecodeData(t, resp, &page)
		assert.Equal(t, "Kashmir Tour Packages", page["name"])
		assert.Equal(t, "Kashmir Tours", page["title"])
		assert.Equal(t, "kashmir", page["url_slug"])
		assert.Equal(t, landing.PublicURL("kashmir"), page["url"])
		assert.NotContains(t, page, "id")
		assert.NotContains(t, page, "company_id")

		doc := page["sections"].(map[string]interface{})
		assert.Len(t, doc["sectionOrder"], 7)
		header := doc["header"].(map[string]interface{})
		assert.Equal(t, "We Plan, You Pack", header["slogan"])
	})

	t.Run("Success - Views are counted", func(t *testing.T) {
		before := loadPage(t, id).Views
		_, err := testutils.MakeRequest(app, "GET", "/public/landing-pages/kashmir", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, before+1, loadPage(t, id).Views)
	})

	t.Run("Error - Unknown slug", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/public/landing-pages/nowhere", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		testutils.AssertError(t, resp, "NOT_FOUND")
	})

	t.Run("Error - Draft pages are hidden", func(t *testing.T) {
		_, token := testutils.UserWithToken(t, 1, role.Marketing)
		resp, err := testutils.MakeRequest(app, "POST", fmt.Sprintf("/landing-pages/%d/unpublish", id), nil, token)
		require.NoError(t, err)
		require.Equal(t, 200, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", "/public/landing-pages/kashmir", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestPublicPageHTML(t *testing.T) {
	app := testutils.SetupTestApp(t)
	id := publishedPage(t, app, "kashmir")

	t.Run("Success - Renders the page", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/landing-page/kashmir", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")

		body := resp.Body.String()
		assert.Contains(t, body, "We Plan, You Pack")
		assert.Contains(t, body, "Fill Form &amp; Get Free Quotes")
		assert.Contains(t, body, `action="/landing-page/kashmir/enquiries"`)
		assert.Equal(t, int64(1), loadPage(t, id).Views)
	})

	t.Run("Error - Unknown slug renders not found", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/landing-page/nowhere", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Body.String(), "Page not found")
	})
}

func TestPublicEnquiryJSON(t *testing.T) {
	app := testutils.SetupTestApp(t)
	id := publishedPage(t, app, "kashmir")

	// Four views before any enquiry.
	for i := 0; i < 4; i++ {
		_, err := testutils.MakeRequest(app, "GET", "/public/landing-pages/kashmir", nil, "")
		require.NoError(t, err)
	}

	t.Run("Success - Enquiry stored and conversion counted", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/public/landing-pages/kashmir/enquiries", map[string]interface{}{
			"name":        "Asha <script>x</script>",
			"email":       "ASHA@example.com",
			"city":        "Delhi",
			"destination": "Gulmarg",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code, resp.Body.String())

		var stored models.Enquiry
		require.NoError(t, database.DB.Where("landing_page_id = ?", id).First(&stored).Error)
		assert.Equal(t, "Asha", stored.Name)
		assert.Equal(t, "asha@example.com", stored.Email)
		assert.Equal(t, uint(1), stored.CompanyID)

		page := loadPage(t, id)
		assert.Equal(t, int64(1), page.Conversions)
		assert.InDelta(t, 25.0, page.ConversionRate, 0.0001)
	})

	t.Run("Error - Contact required", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/public/landing-pages/kashmir/enquiries", map[string]interface{}{
			"name": "Asha",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		details := result.Error.Details.(map[string]interface{})
		assert.Equal(t, "Email or phone is required", details["contact"])
	})

	t.Run("Error - Invalid email", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/public/landing-pages/kashmir/enquiries", map[string]interface{}{
			"name":  "Asha",
			"email": "not-an-email",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
		assert.Equal(t, int64(1), loadPage(t, id).Conversions)
	})

	t.Run("Error - Unknown page", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/public/landing-pages/nowhere/enquiries", map[string]interface{}{
			"name":  "Asha",
			"phone": "98160 00000",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Success - Enquiries listed for the page", func(t *testing.T) {
		_, token := testutils.UserWithToken(t, 1, role.Marketing)
		resp, err := testutils.MakeRequest(app, "GET", fmt.Sprintf("/landing-pages/%d/enquiries", id), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 1)
		assert.Equal(t, int64(1), result.Meta.Total)
	})

	t.Run("Error - Enquiries of another company's page", func(t *testing.T) {
		_, token := testutils.UserWithToken(t, 2, role.Admin)
		resp, err := testutils.MakeRequest(app, "GET", fmt.Sprintf("/landing-pages/%d/enquiries", id), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestPublicEnquiryForm(t *testing.T) {
	app := testutils.SetupTestApp(t)
	id := publishedPage(t, app, "kashmir")

	t.Run("Error - Invalid form keeps values", func(t *testing.T) {
		resp, err := testutils.MakeFormRequest(app, "POST", "/landing-page/kashmir/enquiries", map[string]string{
			"name": "Asha",
			"city": "Delhi",
		})
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)

		body := resp.Body.String()
		assert.Contains(t, body, "Email or phone is required")
		assert.Contains(t, body, `value="Asha"`)
		assert.Contains(t, body, `value="Delhi"`)
		assert.Equal(t, int64(0), loadPage(t, id).Conversions)
	})

	t.Run("Success - Valid form shows confirmation", func(t *testing.T) {
		resp, err := testutils.MakeFormRequest(app, "POST", "/landing-page/kashmir/enquiries", map[string]string{
			"name":  "Asha",
			"phone": "+91 98160 00000",
		})
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.Contains(t, resp.Body.String(), "Thank you!")
		assert.NotContains(t, resp.Body.String(), `value="Asha"`)
		assert.Equal(t, int64(1), loadPage(t, id).Conversions)
	})

	t.Run("Error - Unknown page", func(t *testing.T) {
		resp, err := testutils.MakeFormRequest(app, "POST", "/landing-page/nowhere/enquiries", map[string]string{
			"name":  "Asha",
			"phone": "1",
		})
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		assert.Contains(t, resp.Body.String(), "Page not found")
	})
}
