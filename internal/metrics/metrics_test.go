package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Kyz7/landing/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHandlerExposesCounters(t *testing.T) {
	metrics.PageViewed("html")
	metrics.EnquiryReceived(errors.New("invalid"))
	metrics.SectionsSaved(0.01, nil)
	metrics.ImageUploaded("local", nil)

	app := fiber.New()
	app.Get("/metrics", metrics.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `landing_page_views_total{format="html"}`)
	assert.Contains(t, string(body), `landing_enquiries_total{status="error"}`)
	assert.Contains(t, string(body), `landing_media_uploads_total{status="ok",storage="local"}`)
	assert.Contains(t, string(body), "landing_editor_save_duration_seconds")
}
