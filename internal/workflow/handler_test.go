package workflow_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/testutils"
	"github.com/Kyz7/landing/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWorkflow(t *testing.T) {
	app := testutils.SetupTestApp(t)
	_, token := testutils.UserWithToken(t, 1, role.Marketing)
	_, viewerToken := testutils.UserWithToken(t, 1, role.Viewer)
	_, otherToken := testutils.UserWithToken(t, 2, role.Admin)

	resp, err := testutils.MakeRequest(app, "POST", "/landing-pages", map[string]interface{}{
		"name": "Andaman Islands",
	}, token)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code, resp.Body.String())

	var page struct {
		ID uint `json:"id"`
	}
	testutils.DecodeData(t, resp, &page)
	base := fmt.Sprintf("/landing-pages/%d", page.ID)

	t.Run("Error - Unpublish a draft", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", base+"/unpublish", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
		testutils.AssertError(t, resp, "CONFLICT")
	})

	t.Run("Error - Viewer cannot publish", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", base+"/publish", nil, viewerToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Success - Publish", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", base+"/publish", map[string]interface{}{
			"comment": "Season launch",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code, resp.Body.String())

		var published struct {
			Status      string  `json:"status"`
			PublishedAt *string `json:"published_at"`
		}
		testutils.DecodeData(t, resp, &published)
		assert.Equal(t, "published", published.Status)
		assert.NotNil(t, published.PublishedAt)
	})

	t.Run("Error - Publish twice", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", base+"/publish", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
	})

	t.Run("Error - Another company", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", base+"/unpublish", nil, otherToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", base+"/history", nil, otherToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Success - Unpublish", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", base+"/unpublish", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Success - History newest first", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", base+"/history", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var history []struct {
			Action     string `json:"action"`
			FromStatus string `json:"from_status"`
			ToStatus   string `json:"to_status"`
			Comment    string `json:"comment"`
		}
		testutils.DecodeData(t, resp, &history)
		require.Len(t, history, 2)
		assert.Equal(t, "unpublish", history[0].Action)
		assert.Equal(t, "published", history[0].FromStatus)
		assert.Equal(t, "draft", history[0].ToStatus)
		assert.Equal(t, "publish", history[1].Action)
		assert.Equal(t, "Season launch", history[1].Comment)
	})

	t.Run("Error - Invalid id", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/landing-pages/0/publish", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})
}

func TestChangeStatus(t *testing.T) {
	testutils.SetupTestApp(t)
	user, _ := testutils.UserWithToken(t, 1, role.Marketing)

	page := models.LandingPage{CompanyID: 1, Name: "Ooty", Title: "Ooty", URLSlug: "ooty", Status: models.StatusDraft, Version: 1, CreatedBy: user.ID}
	require.NoError(t, database.DB.Create(&page).Error)

	t.Run("Error - Unknown action", func(t *testing.T) {
		_, err := workflow.ChangeStatus(context.Background(), page.ID, 1, 1, "archive", "")
		assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	})

	t.Run("Error - Missing page", func(t *testing.T) {
		_, err := workflow.Publish(context.Background(), 9999, 1, 1, "")
		assert.ErrorIs(t, err, workflow.ErrPageNotFound)
	})

	t.Run("Success - Publish records history", func(t *testing.T) {
		published, err := workflow.Publish(context.Background(), page.ID, 1, user.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, published.Status)
		assert.NotNil(t, published.PublishedAt)

		history, err := workflow.History(page.ID, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, user.ID, history[0].ChangedBy)
		assert.Equal(t, 1, history[0].Version)
	})
}
