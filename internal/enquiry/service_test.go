package enquiry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/enquiry"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("Success - Phone alone is enough", func(t *testing.T) {
		assert.NoError(t, enquiry.Validate(enquiry.Input{Name: "Asha", Phone: "98160 00000"}))
	})

	t.Run("Error - Name and contact missing", func(t *testing.T) {
		err := enquiry.Validate(enquiry.Input{})
		var invalid *enquiry.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "is required", invalid.Fields["name"])
		assert.Equal(t, "Email or phone is required", invalid.Fields["contact"])
		assert.Equal(t, "Name is required", invalid.Message())
	})

	t.Run("Error - Bad email", func(t *testing.T) {
		err := enquiry.Validate(enquiry.Input{Name: "Asha", Email: "asha"})
		var invalid *enquiry.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Email must be a valid email address", invalid.Message())
	})

	t.Run("Error - Contact only", func(t *testing.T) {
		err := enquiry.Validate(enquiry.Input{Name: "Asha"})
		var invalid *enquiry.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Email or phone is required", invalid.Message())
	})
}

func TestNormalize(t *testing.T) {
	in := enquiry.Normalize(enquiry.Input{
		Name:  "  <b>Asha</b> ",
		Email: " Asha@Example.COM ",
		City:  "<script>alert(1)</script>Delhi",
	})
	assert.Equal(t, "Asha", in.Name)
	assert.Equal(t, "asha@example.com", in.Email)
	assert.Equal(t, "Delhi", in.City)

	in = enquiry.Normalize(enquiry.Input{
		Name:        "Tom & Jerry",
		Email:       "o'neil@example.com",
		Destination: "Andaman & Nicobar",
	})
	assert.Equal(t, "Tom & Jerry", in.Name)
	assert.Equal(t, "o'neil@example.com", in.Email)
	assert.Equal(t, "Andaman & Nicobar", in.Destination)
	assert.NoError(t, enquiry.Validate(in))
}

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, enquiry.ConversionRate(3, 0))
	assert.InDelta(t, 50.0, enquiry.ConversionRate(1, 2), 0.0001)
	assert.InDelta(t, 33.3333, enquiry.ConversionRate(1, 3), 0.001)
}

func TestSubmit(t *testing.T) {
	database.DB = testutils.TestDB(t)

	page := models.LandingPage{CompanyID: 4, Name: "Coorg", Title: "Coorg", URLSlug: "coorg", Status: models.StatusPublished, Version: 1, Views: 10}
	require.NoError(t, database.DB.Create(&page).Error)

	t.Run("Success - Stored with counters", func(t *testing.T) {
		stored, err := enquiry.Submit(context.Background(), &page, enquiry.Input{
			Name:  "Ravi",
			Phone: "+91 90000 00000",
		}, "10.0.0.1", strings.Repeat("a", 600))
		require.NoError(t, err)
		assert.Equal(t, uint(4), stored.CompanyID)
		assert.Len(t, stored.UserAgent, 500)
		assert.Equal(t, int64(1), page.Conversions)
		assert.InDelta(t, 10.0, page.ConversionRate, 0.0001)

		var reloaded models.LandingPage
		require.NoError(t, database.DB.First(&reloaded, page.ID).Error)
		assert.InDelta(t, 10.0, reloaded.ConversionRate, 0.0001)
	})

	t.Run("Error - Invalid input is not stored", func(t *testing.T) {
		_, err := enquiry.Submit(context.Background(), &page, enquiry.Input{Name: "Ravi"}, "", "")
		assert.Error(t, err)

		enquiries, total, err := enquiry.ListForPage(4, page.ID, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, enquiries, 1)
	})

	t.Run("Success - Other company sees nothing", func(t *testing.T) {
		_, total, err := enquiry.ListForPage(5, page.ID, 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
