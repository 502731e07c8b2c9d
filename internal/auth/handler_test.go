package auth_test

import (
	"testing"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin, adminToken := testutils.UserWithToken(t, 1, role.Admin)
	_, marketingToken := testutils.UserWithToken(t, 1, role.Marketing)

	t.Run("Success - Admin registers user into own company", func(t *testing.T) {
		body := map[string]interface{}{
			"name":     "Priya Sharma",
			"email":    "Priya@Example.com",
			"password": "password123",
			"role":     "marketing",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", body, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var user models.User
		testutils.DecodeData(t, resp, &user)
		assert.Equal(t, "priya@example.com", user.Email)
		assert.Equal(t, admin.CompanyID, user.CompanyID)
		if assert.NotNil(t, user.Role) {
			assert.Equal(t, role.Marketing, user.Role.Name)
		}
	})

	t.Run("Success - Role defaults to viewer", func(t *testing.T) {
		body := map[string]interface{}{
			"name":     "Ravi",
			"email":    "ravi@example.com",
			"password": "password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", body, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var user models.User
		testutils.DecodeData(t, resp, &user)
		if assert.NotNil(t, user.Role) {
			assert.Equal(t, role.Viewer, user.Role.Name)
		}
	})

	t.Run("Error - Missing required fields", func(t *testing.T) {
		body := map[string]interface{}{
			"email": "test@example.com",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", body, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Error - Duplicate email", func(t *testing.T) {
		body := map[string]interface{}{
			"name":     "Someone Else",
			"email":    "priya@example.com",
			"password": "password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", body, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)

		testutils.AssertError(t, resp, "CONFLICT")
	})

	t.Run("Error - Non-admin cannot register", func(t *testing.T) {
		body := map[string]interface{}{
			"name":     "Intruder",
			"email":    "intruder@example.com",
			"password": "password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", body, marketingToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Error - Anonymous cannot register", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/register", map[string]interface{}{}, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	testutils.CreateTestUser(t, database.DB, 3, "test@example.com", "password123", role.Viewer)

	t.Run("Success - Valid credentials", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "test@example.com",
			"password": "password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)

		if result.Data != nil {
			data := result.Data.(map[string]interface{})
			assert.NotEmpty(t, data["access_token"])
			assert.NotEmpty(t, data["refresh_token"])
			assert.Equal(t, float64(900), data["expires_in"])
		} else {
			t.Fatal("Expected data in response but got nil")
		}
	})

	t.Run("Error - Invalid credentials", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "test@example.com",
			"password": "wrongpassword",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)

		testutils.AssertError(t, resp, "UNAUTHORIZED")
	})

	t.Run("Error - Missing fields", func(t *testing.T) {
		body := map[string]interface{}{
			"email": "test@example.com",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Error - Inactive account", func(t *testing.T) {
		user := testutils.CreateTestUser(t, database.DB, 3, "suspended@example.com", "password123", role.Viewer)
		database.DB.Model(user).Update("status", "suspended")

		body := map[string]interface{}{
			"email":    "suspended@example.com",
			"password": "password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})
}

func TestRefreshAndLogout(t *testing.T) {
	app := testutils.SetupTestApp(t)

	user := testutils.CreateTestUser(t, database.DB, 1, "refresh@example.com", "password123", role.Marketing)

	resp, err := testutils.MakeRequest(app, "POST", "/auth/login", map[string]interface{}{
		"email":    "refresh@example.com",
		"password": "password123",
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var login struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	testutils.DecodeData(t, resp, &login)

	t.Run("Success - Refresh rotates the token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/refresh", map[string]interface{}{
			"user_id":       user.ID,
			"refresh_token": login.RefreshToken,
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var rotated struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		}
		testutils.DecodeData(t, resp, &rotated)
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
		login.RefreshToken = rotated.RefreshToken
	})

	t.Run("Error - Old refresh token is spent", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/refresh", map[string]interface{}{
			"user_id":       user.ID,
			"refresh_token": "not-the-token",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Success - Logout revokes refresh tokens", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/auth/logout", nil, login.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		resp, err = testutils.MakeRequest(app, "POST", "/auth/refresh", map[string]interface{}{
			"user_id":       user.ID,
			"refresh_token": login.RefreshToken,
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestMeHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	user, token := testutils.UserWithToken(t, 5, role.Marketing)

	t.Run("Success - Returns profile with permissions", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/auth/me", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var me models.User
		testutils.DecodeData(t, resp, &me)
		assert.Equal(t, user.ID, me.ID)
		assert.Equal(t, uint(5), me.CompanyID)
		if assert.NotNil(t, me.Role) {
			assert.NotEmpty(t, me.Role.Permissions)
		}
	})

	t.Run("Error - Missing token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/auth/me", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		testutils.AssertError(t, resp, "UNAUTHORIZED")
	})

	t.Run("Error - Invalid token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/auth/me", nil, "garbage")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
		testutils.AssertError(t, resp, "INVALID_TOKEN")
	})
}

func TestGoogleLoginDisabled(t *testing.T) {
	app := testutils.SetupTestApp(t)

	resp, err := testutils.MakeRequest(app, "GET", "/auth/google/login", nil, "")
	assert.NoError(t, err)
	assert.Equal(t, 503, resp.Code)
	testutils.AssertError(t, resp, "OAUTH_DISABLED")
}
