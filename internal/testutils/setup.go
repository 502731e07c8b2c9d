package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/Kyz7/landing/internal/cache"
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/server"
	"github.com/Kyz7/landing/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")

	// Every connection to :memory: is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(database.Models()...)
	require.NoError(t, err, "Failed to migrate test database")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SetupTestApp wires a fresh database, seeded roles and local storage in a
// temporary directory into a server.
func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db
	cache.Pages = cache.Disabled()

	require.NoError(t, role.SeedDefaultRoles(db), "Failed to seed roles")

	uploadDir := t.TempDir()
	require.NoError(t, utils.InitLocalStorage(uploadDir), "Failed to initialize storage")
	utils.SetStorageMode(true)

	return server.New(db, server.Options{UploadDir: uploadDir, PublicBaseURL: "https://trips.example.com"})
}

func CreateTestUser(t *testing.T, db *gorm.DB, companyID uint, email, password, roleName string) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	require.NoError(t, err)

	var r models.Role
	if err := db.Where("name = ?", roleName).First(&r).Error; err != nil {
		t.Fatalf("Failed to find role '%s': %v. Make sure roles were seeded.", roleName, err)
	}

	user := &models.User{
		CompanyID: companyID,
		Name:      "Test User",
		Email:     email,
		Password:  hashedPassword,
		Status:    "active",
		RoleID:    r.ID,
	}
	require.NoError(t, db.Create(user).Error, "Failed to create test user")

	db.Preload("Role.Permissions").First(user, user.ID)
	if user.Role == nil {
		t.Fatal("Role not loaded for user")
	}
	return user
}

func GetAuthToken(t *testing.T, user *models.User) string {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	token, err := utils.GenerateJWT(user.ID, user.CompanyID, roleName)
	require.NoError(t, err, "Failed to generate test token")
	return token
}

// UserWithToken creates a user with roleName in companyID and returns it with
// a valid access token.
func UserWithToken(t *testing.T, companyID uint, roleName string) (*models.User, string) {
	email := fmt.Sprintf("%s-%d-%s@example.com", roleName, companyID, utils.RandomString(6))
	user := CreateTestUser(t, database.DB, companyID, strings.ToLower(email), "password123", roleName)
	return user, GetAuthToken(t, user)
}

func record(app *fiber.App, req *http.Request) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	for k, v := range resp.Header {
		for _, val := range v {
			rec.Header().Add(k, val)
		}
	}
	_, _ = io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := newRequest(method, url, bodyReader, token)
	req.Header.Set("Content-Type", "application/json")
	return record(app, req)
}

// MakeFormRequest posts url-encoded fields, the way a browser submits the
// enquiry form.
func MakeFormRequest(app *fiber.App, method, target string, fields map[string]string) (*httptest.ResponseRecorder, error) {
	form := url.Values{}
	for key, val := range fields {
		form.Set(key, val)
	}

	req := newRequest(method, target, strings.NewReader(form.Encode()), "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return record(app, req)
}

// UploadFile describes one file part of a multipart request.
type UploadFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

func MakeMultipartRequest(app *fiber.App, method, url string, fields map[string]string, files []UploadFile, token string) (*httptest.ResponseRecorder, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			return nil, err
		}
	}

	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.Field, file.Filename))
		header.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, err
		}
	}

	contentType := writer.FormDataContentType()
	writer.Close()

	req := newRequest(method, url, body, token)
	req.Header.Set("Content-Type", contentType)
	return record(app, req)
}

func newRequest(method, url string, body io.Reader, token string) *http.Request {
	req := httptest.NewRequest(method, url, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.Unmarshal(resp.Body.Bytes(), v)
	if err != nil {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// DecodeData decodes the data field of the envelope into v.
func DecodeData(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), "Response body: %s", resp.Body.String())
	require.NotEmpty(t, envelope.Data, "Expected data in response")
	require.NoError(t, json.Unmarshal(envelope.Data, v), "Failed to decode data: %s", string(envelope.Data))
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	if assert.NotNil(t, result.Error, "Expected error object") {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
