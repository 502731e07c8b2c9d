package media_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/testutils"
	"github.com/Kyz7/landing/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type uploaded struct {
	URL   string `json:"url"`
	Media struct {
		ID       uint     `json:"id"`
		FileName string   `json:"file_name"`
		Type     string   `json:"type"`
		Size     int64    `json:"size"`
		Width    *int     `json:"width"`
		Height   *int     `json:"height"`
		Storage  string   `json:"storage"`
		Tags     []string `json:"tags"`
	} `json:"media"`
}

func TestUploadImageHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	_, token := testutils.UserWithToken(t, 1, role.Marketing)
	_, viewerToken := testutils.UserWithToken(t, 1, role.Viewer)

	t.Run("Success - PNG upload", func(t *testing.T) {
		data := pngBytes(t, 4, 3)
		resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images",
			map[string]string{"tags": "hero, kashmir"},
			[]testutils.UploadFile{{Field: "file", Filename: "Hero.PNG", ContentType: "image/png", Content: data}},
			token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code, resp.Body.String())

		var result uploaded
		testutils.DecodeData(t, resp, &result)
		assert.True(t, strings.HasPrefix(result.URL, "/uploads/photos/"), result.URL)
		assert.True(t, strings.HasSuffix(result.URL, ".png"), result.URL)
		assert.Equal(t, "image/png", result.Media.Type)
		assert.Equal(t, int64(len(data)), result.Media.Size)
		assert.Equal(t, "local", result.Media.Storage)
		assert.Equal(t, []string{"hero", "kashmir"}, result.Media.Tags)
		if assert.NotNil(t, result.Media.Width) && assert.NotNil(t, result.Media.Height) {
			assert.Equal(t, 4, *result.Media.Width)
			assert.Equal(t, 3, *result.Media.Height)
		}

		stored, err := os.ReadFile(filepath.Join(utils.PhotosPath(), filepath.Base(result.URL)))
		assert.NoError(t, err)
		assert.Equal(t, data, stored)

		resp, err = testutils.MakeRequest(app, "GET", result.URL, nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Success - SVG accepted by declared type", func(t *testing.T) {
		svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
		resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images", nil,
			[]testutils.UploadFile{{Field: "file", Filename: "logo.svg", ContentType: "image/svg+xml", Content: svg}},
			token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)
	})

	t.Run("Error - Content does not match declared type", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images", nil,
			[]testutils.UploadFile{{Field: "file", Filename: "fake.png", ContentType: "image/png", Content: []byte("not an image")}},
			token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		testutils.AssertError(t, resp, "BAD_REQUEST")
	})

	t.Run("Error - Unsupported type", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images", nil,
			[]testutils.UploadFile{{Field: "file", Filename: "notes.txt", ContentType: "text/plain", Content: []byte("hello")}},
			token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - File missing", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images",
			map[string]string{"tags": "x"}, nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Viewer cannot upload", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images", nil,
			[]testutils.UploadFile{{Field: "file", Filename: "a.png", ContentType: "image/png", Content: pngBytes(t, 1, 1)}},
			viewerToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})
}

func TestMediaLibrary(t *testing.T) {
	app := testutils.SetupTestApp(t)
	_, marketingToken := testutils.UserWithToken(t, 1, role.Marketing)
	_, adminToken := testutils.UserWithToken(t, 1, role.Admin)
	_, otherToken := testutils.UserWithToken(t, 2, role.Admin)

	resp, err := testutils.MakeMultipartRequest(app, "POST", "/landing-pages/images", nil,
		[]testutils.UploadFile{{Field: "file", Filename: "beach.png", ContentType: "image/png", Content: pngBytes(t, 2, 2)}},
		marketingToken)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code, resp.Body.String())

	var upload uploaded
	testutils.DecodeData(t, resp, &upload)
	mediaURL := fmt.Sprintf("/media/%d", upload.Media.ID)

	t.Run("Success - List within company", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/media?type=image/png", nil, marketingToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 1)

		resp, err = testutils.MakeRequest(app, "GET", "/media", nil, otherToken)
		assert.NoError(t, err)
		testutils.ParseResponse(t, resp, &result)
		assert.Empty(t, result.Data)
	})

	t.Run("Success - Get", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", mediaURL, nil, marketingToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Get from another company", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", mediaURL, nil, otherToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Error - Marketing cannot delete", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", mediaURL, nil, marketingToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Success - Admin deletes file and row", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", mediaURL, nil, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 204, resp.Code)

		_, statErr := os.Stat(filepath.Join(utils.PhotosPath(), filepath.Base(upload.URL)))
		assert.True(t, os.IsNotExist(statErr))

		resp, err = testutils.MakeRequest(app, "GET", mediaURL, nil, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("Error - Invalid id", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/media/abc", nil, adminToken)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})
}
