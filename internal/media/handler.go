package media

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/metrics"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/Kyz7/landing/internal/utils"
	"github.com/Kyz7/landing/internal/validation"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MaxImageSize is the upload limit for section images.
const MaxImageSize = 10 * 1024 * 1024

// UploadImageHandler stores one image from the multipart field "file" and
// answers with its public URL.
func UploadImageHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	companyID := c.Locals("company_id").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required", nil)
	}
	if file.Size > MaxImageSize {
		return response.BadRequest(c, "File too large", map[string]interface{}{
			"max_size_mb":  MaxImageSize / (1024 * 1024),
			"file_size_mb": file.Size / (1024 * 1024),
		})
	}

	src, err := file.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read file", nil)
	}
	data, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	src.Close()
	if err != nil {
		return response.BadRequest(c, "Failed to read file", nil)
	}
	if len(data) > MaxImageSize {
		return response.BadRequest(c, "File too large", nil)
	}

	contentType, err := validation.CheckImage(file.Header.Get("Content-Type"), data)
	if err != nil {
		return response.BadRequest(c, "Invalid image", map[string]interface{}{
			"reason":  err.Error(),
			"allowed": validation.ImageTypes,
		})
	}

	stored, err := utils.UploadImage(file.Filename, contentType, data)
	metrics.ImageUploaded(utils.GetStorageMode(), err)
	if err != nil {
		logger.Log.Error("image upload failed", zap.String("file", file.Filename), zap.Error(err))
		return response.InternalError(c, "Failed to upload file")
	}

	mediaFile := models.MediaFile{
		CompanyID:  companyID,
		FileName:   validation.SanitizeString(file.Filename),
		StorageKey: stored.Key,
		URL:        stored.URL,
		Type:       contentType,
		Size:       int64(len(data)),
		Storage:    stored.Storage,
		UploadedBy: userID,
	}
	if width, height, err := imageDimensions(data); err == nil {
		mediaFile.Width = &width
		mediaFile.Height = &height
	}
	if tags := parseTags(c.FormValue("tags")); len(tags) > 0 {
		mediaFile.Tags, _ = json.Marshal(tags)
	}

	if err := database.DB.Create(&mediaFile).Error; err != nil {
		if delErr := utils.DeleteImage(stored.Storage, stored.Key); delErr != nil {
			logger.Log.Warn("orphaned upload", zap.String("key", stored.Key), zap.Error(delErr))
		}
		return response.InternalError(c, "Failed to save media metadata")
	}

	return response.Created(c, fiber.Map{
		"url":   mediaFile.URL,
		"media": mediaFile,
	}, "Image uploaded successfully")
}

func ListMediaHandler(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(uint)
	page, limit, offset := response.Paging(c)
	search := strings.TrimSpace(c.Query("search"))

	query := database.DB.Model(&models.MediaFile{}).Where("company_id = ?", companyID)
	if mediaType := c.Query("type"); mediaType != "" {
		query = query.Where("type = ?", mediaType)
	}
	if search != "" {
		query = query.Where("file_name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalError(c, "Failed to fetch media")
	}

	var mediaFiles []models.MediaFile
	if err := query.Preload("Uploader").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC, id DESC").
		Find(&mediaFiles).Error; err != nil {
		return response.InternalError(c, "Failed to fetch media")
	}

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, mediaFiles, meta, "Media files retrieved successfully")
}

func GetMediaHandler(c *fiber.Ctx) error {
	mediaFile, ok, err := findMedia(c)
	if !ok {
		return err
	}
	return response.Success(c, mediaFile, "Media retrieved successfully")
}

func DeleteMediaHandler(c *fiber.Ctx) error {
	mediaFile, ok, err := findMedia(c)
	if !ok {
		return err
	}

	if err := utils.DeleteImage(mediaFile.Storage, mediaFile.StorageKey); err != nil {
		logger.Log.Warn("stored image not removed", zap.Uint("media_id", mediaFile.ID), zap.Error(err))
		c.Append("X-Warning", "File deleted from database but may still exist in storage")
	}

	if err := database.DB.Delete(mediaFile).Error; err != nil {
		return response.InternalError(c, "Failed to delete media")
	}
	return response.NoContent(c)
}

// findMedia loads the media row named by :id within the caller's company.
// When ok is false the error response has already been written.
func findMedia(c *fiber.Ctx) (*models.MediaFile, bool, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, false, response.BadRequest(c, "Invalid media ID", nil)
	}
	companyID := c.Locals("company_id").(uint)

	var mediaFile models.MediaFile
	if err := database.DB.Preload("Uploader").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&mediaFile).Error; err != nil {
		return nil, false, response.NotFound(c, "Media")
	}
	return &mediaFile, true, nil
}

func parseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	for i, t := range tags {
		tags[i] = validation.SanitizeString(t)
	}
	return tags
}

func imageDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
