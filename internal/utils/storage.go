package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

var (
	S3Session       *session.Session
	S3Bucket        string
	S3Region        string
	CloudFrontURL   string
	UploadBasePath  = "./uploads"
	UseLocalStorage = true
)

// StoredFile describes where an upload ended up.
type StoredFile struct {
	URL     string
	Key     string
	Storage string
}

func PhotosPath() string {
	return filepath.Join(UploadBasePath, "photos")
}

func InitLocalStorage(baseDir string) error {
	if baseDir != "" {
		UploadBasePath = baseDir
	}
	if err := os.MkdirAll(PhotosPath(), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", PhotosPath(), err)
	}
	return nil
}

func InitS3(bucket, region, cloudfrontURL string) error {
	S3Bucket = bucket
	S3Region = region
	CloudFrontURL = cloudfrontURL

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return err
	}

	S3Session = sess
	UseLocalStorage = false
	return nil
}

func SetStorageMode(useLocal bool) {
	UseLocalStorage = useLocal
}

func GetStorageMode() string {
	if UseLocalStorage {
		return StorageLocal
	}
	return StorageS3
}

// UploadImage stores data under a generated name that keeps originalName's
// extension.
func UploadImage(originalName, contentType string, data []byte) (StoredFile, error) {
	if UseLocalStorage {
		return uploadToLocal(originalName, data)
	}
	return uploadToS3(originalName, contentType, data)
}

func uploadToLocal(originalName string, data []byte) (StoredFile, error) {
	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
		strings.ToLower(filepath.Ext(originalName)),
	)

	fullPath := filepath.Join(PhotosPath(), filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return StoredFile{}, fmt.Errorf("failed to save file: %v", err)
	}

	return StoredFile{
		URL:     "/uploads/photos/" + filename,
		Key:     filename,
		Storage: StorageLocal,
	}, nil
}

func uploadToS3(originalName, contentType string, data []byte) (StoredFile, error) {
	if S3Session == nil {
		return StoredFile{}, fmt.Errorf("S3 not initialized")
	}

	key := fmt.Sprintf("landing/%s/%s%s",
		time.Now().Format("2006/01"),
		uuid.New().String(),
		strings.ToLower(filepath.Ext(originalName)),
	)

	svc := s3.New(S3Session)
	_, err := svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return StoredFile{}, err
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", S3Bucket, S3Region, key)
	if CloudFrontURL != "" {
		url = CloudFrontURL + "/" + key
	}

	return StoredFile{URL: url, Key: key, Storage: StorageS3}, nil
}

func DeleteImage(storage, key string) error {
	if storage == StorageS3 {
		return deleteFromS3(key)
	}
	return deleteFromLocal(key)
}

func deleteFromLocal(key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid file key %q", key)
	}

	fullPath := filepath.Join(PhotosPath(), key)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func deleteFromS3(key string) error {
	if S3Session == nil {
		return fmt.Errorf("S3 not initialized")
	}

	svc := s3.New(S3Session)
	_, err := svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(S3Bucket),
		Key:    aws.String(key),
	})
	return err
}
