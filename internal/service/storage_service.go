package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxUploadSize   = 5 * 1024 * 1024 // 5 MB
	presignedURLTTL = 24 * time.Hour
	uploadPrefix    = "posts"
)

var (
	ErrFileTooBig      = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType = errors.New("invalid file type, only JPEG and PNG images are allowed")
	ErrUploadFailed    = errors.New("failed to upload file")
	ErrDeleteFailed    = errors.New("failed to delete file")

	allowedContentTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
	}
)

type UploadResult struct {
	ObjectKey    string `json:"object_key"`
	URL          string `json:"url"`
	PresignedURL string `json:"presigned_url"`
}

// StorageService is the object-store boundary for post images.
type StorageService interface {
	Upload(ctx context.Context, userID uint, file io.Reader, fileSize int64, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, objectKey string) error
}

// MinIOStorageService stores post images in a MinIO/S3-compatible bucket
// that allows anonymous reads, matching the public image URLs embedded in
// posts.
type MinIOStorageService struct {
	client     *minio.Client
	bucketName string
	endpoint   string
	useSSL     bool
}

func NewMinIOStorageService(endpoint, accessKey, secretKey, bucketName string, useSSL bool, logger *slog.Logger) (*MinIOStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	svc := &MinIOStorageService{
		client:     client,
		bucketName: bucketName,
		endpoint:   endpoint,
		useSSL:     useSSL,
	}

	// Bucket bootstrap failure is non-fatal: the server can come up while the
	// object store is unreachable, uploads surface errors per request.
	if err := svc.ensureBucket(context.Background()); err != nil {
		logger.Warn("storage bucket bootstrap failed", "bucket", bucketName, "error", err)
	}
	return svc, nil
}

func (s *MinIOStorageService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucketName, publicReadPolicy(s.bucketName)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{{
			"Effect":    "Allow",
			"Principal": "*",
			"Action":    []string{"s3:GetObject"},
			"Resource":  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	}
	raw, _ := json.Marshal(policy)
	return string(raw)
}

func (s *MinIOStorageService) Upload(ctx context.Context, userID uint, file io.Reader, fileSize int64, contentType string) (*UploadResult, error) {
	if fileSize > maxUploadSize {
		return nil, ErrFileTooBig
	}
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	ext, allowed := allowedContentTypes[normalized]
	if !allowed {
		return nil, ErrInvalidFileType
	}

	objectKey := fmt.Sprintf("%s/user-%d/%s%s", uploadPrefix, userID, uuid.New().String(), ext)
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, file, fileSize, minio.PutObjectOptions{
		ContentType: normalized,
		UserMetadata: map[string]string{
			"User-ID":     fmt.Sprintf("%d", userID),
			"Uploaded-At": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, presignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("%w: presign: %v", ErrUploadFailed, err)
	}

	return &UploadResult{
		ObjectKey:    objectKey,
		URL:          s.publicURL(objectKey),
		PresignedURL: presigned.String(),
	}, nil
}

func (s *MinIOStorageService) Delete(ctx context.Context, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *MinIOStorageService) publicURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucketName, objectKey)
}
