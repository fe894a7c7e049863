package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/dropx/dropx-api/utils"
	"go.uber.org/zap"
)

// ImageService handles order photos: upload, URL generation and deletion
type ImageService interface {
	// UploadOrderImage validates and stores a photo for an order, returning the storage key
	UploadOrderImage(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing a stored photo
	GetImageURL(ctx context.Context, key string) (string, error)

	// DeleteImage removes a photo from storage
	DeleteImage(ctx context.Context, key string) error
}

// S3ImageService implements ImageService on top of an S3Interface
type S3ImageService struct {
	store S3Interface
	now   func() time.Time
}

var imageServiceInstance ImageService

// InitImageService installs an S3-backed image service as the global instance
func InitImageService(store S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{store: store, now: time.Now}
	return imageServiceInstance
}

// GetImageService returns the global image service, or nil when storage is not configured
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadOrderImage validates the file and uploads it under orders/{orderID}/
func (s *S3ImageService) UploadOrderImage(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			zap.L().Warn("failed to close uploaded file", zap.Error(closeErr))
		}
	}()

	key := utils.OrderImageKey(orderID, s.now().Unix(), fileHeader.Filename)
	if err := s.store.PutObject(ctx, key, "image/png", file); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL generates a presigned URL for a stored photo
func (s *S3ImageService) GetImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.store.GetPresignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes a stored photo
func (s *S3ImageService) DeleteImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.store.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
