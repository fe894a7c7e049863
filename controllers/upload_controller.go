package controllers

import (
	"errors"
	"net/http"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/services"
	"github.com/dropx/dropx-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadOrderImage handles POST /api/v1/orders/:id/image - attaches a parcel photo.
// Only the author may upload, and the previous photo is removed from storage.
func UploadOrderImage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusServiceUnavailable, "UPLOAD_ERROR", "Image storage is not configured")
		return
	}

	ctx := c.Request.Context()
	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.Get(ctx, actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load order")
		return
	}
	if !services.IsAuthor(actor, *order) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only the author can change the order photo")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Multipart field 'image' is required")
		return
	}

	key, err := imageService.UploadOrderImage(ctx, order.ID, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		zap.L().Error("order image upload failed", zap.String("order_id", order.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload image")
		return
	}

	previous := order.ImageS3Key
	updated, err := orderService.SetImage(ctx, actor, order.ID, key)
	if err != nil {
		if deleteErr := imageService.DeleteImage(ctx, key); deleteErr != nil {
			zap.L().Warn("failed to remove orphaned image", zap.String("key", key), zap.Error(deleteErr))
		}
		respondServiceError(c, err, "Failed to save order image")
		return
	}

	if previous != nil && *previous != key {
		if err := imageService.DeleteImage(ctx, *previous); err != nil {
			zap.L().Warn("failed to remove previous image", zap.String("key", *previous), zap.Error(err))
		}
	}

	attachImageURL(c, updated)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}
