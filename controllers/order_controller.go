package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/services"
	"github.com/dropx/dropx-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderFields are the fields shared by the create and edit forms. The schedule is
// either scheduled_at (RFC 3339) or the date and time pair.
type OrderFields struct {
	Address     string `json:"address" binding:"required,min=2"`
	Target      string `json:"target" binding:"required,min=2"`
	Phone       string `json:"phone" binding:"required,min=2"`
	ScheduledAt string `json:"scheduled_at"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Price       string `json:"price" binding:"required"`
	CourierID   string `json:"courier_id" binding:"required"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	OrderFields
	Status string `json:"status"`
}

// UpdateOrderRequest is the full field set submitted by the order editor
type UpdateOrderRequest struct {
	OrderFields
	Status string `json:"status" binding:"required"`
}

// normalize validates the schedule and price and returns their canonical forms
func (f OrderFields) normalize() (time.Time, string, error) {
	scheduledAt, err := utils.NormalizeSchedule(f.ScheduledAt, f.Date, f.Time)
	if err != nil {
		return time.Time{}, "", err
	}
	price, err := utils.NormalizePrice(f.Price)
	if err != nil {
		return time.Time{}, "", err
	}
	return scheduledAt, price, nil
}

// CreateOrder handles POST /api/v1/orders - customers create orders they author
func CreateOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if actor.Role != models.RoleCustomer {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only customers can create orders")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	scheduledAt, price, err := req.normalize()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	var status models.OrderStatus
	if req.Status != "" {
		status, err = models.ParseStatus(req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
	}

	order, err := services.NewOrderService(config.GetDB()).Create(c.Request.Context(), actor, services.CreateOrderInput{
		Address:     strings.TrimSpace(req.Address),
		Target:      strings.TrimSpace(req.Target),
		Phone:       strings.TrimSpace(req.Phone),
		ScheduledAt: scheduledAt,
		Price:       price,
		CourierID:   req.CourierID,
		Status:      status,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - the dashboard table.
// Couriers see orders assigned to them, customers the orders they created.
func ListOrders(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	opts := services.ListOptions{
		Address: c.Query("address"),
		Sort:    c.Query("sort"),
	}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		opts.Status = status
	}

	switch strings.ToLower(c.Query("order")) {
	case "asc":
		opts.Desc = false
	case "desc":
		opts.Desc = true
	case "":
		opts.Desc = opts.Sort == "" || opts.Sort == "created_at"
	default:
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "order must be asc or desc")
		return
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		opts.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil {
		opts.PageSize = pageSize
	}
	opts = opts.Normalize()

	orders, total, err := services.NewOrderService(config.GetDB()).List(c.Request.Context(), actor, opts)
	if err != nil {
		respondServiceError(c, err, "Failed to list orders")
		return
	}

	for i := range orders {
		attachImageURL(c, &orders[i])
	}

	totalPages := int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"meta": gin.H{
			"total":       total,
			"page":        opts.Page,
			"page_size":   opts.PageSize,
			"total_pages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - the order plus the editor layout for the caller's role
func GetOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to load order")
		return
	}
	attachImageURL(c, order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"editor":  services.EditorFor(actor.Role),
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - saves the order editor.
// Couriers must resubmit every other field unchanged.
func UpdateOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	scheduledAt, price, err := req.normalize()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		return
	}

	courierID := req.CourierID
	order, err := services.NewOrderService(config.GetDB()).Update(c.Request.Context(), actor, c.Param("id"), services.OrderEdit{
		Address:     strings.TrimSpace(req.Address),
		Target:      strings.TrimSpace(req.Target),
		Phone:       strings.TrimSpace(req.Phone),
		ScheduledAt: scheduledAt,
		Price:       price,
		CourierID:   &courierID,
		Status:      status,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update order")
		return
	}
	attachImageURL(c, order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id. The caller must confirm with
// ?confirm=true or the X-Confirm-Delete header.
func DeleteOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	err := services.NewOrderService(config.GetDB()).Delete(c.Request.Context(), actor, c.Param("id"), deleteConfirmed(c))
	if err != nil {
		respondServiceError(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

func deleteConfirmed(c *gin.Context) bool {
	for _, raw := range []string{c.Query("confirm"), c.GetHeader("X-Confirm-Delete")} {
		if confirmed, err := strconv.ParseBool(raw); err == nil && confirmed {
			return true
		}
	}
	return false
}

// attachImageURL fills the presigned photo URL when storage is configured
func attachImageURL(c *gin.Context, order *models.Order) {
	imageService := services.GetImageService()
	if imageService == nil || order.ImageS3Key == nil {
		return
	}

	url, err := imageService.GetImageURL(c.Request.Context(), *order.ImageS3Key)
	if err != nil {
		zap.L().Warn("failed to presign order image", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	order.ImageURL = &url
}
