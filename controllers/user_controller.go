package controllers

import (
	"net/http"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,min=1"`
	LastName  string `json:"last_name" binding:"omitempty,min=1"`
	Mobile    string `json:"mobile" binding:"omitempty,min=1"`
}

// GetMyProfile handles GET /api/v1/users/me - returns the signed-in user's profile
func GetMyProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := services.NewUserService(config.GetDB()).Get(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load user profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates name and phone number.
// Email and role are not editable here.
func UpdateMyProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).UpdateProfile(c.Request.Context(), actor.UserID, services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update user profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListCouriers handles GET /api/v1/couriers - the options of the courier selector
func ListCouriers(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	couriers, err := services.NewUserService(config.GetDB()).ListCouriers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list couriers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    couriers,
	})
}
