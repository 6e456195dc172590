package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/middleware"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

// getCurrentProfile resolves the authenticated profile from the token
// subject. Writes the error response and returns false when it cannot.
func getCurrentProfile(c *gin.Context) (*models.Profile, bool) {
	profileID, err := middleware.GetProfileID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var profile models.Profile
	if err := db.First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found",
			},
		})
		return nil, false
	}

	return &profile, true
}

// handleServiceError translates lifecycle service errors into the response
// envelope: validation 400, state/balance conflicts 409, missing order 404,
// anything else 500.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var stateErr *services.StateError
	var balanceErr *services.BalanceError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    validationErr.Code,
				"message": validationErr.Message,
			},
		})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    stateErr.Code,
				"message": stateErr.Message,
			},
		})
	case errors.As(err, &balanceErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    balanceErr.Code,
				"message": balanceErr.Message,
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "The operation could not be completed",
			},
		})
	}
}
