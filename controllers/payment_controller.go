package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/services"
)

// RegisterPaymentRequest represents the request body for registering a payment
type RegisterPaymentRequest struct {
	Amount *float64 `json:"amount" binding:"required,gt=0"`
	Method string   `json:"method" binding:"required"`
}

// RegisterPayment handles POST /api/v1/orders/:id/payments - adds to the
// order's advance. A payment covering the total delivers the order in the
// same update.
func RegisterPayment(c *gin.Context) {
	profile, ok := getCurrentProfile(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be numeric",
			},
		})
		return
	}

	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	result, svcErr := services.RegisterPayment(config.GetDB(), services.RegisterPaymentInput{
		OrderID: uint(orderID),
		ActorID: profile.ID,
		Amount:  decimal.NewFromFloat(*req.Amount),
		Method:  req.Method,
	})
	if svcErr != nil {
		handleServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":             result.Order,
			"delivered":         result.Delivered,
			"remaining_balance": result.Order.RemainingBalance,
		},
	})
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver - hands the order
// to the client. Rejected while a balance is pending.
func DeliverOrder(c *gin.Context) {
	profile, ok := getCurrentProfile(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be numeric",
			},
		})
		return
	}

	order, svcErr := services.Deliver(config.GetDB(), services.DeliverInput{
		OrderID: uint(orderID),
		ActorID: profile.ID,
	})
	if svcErr != nil {
		handleServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - cancels the order.
// Cancellation is terminal; the record is never deleted.
func CancelOrder(c *gin.Context) {
	if _, ok := getCurrentProfile(c); !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be numeric",
			},
		})
		return
	}

	order, svcErr := services.Cancel(config.GetDB(), services.CancelInput{
		OrderID: uint(orderID),
	})
	if svcErr != nil {
		handleServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
