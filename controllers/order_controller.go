package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Client      string   `json:"client" binding:"required"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email" binding:"omitempty,email"`
	WorkType    string   `json:"work_type" binding:"required"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date" binding:"required"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	TotalAmount *float64 `json:"total_amount" binding:"required,gte=0"`
}

// CreateOrder handles POST /api/v1/orders - opens a new work order.
// Any authenticated role can create orders.
func CreateOrder(c *gin.Context) {
	profile, ok := getCurrentProfile(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
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

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DUE_DATE",
				"message": "Due date must use the YYYY-MM-DD format",
			},
		})
		return
	}

	db := config.GetDB()
	order, err := services.CreateOrder(db, services.CreateOrderInput{
		Client:      req.Client,
		Phone:       req.Phone,
		Email:       req.Email,
		WorkType:    req.WorkType,
		Priority:    req.Priority,
		DueDate:     dueDate,
		Description: req.Description,
		Notes:       req.Notes,
		TotalAmount: decimal.NewFromFloat(*req.TotalAmount),
		CreatedByID: profile.ID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Load the creator relationship to return complete data
	if err := db.Preload("CreatedBy").First(order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders newest first.
// ?active=true excludes delivered and cancelled orders.
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Preload("CreatedBy").Order("created_at desc")
	if c.Query("active") == "true" {
		query = query.Where("delivery_status NOT IN ?", []string{models.DeliveryEntregado, models.DeliveryCancelado})
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// SearchOrders handles GET /api/v1/cashier/search?q= - the cashier search:
// matches folio or client, excluding delivered and cancelled orders.
func SearchOrders(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_SEARCH_TERM",
				"message": "Search term is required",
			},
		})
		return
	}

	pattern := "%" + strings.ToLower(term) + "%"
	db := config.GetDB()

	var orders []models.Order
	err := db.
		Where("lower(folio) LIKE ? OR lower(client) LIKE ?", pattern, pattern).
		Where("delivery_status NOT IN ?", []string{models.DeliveryEntregado, models.DeliveryCancelado}).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to search orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - a single order with files and
// actor references.
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	err := db.
		Preload("CreatedBy").
		Preload("DeliveredBy").
		Preload("CompletedBy").
		Preload("Files").
		First(&order, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
