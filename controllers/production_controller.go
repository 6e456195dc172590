package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

// ProductionQueue handles GET /api/v1/production/queue - the production
// floor view: orders in process, urgent first.
func ProductionQueue(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	err := db.
		Preload("CreatedBy").
		Where("status = ?", models.StatusEnProceso).
		Where("delivery_status NOT IN ?", []string{models.DeliveryEntregado, models.DeliveryCancelado}).
		Order("CASE priority WHEN 'Alta' THEN 0 WHEN 'Media' THEN 1 ELSE 2 END").
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load production queue",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// ProductionAreas handles GET /api/v1/production/areas - per-work-type
// counts of orders still in production.
func ProductionAreas(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	err := db.
		Select("id", "work_type", "production_status", "delivery_status").
		Where("production_status IN ?", []string{models.ProductionPendiente, models.ProductionEnProceso}).
		Where("delivery_status NOT IN ?", []string{models.DeliveryEntregado, models.DeliveryCancelado}).
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load production areas",
			},
		})
		return
	}

	counts := make(map[string]int, len(models.WorkTypeFolders))
	for workType := range models.WorkTypeFolders {
		counts[workType] = 0
	}
	for _, order := range orders {
		counts[order.WorkType]++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// StartProduction handles POST /api/v1/orders/:id/start - moves a pending
// order onto the production floor.
func StartProduction(c *gin.Context) {
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

	order, svcErr := services.StartProduction(config.GetDB(), services.StartProductionInput{
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

// CompleteProduction handles POST /api/v1/orders/:id/complete - marks
// production finished and the order ready for delivery.
func CompleteProduction(c *gin.Context) {
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

	order, svcErr := services.CompleteProduction(config.GetDB(), services.CompleteProductionInput{
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
