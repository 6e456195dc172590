package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/models"
)

// MonthlyReportResponse aggregates one calendar month of orders
type MonthlyReportResponse struct {
	Month            string          `json:"month"`
	TotalOrders      int             `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
	WorkTypeCounts   map[string]int  `json:"work_type_counts"`
}

// StationStatsEntry reports order-creation counts for one station user
type StationStatsEntry struct {
	UserID        uint   `json:"user_id"`
	UserName      string `json:"user_name"`
	Station       string `json:"station"`
	TotalOrders   int64  `json:"total_orders"`
	MonthlyOrders int64  `json:"monthly_orders"`
}

// MonthlyReport handles GET /api/v1/stats/monthly?month=YYYY-MM - scans
// the month's orders and aggregates counts and revenue. Read-only; an
// empty month returns zeroed aggregates.
func MonthlyReport(c *gin.Context) {
	month := c.DefaultQuery("month", time.Now().Format("2006-01"))
	start, err := time.Parse("2006-01", month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_MONTH",
				"message": "Month must use the YYYY-MM format",
			},
		})
		return
	}
	end := start.AddDate(0, 1, 0)

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("created_at >= ? AND created_at < ?", start, end).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders for the report",
			},
		})
		return
	}

	report := MonthlyReportResponse{
		Month:            month,
		TotalOrders:      len(orders),
		TotalRevenue:     decimal.Zero,
		DeliveredRevenue: decimal.Zero,
		WorkTypeCounts:   make(map[string]int),
	}
	for _, order := range orders {
		report.TotalRevenue = report.TotalRevenue.Add(order.TotalAmount)
		if order.DeliveryStatus == models.DeliveryEntregado {
			report.DeliveredRevenue = report.DeliveredRevenue.Add(order.TotalAmount)
		}
		report.WorkTypeCounts[order.WorkType]++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// StationStats handles GET /api/v1/stats/stations - per station user, how
// many orders they created in total and this month.
func StationStats(c *gin.Context) {
	db := config.GetDB()

	var profiles []models.Profile
	if err := db.Where("role IN ?", models.StationRoles).Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load station profiles",
			},
		})
		return
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := make([]StationStatsEntry, 0, len(profiles))
	for _, profile := range profiles {
		var total int64
		if err := db.Model(&models.Order{}).Where("created_by_id = ?", profile.ID).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to count station orders",
				},
			})
			return
		}

		var monthly int64
		if err := db.Model(&models.Order{}).
			Where("created_by_id = ? AND created_at >= ?", profile.ID, firstOfMonth).
			Count(&monthly).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to count station orders",
				},
			})
			return
		}

		stats = append(stats, StationStatsEntry{
			UserID:        profile.ID,
			UserName:      profile.Name,
			Station:       profile.Role,
			TotalOrders:   total,
			MonthlyOrders: monthly,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Station < stats[j].Station
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
