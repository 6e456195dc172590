package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ortega-imprenta/orders-api/models"
)

func setupStatsRouter(db *gorm.DB, profile *models.Profile) *gin.Engine {
	router := gin.New()
	router.GET("/api/v1/stats/monthly", authAs(profile), MonthlyReport)
	router.GET("/api/v1/stats/stations", authAs(profile), StationStats)
	return router
}

func TestMonthlyReport(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "david_admin", models.RoleAdministrador)
	router := setupStatsRouter(db, admin)

	seedOrder(t, db, admin, func(o *models.Order) {
		o.TotalAmount = decimal.RequireFromString("1000")
		o.WorkType = models.WorkTypeLonas
	})
	seedOrder(t, db, admin, func(o *models.Order) {
		o.TotalAmount = decimal.RequireFromString("500.50")
		o.WorkType = models.WorkTypeLonas
		o.DeliveryStatus = models.DeliveryEntregado
	})
	seedOrder(t, db, admin, func(o *models.Order) {
		o.TotalAmount = decimal.RequireFromString("250")
		o.WorkType = models.WorkTypePloteo
	})

	month := time.Now().Format("2006-01")
	w := performJSON(router, "GET", "/api/v1/stats/monthly?month="+month, nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, month, data["month"])
	assert.Equal(t, float64(3), data["total_orders"])
	assert.Equal(t, "1750.5", data["total_revenue"])
	assert.Equal(t, "500.5", data["delivered_revenue"])

	counts := data["work_type_counts"].(map[string]interface{})
	assert.Equal(t, float64(2), counts[models.WorkTypeLonas])
	assert.Equal(t, float64(1), counts[models.WorkTypePloteo])
}

func TestMonthlyReportEmptyMonth(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "david_admin", models.RoleAdministrador)
	router := setupStatsRouter(db, admin)

	w := performJSON(router, "GET", "/api/v1/stats/monthly?month=2020-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["total_orders"])
	assert.Equal(t, "0", data["total_revenue"])
	assert.Equal(t, "0", data["delivered_revenue"])
	assert.Empty(t, data["work_type_counts"])
}

func TestMonthlyReportInvalidMonth(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "david_admin", models.RoleAdministrador)
	router := setupStatsRouter(db, admin)

	w := performJSON(router, "GET", "/api/v1/stats/monthly?month=agosto", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_MONTH", errorCode(t, w))
}

func TestStationStats(t *testing.T) {
	db := setupTestDB(t)
	admin := createProfile(t, db, "david_admin", models.RoleAdministrador)
	station1 := createProfile(t, db, "jose_estacion1", models.RoleEstacion1)
	station3 := createProfile(t, db, "joseluis_estacion3", models.RoleEstacion3)
	router := setupStatsRouter(db, admin)

	seedOrder(t, db, station1, nil)
	seedOrder(t, db, station1, nil)
	seedOrder(t, db, station3, nil)
	// Admin-created orders are not station work
	seedOrder(t, db, admin, nil)

	w := performJSON(router, "GET", "/api/v1/stats/stations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 2, "only station roles appear")

	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	assert.Equal(t, models.RoleEstacion1, first["station"])
	assert.Equal(t, float64(2), first["total_orders"])
	assert.Equal(t, float64(2), first["monthly_orders"])
	assert.Equal(t, models.RoleEstacion3, second["station"])
	assert.Equal(t, float64(1), second["total_orders"])
}
