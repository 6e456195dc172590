package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ortega-imprenta/orders-api/models"
)

func setupProductionRouter(db *gorm.DB, profile *models.Profile) *gin.Engine {
	router := gin.New()
	router.GET("/api/v1/production/queue", authAs(profile), ProductionQueue)
	router.GET("/api/v1/production/areas", authAs(profile), ProductionAreas)
	router.POST("/api/v1/orders/:id/start", authAs(profile), StartProduction)
	router.POST("/api/v1/orders/:id/complete", authAs(profile), CompleteProduction)
	return router
}

func TestProductionQueue(t *testing.T) {
	db := setupTestDB(t)
	station := createProfile(t, db, "jose_estacion1", models.RoleEstacion1)
	router := setupProductionRouter(db, station)

	seedOrder(t, db, station, func(o *models.Order) {
		o.Client = "Baja en proceso"
		o.Status = models.StatusEnProceso
		o.Priority = models.PriorityBaja
	})
	seedOrder(t, db, station, func(o *models.Order) {
		o.Client = "Alta en proceso"
		o.Status = models.StatusEnProceso
		o.Priority = models.PriorityAlta
	})
	seedOrder(t, db, station, func(o *models.Order) {
		o.Client = "Pendiente"
	})
	seedOrder(t, db, station, func(o *models.Order) {
		o.Client = "Cancelada"
		o.Status = models.StatusEnProceso
		o.DeliveryStatus = models.DeliveryCancelado
	})

	w := performJSON(router, "GET", "/api/v1/production/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 2, "only open in-process orders belong to the queue")
	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	assert.Equal(t, "Alta en proceso", first["client"], "urgent orders come first")
	assert.Equal(t, "Baja en proceso", second["client"])
}

func TestProductionAreas(t *testing.T) {
	db := setupTestDB(t)
	station := createProfile(t, db, "jose_estacion1", models.RoleEstacion1)
	router := setupProductionRouter(db, station)

	seedOrder(t, db, station, func(o *models.Order) { o.WorkType = models.WorkTypeLonas })
	seedOrder(t, db, station, func(o *models.Order) { o.WorkType = models.WorkTypeLonas })
	seedOrder(t, db, station, func(o *models.Order) { o.WorkType = models.WorkTypePloteo })
	seedOrder(t, db, station, func(o *models.Order) {
		o.WorkType = models.WorkTypeSublimacion
		o.ProductionStatus = models.ProductionCompletado
	})
	seedOrder(t, db, station, func(o *models.Order) {
		o.WorkType = models.WorkTypeVinilCorte
		o.DeliveryStatus = models.DeliveryEntregado
	})

	w := performJSON(router, "GET", "/api/v1/production/areas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data[models.WorkTypeLonas])
	assert.Equal(t, float64(1), data[models.WorkTypePloteo])
	assert.Equal(t, float64(0), data[models.WorkTypeSublimacion], "finished production does not count")
	assert.Equal(t, float64(0), data[models.WorkTypeVinilCorte], "delivered orders do not count")
	assert.Equal(t, float64(0), data[models.WorkTypeVinilImpresion], "areas with no work still appear")
}

func TestStartProductionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	station := createProfile(t, db, "jose_estacion1", models.RoleEstacion1)
	router := setupProductionRouter(db, station)
	order := seedOrder(t, db, station, nil)

	w := performJSON(router, "POST", "/api/v1/orders/"+itoa(order.ID)+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.StatusEnProceso, data["status"])
	assert.Equal(t, models.ProductionEnProceso, data["production_status"])
}

func TestCompleteProductionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	station := createProfile(t, db, "marco_estacion4", models.RoleEstacion4)
	router := setupProductionRouter(db, station)
	order := seedOrder(t, db, station, func(o *models.Order) {
		o.Status = models.StatusEnProceso
		o.ProductionStatus = models.ProductionEnProceso
	})

	w := performJSON(router, "POST", "/api/v1/orders/"+itoa(order.ID)+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, models.ProductionCompletado, data["production_status"])
	assert.Equal(t, models.StatusListoParaEntrega, data["status"])
	assert.NotNil(t, data["completed_at"])
	assert.Equal(t, float64(station.ID), data["completed_by_id"])

	// Completing twice is a conflict
	w = performJSON(router, "POST", "/api/v1/orders/"+itoa(order.ID)+"/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PRODUCTION_COMPLETED", errorCode(t, w))
}

func TestProductionEndpointsRejectBadID(t *testing.T) {
	db := setupTestDB(t)
	station := createProfile(t, db, "jose_estacion1", models.RoleEstacion1)
	router := setupProductionRouter(db, station)

	w := performJSON(router, "POST", "/api/v1/orders/abc/start", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ORDER_ID", errorCode(t, w))

	w = performJSON(router, "POST", "/api/v1/orders/99999/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, w))
}
