package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/middleware"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

// setupTestDB creates an in-memory database, installs it in the config
// singleton and installs a mock events service so handlers can publish.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Order{}, &models.OrderFile{}))

	config.SetDB(db)
	config.SetConfig(&config.Config{
		JWTSecret:   "controller-test-secret",
		JWTIssuer:   "ortega-orders-api",
		JWTAudience: "ortega-orders",
		GoEnv:       "test",
	})

	services.SetEventsService(services.NewMockEventsService())
	t.Cleanup(func() {
		services.SetEventsService(nil)
		config.SetDB(nil)
	})

	return db
}

// createProfile inserts a profile with the given role.
func createProfile(t *testing.T, db *gorm.DB, username, role string) *models.Profile {
	t.Helper()

	profile := models.Profile{
		Username: username,
		Email:    username + "@ortega.com",
		Name:     username,
		Role:     role,
	}
	require.NoError(t, profile.SetPassword("Ortega-test-pass"))
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

// authAs returns a middleware that injects the auth context the token
// middleware would set for the given profile.
func authAs(profile *models.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := strconv.FormatUint(uint64(profile.ID), 10)
		c.Set("user_id", subject)
		c.Set("validated_claims", &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Issuer:  "ortega-orders-api",
				Subject: subject,
			},
			CustomClaims: &middleware.CustomClaims{
				Role:     profile.Role,
				Username: profile.Username,
			},
		})
		c.Next()
	}
}

// performJSON sends a JSON request through the router and returns the recorder.
func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// performMultipart sends a multipart form with a single file part plus fields.
func performMultipart(router *gin.Engine, method, path, fileField, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	if filename != "" {
		part, _ := writer.CreateFormFile(fileField, filename)
		_, _ = part.Write(content)
	}
	_ = writer.Close()

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the envelope and returns it as a map.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return response
}

// errorCode pulls error.code out of a failure envelope.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	response := decodeResponse(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected an error envelope, body: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

var seedFolioCounter uint32

func nextSeedFolio() uint32 {
	return atomic.AddUint32(&seedFolioCounter, 1)
}

func testDueDate() time.Time {
	return time.Now().AddDate(0, 0, 5)
}

// seedOrder inserts an order directly, bypassing the handler.
func seedOrder(t *testing.T, db *gorm.DB, creator *models.Profile, mutate func(*models.Order)) *models.Order {
	t.Helper()

	order := models.Order{
		Folio:       "ORD-20260830-" + strconv.Itoa(100+int(nextSeedFolio())),
		Client:      "Cliente de Prueba",
		WorkType:    models.WorkTypeLonas,
		TotalAmount: decimal.RequireFromString("1000"),
		DueDate:     testDueDate(),
		CreatedByID: creator.ID,
	}
	if mutate != nil {
		mutate(&order)
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}
