package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

func setupAuthRouter() *gin.Engine {
	router := gin.New()
	router.POST("/api/v1/auth/register", Register)
	router.POST("/api/v1/auth/login", Login)
	return router
}

func TestRegister(t *testing.T) {
	setupTestDB(t)
	router := setupAuthRouter()

	w := performJSON(router, "POST", "/api/v1/auth/register", gin.H{
		"username": "caja_imprenta",
		"email":    "cajaimprenta@ortega.com",
		"name":     "Usuario Caja",
		"password": "Ortega-12345",
		"role":     models.RoleCaja,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "caja_imprenta", data["username"])
	assert.Equal(t, models.RoleCaja, data["role"])
	assert.NotContains(t, data, "password_hash", "hashes never leave the API")
}

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)
	router := setupAuthRouter()

	tests := []struct {
		name     string
		body     gin.H
		wantCode string
	}{
		{
			name: "short password",
			body: gin.H{
				"username": "u1", "email": "u1@ortega.com", "name": "U1",
				"password": "corta", "role": models.RoleCaja,
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "bad email",
			body: gin.H{
				"username": "u2", "email": "not-an-email", "name": "U2",
				"password": "Ortega-12345", "role": models.RoleCaja,
			},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name: "unknown role",
			body: gin.H{
				"username": "u3", "email": "u3@ortega.com", "name": "U3",
				"password": "Ortega-12345", "role": "gerente",
			},
			wantCode: "INVALID_ROLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, "POST", "/api/v1/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	createProfile(t, db, "caja_imprenta", models.RoleCaja)
	router := setupAuthRouter()

	w := performJSON(router, "POST", "/api/v1/auth/register", gin.H{
		"username": "caja_imprenta",
		"email":    "caja_imprenta@ortega.com",
		"name":     "Usuario Caja",
		"password": "Ortega-12345",
		"role":     models.RoleCaja,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_EXISTS", errorCode(t, w))
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "david_admin", models.RoleAdministrador)
	router := setupAuthRouter()

	w := performJSON(router, "POST", "/api/v1/auth/login", gin.H{
		"email":    profile.Email,
		"password": "Ortega-test-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	tokenString, _ := data["token"].(string)
	require.NotEmpty(t, tokenString)

	claims := &services.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("controller-test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, itoa(profile.ID), claims.Subject)
	assert.Equal(t, models.RoleAdministrador, claims.Role)

	returned := data["profile"].(map[string]interface{})
	assert.Equal(t, "david_admin", returned["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	profile := createProfile(t, db, "david_admin", models.RoleAdministrador)
	router := setupAuthRouter()

	t.Run("wrong password", func(t *testing.T) {
		w := performJSON(router, "POST", "/api/v1/auth/login", gin.H{
			"email":    profile.Email,
			"password": "incorrecta-123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
	})

	t.Run("unknown email", func(t *testing.T) {
		w := performJSON(router, "POST", "/api/v1/auth/login", gin.H{
			"email":    "nadie@ortega.com",
			"password": "Ortega-test-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
	})
}
