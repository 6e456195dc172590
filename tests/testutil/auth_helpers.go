package testutil

import (
	"strconv"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/middleware"
	"github.com/ortega-imprenta/orders-api/models"
	"github.com/ortega-imprenta/orders-api/services"
)

// MockValidatedClaims creates the claims object the token middleware would
// produce for a profile with the given subject and role.
func MockValidatedClaims(subject, role, username string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "ortega-orders-api",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role:     role,
			Username: username,
		},
	}
}

// MockAuthMiddleware simulates a validated token for the given profile.
func MockAuthMiddleware(profile *models.Profile) gin.HandlerFunc {
	subject := strconv.FormatUint(uint64(profile.ID), 10)
	return func(c *gin.Context) {
		c.Set("user_id", subject)
		c.Set("validated_claims", MockValidatedClaims(subject, profile.Role, profile.Username))
		c.Next()
	}
}

// IssueTestToken mints a real access token for the profile, signed with the
// given config's secret. Use with the real token middleware.
func IssueTestToken(t *testing.T, cfg *config.Config, profile *models.Profile) string {
	t.Helper()

	token, err := services.NewTokenService(cfg).IssueToken(profile)
	require.NoError(t, err)
	return token
}

// CreateTestProfile inserts a profile with a known password.
func CreateTestProfile(t *testing.T, username, role string) *models.Profile {
	t.Helper()

	profile := models.Profile{
		Username: username,
		Email:    username + "@ortega.com",
		Name:     username,
		Role:     role,
	}
	require.NoError(t, profile.SetPassword("Ortega-test-pass"))
	require.NoError(t, config.GetDB().Create(&profile).Error)
	return &profile
}
