package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ortega-imprenta/orders-api/config"
	"github.com/ortega-imprenta/orders-api/models"
)

// predefinedUser describes an account the setup tasks provision.
type predefinedUser struct {
	Username string
	Name     string
	Email    string
	Role     string
}

var cashierUser = predefinedUser{
	Username: "caja_imprenta",
	Name:     "Usuario Caja",
	Email:    "cajaimprenta@ortega.com",
	Role:     models.RoleCaja,
}

var vinilUser = predefinedUser{
	Username: "vinil_produccion",
	Name:     "Producción de Vinil",
	Email:    "vinilproduccion@ortega.com",
	Role:     models.RoleEstacion1,
}

var adminUsers = []predefinedUser{
	{Username: "jose_estacion1", Name: "José Estación 1", Email: "joseimprenta@ortega.com", Role: models.RoleEstacion1},
	{Username: "david_admin", Name: "David Administrador", Email: "davidimprenta@ortega.com", Role: models.RoleAdministrador},
	{Username: "joseluis_estacion3", Name: "José Luis Estación 3", Email: "joseluisimprenta@ortega.com", Role: models.RoleEstacion3},
	{Username: "marco_estacion4", Name: "Marco Estación 4", Email: "marcoimprenta@ortega.com", Role: models.RoleEstacion4},
}

// generatePassword produces a random initial password for a provisioned
// account. It is returned once in the response and never stored in clear.
func generatePassword() string {
	return fmt.Sprintf("Ortega-%s", uuid.NewString()[:12])
}

// createPredefinedUser provisions one predefined account. Re-running the
// task collides on the unique email and fails; there is no existence check.
func createPredefinedUser(db *gorm.DB, u predefinedUser) (*models.Profile, string, error) {
	password := generatePassword()

	profile := models.Profile{
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}
	if err := profile.SetPassword(password); err != nil {
		return nil, "", err
	}

	if err := db.Create(&profile).Error; err != nil {
		return nil, "", err
	}
	return &profile, password, nil
}

func isDuplicateUserError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

func setupSingleUser(c *gin.Context, u predefinedUser) {
	db := config.GetDB()

	profile, password, err := createPredefinedUser(db, u)
	if err != nil {
		if isDuplicateUserError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": fmt.Sprintf("User %s already exists", u.Email),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"profile":  profile,
			"email":    u.Email,
			"password": password,
		},
	})
}

// SetupCashier handles POST /api/v1/setup/cashier - provisions the
// predefined cashier account and returns its generated credentials.
func SetupCashier(c *gin.Context) {
	setupSingleUser(c, cashierUser)
}

// SetupVinil handles POST /api/v1/setup/vinil - provisions the predefined
// vinyl production account and returns its generated credentials.
func SetupVinil(c *gin.Context) {
	setupSingleUser(c, vinilUser)
}

// SetupAdmins handles POST /api/v1/setup/admins - provisions the batch of
// predefined station and administrator accounts. Failures are reported
// per user in the payload.
func SetupAdmins(c *gin.Context) {
	db := config.GetDB()

	results := make([]gin.H, 0, len(adminUsers))
	for _, u := range adminUsers {
		profile, password, err := createPredefinedUser(db, u)
		if err != nil {
			result := gin.H{"email": u.Email, "error": "Failed to create user"}
			if isDuplicateUserError(err) {
				result["error"] = "User already exists"
			}
			results = append(results, result)
			continue
		}
		results = append(results, gin.H{
			"email":    u.Email,
			"username": profile.Username,
			"password": password,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
