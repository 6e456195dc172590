package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles recognized by the application. The "estación N" roles are the
// production stations.
const (
	RoleAdministrador = "Administrador"
	RoleCaja          = "Caja"
	RoleEstacion1     = "estación 1"
	RoleEstacion3     = "estación 3"
	RoleEstacion4     = "estación 4"
)

// StationRoles lists the production-station roles in display order.
var StationRoles = []string{RoleEstacion1, RoleEstacion3, RoleEstacion4}

// IsValidRole reports whether the role is one of the recognized roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdministrador, RoleCaja, RoleEstacion1, RoleEstacion3, RoleEstacion4:
		return true
	}
	return false
}

// IsStationRole reports whether the role is a production station.
func IsStationRole(role string) bool {
	for _, r := range StationRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile represents a user profile in the system
type Profile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"not null" json:"name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// SetPassword hashes the plaintext password and stores it on the profile
func (p *Profile) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the plaintext password against the stored hash
func (p *Profile) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(plaintext)) == nil
}
