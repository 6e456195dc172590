package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePasswordHashing(t *testing.T) {
	profile := Profile{Username: "david_admin", Email: "davidadmin@ortega.com", Role: RoleAdministrador}

	err := profile.SetPassword("Ortega-secret-123")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.PasswordHash)
	assert.NotEqual(t, "Ortega-secret-123", profile.PasswordHash, "password must not be stored in plaintext")

	assert.True(t, profile.CheckPassword("Ortega-secret-123"))
	assert.False(t, profile.CheckPassword("wrong-password"))
	assert.False(t, profile.CheckPassword(""))
}

func TestProfilePasswordHashNotSerialized(t *testing.T) {
	profile := Profile{Username: "caja_imprenta", Email: "cajaimprenta@ortega.com", Name: "Caja", Role: RoleCaja}
	require.NoError(t, profile.SetPassword("Ortega-secret-123"))

	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password_hash")
	assert.NotContains(t, string(data), profile.PasswordHash)
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdministrador, true},
		{RoleCaja, true},
		{RoleEstacion1, true},
		{RoleEstacion3, true},
		{RoleEstacion4, true},
		{"estación 2", false},
		{"admin", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRole(tt.role))
		})
	}
}

func TestIsStationRole(t *testing.T) {
	assert.True(t, IsStationRole(RoleEstacion1))
	assert.True(t, IsStationRole(RoleEstacion3))
	assert.True(t, IsStationRole(RoleEstacion4))
	assert.False(t, IsStationRole(RoleCaja))
	assert.False(t, IsStationRole(RoleAdministrador))
}
