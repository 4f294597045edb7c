package models_test

import (
	"testing"

	"logistics-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVehicleTypeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mini Truck", "mini_truck"},
		{"mini-truck", "mini_truck"},
		{"  Car  ", "car"},
		{"TRUCK", "truck"},
		{"mini_truck", "mini_truck"},
		{"Mini  Truck", "mini_truck"}, // двойной пробел схлопывается
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, models.NormalizeVehicleTypeSlug(tt.in))
		})
	}
}

func TestHasVerifiedDocument(t *testing.T) {
	driver := models.Driver{
		Documents: []models.DriverDocument{
			{Status: models.DocumentStatusPending},
			{Status: models.DocumentStatusRejected},
		},
	}
	assert.False(t, driver.HasVerifiedDocument())

	driver.Documents = append(driver.Documents, models.DriverDocument{Status: models.DocumentStatusVerified})
	assert.True(t, driver.HasVerifiedDocument())
}
