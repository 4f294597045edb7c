package handlers

import (
	"testing"

	"logistics-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanViewShipment(t *testing.T) {
	ownerID := uint(5)
	owned := &models.Shipment{ID: 20, UserID: &ownerID}
	guest := &models.Shipment{ID: 21}

	tests := []struct {
		name        string
		role        string
		principalID uint
		shipment    *models.Shipment
		want        bool
	}{
		{
			name:        "Админ видит любую заявку",
			role:        "admin",
			principalID: 1,
			shipment:    owned,
			want:        true,
		},
		{
			name:        "Владелец видит свою заявку",
			role:        "user",
			principalID: 5,
			shipment:    owned,
			want:        true,
		},
		{
			name:        "Чужой пользователь не видит заявку",
			role:        "user",
			principalID: 6,
			shipment:    owned,
			want:        false,
		},
		{
			name:        "Водитель с совпадающим id не проходит проверку владельца",
			role:        "driver",
			principalID: 5,
			shipment:    owned,
			want:        false,
		},
		{
			name:        "Гостевая заявка недоступна пользователю",
			role:        "user",
			principalID: 5,
			shipment:    guest,
			want:        false,
		},
		{
			name:        "Гостевая заявка доступна админу",
			role:        "admin",
			principalID: 0,
			shipment:    guest,
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canViewShipment(tt.role, tt.principalID, tt.shipment))
		})
	}
}
