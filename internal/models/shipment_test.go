package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"logistics-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentViews(t *testing.T) {
	userID := uint(5)
	vehicleID := uint(7)
	eta := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	shipment := models.Shipment{
		ID:                    20,
		TrackingNumber:        "SHP-AAAA111122",
		UserID:                &userID,
		GuestName:             "Гость",
		GuestPhone:            "+77001234567",
		PickupAddress:         "Абая 10",
		DropoffAddress:        "Сатпаева 22",
		VehicleType:           "mini_truck",
		VehicleID:             &vehicleID,
		WeightKg:              120,
		Status:                models.ShipmentStatusInTransit,
		EstimatedDeliveryDate: &eta,
		Notes:                 "хрупкий груз",
	}

	t.Run("Представление для заказчика содержит детали заявки", func(t *testing.T) {
		view := shipment.ToAuthenticatedView()

		assert.Equal(t, uint(20), view.ID)
		assert.Equal(t, "SHP-AAAA111122", view.TrackingNumber)
		assert.Equal(t, "mini_truck", view.VehicleType)
		assert.Equal(t, &vehicleID, view.VehicleID)
		assert.Equal(t, "хрупкий груз", view.Notes)
	})

	t.Run("Гостевое представление не раскрывает внутренние поля", func(t *testing.T) {
		view := shipment.ToGuestView()

		raw, err := json.Marshal(view)
		require.NoError(t, err)

		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &fields))

		assert.Contains(t, fields, "trackingNumber")
		assert.Contains(t, fields, "status")
		assert.NotContains(t, fields, "id")
		assert.NotContains(t, fields, "notes")
		assert.NotContains(t, fields, "vehicle_id")
		assert.NotContains(t, fields, "user_id")
		assert.NotContains(t, fields, "guestPhone")
	})
}
