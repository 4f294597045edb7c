package services_test

import (
	"context"
	"strings"
	"testing"

	"logistics-backend/internal/models"
	"logistics-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeShipmentStore struct {
	driver   *models.Driver
	shipment *models.Shipment
	vehicles map[uint]*models.Vehicle

	created *models.Vehicle
	updated *models.Shipment
}

func (s *fakeShipmentStore) FindEligibleDriver(ctx context.Context, driverID uint) (*models.Driver, error) {
	if s.driver == nil || s.driver.ID != driverID {
		return nil, gorm.ErrRecordNotFound
	}
	d := *s.driver
	return &d, nil
}

func (s *fakeShipmentStore) FindShipment(ctx context.Context, shipmentID uint) (*models.Shipment, error) {
	if s.shipment == nil || s.shipment.ID != shipmentID {
		return nil, gorm.ErrRecordNotFound
	}
	sh := *s.shipment
	return &sh, nil
}

func (s *fakeShipmentStore) FindVehicle(ctx context.Context, vehicleID uint) (*models.Vehicle, error) {
	if v, ok := s.vehicles[vehicleID]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeShipmentStore) FindVehicleByDriverAndNumber(ctx context.Context, driverID uint, number string) (*models.Vehicle, error) {
	for _, v := range s.vehicles {
		if v.DriverID == driverID && v.VehicleNumber == number {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeShipmentStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = 100
	s.created = vehicle
	return nil
}

func (s *fakeShipmentStore) UpdateShipment(ctx context.Context, shipment *models.Shipment) error {
	s.updated = shipment
	return nil
}

type fakeNotifier struct {
	driverCalls []uint
	userCalls   []uint
}

func (n *fakeNotifier) NotifyDriverAssigned(driverID uint, shipment *models.Shipment) {
	n.driverCalls = append(n.driverCalls, driverID)
}

func (n *fakeNotifier) NotifyUserAssigned(userID uint, shipment *models.Shipment) {
	n.userCalls = append(n.userCalls, userID)
}

func eligibleDriver() *models.Driver {
	return &models.Driver{
		ID:              10,
		FirstName:       "Аскар",
		VehicleType:     "mini_truck",
		VehicleNumber:   "123ABC02",
		VehicleCapacity: "3",
		MaxWeightKg:     "1500.5",
		IsActive:        true,
	}
}

func pendingShipment() *models.Shipment {
	userID := uint(5)
	return &models.Shipment{
		ID:             20,
		TrackingNumber: "SHP-AAAA111122",
		UserID:         &userID,
		VehicleType:    "Mini Truck",
		Status:         models.ShipmentStatusPending,
	}
}

func newAssignService(store *fakeShipmentStore, notifier services.AssignmentNotifier) *services.ShipmentService {
	types := services.NewVehicleTypeService(&fakeTypeStore{mappings: catalogFixture()})
	return services.NewShipmentService(store, types, notifier)
}

func TestAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("Недопущенный водитель", func(t *testing.T) {
		store := &fakeShipmentStore{shipment: pendingShipment()}
		svc := newAssignService(store, nil)

		_, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10})

		assert.ErrorIs(t, err, services.ErrDriverNotEligible)
		assert.Nil(t, store.updated)
	})

	t.Run("Заявка не найдена", func(t *testing.T) {
		store := &fakeShipmentStore{driver: eligibleDriver()}
		svc := newAssignService(store, nil)

		_, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10})

		assert.ErrorIs(t, err, services.ErrShipmentNotFound)
	})

	t.Run("Несовместимый тип транспорта", func(t *testing.T) {
		driver := eligibleDriver()
		driver.VehicleType = "car"
		store := &fakeShipmentStore{driver: driver, shipment: pendingShipment()}
		svc := newAssignService(store, nil)

		_, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10})

		assert.ErrorIs(t, err, services.ErrVehicleTypeMismatch)
		assert.Nil(t, store.updated)
	})

	t.Run("Указанный транспорт не найден", func(t *testing.T) {
		store := &fakeShipmentStore{driver: eligibleDriver(), shipment: pendingShipment()}
		svc := newAssignService(store, nil)

		vehicleID := uint(77)
		_, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10, VehicleID: &vehicleID})

		assert.ErrorIs(t, err, services.ErrVehicleNotFound)
	})

	t.Run("Транспорт другого водителя", func(t *testing.T) {
		store := &fakeShipmentStore{
			driver:   eligibleDriver(),
			shipment: pendingShipment(),
			vehicles: map[uint]*models.Vehicle{
				77: {ID: 77, DriverID: 999, VehicleNumber: "777XX02"},
			},
		}
		svc := newAssignService(store, nil)

		vehicleID := uint(77)
		_, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10, VehicleID: &vehicleID})

		assert.ErrorIs(t, err, services.ErrVehicleOwnershipMismatch)
		assert.Nil(t, store.updated)
	})

	t.Run("Назначение с созданием транспорта из анкеты водителя", func(t *testing.T) {
		store := &fakeShipmentStore{driver: eligibleDriver(), shipment: pendingShipment()}
		notifier := &fakeNotifier{}
		svc := newAssignService(store, notifier)

		shipment, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10})
		require.NoError(t, err)

		require.NotNil(t, store.created)
		assert.Equal(t, uint(10), store.created.DriverID)
		assert.Equal(t, "123ABC02", store.created.VehicleNumber)
		assert.Equal(t, models.VehicleCategoryTruck, store.created.Category)
		assert.Equal(t, 3, store.created.Capacity)
		assert.Equal(t, 1500.5, store.created.MaxWeightKg)

		require.NotNil(t, shipment.VehicleID)
		assert.Equal(t, store.created.ID, *shipment.VehicleID)

		// Назначение не меняет статус заявки
		assert.Equal(t, models.ShipmentStatusPending, shipment.Status)

		assert.Equal(t, []uint{10}, notifier.driverCalls)
		assert.Equal(t, []uint{5}, notifier.userCalls)
	})

	t.Run("Существующий транспорт по номеру не дублируется", func(t *testing.T) {
		existing := &models.Vehicle{ID: 55, DriverID: 10, VehicleNumber: "123ABC02", Category: models.VehicleCategoryTruck}
		store := &fakeShipmentStore{
			driver:   eligibleDriver(),
			shipment: pendingShipment(),
			vehicles: map[uint]*models.Vehicle{55: existing},
		}
		svc := newAssignService(store, nil)

		shipment, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10})
		require.NoError(t, err)

		assert.Nil(t, store.created)
		require.NotNil(t, shipment.VehicleID)
		assert.Equal(t, uint(55), *shipment.VehicleID)
	})

	t.Run("Гостевая заявка не уведомляет заказчика", func(t *testing.T) {
		shipment := pendingShipment()
		shipment.UserID = nil
		store := &fakeShipmentStore{driver: eligibleDriver(), shipment: shipment}
		notifier := &fakeNotifier{}
		svc := newAssignService(store, notifier)

		_, err := svc.Assign(ctx, services.AssignParams{ShipmentID: 20, DriverID: 10})
		require.NoError(t, err)

		assert.Equal(t, []uint{10}, notifier.driverCalls)
		assert.Empty(t, notifier.userCalls)
	})
}

func TestVehicleCategoryFor(t *testing.T) {
	tests := []struct {
		vehicleType string
		want        models.VehicleCategory
	}{
		{"bike", models.VehicleCategoryMotorcycle},
		{"Motorcycle", models.VehicleCategoryMotorcycle},
		{"car", models.VehicleCategoryCar},
		{"van", models.VehicleCategoryVan},
		{"truck", models.VehicleCategoryTruck},
		{"Mini Truck", models.VehicleCategoryTruck},
		{"mini-truck", models.VehicleCategoryTruck},
		{"Газель", models.VehicleCategoryCar}, // неизвестный тип считается легковым
		{"", models.VehicleCategoryCar},
	}

	for _, tt := range tests {
		t.Run(tt.vehicleType, func(t *testing.T) {
			assert.Equal(t, tt.want, services.VehicleCategoryFor(tt.vehicleType))
		})
	}
}

func TestGenerateTrackingNumber(t *testing.T) {
	first := services.GenerateTrackingNumber()
	second := services.GenerateTrackingNumber()

	assert.True(t, strings.HasPrefix(first, "SHP-"))
	assert.Len(t, first, 14)
	assert.Equal(t, strings.ToUpper(first), first)
	assert.NotEqual(t, first, second)
}
