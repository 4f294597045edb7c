package services_test

import (
	"context"
	"strings"
	"testing"

	"logistics-backend/internal/models"
	"logistics-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriverStore фильтрует водителей так же, как SQL-запрос в боевом хранилище
type fakeDriverStore struct {
	drivers []models.Driver
	docs    map[uint][]models.DriverDocument

	receivedTerms []string
	docCalls      int
}

func (s *fakeDriverStore) FindOnlineByVehicleTypes(ctx context.Context, terms []string) ([]models.Driver, error) {
	s.receivedTerms = terms

	lowered := make(map[string]bool, len(terms))
	for _, t := range terms {
		lowered[strings.ToLower(t)] = true
	}

	var matched []models.Driver
	for _, d := range s.drivers {
		if !d.IsActive || d.AvailabilityStatus != models.DriverOnline {
			continue
		}
		if lowered[strings.ToLower(d.VehicleType)] {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func (s *fakeDriverStore) LoadDocuments(ctx context.Context, driverIDs []uint) (map[uint][]models.DriverDocument, error) {
	s.docCalls++
	result := make(map[uint][]models.DriverDocument)
	for _, id := range driverIDs {
		result[id] = s.docs[id]
	}
	return result, nil
}

func verifiedDoc(driverID uint) models.DriverDocument {
	return models.DriverDocument{DriverID: driverID, DocType: "license", Status: models.DocumentStatusVerified}
}

func pendingDoc(driverID uint) models.DriverDocument {
	return models.DriverDocument{DriverID: driverID, DocType: "license", Status: models.DocumentStatusPending}
}

func TestFindAvailable(t *testing.T) {
	drivers := []models.Driver{
		{ID: 1, FirstName: "Аскар", VehicleType: "mini_truck", IsActive: true, AvailabilityStatus: models.DriverOnline},
		{ID: 2, FirstName: "Болат", VehicleType: "Mini Truck", IsActive: true, AvailabilityStatus: models.DriverOnline},
		{ID: 3, FirstName: "Виктор", VehicleType: "mini_truck", IsActive: true, AvailabilityStatus: models.DriverOffline},
		{ID: 4, FirstName: "Галым", VehicleType: "mini_truck", IsActive: false, AvailabilityStatus: models.DriverOnline},
		{ID: 5, FirstName: "Дамир", VehicleType: "mini_truck", IsActive: true, AvailabilityStatus: models.DriverOnline},
	}
	docs := map[uint][]models.DriverDocument{
		1: {verifiedDoc(1)},
		2: {pendingDoc(2), verifiedDoc(2)},
		3: {verifiedDoc(3)},
		4: {verifiedDoc(4)},
		5: {pendingDoc(5)}, // нет подтвержденных документов
	}

	t.Run("Возвращает только активных online водителей с подтвержденным документом", func(t *testing.T) {
		store := &fakeDriverStore{drivers: drivers, docs: docs}
		types := services.NewVehicleTypeService(&fakeTypeStore{mappings: catalogFixture()})
		svc := services.NewDriverService(store, types)

		available, err := svc.FindAvailable(context.Background(), "Mini Truck")
		require.NoError(t, err)

		ids := make([]uint, 0, len(available))
		for _, d := range available {
			ids = append(ids, d.ID)
		}
		assert.Equal(t, []uint{1, 2}, ids)

		for _, d := range available {
			assert.Equal(t, "verified", d.DocumentsStatus)
		}
	})

	t.Run("Запрошенный тип расширяется до слага и названия", func(t *testing.T) {
		store := &fakeDriverStore{drivers: drivers, docs: docs}
		types := services.NewVehicleTypeService(&fakeTypeStore{mappings: catalogFixture()})
		svc := services.NewDriverService(store, types)

		_, err := svc.FindAvailable(context.Background(), "Mini Truck")
		require.NoError(t, err)

		assert.Equal(t, []string{"mini_truck", "Mini Truck"}, store.receivedTerms)
	})

	t.Run("Без кандидатов документы не загружаются", func(t *testing.T) {
		store := &fakeDriverStore{drivers: drivers, docs: docs}
		types := services.NewVehicleTypeService(&fakeTypeStore{mappings: catalogFixture()})
		svc := services.NewDriverService(store, types)

		available, err := svc.FindAvailable(context.Background(), "hovercraft")
		require.NoError(t, err)

		assert.Empty(t, available)
		assert.Equal(t, 0, store.docCalls)
	})

	t.Run("Неизвестный тип ищется по исходной строке", func(t *testing.T) {
		store := &fakeDriverStore{
			drivers: []models.Driver{
				{ID: 7, VehicleType: "Газель", IsActive: true, AvailabilityStatus: models.DriverOnline},
			},
			docs: map[uint][]models.DriverDocument{7: {verifiedDoc(7)}},
		}
		types := services.NewVehicleTypeService(&fakeTypeStore{mappings: catalogFixture()})
		svc := services.NewDriverService(store, types)

		available, err := svc.FindAvailable(context.Background(), "Газель")
		require.NoError(t, err)

		require.Len(t, available, 1)
		assert.Equal(t, uint(7), available[0].ID)
	})
}
