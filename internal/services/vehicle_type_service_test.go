package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"logistics-backend/internal/models"
	"logistics-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeTypeStore — каталог в памяти со счетчиком обращений
type fakeTypeStore struct {
	mappings []models.VehicleTypeMapping
	err      error

	lookups   int
	listCalls int
}

func (s *fakeTypeStore) FindBySlugOrLabel(ctx context.Context, term string) (*models.VehicleTypeMapping, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.mappings {
		m := &s.mappings[i]
		if strings.EqualFold(m.VehicleType, term) || strings.EqualFold(m.Label, term) {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeTypeStore) ListActive(ctx context.Context) ([]models.VehicleTypeMapping, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	var active []models.VehicleTypeMapping
	for _, m := range s.mappings {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

func catalogFixture() []models.VehicleTypeMapping {
	return []models.VehicleTypeMapping{
		{ID: 1, VehicleType: "mini_truck", Label: "Mini Truck", IsActive: true},
		{ID: 2, VehicleType: "car", Label: "Легковой", IsActive: true},
		{ID: 3, VehicleType: "van", Label: "Фургон", IsActive: false},
	}
}

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		name         string
		driverType   string
		shipmentType string
		storeErr     error
		want         bool
		wantLookups  int
	}{
		{
			name:         "Прямое совпадение без обращения к каталогу",
			driverType:   "Truck",
			shipmentType: "truck",
			want:         true,
			wantLookups:  0,
		},
		{
			name:         "Прямое совпадение с пробелами",
			driverType:   " mini_truck ",
			shipmentType: "mini_truck",
			want:         true,
			wantLookups:  0,
		},
		{
			name:         "Слаг водителя против названия из заявки",
			driverType:   "mini_truck",
			shipmentType: "Mini Truck",
			want:         true,
			wantLookups:  1,
		},
		{
			name:         "Название водителя против слага из заявки",
			driverType:   "Mini Truck",
			shipmentType: "mini_truck",
			want:         true,
			wantLookups:  1,
		},
		{
			name:         "Несовпадающие типы",
			driverType:   "car",
			shipmentType: "Mini Truck",
			want:         false,
			wantLookups:  1,
		},
		{
			name:         "Неизвестный тип заявки",
			driverType:   "car",
			shipmentType: "hovercraft",
			want:         false,
			wantLookups:  1,
		},
		{
			name:         "Ошибка каталога блокирует назначение",
			driverType:   "car",
			shipmentType: "Легковой",
			storeErr:     errors.New("connection refused"),
			want:         false,
			wantLookups:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTypeStore{mappings: catalogFixture(), err: tt.storeErr}
			svc := services.NewVehicleTypeService(store)

			got := svc.IsCompatible(context.Background(), tt.driverType, tt.shipmentType)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLookups, store.lookups)
		})
	}
}

func TestResolveSearchTerms(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		storeErr  error
		want      []string
	}{
		{
			name:      "Известный слаг расширяется до слага и названия",
			requested: "mini_truck",
			want:      []string{"mini_truck", "Mini Truck"},
		},
		{
			name:      "Известное название расширяется так же",
			requested: "Mini Truck",
			want:      []string{"mini_truck", "Mini Truck"},
		},
		{
			name:      "Неизвестный тип остается как есть",
			requested: "hovercraft",
			want:      []string{"hovercraft"},
		},
		{
			name:      "При ошибке каталога используется исходная строка",
			requested: "car",
			storeErr:  errors.New("timeout"),
			want:      []string{"car"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTypeStore{mappings: catalogFixture(), err: tt.storeErr}
			svc := services.NewVehicleTypeService(store)

			got := svc.ResolveSearchTerms(context.Background(), tt.requested)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCachedCatalog(t *testing.T) {
	t.Run("Повторный вызов не обращается к хранилищу", func(t *testing.T) {
		store := &fakeTypeStore{mappings: catalogFixture()}
		svc := services.NewVehicleTypeService(store)

		first, err := svc.CachedCatalog(context.Background())
		require.NoError(t, err)
		require.Len(t, first, 2) // только активные записи

		_, err = svc.CachedCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, store.listCalls)
	})

	t.Run("После Invalidate каталог перечитывается", func(t *testing.T) {
		store := &fakeTypeStore{mappings: catalogFixture()}
		svc := services.NewVehicleTypeService(store)

		_, err := svc.CachedCatalog(context.Background())
		require.NoError(t, err)

		svc.Invalidate()

		_, err = svc.CachedCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, store.listCalls)
	})

	t.Run("Ошибка без кэша возвращается вызывающему", func(t *testing.T) {
		store := &fakeTypeStore{err: errors.New("connection refused")}
		svc := services.NewVehicleTypeService(store)

		_, err := svc.CachedCatalog(context.Background())
		assert.Error(t, err)
	})
}

func TestIsKnownType(t *testing.T) {
	store := &fakeTypeStore{mappings: catalogFixture()}
	svc := services.NewVehicleTypeService(store)
	ctx := context.Background()

	assert.True(t, svc.IsKnownType(ctx, "mini_truck"))
	assert.True(t, svc.IsKnownType(ctx, "MINI TRUCK"))
	assert.True(t, svc.IsKnownType(ctx, "Легковой"))
	assert.False(t, svc.IsKnownType(ctx, "hovercraft"))
	// Неактивная запись не считается известным типом
	assert.False(t, svc.IsKnownType(ctx, "van"))
}
