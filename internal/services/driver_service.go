package services

import (
	"context"
	"strings"

	"logistics-backend/internal/models"

	"gorm.io/gorm"
)

// DriverStore — доступ к водителям для подбора на заявку
type DriverStore interface {
	// FindOnlineByVehicleTypes возвращает активных водителей со статусом online,
	// чей тип транспорта совпадает с одним из вариантов без учета регистра
	FindOnlineByVehicleTypes(ctx context.Context, terms []string) ([]models.Driver, error)
	// LoadDocuments загружает документы для набора водителей
	LoadDocuments(ctx context.Context, driverIDs []uint) (map[uint][]models.DriverDocument, error)
}

type GormDriverStore struct {
	db *gorm.DB
}

func NewGormDriverStore(db *gorm.DB) *GormDriverStore {
	return &GormDriverStore{db: db}
}

func (s *GormDriverStore) FindOnlineByVehicleTypes(ctx context.Context, terms []string) ([]models.Driver, error) {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		lowered = append(lowered, strings.ToLower(t))
	}

	var drivers []models.Driver
	err := s.db.WithContext(ctx).
		Where("LOWER(vehicle_type) IN ? AND is_active = ? AND availability_status = ?",
			lowered, true, models.DriverOnline).
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

func (s *GormDriverStore) LoadDocuments(ctx context.Context, driverIDs []uint) (map[uint][]models.DriverDocument, error) {
	var docs []models.DriverDocument
	if err := s.db.WithContext(ctx).Where("driver_id IN ?", driverIDs).Find(&docs).Error; err != nil {
		return nil, err
	}

	byDriver := make(map[uint][]models.DriverDocument, len(driverIDs))
	for _, doc := range docs {
		byDriver[doc.DriverID] = append(byDriver[doc.DriverID], doc)
	}
	return byDriver, nil
}

// DriverService подбирает водителей, доступных для назначения на заявку
type DriverService struct {
	store DriverStore
	types *VehicleTypeService
}

func NewDriverService(store DriverStore, types *VehicleTypeService) *DriverService {
	return &DriverService{store: store, types: types}
}

// FindAvailable возвращает водителей, доступных для заявки с указанным типом
// транспорта: активных, со статусом online и хотя бы одним подтвержденным
// документом. Тип запроса расширяется до слага и названия из каталога.
func (s *DriverService) FindAvailable(ctx context.Context, requestedType string) ([]models.DriverResponse, error) {
	terms := s.types.ResolveSearchTerms(ctx, requestedType)

	candidates, err := s.store.FindOnlineByVehicleTypes(ctx, terms)
	if err != nil {
		return nil, err
	}

	// Нет кандидатов — не ходим за документами
	if len(candidates) == 0 {
		return []models.DriverResponse{}, nil
	}

	ids := make([]uint, 0, len(candidates))
	for _, d := range candidates {
		ids = append(ids, d.ID)
	}

	docsByDriver, err := s.store.LoadDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}

	available := make([]models.DriverResponse, 0, len(candidates))
	for _, driver := range candidates {
		verified := false
		for _, doc := range docsByDriver[driver.ID] {
			if doc.Status == models.DocumentStatusVerified {
				verified = true
				break
			}
		}
		if !verified {
			continue
		}

		resp := driver.ToResponse()
		resp.DocumentsStatus = "verified"
		available = append(available, resp)
	}

	return available, nil
}
