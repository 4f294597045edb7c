package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"logistics-backend/internal/models"

	"gorm.io/gorm"
)

// VehicleTypeStore — доступ к каталогу типов транспорта
type VehicleTypeStore interface {
	// FindBySlugOrLabel ищет одну запись каталога по слагу или названию
	// без учета регистра. Возвращает gorm.ErrRecordNotFound, если записи нет.
	FindBySlugOrLabel(ctx context.Context, term string) (*models.VehicleTypeMapping, error)
	// ListActive возвращает все активные записи каталога
	ListActive(ctx context.Context) ([]models.VehicleTypeMapping, error)
}

type GormVehicleTypeStore struct {
	db *gorm.DB
}

func NewGormVehicleTypeStore(db *gorm.DB) *GormVehicleTypeStore {
	return &GormVehicleTypeStore{db: db}
}

func (s *GormVehicleTypeStore) FindBySlugOrLabel(ctx context.Context, term string) (*models.VehicleTypeMapping, error) {
	var mapping models.VehicleTypeMapping
	// Порядок по id делает выбор детерминированным, если несколько записей
	// совпадают по label/слагу одновременно
	err := s.db.WithContext(ctx).
		Where("LOWER(vehicle_type) = LOWER(?) OR LOWER(label) = LOWER(?)", term, term).
		Order("id").
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (s *GormVehicleTypeStore) ListActive(ctx context.Context) ([]models.VehicleTypeMapping, error) {
	var mappings []models.VehicleTypeMapping
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// VehicleTypeService решает, совместим ли транспорт водителя с требованием
// заявки. Водители вводят тип свободным текстом, администраторы ведут каталог
// слагов и названий — сервис сводит оба словаря без миграции исторических данных.
type VehicleTypeService struct {
	store VehicleTypeStore

	mu        sync.Mutex
	catalog   []models.VehicleTypeMapping
	fetchedAt time.Time
	ttl       time.Duration
}

func NewVehicleTypeService(store VehicleTypeStore) *VehicleTypeService {
	return &VehicleTypeService{
		store: store,
		ttl:   5 * time.Minute,
	}
}

// IsCompatible проверяет совместимость типа транспорта водителя с типом заявки.
// Прямое совпадение без учета регистра не требует обращения к каталогу.
// Ошибка каталога трактуется как "не совместим": консервативно блокируем
// назначение вместо риска неверного совпадения.
func (s *VehicleTypeService) IsCompatible(ctx context.Context, driverType, shipmentType string) bool {
	if strings.EqualFold(strings.TrimSpace(driverType), strings.TrimSpace(shipmentType)) {
		return true
	}

	mapping, err := s.store.FindBySlugOrLabel(ctx, strings.TrimSpace(shipmentType))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Ошибка при поиске типа транспорта %q: %v", shipmentType, err)
		}
		return false
	}

	dt := strings.TrimSpace(driverType)
	return strings.EqualFold(dt, mapping.VehicleType) || strings.EqualFold(dt, mapping.Label)
}

// ResolveSearchTerms возвращает набор допустимых вариантов написания для
// запрошенного типа: слаг и название из каталога, либо исходную строку,
// если записи в каталоге нет.
func (s *VehicleTypeService) ResolveSearchTerms(ctx context.Context, requestedType string) []string {
	term := strings.TrimSpace(requestedType)
	mapping, err := s.store.FindBySlugOrLabel(ctx, term)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Ошибка при поиске типа транспорта %q: %v", requestedType, err)
		}
		return []string{term}
	}
	return []string{mapping.VehicleType, mapping.Label}
}

// CachedCatalog возвращает активные записи каталога с кэшированием в памяти
// на 5 минут. Используется при валидации заявок на доставку.
func (s *VehicleTypeService) CachedCatalog(ctx context.Context) ([]models.VehicleTypeMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.catalog, nil
	}

	catalog, err := s.store.ListActive(ctx)
	if err != nil {
		// Отдаем устаревшие данные, если обновить не удалось
		if s.catalog != nil {
			log.Printf("Ошибка при обновлении каталога типов транспорта: %v", err)
			return s.catalog, nil
		}
		return nil, err
	}

	s.catalog = catalog
	s.fetchedAt = time.Now()
	return s.catalog, nil
}

// Refresh принудительно перечитывает каталог из хранилища
func (s *VehicleTypeService) Refresh(ctx context.Context) error {
	catalog, err := s.store.ListActive(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog = catalog
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Invalidate сбрасывает кэш каталога; вызывается после изменений каталога
func (s *VehicleTypeService) Invalidate() {
	s.mu.Lock()
	s.catalog = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

// IsKnownType проверяет по кэшированному каталогу, известен ли тип транспорта
func (s *VehicleTypeService) IsKnownType(ctx context.Context, vehicleType string) bool {
	catalog, err := s.CachedCatalog(ctx)
	if err != nil {
		log.Printf("Ошибка при получении каталога типов транспорта: %v", err)
		return false
	}
	vt := strings.TrimSpace(vehicleType)
	for _, m := range catalog {
		if strings.EqualFold(vt, m.VehicleType) || strings.EqualFold(vt, m.Label) {
			return true
		}
	}
	return false
}
