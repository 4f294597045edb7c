package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"logistics-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDriverNotEligible        = errors.New("водитель не допущен к назначению")
	ErrShipmentNotFound         = errors.New("заявка не найдена")
	ErrVehicleNotFound          = errors.New("транспорт не найден")
	ErrVehicleTypeMismatch      = errors.New("тип транспорта водителя не подходит для заявки")
	ErrVehicleOwnershipMismatch = errors.New("транспорт принадлежит другому водителю")
)

// ShipmentStore — доступ к данным для назначения водителя на заявку
type ShipmentStore interface {
	// FindEligibleDriver ищет активного водителя с хотя бы одним
	// подтвержденным документом. gorm.ErrRecordNotFound, если такого нет.
	FindEligibleDriver(ctx context.Context, driverID uint) (*models.Driver, error)
	FindShipment(ctx context.Context, shipmentID uint) (*models.Shipment, error)
	FindVehicle(ctx context.Context, vehicleID uint) (*models.Vehicle, error)
	FindVehicleByDriverAndNumber(ctx context.Context, driverID uint, number string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	UpdateShipment(ctx context.Context, shipment *models.Shipment) error
}

type GormShipmentStore struct {
	db *gorm.DB
}

func NewGormShipmentStore(db *gorm.DB) *GormShipmentStore {
	return &GormShipmentStore{db: db}
}

func (s *GormShipmentStore) FindEligibleDriver(ctx context.Context, driverID uint) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.WithContext(ctx).
		Joins("JOIN driver_documents ON driver_documents.driver_id = drivers.id AND driver_documents.status = ?", models.DocumentStatusVerified).
		Where("drivers.id = ? AND drivers.is_active = ?", driverID, true).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (s *GormShipmentStore) FindShipment(ctx context.Context, shipmentID uint) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := s.db.WithContext(ctx).First(&shipment, shipmentID).Error; err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (s *GormShipmentStore) FindVehicle(ctx context.Context, vehicleID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.WithContext(ctx).First(&vehicle, vehicleID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *GormShipmentStore) FindVehicleByDriverAndNumber(ctx context.Context, driverID uint, number string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.WithContext(ctx).
		Where("driver_id = ? AND vehicle_number = ?", driverID, number).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (s *GormShipmentStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return s.db.WithContext(ctx).Create(vehicle).Error
}

func (s *GormShipmentStore) UpdateShipment(ctx context.Context, shipment *models.Shipment) error {
	return s.db.WithContext(ctx).Save(shipment).Error
}

// AssignmentNotifier рассылает уведомления о назначении.
// Отправка best-effort: ошибки логируются и не влияют на результат.
type AssignmentNotifier interface {
	NotifyDriverAssigned(driverID uint, shipment *models.Shipment)
	NotifyUserAssigned(userID uint, shipment *models.Shipment)
}

type AssignParams struct {
	ShipmentID            uint
	DriverID              uint
	VehicleID             *uint
	Notes                 string
	EstimatedDeliveryDate *time.Time
}

// ShipmentService — назначение водителей на заявки
type ShipmentService struct {
	store    ShipmentStore
	types    *VehicleTypeService
	notifier AssignmentNotifier
}

func NewShipmentService(store ShipmentStore, types *VehicleTypeService, notifier AssignmentNotifier) *ShipmentService {
	return &ShipmentService{store: store, types: types, notifier: notifier}
}

// Assign назначает водителя на заявку. Все предусловия проверяются до первой
// записи; статус заявки не меняется — назначение не означает начало доставки.
// Отката созданного транспорта при последующей ошибке обновления заявки нет.
func (s *ShipmentService) Assign(ctx context.Context, params AssignParams) (*models.Shipment, error) {
	driver, err := s.store.FindEligibleDriver(ctx, params.DriverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotEligible
		}
		return nil, fmt.Errorf("ошибка при поиске водителя: %w", err)
	}

	shipment, err := s.store.FindShipment(ctx, params.ShipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("ошибка при поиске заявки: %w", err)
	}

	if !s.types.IsCompatible(ctx, driver.VehicleType, shipment.VehicleType) {
		return nil, ErrVehicleTypeMismatch
	}

	vehicle, err := s.resolveVehicle(ctx, driver, params.VehicleID)
	if err != nil {
		return nil, err
	}

	shipment.VehicleID = &vehicle.ID
	if params.Notes != "" {
		shipment.Notes = params.Notes
	}
	if params.EstimatedDeliveryDate != nil {
		shipment.EstimatedDeliveryDate = params.EstimatedDeliveryDate
	}

	if err := s.store.UpdateShipment(ctx, shipment); err != nil {
		return nil, fmt.Errorf("ошибка при обновлении заявки: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyDriverAssigned(driver.ID, shipment)
		if shipment.UserID != nil {
			s.notifier.NotifyUserAssigned(*shipment.UserID, shipment)
		}
	}

	return shipment, nil
}

// resolveVehicle подбирает конкретный транспорт для назначения: явный по id
// с проверкой владельца, либо существующий/новый транспорт водителя по номеру
func (s *ShipmentService) resolveVehicle(ctx context.Context, driver *models.Driver, vehicleID *uint) (*models.Vehicle, error) {
	if vehicleID != nil {
		vehicle, err := s.store.FindVehicle(ctx, *vehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVehicleNotFound
			}
			return nil, fmt.Errorf("ошибка при поиске транспорта: %w", err)
		}
		if vehicle.DriverID != driver.ID {
			return nil, ErrVehicleOwnershipMismatch
		}
		return vehicle, nil
	}

	vehicle, err := s.store.FindVehicleByDriverAndNumber(ctx, driver.ID, driver.VehicleNumber)
	if err == nil {
		return vehicle, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ошибка при поиске транспорта водителя: %w", err)
	}

	newVehicle := &models.Vehicle{
		DriverID:      driver.ID,
		VehicleNumber: driver.VehicleNumber,
		Category:      VehicleCategoryFor(driver.VehicleType),
	}
	if capacity, err := strconv.Atoi(strings.TrimSpace(driver.VehicleCapacity)); err == nil {
		newVehicle.Capacity = capacity
	}
	if weight, err := strconv.ParseFloat(strings.TrimSpace(driver.MaxWeightKg), 64); err == nil {
		newVehicle.MaxWeightKg = weight
	}

	if err := s.store.CreateVehicle(ctx, newVehicle); err != nil {
		return nil, fmt.Errorf("ошибка при создании транспорта: %w", err)
	}
	return newVehicle, nil
}

// VehicleCategoryFor отображает свободный текст типа транспорта водителя
// на фиксированную категорию. Неизвестные типы считаются легковыми.
func VehicleCategoryFor(vehicleType string) models.VehicleCategory {
	switch models.NormalizeVehicleTypeSlug(vehicleType) {
	case "bike", "motorcycle", "motorbike":
		return models.VehicleCategoryMotorcycle
	case "car":
		return models.VehicleCategoryCar
	case "van":
		return models.VehicleCategoryVan
	case "truck", "mini_truck":
		return models.VehicleCategoryTruck
	default:
		return models.VehicleCategoryCar
	}
}

// GenerateTrackingNumber формирует уникальный номер для отслеживания заявки
func GenerateTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("SHP-%s", strings.ToUpper(raw[:10]))
}
