package models

import (
	"time"
)

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"    // Ожидает назначения
	ShipmentStatusPickedUp  ShipmentStatus = "picked_up"  // Груз забран
	ShipmentStatusInTransit ShipmentStatus = "in_transit" // В пути
	ShipmentStatusDelivered ShipmentStatus = "delivered"  // Доставлен
	ShipmentStatusCancelled ShipmentStatus = "cancelled"  // Отменен
)

type Shipment struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	TrackingNumber        string         `json:"trackingNumber" gorm:"column:tracking_number;unique;not null;type:varchar(50)"`
	UserID                *uint          `json:"user_id,omitempty" gorm:"column:user_id;index"` // nil для гостевых заявок
	GuestName             string         `json:"guestName,omitempty" gorm:"column:guest_name;type:varchar(255)"`
	GuestPhone            string         `json:"guestPhone,omitempty" gorm:"column:guest_phone;type:varchar(20)"`
	PickupAddress         string         `json:"pickupAddress" gorm:"column:pickup_address;not null;type:text"`
	DropoffAddress        string         `json:"dropoffAddress" gorm:"column:dropoff_address;not null;type:text"`
	VehicleType           string         `json:"vehicleType" gorm:"column:vehicle_type;type:varchar(100)"` // свободный текст, указывается заказчиком
	VehicleID             *uint          `json:"vehicle_id,omitempty" gorm:"column:vehicle_id"`            // устанавливается при назначении
	WeightKg              float64        `json:"weightKg" gorm:"column:weight_kg;default:0"`
	Status                ShipmentStatus `json:"status" gorm:"column:status;type:varchar(20);default:'pending'"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty" gorm:"column:estimated_delivery_date"`
	Notes                 string         `json:"notes,omitempty" gorm:"column:notes;type:text"`
	CreatedAt             time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt             time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
	User                  *User          `json:"-" gorm:"foreignKey:UserID"`
	Vehicle               *Vehicle       `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// AuthenticatedShipmentView — представление заявки для авторизованного заказчика.
type AuthenticatedShipmentView struct {
	ID                    uint           `json:"id"`
	TrackingNumber        string         `json:"trackingNumber"`
	PickupAddress         string         `json:"pickupAddress"`
	DropoffAddress        string         `json:"dropoffAddress"`
	VehicleType           string         `json:"vehicleType"`
	VehicleID             *uint          `json:"vehicle_id,omitempty"`
	WeightKg              float64        `json:"weightKg"`
	Status                ShipmentStatus `json:"status"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty"`
	Notes                 string         `json:"notes,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// GuestShipmentView — урезанное представление для отслеживания без авторизации.
type GuestShipmentView struct {
	TrackingNumber        string         `json:"trackingNumber"`
	Status                ShipmentStatus `json:"status"`
	PickupAddress         string         `json:"pickupAddress"`
	DropoffAddress        string         `json:"dropoffAddress"`
	EstimatedDeliveryDate *time.Time     `json:"estimatedDeliveryDate,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
}

func (s *Shipment) ToAuthenticatedView() AuthenticatedShipmentView {
	return AuthenticatedShipmentView{
		ID:                    s.ID,
		TrackingNumber:        s.TrackingNumber,
		PickupAddress:         s.PickupAddress,
		DropoffAddress:        s.DropoffAddress,
		VehicleType:           s.VehicleType,
		VehicleID:             s.VehicleID,
		WeightKg:              s.WeightKg,
		Status:                s.Status,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		Notes:                 s.Notes,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func (s *Shipment) ToGuestView() GuestShipmentView {
	return GuestShipmentView{
		TrackingNumber:        s.TrackingNumber,
		Status:                s.Status,
		PickupAddress:         s.PickupAddress,
		DropoffAddress:        s.DropoffAddress,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		CreatedAt:             s.CreatedAt,
	}
}
