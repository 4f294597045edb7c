package models

import (
	"time"
)

type DriverAvailability string

const (
	DriverOnline  DriverAvailability = "online"
	DriverOffline DriverAvailability = "offline"
)

type Driver struct {
	ID                 uint               `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	FirstName          string             `json:"firstName" gorm:"column:first_name;not null;type:varchar(255)"`
	LastName           string             `json:"lastName" gorm:"column:last_name;type:varchar(255)"`
	Phone              string             `json:"phone" gorm:"column:phone;unique;not null;type:varchar(20)"`
	PhotoUrl           string             `json:"photoUrl" gorm:"column:photo_url;type:text"`
	VehicleType        string             `json:"vehicleType" gorm:"column:vehicle_type;type:varchar(100)"` // свободный текст, вводится водителем
	VehicleNumber      string             `json:"vehicleNumber" gorm:"column:vehicle_number;type:varchar(50)"`
	VehicleCapacity    string             `json:"vehicleCapacity" gorm:"column:vehicle_capacity;type:varchar(50)"`
	MaxWeightKg        string             `json:"maxWeightKg" gorm:"column:max_weight_kg;type:varchar(50)"`
	IsActive           bool               `json:"isActive" gorm:"column:is_active;default:true"`
	AvailabilityStatus DriverAvailability `json:"availability_status" gorm:"column:availability_status;type:varchar(20);default:'offline'"`
	FCMToken           string             `json:"fcmToken" gorm:"column:fcm_token;type:text"`
	CreatedAt          time.Time          `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt          time.Time          `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
	Documents          []DriverDocument   `json:"documents,omitempty" gorm:"foreignKey:DriverID"`
	Vehicles           []Vehicle          `json:"vehicles,omitempty" gorm:"foreignKey:DriverID"`
}

type DriverResponse struct {
	ID                 uint               `json:"id"`
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Phone              string             `json:"phone"`
	PhotoUrl           string             `json:"photoUrl,omitempty"`
	VehicleType        string             `json:"vehicleType"`
	VehicleNumber      string             `json:"vehicleNumber"`
	IsActive           bool               `json:"isActive"`
	AvailabilityStatus DriverAvailability `json:"availability_status"`
	DocumentsStatus    string             `json:"documentsStatus,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

func (d *Driver) ToResponse() DriverResponse {
	return DriverResponse{
		ID:                 d.ID,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		Phone:              d.Phone,
		PhotoUrl:           d.PhotoUrl,
		VehicleType:        d.VehicleType,
		VehicleNumber:      d.VehicleNumber,
		IsActive:           d.IsActive,
		AvailabilityStatus: d.AvailabilityStatus,
		CreatedAt:          d.CreatedAt,
	}
}

// HasVerifiedDocument проверяет наличие хотя бы одного подтвержденного документа
func (d *Driver) HasVerifiedDocument() bool {
	for _, doc := range d.Documents {
		if doc.Status == DocumentStatusVerified {
			return true
		}
	}
	return false
}
