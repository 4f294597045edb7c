package models

import (
	"time"
)

type VehicleCategory string

const (
	VehicleCategoryMotorcycle VehicleCategory = "motorcycle"
	VehicleCategoryCar        VehicleCategory = "car"
	VehicleCategoryVan        VehicleCategory = "van"
	VehicleCategoryTruck      VehicleCategory = "truck"
)

type Vehicle struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	DriverID      uint            `json:"driver_id" gorm:"column:driver_id;not null;index"`
	VehicleNumber string          `json:"vehicleNumber" gorm:"column:vehicle_number;not null;type:varchar(50)"`
	Category      VehicleCategory `json:"category" gorm:"column:category;type:varchar(20);default:'car'"`
	Capacity      int             `json:"capacity" gorm:"column:capacity;default:0"`
	MaxWeightKg   float64         `json:"maxWeightKg" gorm:"column:max_weight_kg;default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	Driver        Driver          `json:"-" gorm:"foreignKey:DriverID"`
}
