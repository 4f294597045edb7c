package models

import (
	"strings"
	"time"
)

// VehicleTypeMapping связывает внутренний слаг типа транспорта с отображаемым
// названием и тарифами. Каталог ведется администраторами.
type VehicleTypeMapping struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	VehicleType string    `json:"vehicleType" gorm:"column:vehicle_type;unique;not null;type:varchar(100)"` // слаг: lowercase_with_underscores
	Label       string    `json:"label" gorm:"column:label;not null;type:varchar(100)"`
	Capacity    int       `json:"capacity" gorm:"column:capacity;default:0"`
	BasePrice   float64   `json:"basePrice" gorm:"column:base_price;default:0"`
	PricePerKm  float64   `json:"pricePerKm" gorm:"column:price_per_km;default:0"`
	IsActive    bool      `json:"isActive" gorm:"column:is_active;default:true"`
	IconKey     string    `json:"iconKey" gorm:"column:icon_key;type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (VehicleTypeMapping) TableName() string { return "vehicle_type_mappings" }

// NormalizeVehicleTypeSlug приводит слаг к каноническому виду:
// нижний регистр, подчеркивания вместо пробелов и дефисов.
func NormalizeVehicleTypeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.Join(strings.Fields(s), "_")
	return s
}
