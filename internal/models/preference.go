package models

import (
	"time"
)

type Preference struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	Language    string    `json:"language" gorm:"column:language;type:varchar(10);default:'ru'"`
	PushEnabled bool      `json:"pushEnabled" gorm:"column:push_enabled;default:true"`
	SMSEnabled  bool      `json:"smsEnabled" gorm:"column:sms_enabled;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
