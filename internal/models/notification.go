package models

import (
	"time"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification — запись исходящего push-уведомления. Хранится в БД,
// чтобы периодическая задача могла повторить неудавшиеся отправки.
type Notification struct {
	ID            uint               `json:"id" gorm:"primaryKey"`
	RecipientRole string             `json:"recipient_role" gorm:"column:recipient_role;not null;type:varchar(20)"` // user или driver
	RecipientID   uint               `json:"recipient_id" gorm:"column:recipient_id;not null;index"`
	Title         string             `json:"title" gorm:"column:title;not null;type:varchar(255)"`
	Body          string             `json:"body" gorm:"column:body;type:text"`
	Data          string             `json:"data,omitempty" gorm:"column:data;type:text"` // JSON строка
	Status        NotificationStatus `json:"status" gorm:"column:status;type:varchar(20);default:'pending'"`
	Attempts      int                `json:"attempts" gorm:"column:attempts;default:0"`
	IsRead        bool               `json:"isRead" gorm:"column:is_read;default:false"`
	SentAt        *time.Time         `json:"sent_at,omitempty" gorm:"column:sent_at"`
	CreatedAt     time.Time          `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
