package models

import (
	"time"
)

type Address struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	Label     string    `json:"label" gorm:"column:label;type:varchar(100)"` // дом, работа и т.д.
	Street    string    `json:"street" gorm:"column:street;not null;type:text"`
	City      string    `json:"city" gorm:"column:city;type:varchar(100)"`
	Comment   string    `json:"comment,omitempty" gorm:"column:comment;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
