package models

import (
	"time"
)

type Admin struct {
	ID           uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	Name         string    `json:"name" gorm:"column:name;not null;type:varchar(255)"`
	Email        string    `json:"email" gorm:"column:email;unique;not null;type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null;type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
}
