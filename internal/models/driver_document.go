package models

import (
	"time"
)

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"  // На модерации
	DocumentStatusVerified DocumentStatus = "verified" // Подтвержден
	DocumentStatusRejected DocumentStatus = "rejected" // Отклонен
)

type DriverDocument struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	DriverID        uint           `json:"driver_id" gorm:"column:driver_id;not null;index"`
	DocType         string         `json:"doc_type" gorm:"column:doc_type;not null;type:varchar(50)"` // license, registration, insurance
	FilePath        string         `json:"file_path" gorm:"column:file_path;not null;type:text"`
	Status          DocumentStatus `json:"status" gorm:"column:status;type:varchar(20);default:'pending'"`
	RejectionReason string         `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	CreatedAt       time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	Driver          Driver         `json:"-" gorm:"foreignKey:DriverID"`
}

type DriverDocumentResponse struct {
	ID              uint            `json:"id"`
	DriverID        uint            `json:"driver_id,omitempty"`
	Driver          *DriverResponse `json:"driver,omitempty"`
	DocType         string          `json:"doc_type"`
	FilePath        string          `json:"file_path"`
	Status          DocumentStatus  `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (d *DriverDocument) ToResponse() DriverDocumentResponse {
	return DriverDocumentResponse{
		ID:              d.ID,
		DriverID:        d.DriverID,
		DocType:         d.DocType,
		FilePath:        d.FilePath,
		Status:          d.Status,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
