package models

import (
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	FirstName string    `json:"firstName" gorm:"column:first_name;not null;type:varchar(255)"`
	LastName  string    `json:"lastName" gorm:"column:last_name;type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"column:phone;unique;not null;type:varchar(20)"`
	Email     string    `json:"email" gorm:"column:email;type:varchar(255)"`
	PhotoUrl  string    `json:"photoUrl" gorm:"column:photo_url;type:text"`
	Role      string    `json:"role" gorm:"column:role;default:'user';type:varchar(20)"`
	FCMToken  string    `json:"fcmToken" gorm:"column:fcm_token;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime;type:timestamp with time zone"`
	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	PhotoUrl  string    `json:"photoUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse формирует публичное представление пользователя
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Email:     u.Email,
		PhotoUrl:  u.PhotoUrl,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
