package models

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        string `gorm:"type:varchar(128);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(128);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"`
	CreatedAt    time.Time
}
