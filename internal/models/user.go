package models

import "time"

type UserRole string

const (
	RoleDonor     UserRole = "donor"
	RoleVolunteer UserRole = "volunteer"
	RoleAdmin     UserRole = "admin"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

type User struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"size:100;not null"`
	Email        string     `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Role         UserRole   `gorm:"size:20;not null"`
	Status       UserStatus `gorm:"size:20;not null;default:active"`
	Organization string     `gorm:"size:200"`
	Phone        string     `gorm:"size:30"`
	Street       string     `gorm:"size:200"`
	City         string     `gorm:"size:100"`
	State        string     `gorm:"size:100"`
	ZipCode      string     `gorm:"size:20"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
