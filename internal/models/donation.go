package models

import "time"

type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationClaimed   DonationStatus = "claimed"
	DonationCompleted DonationStatus = "completed"
	DonationExpired   DonationStatus = "expired"
)

type FoodType string

const (
	FoodProduce  FoodType = "produce"
	FoodPrepared FoodType = "prepared"
	FoodPackaged FoodType = "packaged"
)

// Donation: one offer of surplus food. Status only moves forward
// (available -> claimed -> completed, or -> expired); the transition
// timestamps are stamped exactly once by the lifecycle service.
type Donation struct {
	ID                 uint `gorm:"primaryKey"`
	DonorID            uint `gorm:"index;not null"`
	Donor              User
	FoodName           string    `gorm:"size:200;not null"`
	FoodType           FoodType  `gorm:"size:20;not null;default:produce"`
	Description        string    `gorm:"size:1000"`
	Quantity           float64   `gorm:"not null"`
	Unit               string    `gorm:"size:30;not null"` // kg, lb, items, servings...
	ExpirationDate     time.Time `gorm:"index;not null"`
	Longitude          float64
	Latitude           float64
	Street             string         `gorm:"size:200;not null"`
	City               string         `gorm:"size:100;not null"`
	State              string         `gorm:"size:100;not null"`
	ZipCode            string         `gorm:"size:20;not null"`
	PickupInstructions string         `gorm:"size:1000"`
	ImagePath          string         `gorm:"size:255"`
	Status             DonationStatus `gorm:"size:20;index;not null;default:available"`
	ClaimedByID        *uint          `gorm:"index"`
	ClaimedBy          *User
	ClaimedAt          *time.Time
	CompletedAt        *time.Time
	ExpiredAt          *time.Time
	PickupTime         *time.Time
	ReminderSentAt     *time.Time // expiry reminder already sent for this donation
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (d *Donation) IsExpired(now time.Time) bool {
	return d.ExpirationDate.Before(now)
}
