package models

import "time"

type PickupStatus string

const (
	PickupScheduled  PickupStatus = "scheduled"
	PickupInProgress PickupStatus = "in_progress"
	PickupCompleted  PickupStatus = "completed"
	PickupCancelled  PickupStatus = "cancelled"
)

// Pickup: fulfillment logistics for a claimed donation.
type Pickup struct {
	ID              uint `gorm:"primaryKey"`
	DonationID      uint `gorm:"index;not null"`
	Donation        Donation
	VolunteerID     uint `gorm:"index;not null"`
	Volunteer       User
	ScheduledTime   time.Time    `gorm:"not null"`
	Status          PickupStatus `gorm:"size:20;index;not null;default:scheduled"`
	CompletionNotes string       `gorm:"size:1000"`
	Rating          *int         // 1-5
	Feedback        string       `gorm:"size:1000"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
