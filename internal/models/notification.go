package models

import "time"

type NotificationType string

const (
	NotifDonationRequest  NotificationType = "donation_request"
	NotifDonationAccepted NotificationType = "donation_accepted"
	NotifPickupScheduled  NotificationType = "pickup_scheduled"
	NotifPickupCompleted  NotificationType = "pickup_completed"
	NotifDonationExpired  NotificationType = "donation_expired"
	NotifSystem           NotificationType = "system"
)

// Notification: in-app message for one recipient. Rows are kept forever
// as transition history; only the read flag is ever mutated.
type Notification struct {
	ID          uint `gorm:"primaryKey"`
	RecipientID uint `gorm:"index;not null"`
	Recipient   User
	SenderID    *uint
	Type        NotificationType `gorm:"size:30;not null"`
	Title       string           `gorm:"size:200;not null"`
	Message     string           `gorm:"size:1000;not null"`
	DonationID  *uint            `gorm:"index"`
	PickupID    *uint
	Read        bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}
