package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/mailer"
	"foodrescue-backend/internal/models"
)

var sender mailer.Sender = mailer.NopMailer{}

// SetSender wires the outbound email collaborator. Called once at startup;
// tests install a stub.
func SetSender(s mailer.Sender) {
	sender = s
}

type Options struct {
	RecipientID uint
	SenderID    *uint
	Type        models.NotificationType
	Title       string
	Message     string
	DonationID  *uint
	PickupID    *uint

	// Optional email to send alongside the in-app notification.
	// Failure is logged and never surfaces to the caller.
	EmailTo       string
	EmailTemplate string
	EmailArgs     []string
}

// Notify persists an in-app notification and fires the matching email in the
// background. The state transition that triggered it is already durable; an
// email failure must not undo or delay it.
func Notify(opts Options) error {
	n := models.Notification{
		RecipientID: opts.RecipientID,
		SenderID:    opts.SenderID,
		Type:        opts.Type,
		Title:       opts.Title,
		Message:     opts.Message,
		DonationID:  opts.DonationID,
		PickupID:    opts.PickupID,
	}

	if err := database.DB.Create(&n).Error; err != nil {
		return fmt.Errorf("could not save notification: %w", err)
	}

	if opts.EmailTo != "" && opts.EmailTemplate != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := sender.Send(ctx, opts.EmailTo, opts.EmailTemplate, opts.EmailArgs...); err != nil {
				log.Printf("[WARN] email %q to %s failed: %v", opts.EmailTemplate, opts.EmailTo, err)
			}
		}()
	}

	return nil
}
