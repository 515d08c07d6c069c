package scheduler

import (
	"fmt"
	"log"
	"time"

	"foodrescue-backend/internal/config"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"
	"foodrescue-backend/internal/notification"
)

// Sweep holds the two time-driven donation jobs: expiring overdue donations
// and reminding donors about donations that are about to expire. Each item
// is processed in isolation; one failure never aborts the batch.
type Sweep struct{}

// Jobs wires the sweep into the scheduler with configured cadences.
func (s *Sweep) Jobs(cfg *config.Config) []Job {
	return []Job{
		{Name: "expire-overdue", Interval: cfg.ExpireInterval, Run: func(now time.Time) { s.ExpireOverdue(now) }},
		{Name: "remind-expiring", Interval: cfg.ReminderInterval, Run: func(now time.Time) { s.RemindExpiring(now) }},
	}
}

// ExpireOverdue transitions every available donation whose expiration has
// passed to expired. The transition uses the same conditional update as
// interactive claims, so a donation claimed between the select and the
// update is simply skipped. Returns the number of donations expired.
func (s *Sweep) ExpireOverdue(now time.Time) int {
	var donations []models.Donation
	if err := database.DB.Preload("Donor").
		Where("status = ? AND expiration_date < ?", models.DonationAvailable, now).
		Find(&donations).Error; err != nil {
		log.Printf("[WARN] expiration sweep query failed: %v", err)
		return 0
	}

	if len(donations) > 0 {
		log.Printf("Expiration sweep: found %d overdue donation(s)", len(donations))
	}

	expired := 0
	for i := range donations {
		d := &donations[i]
		if err := s.expireOne(d, now); err != nil {
			log.Printf("[WARN] could not expire donation %d: %v", d.ID, err)
			continue
		}
		expired++
	}
	return expired
}

func (s *Sweep) expireOne(d *models.Donation, now time.Time) error {
	res := database.DB.Model(&models.Donation{}).
		Where("id = ? AND status = ?", d.ID, models.DonationAvailable).
		Updates(map[string]interface{}{
			"status":     models.DonationExpired,
			"expired_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Claimed or already expired since the select; nothing to do.
		return nil
	}

	if err := notification.Notify(notification.Options{
		RecipientID:   d.DonorID,
		Type:          models.NotifDonationExpired,
		Title:         "Donation Expired",
		Message:       fmt.Sprintf("Your donation \"%s\" has expired and is no longer visible to volunteers.", d.FoodName),
		DonationID:    &d.ID,
		EmailTo:       d.Donor.Email,
		EmailTemplate: "donationExpired",
		EmailArgs:     []string{d.Donor.Name, d.FoodName},
	}); err != nil {
		// The donation is already expired; the missing notification is
		// logged but does not fail the item.
		log.Printf("[WARN] expiration notification for donation %d failed: %v", d.ID, err)
	}
	return nil
}

// RemindExpiring notifies donors of available donations that expire within
// the next 24 hours. ReminderSentAt marks donations that were already
// reminded, so reruns and restarts do not produce duplicates. Returns the
// number of reminders sent.
func (s *Sweep) RemindExpiring(now time.Time) int {
	window := now.Add(24 * time.Hour)

	var donations []models.Donation
	if err := database.DB.Preload("Donor").
		Where("status = ? AND expiration_date >= ? AND expiration_date <= ? AND reminder_sent_at IS NULL",
			models.DonationAvailable, now, window).
		Find(&donations).Error; err != nil {
		log.Printf("[WARN] reminder sweep query failed: %v", err)
		return 0
	}

	if len(donations) > 0 {
		log.Printf("Reminder sweep: found %d donation(s) about to expire", len(donations))
	}

	reminded := 0
	for i := range donations {
		d := &donations[i]

		// Claim the reminder slot first; a second run (or a second
		// instance) that lost the update sends nothing.
		res := database.DB.Model(&models.Donation{}).
			Where("id = ? AND reminder_sent_at IS NULL", d.ID).
			Update("reminder_sent_at", now)
		if res.Error != nil {
			log.Printf("[WARN] could not mark reminder for donation %d: %v", d.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}

		if err := notification.Notify(notification.Options{
			RecipientID:   d.DonorID,
			Type:          models.NotifSystem,
			Title:         "Donation Expiring Soon",
			Message:       fmt.Sprintf("Your donation \"%s\" will expire in less than 24 hours.", d.FoodName),
			DonationID:    &d.ID,
			EmailTo:       d.Donor.Email,
			EmailTemplate: "donationExpiringSoon",
			EmailArgs:     []string{d.Donor.Name, d.FoodName},
		}); err != nil {
			log.Printf("[WARN] reminder notification for donation %d failed: %v", d.ID, err)
			continue
		}
		reminded++
	}
	return reminded
}
