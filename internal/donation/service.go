package donation

import (
	"errors"
	"fmt"
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"
	"foodrescue-backend/internal/notification"

	"gorm.io/gorm"
)

// Input is the canonical, already-normalized donation payload. Both the JSON
// and the multipart request representations are parsed into this one struct
// before they reach the lifecycle service.
type Input struct {
	FoodName           string
	FoodType           models.FoodType
	Description        string
	Quantity           float64
	Unit               string
	ExpirationDate     time.Time
	Longitude          float64
	Latitude           float64
	Street             string
	City               string
	State              string
	ZipCode            string
	PickupInstructions string
	ImagePath          string
}

func (in *Input) validate() error {
	if in.FoodName == "" {
		return fmt.Errorf("%w: foodName is required", ErrValidation)
	}
	switch in.FoodType {
	case models.FoodProduce, models.FoodPrepared, models.FoodPackaged:
	case "":
		in.FoodType = models.FoodProduce
	default:
		return fmt.Errorf("%w: foodType must be one of produce, prepared, packaged", ErrValidation)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	if in.Unit == "" {
		return fmt.Errorf("%w: unit is required", ErrValidation)
	}
	if in.ExpirationDate.IsZero() {
		return fmt.Errorf("%w: expirationDate is required", ErrValidation)
	}
	if in.Street == "" || in.City == "" || in.State == "" || in.ZipCode == "" {
		return fmt.Errorf("%w: complete pickup address is required", ErrValidation)
	}
	return nil
}

// Create posts a new donation in the available state. Role enforcement
// (donor or admin) happens at the route level.
func Create(donorID uint, in Input) (*models.Donation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !in.ExpirationDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: expirationDate must be in the future", ErrValidation)
	}

	d := models.Donation{
		DonorID:            donorID,
		FoodName:           in.FoodName,
		FoodType:           in.FoodType,
		Description:        in.Description,
		Quantity:           in.Quantity,
		Unit:               in.Unit,
		ExpirationDate:     in.ExpirationDate,
		Longitude:          in.Longitude,
		Latitude:           in.Latitude,
		Street:             in.Street,
		City:               in.City,
		State:              in.State,
		ZipCode:            in.ZipCode,
		PickupInstructions: in.PickupInstructions,
		ImagePath:          in.ImagePath,
		Status:             models.DonationAvailable,
	}

	if err := database.DB.Create(&d).Error; err != nil {
		return nil, fmt.Errorf("could not create donation: %w", err)
	}

	database.DB.Preload("Donor").First(&d, d.ID)
	return &d, nil
}

// Claim reserves an available donation for a volunteer. The transition is a
// single conditional update matching on the expected pre-state, so of two
// concurrent claims exactly one sees a row affected; the loser gets
// ErrInvalidState, never a silent overwrite.
func Claim(id uint, volunteer *models.User, pickupTime *time.Time) (*models.Donation, error) {
	now := time.Now()

	res := database.DB.Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.DonationAvailable).
		Updates(map[string]interface{}{
			"status":        models.DonationClaimed,
			"claimed_by_id": volunteer.ID,
			"claimed_at":    now,
			"pickup_time":   pickupTime,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("could not claim donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, claimConflict(id)
	}

	var d models.Donation
	if err := database.DB.Preload("Donor").Preload("ClaimedBy").First(&d, id).Error; err != nil {
		return nil, fmt.Errorf("could not reload donation: %w", err)
	}

	var pickupID *uint
	if pickupTime != nil {
		p := models.Pickup{
			DonationID:    d.ID,
			VolunteerID:   volunteer.ID,
			ScheduledTime: *pickupTime,
			Status:        models.PickupScheduled,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return nil, fmt.Errorf("could not create pickup: %w", err)
		}
		pickupID = &p.ID

		if err := notification.Notify(notification.Options{
			RecipientID:   d.DonorID,
			SenderID:      &volunteer.ID,
			Type:          models.NotifPickupScheduled,
			Title:         "Pickup Scheduled",
			Message:       fmt.Sprintf("%s has scheduled a pickup for %s at %s", volunteer.Name, d.FoodName, pickupTime.Format("Jan 2, 3:04 PM")),
			DonationID:    &d.ID,
			PickupID:      pickupID,
			EmailTo:       d.Donor.Email,
			EmailTemplate: "pickupScheduled",
			EmailArgs:     []string{d.Donor.Name, d.FoodName, volunteer.Name, pickupTime.Format("Jan 2, 3:04 PM")},
		}); err != nil {
			logNotifyFailure("claim", d.ID, err)
		}
	}

	notifyErr := notification.Notify(notification.Options{
		RecipientID:   d.DonorID,
		SenderID:      &volunteer.ID,
		Type:          models.NotifDonationRequest,
		Title:         "New Donation Request",
		Message:       fmt.Sprintf("%s has requested your donation: %s", volunteer.Name, d.FoodName),
		DonationID:    &d.ID,
		PickupID:      pickupID,
		EmailTo:       d.Donor.Email,
		EmailTemplate: "donationRequest",
		EmailArgs:     []string{d.Donor.Name, d.FoodName, volunteer.Name},
	})
	if notifyErr != nil {
		// The claim itself is durable; notification is best effort.
		logNotifyFailure("claim", d.ID, notifyErr)
	}

	return &d, nil
}

// claimConflict distinguishes "no such donation" from "lost the race / wrong
// state" after a zero-row conditional update.
func claimConflict(id uint) error {
	var d models.Donation
	if err := database.DB.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("could not check donation: %w", err)
	}
	return fmt.Errorf("%w: this donation is no longer available", ErrInvalidState)
}

// Complete marks a claimed donation as delivered. Allowed for the claimant,
// the owning donor, or an admin.
func Complete(id uint, caller *models.User) (*models.Donation, error) {
	var d models.Donation
	if err := database.DB.Preload("Donor").Preload("ClaimedBy").First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load donation: %w", err)
	}

	isClaimant := d.ClaimedByID != nil && *d.ClaimedByID == caller.ID
	isDonor := d.DonorID == caller.ID
	if !isClaimant && !isDonor && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not authorized to complete this donation", ErrForbidden)
	}

	now := time.Now()
	res := database.DB.Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.DonationClaimed).
		Updates(map[string]interface{}{
			"status":       models.DonationCompleted,
			"completed_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("could not complete donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: only claimed donations can be marked as completed", ErrInvalidState)
	}

	// Close out the companion pickup record, if one was scheduled.
	database.DB.Model(&models.Pickup{}).
		Where("donation_id = ? AND status = ?", d.ID, models.PickupScheduled).
		Update("status", models.PickupCompleted)

	d.Status = models.DonationCompleted
	d.CompletedAt = &now

	claimantName := ""
	if d.ClaimedBy != nil {
		claimantName = d.ClaimedBy.Name
	}

	if err := notification.Notify(notification.Options{
		RecipientID:   d.DonorID,
		SenderID:      d.ClaimedByID,
		Type:          models.NotifPickupCompleted,
		Title:         "Donation Pickup Completed",
		Message:       fmt.Sprintf("%s has completed the pickup for %s", claimantName, d.FoodName),
		DonationID:    &d.ID,
		EmailTo:       d.Donor.Email,
		EmailTemplate: "pickupCompleted",
		EmailArgs:     []string{d.Donor.Name, d.FoodName},
	}); err != nil {
		logNotifyFailure("complete", d.ID, err)
	}

	if d.ClaimedByID != nil {
		if err := notification.Notify(notification.Options{
			RecipientID: *d.ClaimedByID,
			SenderID:    &d.DonorID,
			Type:        models.NotifPickupCompleted,
			Title:       "Donation Pickup Completed",
			Message:     fmt.Sprintf("You have successfully picked up %s from %s", d.FoodName, d.Donor.Name),
			DonationID:  &d.ID,
		}); err != nil {
			logNotifyFailure("complete", d.ID, err)
		}
	}

	return &d, nil
}

// Expire is the manual "not delivered" path out of the claimed state.
// Allowed for the claimant or an admin; the sweep handles the
// available-to-expired path on its own.
func Expire(id uint, caller *models.User) (*models.Donation, error) {
	var d models.Donation
	if err := database.DB.Preload("Donor").First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load donation: %w", err)
	}

	isClaimant := d.ClaimedByID != nil && *d.ClaimedByID == caller.ID
	if !isClaimant && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not authorized to expire this donation", ErrForbidden)
	}

	now := time.Now()
	res := database.DB.Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.DonationClaimed).
		Updates(map[string]interface{}{
			"status":     models.DonationExpired,
			"expired_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("could not expire donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: only claimed donations can be marked as expired", ErrInvalidState)
	}

	// Cancel the pending pickup, the delivery is not happening.
	database.DB.Model(&models.Pickup{}).
		Where("donation_id = ? AND status = ?", d.ID, models.PickupScheduled).
		Update("status", models.PickupCancelled)

	d.Status = models.DonationExpired
	d.ExpiredAt = &now

	if err := notification.Notify(notification.Options{
		RecipientID:   d.DonorID,
		Type:          models.NotifDonationExpired,
		Title:         "Donation Expired",
		Message:       fmt.Sprintf("Your donation \"%s\" was marked as not delivered and has expired.", d.FoodName),
		DonationID:    &d.ID,
		EmailTo:       d.Donor.Email,
		EmailTemplate: "donationExpired",
		EmailArgs:     []string{d.Donor.Name, d.FoodName},
	}); err != nil {
		logNotifyFailure("expire", d.ID, err)
	}

	return &d, nil
}

// UpdateInput holds optional replacement fields; nil means keep current.
type UpdateInput struct {
	FoodName           *string
	FoodType           *models.FoodType
	Description        *string
	Quantity           *float64
	Unit               *string
	ExpirationDate     *time.Time
	Longitude          *float64
	Latitude           *float64
	Street             *string
	City               *string
	State              *string
	ZipCode            *string
	PickupInstructions *string
	ImagePath          *string
}

// Update edits an available donation. Claimed and terminal donations are
// frozen for everyone, owner and admin alike.
func Update(id uint, callerID uint, isAdmin bool, in UpdateInput) (*models.Donation, error) {
	var d models.Donation
	if err := database.DB.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load donation: %w", err)
	}

	if d.DonorID != callerID && !isAdmin {
		return nil, fmt.Errorf("%w: not authorized to update this donation", ErrForbidden)
	}
	if d.Status != models.DonationAvailable {
		return nil, fmt.Errorf("%w: cannot update a donation that has been claimed or completed", ErrInvalidState)
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&d.FoodName, in.FoodName)
	apply(&d.Description, in.Description)
	apply(&d.Unit, in.Unit)
	apply(&d.Street, in.Street)
	apply(&d.City, in.City)
	apply(&d.State, in.State)
	apply(&d.ZipCode, in.ZipCode)
	apply(&d.PickupInstructions, in.PickupInstructions)
	apply(&d.ImagePath, in.ImagePath)
	if in.FoodType != nil {
		d.FoodType = *in.FoodType
	}
	if in.Quantity != nil {
		d.Quantity = *in.Quantity
	}
	if in.ExpirationDate != nil {
		// Same rule as Create: an expiration in the past would produce an
		// already-expired donation still listed as available.
		if !in.ExpirationDate.After(time.Now()) {
			return nil, fmt.Errorf("%w: expirationDate must be in the future", ErrValidation)
		}
		d.ExpirationDate = *in.ExpirationDate
	}
	if in.Longitude != nil {
		d.Longitude = *in.Longitude
	}
	if in.Latitude != nil {
		d.Latitude = *in.Latitude
	}

	check := Input{
		FoodName:       d.FoodName,
		FoodType:       d.FoodType,
		Quantity:       d.Quantity,
		Unit:           d.Unit,
		ExpirationDate: d.ExpirationDate,
		Street:         d.Street,
		City:           d.City,
		State:          d.State,
		ZipCode:        d.ZipCode,
	}
	if err := check.validate(); err != nil {
		return nil, err
	}

	if err := database.DB.Save(&d).Error; err != nil {
		return nil, fmt.Errorf("could not update donation: %w", err)
	}

	database.DB.Preload("Donor").First(&d, d.ID)
	return &d, nil
}

// Delete removes an available donation. An admin may also pull a claimed or
// completed donation for moderation; that path keeps the record, flips it to
// expired and tells the donor.
func Delete(id uint, caller *models.User) error {
	var d models.Donation
	if err := database.DB.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("could not load donation: %w", err)
	}

	isAdmin := caller.Role == models.RoleAdmin
	if d.DonorID != caller.ID && !isAdmin {
		return fmt.Errorf("%w: not authorized to delete this donation", ErrForbidden)
	}

	if d.Status != models.DonationAvailable {
		if !isAdmin {
			return fmt.Errorf("%w: cannot delete a donation that has been claimed", ErrInvalidState)
		}
		return Remove(&d, caller)
	}

	if err := database.DB.Delete(&d).Error; err != nil {
		return fmt.Errorf("could not delete donation: %w", err)
	}
	return nil
}

// Remove is the admin moderation path: the donation is retired as expired
// rather than erased, and the donor is notified.
func Remove(d *models.Donation, admin *models.User) error {
	now := time.Now()
	updates := map[string]interface{}{"status": models.DonationExpired}
	if d.ExpiredAt == nil {
		updates["expired_at"] = now
	}
	if err := database.DB.Model(&models.Donation{}).
		Where("id = ?", d.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("could not remove donation: %w", err)
	}

	if err := notification.Notify(notification.Options{
		RecipientID: d.DonorID,
		SenderID:    &admin.ID,
		Type:        models.NotifSystem,
		Title:       "Donation Removed",
		Message:     fmt.Sprintf("Your donation \"%s\" has been removed by an administrator.", d.FoodName),
		DonationID:  &d.ID,
	}); err != nil {
		logNotifyFailure("remove", d.ID, err)
	}
	return nil
}
