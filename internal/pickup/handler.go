package pickup

import (
	"time"

	"foodrescue-backend/internal/auth"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PickupResponse struct {
	ID              uint      `json:"id"`
	DonationID      uint      `json:"donation_id"`
	FoodName        string    `json:"food_name"`
	DonationStatus  string    `json:"donation_status"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	Status          string    `json:"status"`
	CompletionNotes string    `json:"completion_notes,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
	Feedback        string    `json:"feedback,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toResponse(p *models.Pickup) PickupResponse {
	return PickupResponse{
		ID:              p.ID,
		DonationID:      p.DonationID,
		FoodName:        p.Donation.FoodName,
		DonationStatus:  string(p.Donation.Status),
		ScheduledTime:   p.ScheduledTime,
		Status:          string(p.Status),
		CompletionNotes: p.CompletionNotes,
		Rating:          p.Rating,
		Feedback:        p.Feedback,
		CreatedAt:       p.CreatedAt,
	}
}

// GET /api/pickups/my-pickups
func MyPickupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		var pickups []models.Pickup
		if err := database.DB.Preload("Donation").
			Where("volunteer_id = ?", userID).
			Order("created_at DESC").
			Find(&pickups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list pickups")
		}

		resp := make([]PickupResponse, 0, len(pickups))
		for i := range pickups {
			resp = append(resp, toResponse(&pickups[i]))
		}
		return c.JSON(resp)
	}
}

type CompletePickupRequest struct {
	Notes    string `json:"notes"`
	Rating   *int   `json:"rating"`
	Feedback string `json:"feedback"`
}

// PATCH /api/pickups/:id/complete
func CompleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		var p models.Pickup
		if err := database.DB.Preload("Donation").First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pickup not found")
		}

		if p.VolunteerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Only the assigned volunteer can complete this pickup")
		}
		if p.Status != models.PickupScheduled && p.Status != models.PickupInProgress {
			return fiber.NewError(fiber.StatusBadRequest, "Pickup is not open")
		}

		var body CompletePickupRequest
		_ = c.BodyParser(&body)

		if body.Rating != nil && (*body.Rating < 1 || *body.Rating > 5) {
			return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
		}

		updates := map[string]interface{}{
			"status":           models.PickupCompleted,
			"completion_notes": body.Notes,
			"feedback":         body.Feedback,
		}
		if body.Rating != nil {
			updates["rating"] = *body.Rating
		}

		if err := database.DB.Model(&p).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update pickup")
		}

		database.DB.Preload("Donation").First(&p, p.ID)
		return c.JSON(toResponse(&p))
	}
}
