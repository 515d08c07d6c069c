package admin

import (
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PickupResponse struct {
	ID            uint      `json:"id"`
	DonationID    uint      `json:"donation_id"`
	FoodName      string    `json:"food_name"`
	DonorName     string    `json:"donor_name"`
	VolunteerName string    `json:"volunteer_name"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	Rating        *int      `json:"rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPickupResponse(p *models.Pickup) PickupResponse {
	return PickupResponse{
		ID:            p.ID,
		DonationID:    p.DonationID,
		FoodName:      p.Donation.FoodName,
		DonorName:     p.Donation.Donor.Name,
		VolunteerName: p.Volunteer.Name,
		ScheduledTime: p.ScheduledTime,
		Status:        string(p.Status),
		Rating:        p.Rating,
		CreatedAt:     p.CreatedAt,
	}
}

// GET /api/admin/pickups
func ListPickupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pickups []models.Pickup
		if err := database.DB.
			Preload("Donation").Preload("Donation.Donor").Preload("Volunteer").
			Order("created_at DESC").
			Find(&pickups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list pickups")
		}

		resp := make([]PickupResponse, 0, len(pickups))
		for i := range pickups {
			resp = append(resp, toPickupResponse(&pickups[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/pickups/:id
func GetPickupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Pickup
		if err := database.DB.
			Preload("Donation").Preload("Donation.Donor").Preload("Volunteer").
			First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pickup not found")
		}
		return c.JSON(toPickupResponse(&p))
	}
}
