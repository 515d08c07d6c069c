package admin

import (
	"fmt"

	"foodrescue-backend/internal/audit"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/donation"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/donations
func ListDonationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Donor").Preload("ClaimedBy")
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}

		var donations []models.Donation
		if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donations")
		}

		resp := make([]donation.DonationResponse, 0, len(donations))
		for i := range donations {
			resp = append(resp, donation.ToResponse(&donations[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/donations/:id
func GetDonationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Donation
		if err := database.DB.Preload("Donor").Preload("ClaimedBy").
			First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donation not found")
		}
		return c.JSON(donation.ToResponse(&d))
	}
}

type ModerateDonationRequest struct {
	Action string `json:"action"` // approve | remove
}

// PATCH /api/admin/donations/:id — moderation. "remove" retires the
// donation as expired and notifies the donor; "approve" is a no-op kept for
// client compatibility.
func ModerateDonationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := donation.LoadCaller(c)
		if err != nil {
			return err
		}

		var body ModerateDonationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Action != "approve" && body.Action != "remove" {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid action")
		}

		var d models.Donation
		if err := database.DB.Preload("Donor").First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donation not found")
		}

		if body.Action == "remove" {
			if err := donation.Remove(&d, admin); err != nil {
				return donation.HTTPError(err)
			}

			_ = audit.WriteLog(audit.LogOptions{
				UserID:      admin.ID,
				UserName:    admin.Name,
				EntityType:  "donation",
				EntityID:    d.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Donation %q removed by moderation", d.FoodName),
			})

			return c.JSON(fiber.Map{"message": "Donation removed"})
		}

		return c.JSON(fiber.Map{"message": "Donation approved"})
	}
}
