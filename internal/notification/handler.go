package notification

import (
	"foodrescue-backend/internal/auth"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID         uint   `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	DonationID *uint  `json:"donation_id,omitempty"`
	PickupID   *uint  `json:"pickup_id,omitempty"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		DonationID: n.DonationID,
		PickupID:   n.PickupID,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/notifications
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		var notifications []models.Notification
		if err := database.DB.
			Where("recipient_id = ?", userID).
			Order("created_at DESC").
			Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notifications")
		}

		resp := make([]NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			resp = append(resp, toResponse(n))
		}
		return c.JSON(resp)
	}
}

// GET /api/notifications/unread
func ListUnreadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		var notifications []models.Notification
		if err := database.DB.
			Where("recipient_id = ? AND read = ?", userID, false).
			Order("created_at DESC").
			Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notifications")
		}

		resp := make([]NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			resp = append(resp, toResponse(n))
		}
		return c.JSON(resp)
	}
}

// PATCH /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		var n models.Notification
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Notification not found")
		}
		if n.RecipientID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Not your notification")
		}

		if err := database.DB.Model(&n).Update("read", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update notification")
		}

		n.Read = true
		return c.JSON(toResponse(n))
	}
}

// PATCH /api/notifications/read-all
func MarkAllReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		if err := database.DB.Model(&models.Notification{}).
			Where("recipient_id = ? AND read = ?", userID, false).
			Update("read", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update notifications")
		}

		return c.JSON(fiber.Map{"message": "All notifications marked as read"})
	}
}
