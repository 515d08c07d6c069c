package admin

import (
	"fmt"

	"foodrescue-backend/internal/audit"
	"foodrescue-backend/internal/auth"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"
	"foodrescue-backend/internal/notification"

	"github.com/gofiber/fiber/v2"
)

type UserResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		Status:       string(u.Status),
		Organization: u.Organization,
		Phone:        u.Phone,
		City:         u.City,
		State:        u.State,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.User{})
		if v := c.Query("role"); v != "" {
			q = q.Where("role = ?", v)
		}

		var users []models.User
		if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toUserResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return c.JSON(toUserResponse(&user))
	}
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/admin/users/:id — activate or deactivate an account.
func UpdateUserStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		var body UpdateUserStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		status := models.UserStatus(body.Status)
		if status != models.UserActive && status != models.UserInactive {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid status value")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := database.DB.Model(&user).Update("status", status).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
		}
		user.Status = status

		title := "Account Activated"
		verb := "activated"
		if status == models.UserInactive {
			title = "Account Deactivated"
			verb = "deactivated"
		}

		// moderation already applied, notification is best effort
		_ = notification.Notify(notification.Options{
			RecipientID: user.ID,
			SenderID:    &adminID,
			Type:        models.NotifSystem,
			Title:       title,
			Message:     fmt.Sprintf("Your account has been %s by an administrator.", verb),
		})

		var adminUser models.User
		database.DB.First(&adminUser, adminID)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      adminID,
			UserName:    adminUser.Name,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("User %s (%s) %s", user.Name, user.Email, verb),
		})

		return c.JSON(toUserResponse(&user))
	}
}
