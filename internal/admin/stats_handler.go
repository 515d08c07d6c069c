package admin

import (
	"math"
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// kgOf converts a donation quantity to kilograms for the food-saved totals.
// Count-like units are estimated at 0.3kg apiece.
func kgOf(quantity float64, unit string) float64 {
	switch unit {
	case "g":
		return quantity / 1000
	case "lb":
		return quantity * 0.453592
	case "oz":
		return quantity * 0.0283495
	case "servings", "items":
		return quantity * 0.3
	default: // kg
		return quantity
	}
}

// GET /api/admin/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := func(model interface{}, query string, args ...interface{}) int64 {
			var n int64
			q := database.DB.Model(model)
			if query != "" {
				q = q.Where(query, args...)
			}
			q.Count(&n)
			return n
		}

		var completed []models.Donation
		database.DB.Where("status = ?", models.DonationCompleted).Find(&completed)

		totalFoodSaved := 0.0
		for _, d := range completed {
			totalFoodSaved += kgOf(d.Quantity, d.Unit)
		}

		oneWeekAgo := time.Now().AddDate(0, 0, -7)
		oneMonthAgo := time.Now().AddDate(0, -1, 0)

		return c.JSON(fiber.Map{
			"totalUsers":         count(&models.User{}, ""),
			"totalDonors":        count(&models.User{}, "role = ?", models.RoleDonor),
			"totalVolunteers":    count(&models.User{}, "role = ?", models.RoleVolunteer),
			"totalDonations":     count(&models.Donation{}, ""),
			"activeDonations":    count(&models.Donation{}, "status = ?", models.DonationAvailable),
			"claimedDonations":   count(&models.Donation{}, "status = ?", models.DonationClaimed),
			"completedDonations": count(&models.Donation{}, "status = ?", models.DonationCompleted),
			"totalPickups":       count(&models.Pickup{}, ""),
			"scheduledPickups":   count(&models.Pickup{}, "status = ?", models.PickupScheduled),
			"completedPickups":   count(&models.Pickup{}, "status = ?", models.PickupCompleted),
			"totalFoodSaved":     math.Round(totalFoodSaved*100) / 100,
			"weeklyDonations":    count(&models.Donation{}, "created_at >= ?", oneWeekAgo),
			"monthlyDonations":   count(&models.Donation{}, "created_at >= ?", oneMonthAgo),
		})
	}
}
