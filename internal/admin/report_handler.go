package admin

import (
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type countRow struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func groupCounts(model interface{}, column string, start, end time.Time) (map[string]int64, error) {
	var rows []countRow
	err := database.DB.Model(model).
		Select(column+" AS key, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}

// GET /api/admin/reports/:type?startDate=&endDate=
// type is "donations" or "users"; dates are YYYY-MM-DD, defaulting to
// all-time.
func ReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Time{}
		end := time.Now()

		if v := c.Query("startDate"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
			}
			start = t
		}
		if v := c.Query("endDate"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
			}
			end = t.Add(24*time.Hour - time.Second)
		}

		reportType := c.Params("type")
		var report fiber.Map

		switch reportType {
		case "donations":
			var total int64
			database.DB.Model(&models.Donation{}).
				Where("created_at >= ? AND created_at <= ?", start, end).
				Count(&total)

			byStatus, err := groupCounts(&models.Donation{}, "status", start, end)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build report")
			}
			byType, err := groupCounts(&models.Donation{}, "food_type", start, end)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build report")
			}

			report = fiber.Map{
				"totalDonations":    total,
				"donationsByStatus": byStatus,
				"donationsByType":   byType,
			}

		case "users":
			var total int64
			database.DB.Model(&models.User{}).
				Where("created_at >= ? AND created_at <= ?", start, end).
				Count(&total)

			byRole, err := groupCounts(&models.User{}, "role", start, end)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build report")
			}

			report = fiber.Map{
				"totalUsers":  total,
				"usersByRole": byRole,
			}

		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report type")
		}

		return c.JSON(fiber.Map{
			"reportType": reportType,
			"timeframe":  fiber.Map{"start": start, "end": end},
			"data":       report,
		})
	}
}
