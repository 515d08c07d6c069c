package main

import (
	"log"
	"strings"

	"foodrescue-backend/internal/admin"
	"foodrescue-backend/internal/audit"
	"foodrescue-backend/internal/auth"
	"foodrescue-backend/internal/config"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/donation"
	"foodrescue-backend/internal/mailer"
	"foodrescue-backend/internal/models"
	"foodrescue-backend/internal/notification"
	"foodrescue-backend/internal/pickup"
	"foodrescue-backend/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	if cfg.ResendAPIKey != "" {
		notification.SetSender(mailer.NewResendMailer(cfg))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"message": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong!",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Static("/donation-images", cfg.DonationImagePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public donation reads. The specific /donations/... paths must be
	// registered before /donations/:id.
	api.Get("/donations", donation.ListHandler())
	api.Get("/donations/available", donation.ListAvailableHandler())
	api.Get("/donations/nearby", auth.JWTMiddleware(cfg), donation.NearbyHandler())
	api.Get("/donations/user/history", auth.JWTMiddleware(cfg), donation.HistoryHandler())
	api.Get("/donations/:id", donation.GetHandler())

	// Protected
	protected := api.Group("", auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Donation lifecycle
	protected.Post("/donations", auth.RequireRole(models.RoleDonor, models.RoleAdmin), donation.CreateHandler(cfg))
	protected.Put("/donations/:id", donation.UpdateHandler(cfg))
	protected.Patch("/donations/:id", donation.UpdateHandler(cfg))
	protected.Delete("/donations/:id", donation.DeleteHandler())
	protected.Patch("/donations/:id/claim", auth.RequireRole(models.RoleVolunteer, models.RoleAdmin), donation.ClaimHandler())
	protected.Post("/donations/:id/complete", donation.CompleteHandler())
	protected.Patch("/donations/:id/delivered", donation.CompleteHandler())
	protected.Patch("/donations/:id/expired", donation.ExpireHandler())

	// Pickups
	protected.Get("/pickups/my-pickups", pickup.MyPickupsHandler())
	protected.Patch("/pickups/:id/complete", pickup.CompleteHandler())

	// Notifications
	protected.Get("/notifications", notification.ListHandler())
	protected.Get("/notifications/unread", notification.ListUnreadHandler())
	protected.Patch("/notifications/read-all", notification.MarkAllReadHandler())
	protected.Patch("/notifications/:id/read", notification.MarkReadHandler())

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Get("/stats", admin.StatsHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Get("/users/:id", admin.GetUserHandler())
	adminRoutes.Patch("/users/:id", admin.UpdateUserStatusHandler())
	adminRoutes.Get("/donations", admin.ListDonationsHandler())
	adminRoutes.Get("/donations/:id", admin.GetDonationHandler())
	adminRoutes.Patch("/donations/:id", admin.ModerateDonationHandler())
	adminRoutes.Get("/pickups", admin.ListPickupsHandler())
	adminRoutes.Get("/pickups/:id", admin.GetPickupHandler())
	adminRoutes.Get("/reports/:type", admin.ReportHandler())
	adminRoutes.Get("/audit-logs", audit.ListHandler())

	// Background sweeps: hourly expiration, daily expiry reminders.
	var sweep scheduler.Sweep
	sched := scheduler.New(sweep.Jobs(cfg)...)
	sched.Start()
	defer sched.Stop()

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
