package donation

import (
	"testing"
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the global database for an in-memory sqlite instance.
// A single connection keeps every query on the same memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("could not get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	database.Migrate(db)
	database.DB = db
}

func createUser(t *testing.T, name string, role models.UserRole) *models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserActive,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("could not create user: %v", err)
	}
	return &u
}

func validInput(expiration time.Time) Input {
	return Input{
		FoodName:       "Bread",
		FoodType:       models.FoodPackaged,
		Description:    "day-old loaves",
		Quantity:       5,
		Unit:           "items",
		ExpirationDate: expiration,
		Longitude:      -73.98,
		Latitude:       40.75,
		Street:         "1 Main St",
		City:           "Springfield",
		State:          "IL",
		ZipCode:        "62701",
	}
}

func createAvailable(t *testing.T, donor *models.User) *models.Donation {
	t.Helper()
	d, err := Create(donor.ID, validInput(time.Now().Add(48*time.Hour)))
	if err != nil {
		t.Fatalf("could not create donation: %v", err)
	}
	return d
}

func countNotifications(t *testing.T, recipientID uint, typ models.NotificationType) int64 {
	t.Helper()
	var n int64
	database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, typ).
		Count(&n)
	return n
}
