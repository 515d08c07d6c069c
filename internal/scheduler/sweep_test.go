package scheduler

import (
	"testing"
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func createDonor(t *testing.T) *models.User {
	t.Helper()
	u := models.User{
		Name:         "donor",
		Email:        "donor@example.com",
		PasswordHash: "x",
		Role:         models.RoleDonor,
		Status:       models.UserActive,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("could not create donor: %v", err)
	}
	return &u
}

func seedDonation(t *testing.T, donor *models.User, name string, status models.DonationStatus, expiration time.Time) *models.Donation {
	t.Helper()
	d := models.Donation{
		DonorID:        donor.ID,
		FoodName:       name,
		FoodType:       models.FoodPackaged,
		Quantity:       3,
		Unit:           "items",
		ExpirationDate: expiration,
		Street:         "1 Main St",
		City:           "Springfield",
		State:          "IL",
		ZipCode:        "62701",
		Status:         status,
	}
	if err := database.DB.Create(&d).Error; err != nil {
		t.Fatalf("could not seed donation %q: %v", name, err)
	}
	return &d
}

func notificationCount(t *testing.T, recipientID uint, typ models.NotificationType) int64 {
	t.Helper()
	var n int64
	database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, typ).
		Count(&n)
	return n
}

func TestExpireOverdue(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t)
	now := time.Now()

	overdue := seedDonation(t, donor, "overdue", models.DonationAvailable, now.Add(-2*time.Hour))
	fresh := seedDonation(t, donor, "fresh", models.DonationAvailable, now.Add(24*time.Hour))

	var sweep Sweep
	if got := sweep.ExpireOverdue(now); got != 1 {
		t.Fatalf("expired = %d, want 1", got)
	}

	var d models.Donation
	database.DB.First(&d, overdue.ID)
	if d.Status != models.DonationExpired {
		t.Errorf("overdue status = %q, want %q", d.Status, models.DonationExpired)
	}
	if d.ExpiredAt == nil {
		t.Error("expiredAt not set on overdue donation")
	}

	// A fresh struct: reusing d would carry its primary key into the query.
	var f models.Donation
	database.DB.First(&f, fresh.ID)
	if f.Status != models.DonationAvailable {
		t.Errorf("fresh status = %q, want untouched %q", f.Status, models.DonationAvailable)
	}

	if n := notificationCount(t, donor.ID, models.NotifDonationExpired); n != 1 {
		t.Errorf("donor notifications = %d, want 1", n)
	}
}

func TestExpireOverdueLeavesClaimedAlone(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t)
	now := time.Now()

	// Overdue but already claimed; the overdue-to-expired path only applies
	// to available donations.
	claimed := seedDonation(t, donor, "claimed", models.DonationClaimed, now.Add(-time.Hour))

	var sweep Sweep
	if got := sweep.ExpireOverdue(now); got != 0 {
		t.Fatalf("expired = %d, want 0", got)
	}

	var d models.Donation
	database.DB.First(&d, claimed.ID)
	if d.Status != models.DonationClaimed {
		t.Errorf("status = %q, want untouched %q", d.Status, models.DonationClaimed)
	}
}

func TestExpireOverdueIsIdempotent(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t)
	now := time.Now()
	seedDonation(t, donor, "overdue", models.DonationAvailable, now.Add(-time.Hour))

	var sweep Sweep
	sweep.ExpireOverdue(now)
	if got := sweep.ExpireOverdue(now); got != 0 {
		t.Fatalf("second sweep expired = %d, want 0", got)
	}
	if n := notificationCount(t, donor.ID, models.NotifDonationExpired); n != 1 {
		t.Errorf("donor notifications = %d, want 1", n)
	}
}

func TestRemindExpiring(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t)
	now := time.Now()

	soon := seedDonation(t, donor, "soon", models.DonationAvailable, now.Add(6*time.Hour))
	seedDonation(t, donor, "later", models.DonationAvailable, now.Add(30*time.Hour))

	var sweep Sweep
	if got := sweep.RemindExpiring(now); got != 1 {
		t.Fatalf("reminded = %d, want 1", got)
	}

	var d models.Donation
	database.DB.First(&d, soon.ID)
	if d.ReminderSentAt == nil {
		t.Error("reminderSentAt not set")
	}
	if d.Status != models.DonationAvailable {
		t.Errorf("status = %q, reminder must not change state", d.Status)
	}

	if n := notificationCount(t, donor.ID, models.NotifSystem); n != 1 {
		t.Errorf("donor notifications = %d, want 1", n)
	}
}

func TestRemindExpiringOnlyOnce(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t)
	now := time.Now()
	seedDonation(t, donor, "soon", models.DonationAvailable, now.Add(6*time.Hour))

	var sweep Sweep
	sweep.RemindExpiring(now)
	if got := sweep.RemindExpiring(now.Add(time.Hour)); got != 0 {
		t.Fatalf("second sweep reminded = %d, want 0", got)
	}
	if n := notificationCount(t, donor.ID, models.NotifSystem); n != 1 {
		t.Errorf("donor notifications = %d, want 1", n)
	}
}

func TestRemindExpiringSkipsClaimed(t *testing.T) {
	setupTestDB(t)
	donor := createDonor(t)
	now := time.Now()
	seedDonation(t, donor, "claimed", models.DonationClaimed, now.Add(6*time.Hour))

	var sweep Sweep
	if got := sweep.RemindExpiring(now); got != 0 {
		t.Fatalf("reminded = %d, want 0", got)
	}
}

func TestSchedulerRunsJobs(t *testing.T) {
	ticks := make(chan time.Time, 4)
	s := New(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run:      func(now time.Time) { ticks <- now },
	})
	s.Start()
	defer s.Stop()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
}
