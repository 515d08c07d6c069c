package donation

import (
	"errors"
	"math"
	"testing"
	"time"

	"foodrescue-backend/internal/models"
)

// createAt posts an available donation at the given coordinates.
func createAt(t *testing.T, donor *models.User, name string, lat, lng float64, expiration time.Time) *models.Donation {
	t.Helper()
	in := validInput(expiration)
	in.FoodName = name
	in.Latitude = lat
	in.Longitude = lng
	d, err := Create(donor.ID, in)
	if err != nil {
		t.Fatalf("could not create donation %q: %v", name, err)
	}
	return d
}

func TestHaversine(t *testing.T) {
	// New York to Los Angeles, ~3936km.
	got := Haversine(40.7128, -74.0060, 34.0522, -118.2437)
	if math.Abs(got-3936) > 20 {
		t.Errorf("NYC-LA distance = %.1fkm, want ~3936km", got)
	}

	if d := Haversine(40.75, -73.98, 40.75, -73.98); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestNearbyRadiusBoundaryInclusive(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)
	exp := time.Now().Add(48 * time.Hour)

	// At the equator, 0.0899 degrees of longitude is well inside 10km,
	// 0.089931 degrees is 9.99987km (the last few meters of the circle),
	// and 0.091 degrees is just over.
	inside := createAt(t, donor, "inside", 0, 0.0899, exp)
	rim := createAt(t, donor, "rim", 0, 0.089931, exp)
	createAt(t, donor, "outside", 0, 0.091, exp)

	results, err := Nearby(0, 0, 10, Filters{}, time.Now())
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Donation.ID != inside.ID || results[1].Donation.ID != rim.ID {
		t.Errorf("got %q, %q; want %q, %q",
			results[0].Donation.FoodName, results[1].Donation.FoodName,
			inside.FoodName, rim.FoodName)
	}
	for _, r := range results {
		if r.DistanceKm > 10 {
			t.Errorf("reported distance %.6fkm exceeds radius", r.DistanceKm)
		}
	}
}

func TestNearbyAcrossAntimeridian(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)
	exp := time.Now().Add(48 * time.Hour)

	// ~10km from the origin, but on the other side of the 180th meridian.
	other := createAt(t, donor, "other-side", 0, 179.95, exp)

	results, err := Nearby(0, -179.96, 20, Filters{}, time.Now())
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 1 || results[0].Donation.ID != other.ID {
		t.Fatalf("want the donation across the antimeridian, got %d results", len(results))
	}
}

func TestNearbyExcludesNonAvailable(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)
	volunteer := createUser(t, "volunteer", models.RoleVolunteer)
	exp := time.Now().Add(48 * time.Hour)

	createAt(t, donor, "open", 0, 0.01, exp)
	claimed := createAt(t, donor, "claimed", 0, 0.02, exp)
	if _, err := Claim(claimed.ID, volunteer, nil); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	results, err := Nearby(0, 0, 10, Filters{}, time.Now())
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 1 || results[0].Donation.FoodName != "open" {
		t.Fatalf("want only the available donation, got %d results", len(results))
	}
}

func TestNearbySortsByDistanceThenExpiration(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)
	now := time.Now()

	far := createAt(t, donor, "far", 0, 0.05, now.Add(24*time.Hour))
	near := createAt(t, donor, "near", 0, 0.01, now.Add(72*time.Hour))
	// Same spot as "far" but expiring sooner; must sort ahead of it.
	farSoon := createAt(t, donor, "far-soon", 0, 0.05, now.Add(12*time.Hour))

	results, err := Nearby(0, 0, 10, Filters{}, now)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	wantOrder := []uint{near.ID, farSoon.ID, far.ID}
	for i, want := range wantOrder {
		if results[i].Donation.ID != want {
			t.Errorf("position %d: got %q", i, results[i].Donation.FoodName)
		}
	}
}

func TestNearbyFoodTypeFilter(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)
	exp := time.Now().Add(48 * time.Hour)

	in := validInput(exp)
	in.FoodName = "soup"
	in.FoodType = models.FoodPrepared
	in.Latitude, in.Longitude = 0, 0.01
	if _, err := Create(donor.ID, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	createAt(t, donor, "crackers", 0, 0.02, exp) // packaged

	results, err := Nearby(0, 0, 10, Filters{FoodType: "prepared"}, time.Now())
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 1 || results[0].Donation.FoodName != "soup" {
		t.Fatalf("want only the prepared donation, got %d results", len(results))
	}
}

func TestNearbyValidation(t *testing.T) {
	setupTestDB(t)

	if _, err := Nearby(0, 0, 0, Filters{}, time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("zero radius: want ErrValidation, got %v", err)
	}
	if _, err := Nearby(91, 0, 10, Filters{}, time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("bad latitude: want ErrValidation, got %v", err)
	}
	if _, err := Nearby(0, 0, 10, Filters{ExpiryTimeframe: "fortnight"}, time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("bad timeframe: want ErrValidation, got %v", err)
	}
}

func TestExpiryTimeframeToday(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)

	// Pin the query's "now" to mid-day tomorrow so both edges of the window
	// exist and every expiration is still in the future for Create.
	y, m, d := time.Now().AddDate(0, 0, 1).Date()
	now := time.Date(y, m, d, 12, 0, 0, 0, time.Local)
	lastTonight := time.Date(y, m, d, 23, 59, 0, 0, time.Local)
	firstTomorrow := time.Date(y, m, d, 0, 1, 0, 0, time.Local).AddDate(0, 0, 1)

	today := createAt(t, donor, "today", 0, 0.01, lastTonight)
	createAt(t, donor, "tomorrow", 0, 0.02, firstTomorrow)

	results, err := Nearby(0, 0, 10, Filters{ExpiryTimeframe: "today"}, now)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 1 || results[0].Donation.ID != today.ID {
		t.Fatalf("want only the donation expiring tonight, got %d results", len(results))
	}
}

func TestExpiryTimeframeTomorrow(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)

	y, m, d := time.Now().AddDate(0, 0, 1).Date()
	now := time.Date(y, m, d, 12, 0, 0, 0, time.Local)
	createAt(t, donor, "tonight", 0, 0.01, time.Date(y, m, d, 22, 0, 0, 0, time.Local))
	tomorrow := createAt(t, donor, "tomorrow", 0, 0.02, time.Date(y, m, d, 9, 0, 0, 0, time.Local).AddDate(0, 0, 1))
	createAt(t, donor, "day-after", 0, 0.03, time.Date(y, m, d, 9, 0, 0, 0, time.Local).AddDate(0, 0, 2))

	results, err := Nearby(0, 0, 10, Filters{ExpiryTimeframe: "tomorrow"}, now)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 1 || results[0].Donation.ID != tomorrow.ID {
		t.Fatalf("want only the donation expiring tomorrow, got %d results", len(results))
	}
}

func TestExpiryTimeframeWeek(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)

	y, m, d := time.Now().AddDate(0, 0, 1).Date()
	now := time.Date(y, m, d, 12, 0, 0, 0, time.Local)

	within := createAt(t, donor, "within-week", 0, 0.01, now.Add(6*24*time.Hour))
	edge := createAt(t, donor, "week-edge", 0, 0.02, now.AddDate(0, 0, 7))
	createAt(t, donor, "beyond-week", 0, 0.03, now.AddDate(0, 0, 7).Add(time.Hour))

	results, err := Nearby(0, 0, 10, Filters{ExpiryTimeframe: "week"}, now)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Donation.ID != within.ID || results[1].Donation.ID != edge.ID {
		t.Errorf("got %q, %q", results[0].Donation.FoodName, results[1].Donation.FoodName)
	}
}

func TestListAvailableCityFilter(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, "donor", models.RoleDonor)
	exp := time.Now().Add(48 * time.Hour)

	in := validInput(exp)
	in.FoodName = "local"
	in.City = "Portland"
	if _, err := Create(donor.ID, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	createAvailable(t, donor) // Springfield

	donations, err := ListAvailable(Filters{City: "Port"}, time.Now())
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(donations) != 1 || donations[0].FoodName != "local" {
		t.Fatalf("want only the Portland donation, got %d results", len(donations))
	}
}
