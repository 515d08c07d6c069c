package donation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"gorm.io/gorm"
)

const earthRadiusKm = 6371.0

// Filters refine discovery queries. Zero values mean "no filter".
type Filters struct {
	FoodType        string // produce | prepared | packaged
	ExpiryTimeframe string // today | tomorrow | week
	City            string // substring match, ListAvailable only
}

// NearbyResult pairs a donation with its great-circle distance from the
// query origin.
type NearbyResult struct {
	Donation   models.Donation
	DistanceKm float64
}

// Haversine returns the great-circle distance in kilometers between two
// (lat, lng) points in degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// expiryRange maps a timeframe keyword to an inclusive [from, to] window in
// server local time.
func expiryRange(timeframe string, now time.Time) (time.Time, time.Time, bool, error) {
	endOfDay := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
	}
	startOfDay := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}

	switch timeframe {
	case "", "all":
		return time.Time{}, time.Time{}, false, nil
	case "today":
		return now, endOfDay(now), true, nil
	case "tomorrow":
		next := now.AddDate(0, 0, 1)
		return startOfDay(next), endOfDay(next), true, nil
	case "week":
		return now, now.AddDate(0, 0, 7), true, nil
	default:
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: expiryTimeframe must be one of today, tomorrow, week", ErrValidation)
	}
}

func applyFilters(q *gorm.DB, f Filters, now time.Time) (*gorm.DB, error) {
	if f.FoodType != "" && f.FoodType != "all" {
		switch models.FoodType(f.FoodType) {
		case models.FoodProduce, models.FoodPrepared, models.FoodPackaged:
			q = q.Where("food_type = ?", f.FoodType)
		default:
			return nil, fmt.Errorf("%w: foodType must be one of produce, prepared, packaged", ErrValidation)
		}
	}

	from, to, bounded, err := expiryRange(f.ExpiryTimeframe, now)
	if err != nil {
		return nil, err
	}
	if bounded {
		q = q.Where("expiration_date >= ? AND expiration_date <= ?", from, to)
	}

	return q, nil
}

// Nearby returns available donations within radiusKm of the origin, boundary
// inclusive. Candidates are narrowed with a bounding box in SQL, then the
// exact haversine distance decides membership and the sort order: distance
// ascending, ties broken by expiration ascending.
func Nearby(lat, lng, radiusKm float64, f Filters, now time.Time) ([]NearbyResult, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: distance must be greater than zero", ErrValidation)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}

	// Degrees per km slightly under 2*pi*R/360 (~111.195), so the box always
	// over-covers the circle; the exact haversine check below trims it back.
	const kmPerDegree = 111.0
	latDelta := radiusKm / kmPerDegree
	lngDelta := 180.0
	if cosLat := math.Cos(lat * math.Pi / 180); cosLat > 1e-6 {
		lngDelta = radiusKm / (kmPerDegree * cosLat)
	}

	q := database.DB.Preload("Donor").
		Where("status = ?", models.DonationAvailable).
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta)
	// Skip the longitude window when it spans everything or crosses the
	// antimeridian; the latitude band still bounds the scan.
	if lngDelta < 180.0 && lng-lngDelta >= -180 && lng+lngDelta <= 180 {
		q = q.Where("longitude BETWEEN ? AND ?", lng-lngDelta, lng+lngDelta)
	}

	q, err := applyFilters(q, f, now)
	if err != nil {
		return nil, err
	}

	var candidates []models.Donation
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("could not query donations: %w", err)
	}

	results := make([]NearbyResult, 0, len(candidates))
	for _, d := range candidates {
		dist := Haversine(lat, lng, d.Latitude, d.Longitude)
		if dist <= radiusKm {
			results = append(results, NearbyResult{Donation: d, DistanceKm: dist})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Donation.ExpirationDate.Before(results[j].Donation.ExpirationDate)
	})

	return results, nil
}

// ListAvailable is the non-geospatial variant for clients without a
// location. Newest first.
func ListAvailable(f Filters, now time.Time) ([]models.Donation, error) {
	q := database.DB.Preload("Donor").
		Where("status = ?", models.DonationAvailable)

	q, err := applyFilters(q, f, now)
	if err != nil {
		return nil, err
	}

	if f.City != "" {
		q = q.Where("city LIKE ?", "%"+f.City+"%")
	}

	var donations []models.Donation
	if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("could not query donations: %w", err)
	}
	return donations, nil
}
