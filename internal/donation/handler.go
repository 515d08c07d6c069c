package donation

import (
	"strconv"
	"time"

	"foodrescue-backend/internal/auth"
	"foodrescue-backend/internal/config"
	"foodrescue-backend/internal/database"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type UserSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
}

type DonationResponse struct {
	ID                 uint            `json:"id"`
	FoodName           string          `json:"foodName"`
	FoodType           string          `json:"foodType"`
	Description        string          `json:"description"`
	Quantity           float64         `json:"quantity"`
	Unit               string          `json:"unit"`
	ExpirationDate     time.Time       `json:"expirationDate"`
	PickupAddress      AddressResponse `json:"pickupAddress"`
	Longitude          float64         `json:"longitude"`
	Latitude           float64         `json:"latitude"`
	PickupInstructions string          `json:"pickupInstructions,omitempty"`
	ImageURL           string          `json:"imageUrl,omitempty"`
	Status             string          `json:"status"`
	Donor              *UserSummary    `json:"donor,omitempty"`
	ClaimedBy          *UserSummary    `json:"claimedBy,omitempty"`
	ClaimedAt          *time.Time      `json:"claimedAt,omitempty"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	ExpiredAt          *time.Time      `json:"expiredAt,omitempty"`
	PickupTime         *time.Time      `json:"pickupTime,omitempty"`
	DistanceKm         *float64        `json:"distanceKm,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func ToResponse(d *models.Donation) DonationResponse {
	resp := DonationResponse{
		ID:             d.ID,
		FoodName:       d.FoodName,
		FoodType:       string(d.FoodType),
		Description:    d.Description,
		Quantity:       d.Quantity,
		Unit:           d.Unit,
		ExpirationDate: d.ExpirationDate,
		PickupAddress: AddressResponse{
			Street:  d.Street,
			City:    d.City,
			State:   d.State,
			ZipCode: d.ZipCode,
		},
		Longitude:          d.Longitude,
		Latitude:           d.Latitude,
		PickupInstructions: d.PickupInstructions,
		ImageURL:           d.ImagePath,
		Status:             string(d.Status),
		ClaimedAt:          d.ClaimedAt,
		CompletedAt:        d.CompletedAt,
		ExpiredAt:          d.ExpiredAt,
		PickupTime:         d.PickupTime,
		CreatedAt:          d.CreatedAt,
	}
	if d.Donor.ID != 0 {
		resp.Donor = &UserSummary{ID: d.Donor.ID, Name: d.Donor.Name, Organization: d.Donor.Organization}
	}
	if d.ClaimedBy != nil && d.ClaimedBy.ID != 0 {
		resp.ClaimedBy = &UserSummary{ID: d.ClaimedBy.ID, Name: d.ClaimedBy.Name, Organization: d.ClaimedBy.Organization}
	}
	return resp
}

func LoadCaller(c *fiber.Ctx) (*models.User, error) {
	userID, err := auth.CallerID(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Could not resolve caller")
	}
	return &user, nil
}

// POST /api/donations
func CreateHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}

		in, err := ParseCreateInput(c, cfg)
		if err != nil {
			return HTTPError(err)
		}

		d, err := Create(userID, in)
		if err != nil {
			return HTTPError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(ToResponse(d))
	}
}

// GET /api/donations?status=&foodType=&donor=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Donor")

		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}
		if v := c.Query("foodType"); v != "" {
			q = q.Where("food_type = ?", v)
		}
		if v := c.Query("donor"); v != "" {
			q = q.Where("donor_id = ?", v)
		}

		var donations []models.Donation
		if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donations")
		}

		resp := make([]DonationResponse, 0, len(donations))
		for i := range donations {
			resp = append(resp, ToResponse(&donations[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/donations/available?foodType=&expiryTimeframe=&city=
func ListAvailableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		donations, err := ListAvailable(Filters{
			FoodType:        c.Query("foodType"),
			ExpiryTimeframe: c.Query("expiryTimeframe"),
			City:            c.Query("city"),
		}, time.Now())
		if err != nil {
			return HTTPError(err)
		}

		resp := make([]DonationResponse, 0, len(donations))
		for i := range donations {
			resp = append(resp, ToResponse(&donations[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/donations/nearby?lat=&lng=&distance=&foodType=&expiryTimeframe=
func NearbyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		latStr, lngStr := c.Query("lat"), c.Query("lng")
		if latStr == "" || lngStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Location coordinates are required")
		}

		lat, err1 := strconv.ParseFloat(latStr, 64)
		lng, err2 := strconv.ParseFloat(lngStr, 64)
		if err1 != nil || err2 != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Coordinates must be numbers")
		}

		radiusKm := 10.0
		if v := c.Query("distance"); v != "" {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "distance must be a number")
			}
			radiusKm = r
		}

		results, err := Nearby(lat, lng, radiusKm, Filters{
			FoodType:        c.Query("foodType"),
			ExpiryTimeframe: c.Query("expiryTimeframe"),
		}, time.Now())
		if err != nil {
			return HTTPError(err)
		}

		resp := make([]DonationResponse, 0, len(results))
		for i := range results {
			r := ToResponse(&results[i].Donation)
			dist := results[i].DistanceKm
			r.DistanceKm = &dist
			resp = append(resp, r)
		}
		return c.JSON(resp)
	}
}

// GET /api/donations/user/history
func HistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CallerID(c)
		if err != nil {
			return err
		}
		role, err := auth.CallerRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Preload("Donor").Preload("ClaimedBy")
		switch role {
		case models.RoleDonor:
			q = q.Where("donor_id = ?", userID)
		case models.RoleVolunteer:
			q = q.Where("claimed_by_id = ?", userID)
		case models.RoleAdmin:
			// admins see everything
		default:
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized")
		}

		var donations []models.Donation
		if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donations")
		}

		resp := make([]DonationResponse, 0, len(donations))
		for i := range donations {
			resp = append(resp, ToResponse(&donations[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/donations/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Donation
		if err := database.DB.Preload("Donor").Preload("ClaimedBy").
			First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donation not found")
		}
		return c.JSON(ToResponse(&d))
	}
}

// PUT/PATCH /api/donations/:id
func UpdateHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := LoadCaller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid donation id")
		}

		in, err := ParseUpdateInput(c, cfg)
		if err != nil {
			return HTTPError(err)
		}

		d, err := Update(uint(id), caller.ID, caller.Role == models.RoleAdmin, in)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(ToResponse(d))
	}
}

// DELETE /api/donations/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := LoadCaller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid donation id")
		}

		if err := Delete(uint(id), caller); err != nil {
			return HTTPError(err)
		}
		return c.JSON(fiber.Map{"message": "Donation removed"})
	}
}

// PATCH /api/donations/:id/claim
func ClaimHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := LoadCaller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid donation id")
		}

		var body struct {
			PickupTime string `json:"pickupTime"`
		}
		// Body is optional; a claim without a scheduled time is valid.
		_ = c.BodyParser(&body)

		var pickupTime *time.Time
		if body.PickupTime != "" {
			t, perr := time.ParseInLocation(time.RFC3339, body.PickupTime, time.Local)
			if perr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "pickupTime must be an RFC3339 timestamp")
			}
			pickupTime = &t
		}

		d, err := Claim(uint(id), caller, pickupTime)
		if err != nil {
			return HTTPError(err)
		}

		return c.JSON(fiber.Map{
			"message":  "Donation claimed successfully",
			"donation": ToResponse(d),
		})
	}
}

// POST /api/donations/:id/complete (and PATCH /:id/delivered)
func CompleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := LoadCaller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid donation id")
		}

		d, err := Complete(uint(id), caller)
		if err != nil {
			return HTTPError(err)
		}

		return c.JSON(fiber.Map{
			"message":  "Donation marked as completed",
			"donation": ToResponse(d),
		})
	}
}

// PATCH /api/donations/:id/expired
func ExpireHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := LoadCaller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid donation id")
		}

		d, err := Expire(uint(id), caller)
		if err != nil {
			return HTTPError(err)
		}

		return c.JSON(fiber.Map{
			"message":  "Donation marked as expired",
			"donation": ToResponse(d),
		})
	}
}
