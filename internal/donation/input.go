package donation

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"foodrescue-backend/internal/config"
	"foodrescue-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

type addressBody struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type locationBody struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

type donationBody struct {
	FoodName           string       `json:"foodName"`
	FoodType           string       `json:"foodType"`
	Description        string       `json:"description"`
	Quantity           float64      `json:"quantity"`
	Unit               string       `json:"unit"`
	ExpirationDate     string       `json:"expirationDate"`
	PickupAddress      addressBody  `json:"pickupAddress"`
	Location           locationBody `json:"location"`
	PickupInstructions string       `json:"pickupInstructions"`
}

// parseBody normalizes the two request representations (JSON body, multipart
// form with JSON-encoded nested fields) into one struct. Multipart is the
// shape the web client sends when an image is attached.
func parseBody(c *fiber.Ctx) (donationBody, error) {
	var body donationBody

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&body); err != nil {
			return body, fmt.Errorf("%w: invalid request body", ErrValidation)
		}
		return body, nil
	}

	body.FoodName = c.FormValue("foodName")
	body.FoodType = c.FormValue("foodType")
	body.Description = c.FormValue("description")
	body.Unit = c.FormValue("unit")
	body.ExpirationDate = c.FormValue("expirationDate")
	body.PickupInstructions = c.FormValue("pickupInstructions")

	if v := c.FormValue("quantity"); v != "" {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return body, fmt.Errorf("%w: quantity must be a number", ErrValidation)
		}
		body.Quantity = q
	}
	if v := c.FormValue("pickupAddress"); v != "" {
		if err := json.Unmarshal([]byte(v), &body.PickupAddress); err != nil {
			return body, fmt.Errorf("%w: pickupAddress must be a JSON object", ErrValidation)
		}
	}
	if v := c.FormValue("location"); v != "" {
		if err := json.Unmarshal([]byte(v), &body.Location); err != nil {
			return body, fmt.Errorf("%w: location must be a JSON object", ErrValidation)
		}
	}

	return body, nil
}

func parseExpiration(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: expirationDate must be an ISO date", ErrValidation)
}

// ParseCreateInput reads a create request (either representation), stores an
// attached image, and returns the canonical input.
func ParseCreateInput(c *fiber.Ctx, cfg *config.Config) (Input, error) {
	body, err := parseBody(c)
	if err != nil {
		return Input{}, err
	}

	expiration, err := parseExpiration(body.ExpirationDate)
	if err != nil {
		return Input{}, err
	}

	in := Input{
		FoodName:           body.FoodName,
		FoodType:           models.FoodType(body.FoodType),
		Description:        body.Description,
		Quantity:           body.Quantity,
		Unit:               body.Unit,
		ExpirationDate:     expiration,
		Street:             body.PickupAddress.Street,
		City:               body.PickupAddress.City,
		State:              body.PickupAddress.State,
		ZipCode:            body.PickupAddress.ZipCode,
		PickupInstructions: body.PickupInstructions,
	}
	if len(body.Location.Coordinates) == 2 {
		in.Longitude = body.Location.Coordinates[0]
		in.Latitude = body.Location.Coordinates[1]
	}

	imagePath, err := saveImage(c, cfg)
	if err != nil {
		return Input{}, err
	}
	in.ImagePath = imagePath

	return in, nil
}

// ParseUpdateInput reads a partial update. For JSON, absent fields stay nil;
// for multipart, empty form values are treated as absent.
func ParseUpdateInput(c *fiber.Ctx, cfg *config.Config) (UpdateInput, error) {
	var in UpdateInput

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var body struct {
			FoodName           *string       `json:"foodName"`
			FoodType           *string       `json:"foodType"`
			Description        *string       `json:"description"`
			Quantity           *float64      `json:"quantity"`
			Unit               *string       `json:"unit"`
			ExpirationDate     *string       `json:"expirationDate"`
			PickupAddress      *addressBody  `json:"pickupAddress"`
			Location           *locationBody `json:"location"`
			PickupInstructions *string       `json:"pickupInstructions"`
		}
		if err := c.BodyParser(&body); err != nil {
			return in, fmt.Errorf("%w: invalid request body", ErrValidation)
		}

		in.FoodName = body.FoodName
		in.Description = body.Description
		in.Quantity = body.Quantity
		in.Unit = body.Unit
		in.PickupInstructions = body.PickupInstructions
		if body.FoodType != nil {
			ft := models.FoodType(*body.FoodType)
			in.FoodType = &ft
		}
		if body.ExpirationDate != nil {
			t, err := parseExpiration(*body.ExpirationDate)
			if err != nil {
				return in, err
			}
			in.ExpirationDate = &t
		}
		if body.PickupAddress != nil {
			in.Street = &body.PickupAddress.Street
			in.City = &body.PickupAddress.City
			in.State = &body.PickupAddress.State
			in.ZipCode = &body.PickupAddress.ZipCode
		}
		if body.Location != nil && len(body.Location.Coordinates) == 2 {
			in.Longitude = &body.Location.Coordinates[0]
			in.Latitude = &body.Location.Coordinates[1]
		}
		return in, nil
	}

	body, err := parseBody(c)
	if err != nil {
		return in, err
	}

	set := func(dst **string, v string) {
		if v != "" {
			s := v
			*dst = &s
		}
	}
	set(&in.FoodName, body.FoodName)
	set(&in.Description, body.Description)
	set(&in.Unit, body.Unit)
	set(&in.PickupInstructions, body.PickupInstructions)
	if body.FoodType != "" {
		ft := models.FoodType(body.FoodType)
		in.FoodType = &ft
	}
	if body.Quantity != 0 {
		q := body.Quantity
		in.Quantity = &q
	}
	if body.ExpirationDate != "" {
		t, err := parseExpiration(body.ExpirationDate)
		if err != nil {
			return in, err
		}
		in.ExpirationDate = &t
	}
	if body.PickupAddress != (addressBody{}) {
		in.Street = &body.PickupAddress.Street
		in.City = &body.PickupAddress.City
		in.State = &body.PickupAddress.State
		in.ZipCode = &body.PickupAddress.ZipCode
	}
	if len(body.Location.Coordinates) == 2 {
		in.Longitude = &body.Location.Coordinates[0]
		in.Latitude = &body.Location.Coordinates[1]
	}

	imagePath, err := saveImage(c, cfg)
	if err != nil {
		return in, err
	}
	if imagePath != "" {
		in.ImagePath = &imagePath
	}

	return in, nil
}

// saveImage stores an uploaded donation photo on disk under a random name
// and returns the public path, or "" when no image was attached.
func saveImage(c *fiber.Ctx, cfg *config.Config) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image attached
	}
	return storeImageFile(c, file, cfg)
}

func storeImageFile(c *fiber.Ctx, file *multipart.FileHeader, cfg *config.Config) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("%w: image is too large, maximum size is 5MB", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("%w: image must be jpg, png or webp", ErrValidation)
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(cfg.DonationImagePath, name)); err != nil {
		return "", fmt.Errorf("could not store image: %w", err)
	}

	return "/donation-images/" + name, nil
}
