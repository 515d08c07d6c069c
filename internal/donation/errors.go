package donation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error kinds returned by the lifecycle and discovery services. Handlers map
// them onto HTTP status codes; wrap with fmt.Errorf("%w: ...") for detail.
var (
	ErrValidation   = errors.New("invalid input")
	ErrInvalidState = errors.New("operation not allowed in current donation state")
	ErrForbidden    = errors.New("not authorized")
	ErrNotFound     = errors.New("donation not found")
)

// HTTPError converts a service error into the fiber error the global error
// handler renders as {"message": ...}.
func HTTPError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidState):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Server error")
	}
}
