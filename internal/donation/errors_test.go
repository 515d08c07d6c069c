package donation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: quantity must be greater than zero", ErrValidation), fiber.StatusBadRequest},
		{"invalid state", fmt.Errorf("%w: this donation is no longer available", ErrInvalidState), fiber.StatusBadRequest},
		{"forbidden", ErrForbidden, fiber.StatusForbidden},
		{"not found", ErrNotFound, fiber.StatusNotFound},
		{"dependency failure", errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPError(tc.err); got.Code != tc.want {
				t.Errorf("HTTPError(%v).Code = %d, want %d", tc.err, got.Code, tc.want)
			}
		})
	}
}

func TestHTTPErrorHidesInternalDetail(t *testing.T) {
	got := HTTPError(errors.New("pq: connection refused"))
	if got.Message != "Server error" {
		t.Errorf("message = %q, internal errors must not leak", got.Message)
	}
}
