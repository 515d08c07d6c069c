package admin

import (
	"math"
	"testing"
)

func TestKgOf(t *testing.T) {
	cases := []struct {
		quantity float64
		unit     string
		want     float64
	}{
		{5, "kg", 5},
		{500, "g", 0.5},
		{10, "lb", 4.53592},
		{16, "oz", 0.453592},
		{4, "servings", 1.2},
		{10, "items", 3},
		{2, "crates", 2}, // unknown units pass through as kg
	}

	for _, tc := range cases {
		if got := kgOf(tc.quantity, tc.unit); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("kgOf(%v, %q) = %v, want %v", tc.quantity, tc.unit, got, tc.want)
		}
	}
}
