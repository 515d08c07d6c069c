package donation

import (
	"errors"
	"testing"
	"time"
)

func TestParseExpiration(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  time.Time
		isErr bool
	}{
		{"rfc3339", "2026-09-01T15:04:05Z", time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC), false},
		{"datetime-local", "2026-09-01T15:04", time.Date(2026, 9, 1, 15, 4, 0, 0, time.Local), false},
		{"date only", "2026-09-01", time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local), false},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseExpiration(tc.in)
			if tc.isErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("want ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseExpiration(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("parseExpiration(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
