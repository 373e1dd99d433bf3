package calendar_test

import (
	"testing"
	"time"

	"emplystack/internal/shared/calendar"

	"github.com/stretchr/testify/assert"
)

func d(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestInclusiveDays(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", d("2026-03-10"), d("2026-03-10"), 1},
		{"three days", d("2026-03-10"), d("2026-03-12"), 3},
		{"across month end", d("2026-02-28"), d("2026-03-01"), 2},
		{"leap day", d("2028-02-28"), d("2028-02-29"), 2},
		{"end before start", d("2026-03-12"), d("2026-03-10"), 0},
		{"clock ignored", d("2026-03-10").Add(23 * time.Hour), d("2026-03-11").Add(time.Hour), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, calendar.InclusiveDays(tc.start, tc.end))
		})
	}
}

func TestDay_KeepsLocalDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	got := calendar.Day(time.Date(2026, 3, 1, 1, 30, 0, 0, jakarta))

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
