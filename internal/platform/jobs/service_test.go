package jobs

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		start, end := previousMonth(tc.now)
		if !start.Equal(tc.wantStart) || !end.Equal(tc.wantEnd) {
			t.Fatalf("previousMonth(%v) = (%v, %v), want (%v, %v)",
				tc.now, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}
