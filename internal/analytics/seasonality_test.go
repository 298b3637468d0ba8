package analytics

import (
	"testing"
	"time"

	"github.com/bartek5186/retailmind/internal/store"
)

// weeklyHistory builds four full weeks starting on a Monday, with distinct
// weekend and weekday sales levels.
func weeklyHistory(weekday, weekend int) []store.DailyRecord {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // Monday
	out := make([]store.DailyRecord, 0, 28)
	for i := 0; i < 28; i++ {
		d := start.AddDate(0, 0, i)
		s := weekday
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			s = weekend
		}
		out = append(out, store.DailyRecord{Date: d, Sales: s, Inventory: 100, Price: 10})
	}
	return out
}

func TestDetectSeasonality(t *testing.T) {
	cases := []struct {
		name        string
		history     []store.DailyRecord
		wantPattern string
		wantLift    float64
	}{
		{"weekend peak", weeklyHistory(5, 20), "Weekend Peak", 300},
		{"weekday peak", weeklyHistory(10, 2), "Weekday Peak", -80},
		{"consistent", weeklyHistory(10, 10), "Consistent Daily", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectSeasonality(tc.history)
			if got.Pattern != tc.wantPattern {
				t.Errorf("Pattern = %q, want %q", got.Pattern, tc.wantPattern)
			}
			if got.WeekendLiftPct != tc.wantLift {
				t.Errorf("WeekendLiftPct = %v, want %v", got.WeekendLiftPct, tc.wantLift)
			}
		})
	}
}

func TestDetectSeasonalityBestAndWorstDays(t *testing.T) {
	got := DetectSeasonality(weeklyHistory(5, 20))
	if got.BestSalesDay != "Sunday" {
		t.Errorf("BestSalesDay = %q, want Sunday", got.BestSalesDay)
	}
	if got.WorstSalesDay != "Monday" {
		t.Errorf("WorstSalesDay = %q, want Monday", got.WorstSalesDay)
	}
}

func TestDetectSeasonalityEmptyHistory(t *testing.T) {
	got := DetectSeasonality(nil)
	if got.Pattern != "Unknown" || got.BestSalesDay != "Unknown" {
		t.Errorf("got %+v, want Unknown placeholders", got)
	}
}
