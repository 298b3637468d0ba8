package analytics

import (
	"time"

	"github.com/bartek5186/retailmind/internal/store"
)

// SeasonalityResult describes the weekly sales pattern of a product.
type SeasonalityResult struct {
	Pattern        string  `json:"pattern"`
	BestSalesDay   string  `json:"best_sales_day"`
	WorstSalesDay  string  `json:"worst_sales_day"`
	WeekendLiftPct float64 `json:"weekend_lift_pct"`
}

// DetectSeasonality buckets sales by weekday and labels the product Weekend
// Peak, Weekday Peak or Consistent Daily (weekend average beyond ±20% of the
// weekday average).
func DetectSeasonality(history []store.DailyRecord) SeasonalityResult {
	if len(history) == 0 {
		return SeasonalityResult{Pattern: "Unknown", BestSalesDay: "Unknown", WorstSalesDay: "Unknown"}
	}

	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, r := range history {
		wd := r.Date.Weekday()
		sums[wd] += float64(r.Sales)
		counts[wd]++
	}

	var bestDay, worstDay time.Weekday
	bestAvg, worstAvg := -1.0, -1.0
	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		n := counts[wd]
		if n == 0 {
			continue
		}
		avg := sums[wd] / float64(n)
		if bestAvg < 0 || avg > bestAvg {
			bestAvg, bestDay = avg, wd
		}
		if worstAvg < 0 || avg < worstAvg {
			worstAvg, worstDay = avg, wd
		}
		if wd == time.Saturday || wd == time.Sunday {
			weekendSum += avg
			weekendN++
		} else {
			weekdaySum += avg
			weekdayN++
		}
	}

	var weekendAvg, weekdayAvg float64
	if weekendN > 0 {
		weekendAvg = weekendSum / float64(weekendN)
	}
	if weekdayN > 0 {
		weekdayAvg = weekdaySum / float64(weekdayN)
	}

	pattern := "Consistent Daily"
	switch {
	case weekendAvg > weekdayAvg*1.2:
		pattern = "Weekend Peak"
	case weekendAvg < weekdayAvg*0.8:
		pattern = "Weekday Peak"
	}

	lift := 0.0
	if weekdayAvg > 0 {
		lift = Round1((weekendAvg - weekdayAvg) / weekdayAvg * 100)
	}

	return SeasonalityResult{
		Pattern:        pattern,
		BestSalesDay:   bestDay.String(),
		WorstSalesDay:  worstDay.String(),
		WeekendLiftPct: lift,
	}
}
