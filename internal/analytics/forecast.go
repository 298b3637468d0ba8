package analytics

import (
	"github.com/bartek5186/retailmind/internal/store"
)

// Forecast horizon bounds enforced at the boundary; out-of-range values are
// clamped rather than rejected so the pipeline always returns a result.
const (
	MinHorizonDays     = 1
	MaxHorizonDays     = 30
	DefaultHorizonDays = 7
)

// ForecastResult is the demand projection for one product.
type ForecastResult struct {
	NextDays        []int   `json:"forecast_days"`
	TrendPct        float64 `json:"demand_trend_pct"`
	ConfidenceScore float64 `json:"confidence_score"`
	ConfidenceTier  string  `json:"confidence_tier"`
	Last7dAvg       float64 `json:"last_7d_avg"`
}

// Confidence tiers.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Forecast projects demand from the product's ordered daily history: a
// 7-point trailing moving average scaled by a least-squares trend over the
// most recent 14 observations. Volatility (coefficient of variation over the
// whole history) sets the confidence tier. Empty or short histories fall back
// to whatever the data supports instead of failing.
func Forecast(history []store.DailyRecord, horizonDays int) ForecastResult {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if horizonDays < MinHorizonDays {
		horizonDays = MinHorizonDays
	}
	if horizonDays > MaxHorizonDays {
		horizonDays = MaxHorizonDays
	}

	sales := make([]float64, len(history))
	for i, r := range history {
		sales[i] = float64(r.Sales)
	}

	// Trailing 7-point moving average; the last value anchors the projection.
	lastAvg := 0.0
	if len(sales) > 0 {
		win := tail(sales, 7)
		lastAvg = mean(win)
	}

	// Trend from the last 14 observations, normalized by the window mean and
	// scaled to a weekly percentage.
	trendPct := 0.0
	recent := tail(sales, 14)
	if len(recent) >= 7 {
		avg := mean(recent)
		if avg > 0 {
			denom := avg
			if denom < 1 {
				denom = 1
			}
			trendPct = slope(recent) / denom * 100
		}
	}

	// Coefficient of variation over the full supplied history.
	volatility := 0.0
	if m := mean(sales); m > 0 {
		if sd := stddev(sales); sd > 0 {
			volatility = sd / m
		}
	}

	capped := volatility
	if capped > 0.5 {
		capped = 0.5
	}
	confidence := 1 - capped
	if confidence < 0.1 {
		confidence = 0.1
	}

	tier := ConfidenceLow
	switch {
	case confidence > 0.7:
		tier = ConfidenceHigh
	case confidence > 0.4:
		tier = ConfidenceMedium
	}

	days := make([]int, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		v := lastAvg * (1 + (trendPct/100)*float64(i)/7)
		n := int(v) // truncate
		if n < 1 {
			n = 1 // floor at one unit
		}
		days = append(days, n)
	}

	return ForecastResult{
		NextDays:        days,
		TrendPct:        Round1(trendPct),
		ConfidenceScore: Round2(confidence),
		ConfidenceTier:  tier,
		Last7dAvg:       Round1(lastAvg),
	}
}
