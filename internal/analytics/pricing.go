package analytics

import (
	"math"

	"github.com/bartek5186/retailmind/internal/store"
)

// Pricing actions.
const (
	PriceIncrease = "INCREASE"
	PriceDecrease = "DECREASE"
	PriceHold     = "HOLD"
)

// PricingResult is the rule-based pricing recommendation for one product.
type PricingResult struct {
	Action             string  `json:"action"`
	Reason             string  `json:"reason"`
	CurrentPrice       float64 `json:"current_price"`
	SuggestedPrice     float64 `json:"suggested_price"`
	SuggestedChangePct float64 `json:"suggested_change_pct"`
	PriceVolatility    float64 `json:"price_volatility"`
}

// RecommendPricing walks a fixed decision table top-down, first match wins.
func RecommendPricing(history []store.DailyRecord, forecast ForecastResult, risk RiskResult) PricingResult {
	var prices []float64
	for _, r := range history {
		prices = append(prices, r.Price)
	}
	recent := tail(prices, 7)

	currentPrice := 0.0
	if len(recent) > 0 {
		currentPrice = recent[len(recent)-1]
	}
	priceVolatility := 0.0
	if len(recent) > 1 {
		if m := mean(recent); m > 0 {
			priceVolatility = stddevP(recent) / m
		}
	}

	trend := forecast.TrendPct
	daysOfStock := risk.DaysOfStock

	var action, reason string
	var changePct float64
	switch {
	case risk.RiskLevel == RiskHigh && daysOfStock > 21:
		action = PriceDecrease
		reason = "High overstock risk - consider promotional pricing to clear inventory"
		changePct = -10
	case risk.RiskLevel == RiskOpportunity && trend > 15:
		action = PriceIncrease
		reason = "Strong demand with low inventory - opportunity for margin improvement"
		changePct = 5
	case trend > 10 && daysOfStock < 10:
		action = PriceIncrease
		reason = "Growing demand with limited stock - small price increase recommended"
		changePct = 3
	case trend < -10 && daysOfStock > 14:
		action = PriceDecrease
		reason = "Falling demand with excess stock - consider price reduction"
		changePct = -7
	case math.Abs(trend) < 5 && daysOfStock > 7 && daysOfStock < 14:
		action = PriceHold
		reason = "Stable market conditions - maintain current pricing"
	case priceVolatility > 0.15:
		action = PriceHold
		reason = "Recent price volatility - maintain stability before changing"
	default:
		action = PriceHold
		reason = "Market conditions are balanced - no price change needed"
	}

	return PricingResult{
		Action:             action,
		Reason:             reason,
		CurrentPrice:       currentPrice,
		SuggestedPrice:     Round2(currentPrice * (1 + changePct/100)),
		SuggestedChangePct: changePct,
		PriceVolatility:    round3(priceVolatility),
	}
}
