package analytics

import (
	"fmt"
	"math"
)

// Recommendation is the merged, human-readable narrative for one product.
// Pure string templating over the upstream results; determinism is the
// contract.
type Recommendation struct {
	InventoryAction string `json:"inventory_action"`
	PricingGuidance string `json:"pricing_guidance"`
	Summary         string `json:"summary"`
	ActionReason    string `json:"action_reason"`
	Confidence      string `json:"confidence"`
	ConfidenceText  string `json:"confidence_text"`
}

var confidenceText = map[string]string{
	ConfidenceHigh:   "Strong Confidence — data looks very stable.",
	ConfidenceMedium: "Medium Confidence — some ups and downs.",
	ConfidenceLow:    "Low Confidence — sales are jumping around a lot.",
}

// Compose merges the risk and pricing results into an actionable narrative.
// Expiry risk outranks the inventory classification when choosing the action.
func Compose(forecast ForecastResult, risk RiskResult, pricing PricingResult) Recommendation {
	var inventoryAction, actionReason string
	switch {
	case risk.ExpiryRisk == ExpiryCritical:
		inventoryAction = "Emergency Sale Required"
		actionReason = risk.Reason
	case risk.ExpiryRisk == ExpiryHigh:
		inventoryAction = "Clearance Sale"
		actionReason = risk.Reason
	case risk.RiskLevel == RiskHigh:
		inventoryAction = "Reduce Stock"
		actionReason = fmt.Sprintf("Too much stock (%.1f days) and fewer people are buying.", risk.DaysOfStock)
	case risk.RiskLevel == RiskOpportunity:
		inventoryAction = "Buy More Stock"
		actionReason = fmt.Sprintf("Selling fast! Low stock (%.1f days) and demand is going up.", risk.DaysOfStock)
	default:
		inventoryAction = "Keep as is"
		actionReason = fmt.Sprintf("Stock levels are good (%.1f days) and sales are steady.", risk.DaysOfStock)
	}

	var pricingGuidance string
	switch pricing.Action {
	case PriceIncrease:
		pricingGuidance = fmt.Sprintf("Try increasing price by %g%% to %d",
			math.Abs(pricing.SuggestedChangePct), int(pricing.SuggestedPrice))
	case PriceDecrease:
		pricingGuidance = fmt.Sprintf("Try reducing price by %g%% to %d",
			math.Abs(pricing.SuggestedChangePct), int(pricing.SuggestedPrice))
	default:
		pricingGuidance = fmt.Sprintf("Keep price at %d", int(pricing.CurrentPrice))
	}

	trendDesc := "falling"
	if forecast.TrendPct > 0 {
		trendDesc = "rising"
	}
	summary := fmt.Sprintf("%s. %s. Customer interest is %s by %g%%.",
		inventoryAction, pricingGuidance, trendDesc, math.Abs(forecast.TrendPct))

	text, ok := confidenceText[forecast.ConfidenceTier]
	if !ok {
		text = "Thinking... need more data."
	}

	return Recommendation{
		InventoryAction: inventoryAction,
		PricingGuidance: pricingGuidance,
		Summary:         summary,
		ActionReason:    actionReason,
		Confidence:      forecast.ConfidenceTier,
		ConfidenceText:  text,
	}
}
