package analytics

import (
	"strings"
	"testing"
)

func TestComposeExpiryOutranksClassification(t *testing.T) {
	risk := RiskResult{
		RiskLevel:  RiskStable,
		ExpiryRisk: ExpiryCritical,
		Reason:     "CRITICAL: Product expires in 1 days! Clearance required. Maintain current levels",
	}
	got := Compose(ForecastResult{ConfidenceTier: ConfidenceHigh}, risk, PricingResult{})

	if got.InventoryAction != "Emergency Sale Required" {
		t.Errorf("InventoryAction = %q, want Emergency Sale Required", got.InventoryAction)
	}
	if got.ActionReason != risk.Reason {
		t.Errorf("ActionReason = %q, want the expiry reason verbatim", got.ActionReason)
	}
}

func TestComposeOpportunityNarrative(t *testing.T) {
	forecast := ForecastResult{TrendPct: 18, ConfidenceTier: ConfidenceMedium}
	risk := RiskResult{RiskLevel: RiskOpportunity, DaysOfStock: 2.5}
	pricing := PricingResult{
		Action:             PriceIncrease,
		CurrentPrice:       100,
		SuggestedPrice:     105,
		SuggestedChangePct: 5,
	}

	got := Compose(forecast, risk, pricing)

	if got.InventoryAction != "Buy More Stock" {
		t.Errorf("InventoryAction = %q, want Buy More Stock", got.InventoryAction)
	}
	if got.PricingGuidance != "Try increasing price by 5% to 105" {
		t.Errorf("PricingGuidance = %q", got.PricingGuidance)
	}
	if !strings.Contains(got.Summary, "rising by 18%") {
		t.Errorf("Summary = %q, want rising trend mention", got.Summary)
	}
	if got.Confidence != ConfidenceMedium {
		t.Errorf("Confidence = %q, want MEDIUM", got.Confidence)
	}
}

func TestComposeDefaultHoldNarrative(t *testing.T) {
	forecast := ForecastResult{TrendPct: -2, ConfidenceTier: ConfidenceLow}
	risk := RiskResult{RiskLevel: RiskStable, DaysOfStock: 10}
	pricing := PricingResult{Action: PriceHold, CurrentPrice: 100}

	got := Compose(forecast, risk, pricing)

	if got.InventoryAction != "Keep as is" {
		t.Errorf("InventoryAction = %q, want Keep as is", got.InventoryAction)
	}
	if got.PricingGuidance != "Keep price at 100" {
		t.Errorf("PricingGuidance = %q", got.PricingGuidance)
	}
	if !strings.Contains(got.Summary, "falling by 2%") {
		t.Errorf("Summary = %q, want falling trend mention", got.Summary)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	forecast := ForecastResult{TrendPct: 18, ConfidenceTier: ConfidenceHigh}
	risk := RiskResult{RiskLevel: RiskHigh, DaysOfStock: 30}
	pricing := PricingResult{Action: PriceDecrease, CurrentPrice: 100, SuggestedPrice: 90, SuggestedChangePct: -10}

	a := Compose(forecast, risk, pricing)
	b := Compose(forecast, risk, pricing)
	if a != b {
		t.Errorf("identical inputs composed differently:\n%+v\n%+v", a, b)
	}
}

func TestComposeUnknownConfidenceTier(t *testing.T) {
	got := Compose(ForecastResult{ConfidenceTier: ""}, RiskResult{RiskLevel: RiskStable}, PricingResult{Action: PriceHold})
	if got.ConfidenceText != "Thinking... need more data." {
		t.Errorf("ConfidenceText = %q", got.ConfidenceText)
	}
}
