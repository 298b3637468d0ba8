package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/bartek5186/retailmind/internal/store"
)

func TestClassifyDecisionTable(t *testing.T) {
	cases := []struct {
		name          string
		m             Metrics
		forecastTrend float64
		last7dAvg     float64
		wantLevel     string
		wantPriority  int
	}{
		{
			name: "high risk: falling trend, overstock, thin inventory buffer",
			m: Metrics{
				Trend7dPct:       -20, // +30
				CurrentInventory: 300, // 30 days of stock -> +25
				StockoutRisk:     0.4, // +20
			},
			last7dAvg:    10,
			wantLevel:    RiskHigh,
			wantPriority: 1,
		},
		{
			name: "opportunity: surging trend, low stock, rising forecast",
			m: Metrics{
				Trend7dPct:       20, // +30
				CurrentInventory: 30, // 3 days of stock -> +25
				Volatility:       0.1,
			},
			forecastTrend: 12, // +20, plus stable-growth bonus +15
			last7dAvg:     10,
			wantLevel:     RiskOpportunity,
			wantPriority:  1,
		},
		{
			name: "medium risk: risk outweighs opportunity below the threshold",
			m: Metrics{
				Trend7dPct:       -20, // +30 only
				CurrentInventory: 100, // 10 days
			},
			last7dAvg:    10,
			wantLevel:    RiskMedium,
			wantPriority: 2,
		},
		{
			name: "stable favorable: opportunity outweighs risk below the threshold",
			m: Metrics{
				Trend7dPct:       20, // +30 only
				CurrentInventory: 100,
			},
			last7dAvg:    10,
			wantLevel:    RiskStable,
			wantPriority: 2,
		},
		{
			name: "stable neutral: nothing fires",
			m: Metrics{
				CurrentInventory: 50, // 10 days
			},
			last7dAvg:    5,
			wantLevel:    RiskStable,
			wantPriority: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.m, tc.forecastTrend, tc.last7dAvg)
			if got.RiskLevel != tc.wantLevel {
				t.Errorf("RiskLevel = %s, want %s (risk=%d opp=%d)",
					got.RiskLevel, tc.wantLevel, got.RiskScore, got.OpportunityScore)
			}
			if got.Priority != tc.wantPriority {
				t.Errorf("Priority = %d, want %d", got.Priority, tc.wantPriority)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	m := Metrics{Trend7dPct: 20, CurrentInventory: 30, Volatility: 0.1}
	a := Classify(m, 12, 10)
	b := Classify(m, 12, 10)
	if a != b {
		t.Errorf("identical metrics classified differently:\n%+v\n%+v", a, b)
	}
}

func TestClassifyOpportunityScenario(t *testing.T) {
	// 30 units at 10/day with a +20% trend and growing forecast.
	m := Metrics{Trend7dPct: 20, CurrentInventory: 30, Volatility: 0.1}
	got := Classify(m, 12, 10)

	if got.DaysOfStock != 3 {
		t.Errorf("DaysOfStock = %v, want 3.0", got.DaysOfStock)
	}
	if got.RiskLevel != RiskOpportunity {
		t.Errorf("RiskLevel = %s, want OPPORTUNITY", got.RiskLevel)
	}
	if got.OpportunityScore < 60 || got.RiskScore >= 30 {
		t.Errorf("scores = %d/%d, want opportunity >= 60 with risk < 30",
			got.OpportunityScore, got.RiskScore)
	}
}

func TestClassifyDaysOfStockSentinel(t *testing.T) {
	got := Classify(Metrics{CurrentInventory: 100}, 0, 0)
	if got.DaysOfStock != DaysOfStockSentinel {
		t.Errorf("DaysOfStock = %v, want sentinel %d", got.DaysOfStock, DaysOfStockSentinel)
	}
}

func TestClassifyExpiryTiers(t *testing.T) {
	asOf := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		expiryDays int
		wantTier   string
		wantLevel  string
		wantPrefix string
	}{
		{"critical forces high risk", 1, ExpiryCritical, RiskHigh, "CRITICAL:"},
		{"high expiry alone is medium risk", 3, ExpiryHigh, RiskMedium, "WARNING:"},
		{"medium expiry alone is medium risk", 6, ExpiryMedium, RiskMedium, "NOTICE:"},
		{"far expiry is no expiry risk", 20, ExpiryNone, RiskStable, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := asOf.AddDate(0, 0, tc.expiryDays)
			m := Metrics{CurrentInventory: 50, Expiry: &exp, AsOf: asOf}
			got := Classify(m, 0, 5) // 10 days of stock, otherwise quiet
			if got.ExpiryRisk != tc.wantTier {
				t.Errorf("ExpiryRisk = %s, want %s", got.ExpiryRisk, tc.wantTier)
			}
			if got.RiskLevel != tc.wantLevel {
				t.Errorf("RiskLevel = %s, want %s", got.RiskLevel, tc.wantLevel)
			}
			if tc.wantPrefix != "" && !strings.HasPrefix(got.Reason, tc.wantPrefix) {
				t.Errorf("Reason = %q, want prefix %q", got.Reason, tc.wantPrefix)
			}
		})
	}
}

func TestComputeMetricsWindowTrends(t *testing.T) {
	// Exactly 30 records: the 30d window has no preceding window to compare
	// against, so the 30d trend reads 0 while the 7d trend still fires.
	sales := make([]int, 30)
	for i := range sales {
		sales[i] = 4
	}
	for i := 23; i < 30; i++ {
		sales[i] = 12
	}
	m := ComputeMetrics(histFromSales(sales))

	if m.Trend30dPct != 0 {
		t.Errorf("Trend30dPct = %v, want 0 with no preceding window", m.Trend30dPct)
	}
	// Last 7 days mean 12 vs preceding 7 days mean 4 -> +200%.
	if m.Trend7dPct != 200 {
		t.Errorf("Trend7dPct = %v, want 200", m.Trend7dPct)
	}
}

func TestComputeMetricsStockoutRiskClamps(t *testing.T) {
	mk := func(inv int) []store.DailyRecord {
		h := histFromSales([]int{10, 10, 10, 10, 10, 10, 10})
		for i := range h {
			h[i].Inventory = inv
		}
		return h
	}

	if got := ComputeMetrics(mk(2)).StockoutRisk; got != 1 {
		t.Errorf("StockoutRisk = %v, want clamp to 1 when inventory trails sales", got)
	}
	if got := ComputeMetrics(mk(500)).StockoutRisk; got != 0 {
		t.Errorf("StockoutRisk = %v, want clamp to 0 when inventory dwarfs sales", got)
	}
}

func TestAssessRiskOpportunityEndToEnd(t *testing.T) {
	// 23 quiet days at 4/day, then a week at 12/day with only 30 units left.
	sales := make([]int, 30)
	for i := range sales {
		sales[i] = 4
	}
	for i := 23; i < 30; i++ {
		sales[i] = 12
	}
	h := histFromSales(sales)
	for i := range h {
		h[i].Inventory = 30
	}

	forecast := Forecast(h, 7)
	got := AssessRisk(h, forecast)

	if got.RiskLevel != RiskOpportunity {
		t.Fatalf("RiskLevel = %s, want OPPORTUNITY (risk=%d opp=%d)",
			got.RiskLevel, got.RiskScore, got.OpportunityScore)
	}
	if got.Priority != 1 {
		t.Errorf("Priority = %d, want 1", got.Priority)
	}
	if got.DaysOfStock != 2.5 {
		t.Errorf("DaysOfStock = %v, want 2.5", got.DaysOfStock)
	}
	if got.AvgDailySales != 12 {
		t.Errorf("AvgDailySales = %v, want 12", got.AvgDailySales)
	}
	if got.RecommendedAction != "Increase inventory to meet demand" {
		t.Errorf("RecommendedAction = %q", got.RecommendedAction)
	}
}
