// Package simulator projects hypothetical outcomes (price, promotion,
// inventory, competitor, marketing) from the analytics baseline. The five
// scenario functions are pure; extreme inputs degrade to extreme but
// well-formed numbers, never panics.
package simulator

import (
	"math"

	"github.com/bartek5186/retailmind/internal/analytics"
)

// BreakEvenSentinel marks a campaign that never pays back.
const BreakEvenSentinel = 999

// PriceImpact projects a price change through the demand elasticity.
type PriceImpact struct {
	Scenario         string  `json:"scenario"`
	PriceChangePct   float64 `json:"price_change_pct"`
	DemandChangePct  float64 `json:"demand_change_pct"`
	NewDemand        int     `json:"new_demand"`
	ForecastNew      int     `json:"forecast_new"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	Recommendation   string  `json:"recommendation"`
}

// SimulatePriceImpact applies own-price elasticity: demand moves by
// -elasticity × the price change percentage.
func SimulatePriceImpact(currentPrice, newPrice, currentDemand, forecastDemand, elasticity float64) PriceImpact {
	priceChangePct := 0.0
	if currentPrice > 0 {
		priceChangePct = (newPrice - currentPrice) / currentPrice * 100
	}

	demandChangePct := -elasticity * priceChangePct
	newDemand := currentDemand * (1 + demandChangePct/100)
	forecastNew := forecastDemand * (1 + demandChangePct/100)

	currentRevenue := currentDemand * currentPrice
	newRevenue := newDemand * newPrice
	revenueChangePct := 0.0
	if currentRevenue > 0 {
		revenueChangePct = (newRevenue - currentRevenue) / currentRevenue * 100
	}

	rec := "HOLD"
	switch {
	case revenueChangePct > 0:
		rec = "INCREASE"
	case revenueChangePct < -5:
		rec = "DECREASE"
	}

	return PriceImpact{
		Scenario:         "price_change",
		PriceChangePct:   analytics.Round1(priceChangePct),
		DemandChangePct:  analytics.Round1(demandChangePct),
		NewDemand:        int(math.Max(0, newDemand)),
		ForecastNew:      int(math.Max(0, forecastNew)),
		RevenueChangePct: analytics.Round1(revenueChangePct),
		Recommendation:   rec,
	}
}

// PromotionImpact projects a time-boxed discount.
type PromotionImpact struct {
	Scenario            string  `json:"scenario"`
	DiscountPct         float64 `json:"discount_pct"`
	LiftPct             float64 `json:"lift_pct"`
	PredictedDailySales int     `json:"predicted_daily_sales"`
	RevenueImpact       float64 `json:"revenue_impact"`
	IsProfitable        bool    `json:"is_profitable"`
	Recommendation      string  `json:"recommendation"`
}

// SimulatePromotion assumes a fixed promotion elasticity (liftFactor, default
// 2: 1% discount buys 2% more units) and compares revenue at the discounted
// price against the baseline over the same duration.
func SimulatePromotion(currentPrice, discountPct float64, durationDays int, currentDailySales, liftFactor float64) PromotionImpact {
	if liftFactor <= 0 {
		liftFactor = 2
	}
	liftPct := discountPct * liftFactor

	predictedDaily := currentDailySales * (1 + liftPct/100)
	totalUnits := predictedDaily * float64(durationDays)

	discountedPrice := currentPrice * (1 - discountPct/100)
	totalRevenue := totalUnits * discountedPrice
	baselineRevenue := currentDailySales * float64(durationDays) * currentPrice
	revenueChange := totalRevenue - baselineRevenue

	rec := "MODIFY"
	if revenueChange > 0 {
		rec = "RUN"
	}

	return PromotionImpact{
		Scenario:            "promotion",
		DiscountPct:         discountPct,
		LiftPct:             liftPct,
		PredictedDailySales: int(predictedDaily),
		RevenueImpact:       analytics.Round2(revenueChange),
		IsProfitable:        revenueChange > 0,
		Recommendation:      rec,
	}
}

// InventoryImpact projects a change in the stocked days of cover.
type InventoryImpact struct {
	Scenario              string  `json:"scenario"`
	StockChangePct        float64 `json:"stock_change_pct"`
	StockoutRiskReduction float64 `json:"stockout_risk_reduction"`
	HoldingCostChange     float64 `json:"holding_cost_change"`
	LostSalesRiskPct      float64 `json:"lost_sales_risk_pct"`
	Recommendation        string  `json:"recommendation"`
}

// SimulateInventoryChange weighs stockout-risk reduction (diminishing, capped
// at 40) against holding cost (≈0.1% of unit value per day) and the lost-sales
// risk of dropping below a 7-day floor.
func SimulateInventoryChange(currentStockDays, newStockDays, currentDemand, price float64) InventoryImpact {
	stockChangePct := 0.0
	if currentStockDays > 0 {
		stockChangePct = (newStockDays - currentStockDays) / currentStockDays * 100
	}

	stockoutRiskReduction := 0.0
	if stockChangePct > 0 {
		stockoutRiskReduction = math.Min(40, math.Abs(stockChangePct)*0.8)
	}

	holdingCostImpact := (newStockDays - currentStockDays) * currentDemand * price * 0.001

	lostSalesRisk := 0.0
	if newStockDays < 7 && currentStockDays >= 7 {
		lostSalesRisk = (7 - newStockDays) * 5 // 5% per day under the floor
	}

	rec := "HOLD"
	switch {
	case stockChangePct > 0 && stockoutRiskReduction > 20:
		rec = "INCREASE"
	case stockChangePct < 0 && holdingCostImpact > 10:
		rec = "DECREASE"
	}

	return InventoryImpact{
		Scenario:              "inventory_change",
		StockChangePct:        analytics.Round1(stockChangePct),
		StockoutRiskReduction: analytics.Round1(stockoutRiskReduction),
		HoldingCostChange:     analytics.Round2(holdingCostImpact),
		LostSalesRiskPct:      analytics.Round1(lostSalesRisk),
		Recommendation:        rec,
	}
}

// CompetitorImpact projects a competitor's price drop through cross-price
// elasticity.
type CompetitorImpact struct {
	Scenario          string  `json:"scenario"`
	CompetitorDropPct float64 `json:"competitor_drop_pct"`
	DemandImpactPct   float64 `json:"demand_impact_pct"`
	RevenueImpactPct  float64 `json:"revenue_impact_pct"`
	Recommendation    string  `json:"recommendation"`
}

// SimulateCompetitorMove assumes own price is held, so revenue moves linearly
// with the lost demand.
func SimulateCompetitorMove(competitorDropPct, crossElasticity float64) CompetitorImpact {
	demandDropPct := competitorDropPct * crossElasticity

	rec := "MONITOR"
	if demandDropPct > 10 {
		rec = "MATCH_PRICE"
	}

	return CompetitorImpact{
		Scenario:          "competitor_move",
		CompetitorDropPct: competitorDropPct,
		DemandImpactPct:   -analytics.Round1(demandDropPct),
		RevenueImpactPct:  -analytics.Round1(demandDropPct),
		Recommendation:    rec,
	}
}

// MarketingImpact projects a campaign's payback.
type MarketingImpact struct {
	Scenario             string  `json:"scenario"`
	AdSpend              float64 `json:"ad_spend"`
	TrafficLiftPct       float64 `json:"traffic_lift_pct"`
	DailyRevenueIncrease float64 `json:"daily_revenue_increase"`
	BreakEvenDays        float64 `json:"break_even_days"`
	Recommendation       string  `json:"recommendation"`
}

// SimulateMarketingCampaign computes the daily revenue lift and the days to
// recoup the spend (999 when the lift never pays back).
func SimulateMarketingCampaign(currentPrice, currentDailySales, adSpend, expectedLiftPct float64) MarketingImpact {
	newDailySales := currentDailySales * (1 + expectedLiftPct/100)
	dailyRevenueLift := (newDailySales - currentDailySales) * currentPrice

	breakEvenDays := float64(BreakEvenSentinel)
	if dailyRevenueLift > 0 {
		breakEvenDays = adSpend / dailyRevenueLift
	}

	rec := "REDUCE_COST"
	if breakEvenDays < 7 {
		rec = "RUN_CAMPAIGN"
	}

	return MarketingImpact{
		Scenario:             "marketing",
		AdSpend:              adSpend,
		TrafficLiftPct:       expectedLiftPct,
		DailyRevenueIncrease: analytics.Round2(dailyRevenueLift),
		BreakEvenDays:        analytics.Round1(breakEvenDays),
		Recommendation:       rec,
	}
}
