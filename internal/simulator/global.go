package simulator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bartek5186/retailmind/internal/analytics"
)

// Global scenario names.
const (
	ScenarioPriceChange = "price_change"
	ScenarioPromotion   = "promotion"
	ScenarioMarketing   = "marketing"
)

// Segment filters.
const (
	SegmentAll         = "ALL"
	SegmentHighRisk    = "HIGH_RISK"
	SegmentOpportunity = "OPPORTUNITY"
)

// GlobalParams selects a scenario, the catalog segment it applies to, and the
// scenario's own knobs.
type GlobalParams struct {
	Scenario     string  `validate:"required,oneof=price_change promotion marketing"`
	Segment      string  // ALL (default), HIGH_RISK, OPPORTUNITY
	PctChange    float64 // price_change: uniform price move
	DiscountPct  float64 `validate:"gte=0,lte=50"` // promotion
	DurationDays int     `validate:"gte=0,lte=30"` // promotion; 0 means default 7
	AdSpend      float64 `validate:"gte=0"` // marketing: one store-wide cost
	LiftPct      float64 // marketing
}

// GlobalSummary is the order-independent reduction over the sampled products.
type GlobalSummary struct {
	TotalRevenueChange float64  `json:"total_revenue_change"`
	RevenueChangePct   float64  `json:"revenue_change_pct"`
	DemandChangePct    float64  `json:"demand_change_pct"`
	NetProfitImpact    *float64 `json:"net_profit_impact,omitempty"` // marketing only
	Action             string   `json:"action"`
}

type GlobalResult struct {
	ProductsImpacted int           `json:"products_impacted"`
	Segment          string        `json:"segment"`
	Summary          GlobalSummary `json:"summary"`
}

// contribution is one product's share of the aggregate; summed afterwards so
// the reduction is associative and order-independent.
type contribution struct {
	baseRevenue  float64
	revenueDelta float64
	baseDemand   float64
	demandDelta  float64
}

// SimulateGlobal applies one scenario across a segment-filtered, size-capped
// product sample, running the per-product projections in parallel.
func (s *Service) SimulateGlobal(p GlobalParams) (*GlobalResult, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	segment := strings.ToUpper(p.Segment)
	if segment == "" {
		segment = SegmentAll
	}
	switch segment {
	case SegmentAll, SegmentHighRisk, SegmentOpportunity:
	default:
		return nil, fmt.Errorf("%w: unknown segment %q", ErrInvalidInput, p.Segment)
	}
	if p.Scenario == ScenarioPromotion && p.DurationDays == 0 {
		p.DurationDays = 7
	}

	all, err := s.analyzer.AnalyzeAll()
	if err != nil {
		return nil, err
	}

	// Deterministic sample: sorted names, segment filter, size cap.
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var sample []*analytics.AnalysisResult
	for _, name := range names {
		res := all[name]
		if segment == SegmentHighRisk && res.Risk.RiskLevel != analytics.RiskHigh {
			continue
		}
		if segment == SegmentOpportunity && res.Risk.RiskLevel != analytics.RiskOpportunity {
			continue
		}
		sample = append(sample, res)
		if len(sample) >= s.cfg.GlobalSampleCap {
			break
		}
	}

	contribs := make([]contribution, len(sample))
	var wg sync.WaitGroup
	for i, res := range sample {
		wg.Add(1)
		go func(i int, res *analytics.AnalysisResult) {
			defer wg.Done()
			contribs[i] = s.contribute(p, res)
		}(i, res)
	}
	wg.Wait()

	var total contribution
	for _, c := range contribs {
		total.baseRevenue += c.baseRevenue
		total.revenueDelta += c.revenueDelta
		total.baseDemand += c.baseDemand
		total.demandDelta += c.demandDelta
	}

	revPct := 0.0
	if total.baseRevenue > 0 {
		revPct = total.revenueDelta / total.baseRevenue * 100
	}
	demandPct := 0.0
	if total.baseDemand > 0 {
		demandPct = total.demandDelta / total.baseDemand * 100
	}
	summary := GlobalSummary{
		TotalRevenueChange: analytics.Round2(total.revenueDelta),
		RevenueChangePct:   analytics.Round1(revPct),
		DemandChangePct:    analytics.Round1(demandPct),
		Action:             actionTag(total.revenueDelta),
	}
	if p.Scenario == ScenarioMarketing {
		// Revenue change stays gross (one day of summed lift); ad spend is one
		// store-wide cost subtracted once, and it decides the action.
		netProfit := analytics.Round2(total.revenueDelta - p.AdSpend)
		summary.NetProfitImpact = &netProfit
		summary.Action = actionTag(netProfit)
	}

	return &GlobalResult{
		ProductsImpacted: len(sample),
		Segment:          segment,
		Summary:          summary,
	}, nil
}

// contribute runs the per-product projection for one scenario and converts it
// into summable deltas.
func (s *Service) contribute(p GlobalParams, res *analytics.AnalysisResult) contribution {
	price := res.Metrics.CurrentPrice
	daily := res.Forecast.Last7dAvg
	forecastOne := 0.0
	if len(res.Forecast.NextDays) > 0 {
		forecastOne = float64(res.Forecast.NextDays[0])
	}

	var c contribution
	switch p.Scenario {
	case ScenarioPriceChange:
		newPrice := price * (1 + p.PctChange/100)
		impact := SimulatePriceImpact(price, newPrice, daily, forecastOne, s.cfg.PriceElasticity)
		c.baseRevenue = price * daily
		c.revenueDelta = float64(impact.NewDemand)*newPrice - c.baseRevenue
		c.baseDemand = daily
		c.demandDelta = float64(impact.NewDemand) - daily

	case ScenarioPromotion:
		impact := SimulatePromotion(price, p.DiscountPct, p.DurationDays, daily, s.cfg.PromoLiftFactor)
		duration := float64(p.DurationDays)
		c.baseRevenue = daily * price * duration
		c.revenueDelta = impact.RevenueImpact
		c.baseDemand = daily * duration
		c.demandDelta = (impact.LiftPct / 100) * c.baseDemand

	case ScenarioMarketing:
		impact := SimulateMarketingCampaign(price, daily, 0, p.LiftPct)
		c.baseRevenue = price * daily
		c.revenueDelta = impact.DailyRevenueIncrease
		c.baseDemand = daily
		c.demandDelta = daily * p.LiftPct / 100
	}
	return c
}

func actionTag(netChange float64) string {
	if netChange > 0 {
		return "POSITIVE"
	}
	return "NEGATIVE"
}
