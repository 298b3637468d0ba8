// Package analytics is the per-product decision pipeline: forecast → risk →
// pricing → recommendation, composed into one AnalysisResult per product.
// All computation here is pure and side-effect-free; the Analyzer only adds a
// result cache invalidated by ledger writes.
package analytics

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bartek5186/retailmind/internal/store"
)

// MetricsSnapshot is the baseline the simulator projects from.
type MetricsSnapshot struct {
	CurrentSales     int     `json:"current_sales"`
	CurrentInventory int     `json:"current_inventory"`
	CurrentPrice     float64 `json:"current_price"`
	LastDate         string  `json:"last_date"`
}

// AnalysisResult is the combined output of the pipeline for one product.
type AnalysisResult struct {
	Product        string            `json:"product"`
	Forecast       ForecastResult    `json:"forecast"`
	Risk           RiskResult        `json:"inventory_risk"`
	Pricing        PricingResult     `json:"pricing"`
	Seasonality    SeasonalityResult `json:"seasonality"`
	Competition    CompetitionResult `json:"competition"`
	Synergy        SynergyResult     `json:"synergy"`
	Recommendation Recommendation    `json:"recommendation"`
	Metrics        MetricsSnapshot   `json:"metrics"`
}

type Analyzer struct {
	store       *store.Store
	log         zerolog.Logger
	horizonDays int

	mu    sync.RWMutex
	cache map[string]*AnalysisResult // key: lowercased product name
}

func NewAnalyzer(st *store.Store, log zerolog.Logger, horizonDays int) *Analyzer {
	return &Analyzer{
		store:       st,
		log:         log,
		horizonDays: horizonDays,
		cache:       make(map[string]*AnalysisResult),
	}
}

// Invalidate drops the cached result for a product. The ledger calls this
// after every committed write.
func (a *Analyzer) Invalidate(product string) {
	a.mu.Lock()
	delete(a.cache, strings.ToLower(product))
	a.mu.Unlock()
}

// Analyze returns the cached result or recomputes the full pipeline.
func (a *Analyzer) Analyze(product string) (*AnalysisResult, error) {
	key := strings.ToLower(product)

	a.mu.RLock()
	cached, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return cached, nil
	}

	res, err := a.compute(product)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[key] = res
	a.mu.Unlock()
	return res, nil
}

func (a *Analyzer) compute(product string) (*AnalysisResult, error) {
	p, err := a.store.Product(product)
	if err != nil {
		return nil, err
	}
	history, err := a.store.History(product)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		// A product imported without history still analyzes: synthesize one
		// record from the master row so every stage sees well-formed input.
		history = []store.DailyRecord{{
			Date:      p.LastUpdated,
			Inventory: p.CurrentInventory,
			Price:     p.Price,
			Category:  p.Category,
		}}
	}
	latest := history[len(history)-1]

	forecast := Forecast(history, a.horizonDays)
	risk := AssessRisk(history, forecast)
	pricing := RecommendPricing(history, forecast, risk)
	seasonality := DetectSeasonality(history)
	competition := AnalyzeCompetition(p.Name, latest.Price)
	synergy := AnalyzeSynergy(p.Name)
	recommendation := Compose(forecast, risk, pricing)

	return &AnalysisResult{
		Product:        p.Name,
		Forecast:       forecast,
		Risk:           risk,
		Pricing:        pricing,
		Seasonality:    seasonality,
		Competition:    competition,
		Synergy:        synergy,
		Recommendation: recommendation,
		Metrics: MetricsSnapshot{
			CurrentSales:     latest.Sales,
			CurrentInventory: p.CurrentInventory,
			CurrentPrice:     latest.Price,
			LastDate:         latest.Date.Format("2006-01-02"),
		},
	}, nil
}

// AnalyzeAll runs the pipeline for every product in parallel. Per-product
// analysis shares no mutable state; the reduction into the result map is the
// only synchronized step.
func (a *Analyzer) AnalyzeAll() (map[string]*AnalysisResult, error) {
	products, err := a.store.Products()
	if err != nil {
		return nil, err
	}

	results := make(map[string]*AnalysisResult, len(products))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range products {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			res, err := a.Analyze(name)
			if err != nil {
				a.log.Error().Err(err).Str("product", name).Msg("analysis failed")
				return
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name)
	}
	wg.Wait()
	return results, nil
}

// Insights is the catalog-level summary.
type Insights struct {
	Headline            string         `json:"headline"`
	Insights            []string       `json:"insights"`
	Counts              map[string]int `json:"counts"`
	HighRiskProducts    []string       `json:"high_risk_products"`
	OpportunityProducts []string       `json:"opportunity_products"`
}

// InsightsSummary aggregates the per-product classifications into plain
// business statements.
func (a *Analyzer) InsightsSummary() (*Insights, error) {
	all, err := a.AnalyzeAll()
	if err != nil {
		return nil, err
	}

	var highRisk, opportunities []string
	var priceIncreases, priceDecreases, weekendPeaks int
	for product, res := range all {
		switch res.Risk.RiskLevel {
		case RiskHigh:
			highRisk = append(highRisk, product)
		case RiskOpportunity:
			opportunities = append(opportunities, product)
		}
		switch res.Pricing.Action {
		case PriceIncrease:
			priceIncreases++
		case PriceDecrease:
			priceDecreases++
		}
		if res.Seasonality.Pattern == "Weekend Peak" {
			weekendPeaks++
		}
	}

	var insights []string
	addf := func(format string, args ...any) {
		insights = append(insights, fmt.Sprintf(format, args...))
	}
	if len(highRisk) > 0 {
		addf("%d products have too much stock and low sales (risk of wastage)", len(highRisk))
	}
	if len(opportunities) > 0 {
		addf("%d products are selling fast - buy more before they run out", len(opportunities))
	}
	if priceIncreases > 0 {
		addf("%d products are popular - you could slightly raise prices", priceIncreases)
	}
	if priceDecreases > 0 {
		addf("%d products are slow moving - consider a discount", priceDecreases)
	}
	if weekendPeaks > 0 {
		addf("%d products sell mostly on weekends (stock up on Friday)", weekendPeaks)
	}
	total := len(all)
	stable := total - len(highRisk) - len(opportunities)
	addf("Store health: %d/%d products are performing well", stable, total)

	headline := "Inventory looks stable."
	switch {
	case len(highRisk) > len(opportunities):
		headline = "Action needed: you have too much unsold stock."
	case len(opportunities) > len(highRisk):
		headline = "Good news: high demand detected. Restock soon."
	}

	return &Insights{
		Headline: headline,
		Insights: insights,
		Counts: map[string]int{
			"total_products":  total,
			"high_risk":       len(highRisk),
			"opportunities":   len(opportunities),
			"price_increases": priceIncreases,
			"price_decreases": priceDecreases,
		},
		HighRiskProducts:    highRisk,
		OpportunityProducts: opportunities,
	}, nil
}
