package analytics

import (
	"hash/fnv"
	"math/rand"
)

// CompetitionResult positions the product's price against a simulated market.
// Real competitor feeds are an external concern; the stand-in is seeded from
// the product name so results stay stable between runs.
type CompetitionResult struct {
	AvgMarketPrice     float64 `json:"avg_market_price"`
	PriceDifferencePct float64 `json:"price_difference_pct"`
	MarketPosition     string  `json:"market_position"`
	CompetitorCount    int     `json:"competitor_count"`
}

// AnalyzeCompetition estimates a market price within ±15% of the current
// price and labels the product's position against it.
func AnalyzeCompetition(product string, currentPrice float64) CompetitionResult {
	h := fnv.New64a()
	_, _ = h.Write([]byte(product))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	avgMarketPrice := currentPrice * (0.85 + rng.Float64()*0.30)

	diffPct := 0.0
	if avgMarketPrice > 0 {
		diffPct = (currentPrice - avgMarketPrice) / avgMarketPrice * 100
	}

	position := "Market Aligned"
	switch {
	case diffPct > 10:
		position = "Premium / Overpriced"
	case diffPct < -10:
		position = "Budget / Underpriced"
	}

	return CompetitionResult{
		AvgMarketPrice:     Round2(avgMarketPrice),
		PriceDifferencePct: Round1(diffPct),
		MarketPosition:     position,
		CompetitorCount:    2 + rng.Intn(5),
	}
}
