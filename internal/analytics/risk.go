package analytics

import (
	"fmt"
	"time"

	"github.com/bartek5186/retailmind/internal/store"
)

// Risk classifications.
const (
	RiskHigh        = "HIGH_RISK"
	RiskMedium      = "MEDIUM_RISK"
	RiskOpportunity = "OPPORTUNITY"
	RiskStable      = "STABLE"
)

// Expiry risk tiers.
const (
	ExpiryNone     = "NONE"
	ExpiryMedium   = "MEDIUM"
	ExpiryHigh     = "HIGH"
	ExpiryCritical = "CRITICAL"
)

// DaysOfStockSentinel stands in for "no sales, stock lasts forever".
const DaysOfStockSentinel = 999

// Metrics is the 30-day trailing signal block the classifier scores. It is a
// pure value: identical metrics always classify identically.
type Metrics struct {
	Trend7dPct       float64
	Trend30dPct      float64
	Volatility       float64
	StockoutRisk     float64
	PriceStability   float64
	CurrentInventory int
	AvgDailySales30  float64
	Expiry           *time.Time
	AsOf             time.Time // most recent history date; expiry is measured from here
}

// RiskResult is the risk/opportunity classification for one product.
type RiskResult struct {
	RiskLevel         string  `json:"risk_level"`
	Priority          int     `json:"priority"` // 1 = act now, 3 = neutral
	RiskScore         int     `json:"risk_score"`
	OpportunityScore  int     `json:"opportunity_score"`
	DaysOfStock       float64 `json:"days_of_stock"`
	ExpiryRisk        string  `json:"expiry_risk"`
	Reason            string  `json:"reason"`
	RecommendedAction string  `json:"recommended_action"`
	CurrentInventory  int     `json:"current_inventory"`
	AvgDailySales     float64 `json:"avg_daily_sales"`
}

// ComputeMetrics derives the classifier's input signals from the trailing 30
// days of history. Degenerate windows (zero means, short histories) yield the
// documented fallbacks, never errors.
func ComputeMetrics(history []store.DailyRecord) Metrics {
	var m Metrics
	if len(history) == 0 {
		m.PriceStability = 1
		return m
	}

	start := 0
	if len(history) > 30 {
		start = len(history) - 30
	}
	recent := history[start:]
	latest := history[len(history)-1]

	sales := make([]float64, len(recent))
	prices := make([]float64, len(recent))
	invs := make([]float64, len(recent))
	for i, r := range recent {
		sales[i] = float64(r.Sales)
		prices[i] = float64(r.Price)
		invs[i] = float64(r.Inventory)
	}

	salesMean := mean(sales)
	salesStd := stddev(sales)

	m.Trend7dPct = windowTrend(sales, 7)
	m.Trend30dPct = windowTrend(sales, 30)
	if salesMean > 0 {
		m.Volatility = salesStd / salesMean
	}
	m.StockoutRisk = stockoutRisk(invs, salesMean, salesStd)
	m.PriceStability = 1
	if pm := mean(prices); pm > 0 {
		m.PriceStability = 1 - stddev(prices)/pm
	}
	m.CurrentInventory = latest.Inventory
	m.AvgDailySales30 = salesMean
	m.Expiry = latest.Expiry
	m.AsOf = latest.Date
	return m
}

// windowTrend compares the mean of the trailing window against the mean of
// the equal-length preceding window, as a percentage. Insufficient history or
// a zero base yields 0.
func windowTrend(sales []float64, days int) float64 {
	if len(sales) < days {
		return 0
	}
	recent := sales[len(sales)-days:]
	var older []float64
	if len(sales) >= 2*days {
		older = sales[len(sales)-2*days : len(sales)-days]
	} else {
		older = sales[:days]
	}
	base := mean(older)
	if len(older) == 0 || base == 0 {
		return 0
	}
	return (mean(recent) - base) / base * 100
}

// stockoutRisk is a coarse z-score proxy for how thin mean inventory is
// relative to mean sales, clamped to [0,1].
func stockoutRisk(invs []float64, salesMean, salesStd float64) float64 {
	if salesMean == 0 {
		return 0
	}
	z := (mean(invs) - salesMean) / (salesStd + 1e-6)
	risk := 0.5 - 0.2*z
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}
	return risk
}

// Classify scores the metrics block into a risk classification. forecastTrend
// is the forecast engine's trend percentage; last7dAvg anchors days-of-stock.
// Pure and deterministic.
func Classify(m Metrics, forecastTrendPct, last7dAvg float64) RiskResult {
	daysOfStock := float64(DaysOfStockSentinel)
	if last7dAvg > 0 {
		daysOfStock = float64(m.CurrentInventory) / last7dAvg
	}

	riskScore := 0
	oppScore := 0
	expiryRisk := ExpiryNone
	expiryMsg := ""

	if m.Expiry != nil {
		daysToExpiry := int(m.Expiry.Sub(m.AsOf).Hours() / 24)
		switch {
		case daysToExpiry <= 1:
			expiryRisk = ExpiryCritical
			riskScore += 100 // forces HIGH_RISK
			expiryMsg = fmt.Sprintf("CRITICAL: Product expires in %d days! Clearance required.", daysToExpiry)
		case daysToExpiry <= 3:
			expiryRisk = ExpiryHigh
			riskScore += 50
			expiryMsg = fmt.Sprintf("WARNING: Product expires in %d days. Promotion required.", daysToExpiry)
		case daysToExpiry <= 7:
			expiryRisk = ExpiryMedium
			riskScore += 20
			expiryMsg = fmt.Sprintf("NOTICE: Product expiring soon (%d days).", daysToExpiry)
		}
	}

	if m.Trend7dPct < -10 {
		riskScore += 30
	}
	if daysOfStock > 25 {
		riskScore += 25
	}
	if m.StockoutRisk > 0.3 {
		riskScore += 20
	}
	if m.Volatility > 0.4 {
		riskScore += 15
	}

	if m.Trend7dPct > 15 {
		oppScore += 30
	}
	if daysOfStock < 7 {
		oppScore += 25
	}
	if forecastTrendPct > 10 {
		oppScore += 20
	}
	if m.Volatility < 0.2 && m.Trend7dPct > 5 {
		oppScore += 15
	}

	var level string
	var priority int
	switch {
	case riskScore >= 60 && oppScore < 30:
		level, priority = RiskHigh, 1
	case oppScore >= 60 && riskScore < 30:
		level, priority = RiskOpportunity, 1
	case riskScore > oppScore:
		level, priority = RiskMedium, 2
	case oppScore > riskScore:
		level, priority = RiskStable, 2 // favorable
	default:
		level, priority = RiskStable, 3 // neutral
	}

	action := recommendedAction(level)
	reason := action
	if expiryMsg != "" {
		reason = expiryMsg + " " + action
	}

	return RiskResult{
		RiskLevel:         level,
		Priority:          priority,
		RiskScore:         riskScore,
		OpportunityScore:  oppScore,
		DaysOfStock:       Round1(daysOfStock),
		ExpiryRisk:        expiryRisk,
		Reason:            reason,
		RecommendedAction: action,
		CurrentInventory:  m.CurrentInventory,
		AvgDailySales:     Round1(last7dAvg),
	}
}

// AssessRisk runs the metrics block and classification for one product.
func AssessRisk(history []store.DailyRecord, forecast ForecastResult) RiskResult {
	return Classify(ComputeMetrics(history), forecast.TrendPct, forecast.Last7dAvg)
}

func recommendedAction(level string) string {
	switch level {
	case RiskHigh:
		return "Discount by 15-20% to clear excess stock"
	case RiskOpportunity:
		return "Increase inventory to meet demand"
	case RiskMedium:
		return "Monitor closely for 7 days"
	case RiskStable:
		return "Maintain current levels"
	default:
		return "Monitor as usual"
	}
}
