package simulator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bartek5186/retailmind/internal/analytics"
)

// ErrInvalidInput marks scenario parameters outside their declared ranges.
var ErrInvalidInput = errors.New("invalid input")

// Config carries the tunable scenario assumptions.
type Config struct {
	PriceElasticity float64 // own-price demand elasticity
	CrossElasticity float64 // competitor cross-price elasticity
	PromoLiftFactor float64 // sales lift per discount point
	GlobalSampleCap int     // max products sampled by a global scenario
}

// Service resolves baselines from the latest AnalysisResult and enforces the
// declared parameter ranges before delegating to the pure scenario functions.
type Service struct {
	analyzer *analytics.Analyzer
	cfg      Config
	log      zerolog.Logger
	validate *validator.Validate
}

func NewService(analyzer *analytics.Analyzer, cfg Config, log zerolog.Logger) *Service {
	if cfg.PriceElasticity <= 0 {
		cfg.PriceElasticity = 1.2
	}
	if cfg.CrossElasticity <= 0 {
		cfg.CrossElasticity = 0.7
	}
	if cfg.PromoLiftFactor <= 0 {
		cfg.PromoLiftFactor = 2
	}
	if cfg.GlobalSampleCap <= 0 {
		cfg.GlobalSampleCap = 50
	}
	return &Service{
		analyzer: analyzer,
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
	}
}

func (s *Service) check(params any) error {
	if err := s.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// baseline pulls the simulation inputs out of the latest analysis.
type baseline struct {
	product     string
	price       float64
	dailySales  float64 // 7-day average demand
	forecastOne float64 // next-day forecast
	daysOfStock float64
}

func (s *Service) baseline(product string) (*baseline, *analytics.AnalysisResult, error) {
	res, err := s.analyzer.Analyze(product)
	if err != nil {
		return nil, nil, err
	}
	b := &baseline{
		product:     res.Product,
		price:       res.Metrics.CurrentPrice,
		dailySales:  res.Forecast.Last7dAvg,
		daysOfStock: res.Risk.DaysOfStock,
	}
	if len(res.Forecast.NextDays) > 0 {
		b.forecastOne = float64(res.Forecast.NextDays[0])
	}
	return b, res, nil
}

// PriceParams — a proposed new unit price.
type PriceParams struct {
	Product  string  `validate:"required"`
	NewPrice float64 `validate:"gt=0"`
}

// PriceResult wraps the projection with its product context.
type PriceResult struct {
	Product      string  `json:"product"`
	CurrentPrice float64 `json:"current_price"`
	NewPrice     float64 `json:"new_price"`
	PriceImpact
}

func (s *Service) SimulatePriceChange(p PriceParams) (*PriceResult, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	b, _, err := s.baseline(p.Product)
	if err != nil {
		return nil, err
	}
	impact := SimulatePriceImpact(b.price, p.NewPrice, b.dailySales, b.forecastOne, s.cfg.PriceElasticity)
	return &PriceResult{Product: b.product, CurrentPrice: b.price, NewPrice: p.NewPrice, PriceImpact: impact}, nil
}

// PromotionParams — discount capped at 50%, duration at 30 days.
type PromotionParams struct {
	Product      string  `validate:"required"`
	DiscountPct  float64 `validate:"gte=0,lte=50"`
	DurationDays int     `validate:"gte=1,lte=30"`
}

type PromotionResult struct {
	Product      string  `json:"product"`
	CurrentPrice float64 `json:"current_price"`
	PromotionImpact
}

func (s *Service) SimulatePromotion(p PromotionParams) (*PromotionResult, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	b, _, err := s.baseline(p.Product)
	if err != nil {
		return nil, err
	}
	impact := SimulatePromotion(b.price, p.DiscountPct, p.DurationDays, b.dailySales, s.cfg.PromoLiftFactor)
	return &PromotionResult{Product: b.product, CurrentPrice: b.price, PromotionImpact: impact}, nil
}

// InventoryParams — target stock level, as days of cover or absolute units.
type InventoryParams struct {
	Product       string `validate:"required"`
	NewStockDays  *float64
	NewStockUnits *int
}

type InventoryResult struct {
	Product          string  `json:"product"`
	CurrentStockDays float64 `json:"current_stock_days"`
	InventoryImpact
}

func (s *Service) SimulateInventoryChange(p InventoryParams) (*InventoryResult, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	if p.NewStockDays == nil && p.NewStockUnits == nil {
		return nil, fmt.Errorf("%w: one of NewStockDays or NewStockUnits is required", ErrInvalidInput)
	}
	b, _, err := s.baseline(p.Product)
	if err != nil {
		return nil, err
	}

	newDays := b.daysOfStock
	switch {
	case p.NewStockUnits != nil:
		if b.dailySales > 0 {
			newDays = float64(*p.NewStockUnits) / b.dailySales
		} else {
			newDays = analytics.DaysOfStockSentinel
		}
	case p.NewStockDays != nil:
		newDays = *p.NewStockDays
	}

	impact := SimulateInventoryChange(b.daysOfStock, newDays, b.dailySales, b.price)
	return &InventoryResult{Product: b.product, CurrentStockDays: analytics.Round1(b.daysOfStock), InventoryImpact: impact}, nil
}

// CompetitorParams — the competitor's observed price drop.
type CompetitorParams struct {
	Product string  `validate:"required"`
	DropPct float64 `validate:"gte=0"`
}

type CompetitorResult struct {
	Product string `json:"product"`
	CompetitorImpact
}

func (s *Service) SimulateCompetitorMove(p CompetitorParams) (*CompetitorResult, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	b, _, err := s.baseline(p.Product)
	if err != nil {
		return nil, err
	}
	impact := SimulateCompetitorMove(p.DropPct, s.cfg.CrossElasticity)
	return &CompetitorResult{Product: b.product, CompetitorImpact: impact}, nil
}

// MarketingParams — campaign spend and the expected demand lift.
type MarketingParams struct {
	Product string  `validate:"required"`
	AdSpend float64 `validate:"gte=0"`
	LiftPct float64
}

type MarketingResult struct {
	Product string `json:"product"`
	MarketingImpact
}

func (s *Service) SimulateMarketingCampaign(p MarketingParams) (*MarketingResult, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	b, _, err := s.baseline(p.Product)
	if err != nil {
		return nil, err
	}
	impact := SimulateMarketingCampaign(b.price, b.dailySales, p.AdSpend, p.LiftPct)
	return &MarketingResult{Product: b.product, MarketingImpact: impact}, nil
}
