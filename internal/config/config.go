package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	DB        DBConfig        `json:"db"`
	DataPath  string          `json:"data_path"` // initial CSV to seed an empty store
	Analytics AnalyticsConfig `json:"analytics"`
	Simulator SimulatorConfig `json:"simulator"`
}

type DBConfig struct {
	Driver string `json:"driver"` // sqlite | mysql | postgres
	DSN    string `json:"dsn"`    // file path for sqlite, DSN otherwise
}

type AnalyticsConfig struct {
	ForecastHorizonDays int `json:"forecast_horizon_days"` // 1..30
}

type SimulatorConfig struct {
	PriceElasticity float64 `json:"price_elasticity"` // own-price elasticity
	CrossElasticity float64 `json:"cross_elasticity"` // competitor price elasticity
	PromoLiftFactor float64 `json:"promo_lift_factor"`
	GlobalSampleCap int     `json:"global_sample_cap"` // max products per global scenario
}

// LoadOrCreate reads the config file, writing (and returning) defaults when it
// does not exist yet. The bool reports whether a fresh file was created.
func LoadOrCreate(path string) (*Config, bool, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Defaults()
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("write default config: %w", err)
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("parse config: %w", err)
	}
	applyFallbacks(&cfg)
	return &cfg, false, nil
}

func Defaults() *Config {
	return &Config{
		DB:       DBConfig{Driver: "sqlite", DSN: "retailmind.db"},
		DataPath: "data/retail_inventory.csv",
		Analytics: AnalyticsConfig{
			ForecastHorizonDays: 7,
		},
		Simulator: SimulatorConfig{
			PriceElasticity: 1.2,
			CrossElasticity: 0.7,
			PromoLiftFactor: 2,
			GlobalSampleCap: 50,
		},
	}
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// applyFallbacks fills zero values left by hand-edited config files.
func applyFallbacks(cfg *Config) {
	def := Defaults()
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = def.DB.Driver
	}
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = def.DB.DSN
	}
	if cfg.Analytics.ForecastHorizonDays <= 0 {
		cfg.Analytics.ForecastHorizonDays = def.Analytics.ForecastHorizonDays
	}
	if cfg.Simulator.PriceElasticity <= 0 {
		cfg.Simulator.PriceElasticity = def.Simulator.PriceElasticity
	}
	if cfg.Simulator.CrossElasticity <= 0 {
		cfg.Simulator.CrossElasticity = def.Simulator.CrossElasticity
	}
	if cfg.Simulator.PromoLiftFactor <= 0 {
		cfg.Simulator.PromoLiftFactor = def.Simulator.PromoLiftFactor
	}
	if cfg.Simulator.GlobalSampleCap <= 0 {
		cfg.Simulator.GlobalSampleCap = def.Simulator.GlobalSampleCap
	}
}
