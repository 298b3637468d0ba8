package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bartek5186/retailmind/internal/analytics"
	conf "github.com/bartek5186/retailmind/internal/config"
	"github.com/bartek5186/retailmind/internal/db"
	"github.com/bartek5186/retailmind/internal/ingest"
	"github.com/bartek5186/retailmind/internal/ledger"
	"github.com/bartek5186/retailmind/internal/logs"
	"github.com/bartek5186/retailmind/internal/simulator"
	"github.com/bartek5186/retailmind/internal/store"
)

var ver = "1.0.0"

func main() {
	appDir := mustAppDataDir("retailmind")
	log := logs.New(filepath.Join(appDir, "app.log"), true)

	cfgPath := filepath.Join(appDir, "config.json")
	cfg, firstRun, err := conf.LoadOrCreate(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if firstRun {
		log.Info().Msgf("created default configuration: %s", cfgPath)
	}

	dsn := cfg.DB.DSN
	if cfg.DB.Driver == "sqlite" && !filepath.IsAbs(dsn) {
		dsn = filepath.Join(appDir, dsn)
	}
	dbh, err := db.Open(cfg.DB.Driver, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("DB open error")
	}
	if err := dbh.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("DB migrate error")
	}
	log.Info().Str("driver", dbh.Driver).Str("dsn", dsn).Msg("DB ready")
	sqlDB, _ := dbh.DB.DB()
	defer sqlDB.Close()

	// Explicit wiring, constructed once: store → ledger → analyzer → simulator.
	st := store.New(dbh.DB, log)
	led := ledger.New(dbh.DB, log)
	analyzer := analytics.NewAnalyzer(st, log, cfg.Analytics.ForecastHorizonDays)
	led.SetInvalidator(analyzer)
	sim := simulator.NewService(analyzer, simulator.Config{
		PriceElasticity: cfg.Simulator.PriceElasticity,
		CrossElasticity: cfg.Simulator.CrossElasticity,
		PromoLiftFactor: cfg.Simulator.PromoLiftFactor,
		GlobalSampleCap: cfg.Simulator.GlobalSampleCap,
	}, log)

	// Seed an empty store from the configured data file, if present.
	if cfg.DataPath != "" {
		if ds, err := ingest.LoadCSV(cfg.DataPath, "", log); err == nil {
			if seeded, err := led.SeedInitial(ds); err != nil {
				log.Error().Err(err).Msg("initial seed failed")
			} else if seeded {
				log.Info().Str("path", cfg.DataPath).Msg("store seeded from data file")
			}
		}
	}

	fmt.Println("RetailMind CLI", ver)
	fmt.Println("Commands: analyze <product> | analyze-all | insights | sell <product> <qty> |")
	fmt.Println("          restock <product> <qty> | adjust <product> <qty> | import <file> |")
	fmt.Println("          simulate price <product> <new_price> | simulate promo <product> <discount%> <days> |")
	fmt.Println("          simulate stock <product> <days> | simulate competitor <product> <drop%> |")
	fmt.Println("          simulate marketing <product> <spend> <lift%> |")
	fmt.Println("          simulate global <price_change|promotion|marketing> <segment> <value...> | quit")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		args := strings.Fields(strings.TrimSpace(line))
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "analyze":
			if len(args) < 2 {
				fmt.Println("usage: analyze <product>")
				continue
			}
			res, err := analyzer.Analyze(strings.Join(args[1:], " "))
			printResult(res, err)

		case "analyze-all":
			res, err := analyzer.AnalyzeAll()
			printResult(res, err)

		case "insights":
			res, err := analyzer.InsightsSummary()
			printResult(res, err)

		case "sell", "restock", "adjust":
			if len(args) < 3 {
				fmt.Printf("usage: %s <product> <qty>\n", args[0])
				continue
			}
			qty, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				fmt.Println("quantity must be an integer")
				continue
			}
			product := strings.Join(args[1:len(args)-1], " ")
			txnType := map[string]string{
				"sell":    db.TxnSale,
				"restock": db.TxnRestock,
				"adjust":  db.TxnAdjustment,
			}[strings.ToLower(args[0])]
			res, err := led.RecordTransaction(product, qty, txnType, "")
			printResult(res, err)

		case "import":
			if len(args) < 2 {
				fmt.Println("usage: import <file.csv|file.xlsx>")
				continue
			}
			path := args[1]
			var ds *ingest.Dataset
			var derr error
			if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				ds, derr = ingest.LoadXLSX(path, log)
			} else {
				ds, derr = ingest.LoadCSV(path, "", log)
			}
			if derr != nil {
				fmt.Println("import error:", derr)
				continue
			}
			res, err := led.MergeBulkImport(ds)
			printResult(res, err)

		case "simulate":
			runSimulate(sim, args[1:])

		case "quit", "exit":
			return

		default:
			fmt.Println("Unknown command.")
		}
	}
}

func runSimulate(sim *simulator.Service, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: simulate <price|promo|stock|competitor|marketing|global> ...")
		return
	}
	switch strings.ToLower(args[0]) {
	case "price":
		if len(args) < 3 {
			fmt.Println("usage: simulate price <product> <new_price>")
			return
		}
		price, _ := strconv.ParseFloat(args[len(args)-1], 64)
		product := strings.Join(args[1:len(args)-1], " ")
		printResult(sim.SimulatePriceChange(simulator.PriceParams{Product: product, NewPrice: price}))

	case "promo":
		if len(args) < 4 {
			fmt.Println("usage: simulate promo <product> <discount%> <days>")
			return
		}
		days, _ := strconv.Atoi(args[len(args)-1])
		discount, _ := strconv.ParseFloat(args[len(args)-2], 64)
		product := strings.Join(args[1:len(args)-2], " ")
		printResult(sim.SimulatePromotion(simulator.PromotionParams{
			Product: product, DiscountPct: discount, DurationDays: days,
		}))

	case "stock":
		if len(args) < 3 {
			fmt.Println("usage: simulate stock <product> <days>")
			return
		}
		days, _ := strconv.ParseFloat(args[len(args)-1], 64)
		product := strings.Join(args[1:len(args)-1], " ")
		printResult(sim.SimulateInventoryChange(simulator.InventoryParams{
			Product: product, NewStockDays: &days,
		}))

	case "competitor":
		if len(args) < 3 {
			fmt.Println("usage: simulate competitor <product> <drop%>")
			return
		}
		drop, _ := strconv.ParseFloat(args[len(args)-1], 64)
		product := strings.Join(args[1:len(args)-1], " ")
		printResult(sim.SimulateCompetitorMove(simulator.CompetitorParams{Product: product, DropPct: drop}))

	case "marketing":
		if len(args) < 4 {
			fmt.Println("usage: simulate marketing <product> <spend> <lift%>")
			return
		}
		lift, _ := strconv.ParseFloat(args[len(args)-1], 64)
		spend, _ := strconv.ParseFloat(args[len(args)-2], 64)
		product := strings.Join(args[1:len(args)-2], " ")
		printResult(sim.SimulateMarketingCampaign(simulator.MarketingParams{
			Product: product, AdSpend: spend, LiftPct: lift,
		}))

	case "global":
		if len(args) < 3 {
			fmt.Println("usage: simulate global <scenario> <segment> <value> [value2]")
			return
		}
		params := simulator.GlobalParams{Scenario: strings.ToLower(args[1]), Segment: args[2]}
		switch params.Scenario {
		case simulator.ScenarioPriceChange:
			if len(args) > 3 {
				params.PctChange, _ = strconv.ParseFloat(args[3], 64)
			}
		case simulator.ScenarioPromotion:
			if len(args) > 3 {
				params.DiscountPct, _ = strconv.ParseFloat(args[3], 64)
			}
			if len(args) > 4 {
				params.DurationDays, _ = strconv.Atoi(args[4])
			}
		case simulator.ScenarioMarketing:
			if len(args) > 3 {
				params.AdSpend, _ = strconv.ParseFloat(args[3], 64)
			}
			if len(args) > 4 {
				params.LiftPct, _ = strconv.ParseFloat(args[4], 64)
			}
		}
		printResult(sim.SimulateGlobal(params))

	default:
		fmt.Println("unknown scenario:", args[0])
	}
}

func printResult(v any, err error) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	out, merr := json.MarshalIndent(v, "", "  ")
	if merr != nil {
		fmt.Println("error:", merr)
		return
	}
	fmt.Println(string(out))
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
