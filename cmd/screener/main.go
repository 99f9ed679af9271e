package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"earnings-screener/internal/caselog"
	"earnings-screener/internal/interfaces"
	"earnings-screener/internal/logger"
	"earnings-screener/internal/marketdata"
	"earnings-screener/internal/screener"
	"earnings-screener/internal/store"
	"earnings-screener/internal/tickers"
	"earnings-screener/internal/types"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	must(logger.Init())

	configPath := flag.String("config", "config.yaml", "path to config file")
	tickerList := flag.String("tickers", "", "comma-separated tickers (overrides config)")
	days := flag.Int("days", 0, "earnings window in days (overrides config)")
	useMock := flag.Bool("mock", false, "use deterministic mock market data")
	noCache := flag.Bool("no-cache", false, "bypass the quote cache")
	jsonPath := flag.String("json", "", "also write the run as JSON to this file")
	save := flag.String("save", "", "append this symbol from the results to the case log")
	flag.Parse()

	cfg, err := store.LoadConfig(*configPath)
	must(err)
	if *tickerList != "" {
		cfg.Tickers = *tickerList
	}
	if *days != 0 {
		cfg.WindowDays = *days
	}
	if *useMock {
		cfg.DataSource = "MOCK"
	}

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	cases := caselog.New(cfg.CaseLog.Dir)
	if cfg.CaseLog.RetentionDays > 0 {
		_ = cases.CompressOlder(cfg.CaseLog.RetentionDays)
	}

	gateway := buildGateway(cfg, *noCache)
	if cached, ok := gateway.(*marketdata.CachedGateway); ok {
		_ = cached.CleanupExpired()
	}
	scr := screener.New(gateway, screener.WithProgress(printProgress))

	fmt.Printf("Screening %s for earnings within %d days...\n", cfg.DataSource, cfg.WindowDays)
	run, failures, err := scr.Run(ctx, cfg.Tickers, cfg.WindowDays)
	must(err)
	fmt.Println()

	printRun(run, failures)

	if err := cases.AppendRun(run, failures); err != nil {
		logger.Warn(ctx, "failed to record run report", "error", err)
	}
	if *jsonPath != "" {
		must(writeJSON(*jsonPath, run))
		fmt.Printf("Run written to %s\n", *jsonPath)
	}
	if *save != "" {
		must(saveCase(cases, run, *save))
	}
}

func buildGateway(cfg *store.Config, noCache bool) interfaces.MarketDataGateway {
	var gateway interfaces.MarketDataGateway
	if cfg.DataSource == "MOCK" {
		gateway = marketdata.NewMockGateway()
	} else {
		opts := []marketdata.YahooOption{
			marketdata.WithTimeout(time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second),
			marketdata.WithRequestsPerSec(cfg.Gateway.RequestsPerSec),
			marketdata.WithHistoryDays(cfg.Gateway.HistoryDays),
		}
		if cfg.Gateway.CalendarFallback {
			scraper := marketdata.NewCalendarScraper(time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second)
			opts = append(opts, marketdata.WithCalendarFallback(scraper))
		}
		gateway = marketdata.NewYahooGateway(opts...)
	}

	if !noCache && cfg.Cache.Enabled {
		gateway = marketdata.NewCachedGateway(gateway, cfg.Cache.Dir,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}
	return gateway
}

func printProgress(done, total int) {
	fmt.Printf("\r  %d/%d symbols", done, total)
}

func printRun(run types.ScreeningRun, failures []types.SymbolFailure) {
	if len(run.Results) == 0 {
		fmt.Println("No symbols in the list report within the window.")
	} else {
		fmt.Printf("Found %d candidates (as of %s):\n\n", len(run.Results), run.AsOf.Format("2006-01-02"))
		fmt.Printf("%-12s %-12s %10s %10s %8s %6s %s\n",
			"SYMBOL", "EARNINGS", "PRICE", "MA200", "DIST%", "PROFIT", "SIGNAL")
		for _, r := range run.Results {
			profit := "no"
			if r.Profitable {
				profit = "yes"
			}
			fmt.Printf("%-12s %-12s %10.2f %10.2f %8.1f %6s %s\n",
				r.Symbol, r.EarningsDate.Format("2006-01-02"),
				r.CurrentPrice, r.MA200, r.TrendDistancePct, profit, r.Signal)
		}

		fmt.Println()
		for _, r := range run.Results {
			if r.Signal == types.SignalBuy {
				fmt.Printf("  %s insider activity: %s\n", r.Symbol, tickers.InsiderLookupURL(r.Symbol))
			}
		}
	}

	if len(failures) > 0 {
		fmt.Printf("\n%d symbols failed:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  %s: %s\n", f.Symbol, f.Reason)
		}
	}
}

func writeJSON(path string, run types.ScreeningRun) error {
	b, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func saveCase(cases *caselog.Log, run types.ScreeningRun, symbol string) error {
	for _, r := range run.Results {
		if r.Symbol == symbol {
			if err := cases.Append(r.Symbol, r.CurrentPrice, string(r.Signal)); err != nil {
				return fmt.Errorf("save case %s: %w", symbol, err)
			}
			fmt.Printf("Saved %s @ %.2f to the case log\n", r.Symbol, r.CurrentPrice)
			return nil
		}
	}
	return fmt.Errorf("symbol %s is not in this run's results", symbol)
}
