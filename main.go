package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"time"

	"autochek-scraper/config"
	"autochek-scraper/models"
	"autochek-scraper/scraper/autochek"
	"autochek-scraper/services"
	"autochek-scraper/storage"
	"autochek-scraper/utils"
)

func main() {
	makeFlag := flag.String("make", "", "vehicle make (e.g. Toyota)")
	modelFlag := flag.String("model", "", "vehicle model (e.g. Corolla)")
	yearFlag := flag.Int("year", 0, "vehicle year (e.g. 2015)")
	outFlag := flag.String("out", "", "JSON output path (overrides config)")
	csvFlag := flag.String("csv", "", "CSV output path (overrides config)")
	pagesFlag := flag.Int("pages", 0, "maximum result pages to traverse")
	rateFlag := flag.Duration("rate-limit", 0, "minimum delay between page loads")
	noHeadless := flag.Bool("no-headless", false, "run the browser with a visible window")
	flag.Parse()

	cfg := config.Load()
	if *outFlag != "" {
		cfg.JSONPath = *outFlag
	}
	if *csvFlag != "" {
		cfg.CSVPath = *csvFlag
	}
	if *pagesFlag > 0 {
		cfg.MaxPages = *pagesFlag
	}
	if *rateFlag > 0 {
		cfg.RateLimit = *rateFlag
	}
	if *noHeadless {
		cfg.Headless = false
	}
	if cfg.Debug {
		utils.EnableDebug()
	}

	criteria := models.SearchCriteria{
		Make:  *makeFlag,
		Model: *modelFlag,
		Year:  *yearFlag,
	}

	// An interrupt cancels the run; the browser session is still closed
	// before the process unwinds.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	utils.Info("Scraper starting | %s %s %d | pages=%d rate=%v",
		criteria.Make, criteria.Model, criteria.Year, cfg.MaxPages, cfg.RateLimit)
	start := time.Now()

	scr := autochek.New(cfg)
	listings := scr.Search(ctx, criteria)
	cleaned := services.CleanListings(listings)
	utils.Info("Collected %d listings (%d after cleaning) in %v",
		len(listings), len(cleaned), time.Since(start).Round(time.Second))

	if err := storage.NewJSONWriter(cfg.JSONPath).Write(cleaned); err != nil {
		utils.Error("Failed to save JSON: %v", err)
		os.Exit(1)
	}

	if err := storage.NewCSVWriter(cfg.CSVPath).Write(cleaned); err != nil {
		if errors.Is(err, storage.ErrNoListings) {
			utils.Warn("No listings scraped, CSV not written")
		} else {
			utils.Error("Failed to save CSV: %v", err)
			os.Exit(1)
		}
	}

	if cfg.DBEnabled && len(cleaned) > 0 {
		writeDatabase(cfg, cleaned)
	}

	services.PrintReport(services.GenerateReport(cleaned))
}

// writeDatabase is best-effort: the file outputs already exist, so a
// database problem downgrades to a warning.
func writeDatabase(cfg config.Config, listings []models.VehicleListing) {
	writer, err := storage.NewPostgresWriter(cfg)
	if err != nil {
		utils.Warn("Skipping PostgreSQL: %v", err)
		return
	}
	defer writer.Close()

	if err := writer.EnsureSchema(); err != nil {
		utils.Warn("Skipping PostgreSQL: %v", err)
		return
	}
	if err := writer.WriteBatch(listings); err != nil {
		utils.Warn("PostgreSQL write failed: %v", err)
		return
	}
	utils.Success("Saved %d listings to PostgreSQL", len(listings))
}
