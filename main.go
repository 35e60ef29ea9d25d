package main

import (
	"os"
	"time"

	"daraz-scraper/browser"
	"daraz-scraper/config"
	"daraz-scraper/models"
	"daraz-scraper/scraper/daraz"
	"daraz-scraper/services"
	"daraz-scraper/storage"
	"daraz-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Daraz ETL pipeline starting ===")
	logger.Info("Config — keyword: %q | pages: %d | concurrency: %d | rate: %dms | table: %s",
		cfg.Keyword, cfg.PagesToScrape, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.TableName)

	rules, err := services.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Error("Failed to load extraction rules: %v", err)
		os.Exit(1)
	}

	rawCount := extract(cfg, logger)
	if rawCount == 0 {
		logger.Error("No items were scraped. Exiting.")
		os.Exit(1)
	}
	logger.Info("Extract done — %d raw records staged at %s", rawCount, cfg.RawCSVPath)

	cleanCount := transformStage(cfg, logger, rules)
	logger.Info("Transform done — %d clean records staged at %s", cleanCount, cfg.CleanCSVPath)

	loaded, records := load(cfg, logger)
	logger.Info("Load done — %d rows in table %q", loaded, cfg.TableName)

	reporter := services.NewReportService(logger)
	reporter.Print(reporter.Generate(records))
}

// extract scrapes the site and stages the raw batch; returns the record count.
func extract(cfg *config.Config, logger *utils.Logger) int {
	driver, err := browser.NewChrome(browser.Options{
		BinPath:    cfg.ChromeBin,
		NavTimeout: time.Duration(cfg.NavTimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Error("Failed to start browser: %v", err)
		os.Exit(1)
	}
	defer driver.Close()

	scraper := daraz.New(cfg, logger, driver)
	items := scraper.Scrape(cfg.Keyword, cfg.PagesToScrape)
	if len(items) == 0 {
		return 0
	}

	if err := storage.WriteRawCSV(cfg.RawCSVPath, items); err != nil {
		logger.Error("Failed to stage raw CSV: %v", err)
		os.Exit(1)
	}
	return len(items)
}

// transformStage reads the staged raw batch, normalizes it, and stages the
// clean batch; returns the record count.
func transformStage(cfg *config.Config, logger *utils.Logger, rules services.Rules) int {
	raw, err := storage.ReadRawCSV(cfg.RawCSVPath)
	if err != nil {
		logger.Error("Failed to read raw CSV: %v", err)
		os.Exit(1)
	}

	extractor := services.NewExtractor(rules, logger)
	records := extractor.Normalize(raw)

	if err := storage.WriteCleanCSV(cfg.CleanCSVPath, records); err != nil {
		logger.Error("Failed to stage clean CSV: %v", err)
		os.Exit(1)
	}
	return len(records)
}

// load reads the staged clean batch, commits it to PostgreSQL in one
// transaction, and runs the count validation query.
func load(cfg *config.Config, logger *utils.Logger) (int, []*models.NormalizedRecord) {
	records, err := storage.ReadCleanCSV(cfg.CleanCSVPath)
	if err != nil {
		logger.Error("Failed to read clean CSV: %v", err)
		os.Exit(1)
	}

	var loader storage.RecordLoader
	loader, err = storage.NewPostgresWriter(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure the database is running: docker compose up -d")
		os.Exit(1)
	}
	defer loader.Close()

	loaded, err := loader.Load(records, cfg.TableName)
	if err != nil {
		logger.Error("PostgreSQL load failed, nothing persisted: %v", err)
		os.Exit(1)
	}

	total, unique, err := loader.ValidationCounts(cfg.TableName)
	if err != nil {
		logger.Error("Validation query failed: %v", err)
	} else {
		logger.Info("Validation — total_records: %d | unique_records: %d", total, unique)
	}

	return loaded, records
}
