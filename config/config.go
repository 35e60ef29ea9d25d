package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	TableName        string

	Keyword       string
	PagesToScrape int

	MaxConcurrency int
	RateLimitMs    int

	ScrollStepPx    int
	ScrollPauseMs   int
	ScrollSettleMs  int
	ScrollMaxPasses int
	ListingWaitSec  int
	RatingWaitSec   int
	NavTimeoutSec   int

	RawCSVPath   string
	CleanCSVPath string
	RulesPath    string
	ChromeBin    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "etl"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "etl123"),
		PostgresDB:       getEnv("POSTGRES_DB", "products_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		TableName:        getEnv("TABLE_NAME", "products"),

		Keyword:       getEnv("SEARCH_KEYWORD", "laptop"),
		PagesToScrape: getEnvInt("PAGES_TO_SCRAPE", 2),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 1),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1000),

		ScrollStepPx:    getEnvInt("SCROLL_STEP_PX", 400),
		ScrollPauseMs:   getEnvInt("SCROLL_PAUSE_MS", 300),
		ScrollSettleMs:  getEnvInt("SCROLL_SETTLE_MS", 1000),
		ScrollMaxPasses: getEnvInt("SCROLL_MAX_PASSES", 20),
		ListingWaitSec:  getEnvInt("LISTING_WAIT_SEC", 10),
		RatingWaitSec:   getEnvInt("RATING_WAIT_SEC", 5),
		NavTimeoutSec:   getEnvInt("NAV_TIMEOUT_SEC", 60),

		RawCSVPath:   getEnv("RAW_CSV_PATH", "./output/raw/rawdata.csv"),
		CleanCSVPath: getEnv("CLEAN_CSV_PATH", "./output/clean/cleaned.csv"),
		RulesPath:    getEnv("EXTRACTION_RULES_PATH", ""),
		ChromeBin:    getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
