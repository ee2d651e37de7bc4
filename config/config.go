package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SearchQuery string
	PagesDir    string
	LogLevel    string

	MaxItems     int
	ItemsPerPage int // stopping heuristic: estimated cards per listing page
	Enrich       bool

	MaxConcurrency int
	MaxRetries     int

	JSONOutputPath string
	CSVOutputPath  string

	// DBDriver selects the storage backend: "sqlite" or "postgres".
	DBDriver   string
	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SearchQuery: getEnv("SEARCH_QUERY", "laptop"),
		PagesDir:    getEnv("PAGES_DIR", "./pages"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		MaxItems:     getEnvInt("MAX_ITEMS", 100),
		ItemsPerPage: getEnvInt("ITEMS_PER_PAGE", 60),
		Enrich:       getEnvBool("ENRICH_DATA", true),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		JSONOutputPath: getEnv("JSON_OUTPUT_PATH", "./output/ebay_results.json"),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/raw_products.csv"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "./ebay_products.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "ebay_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
