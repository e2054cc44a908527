package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the full runtime configuration of one scraper run.
// It is built once in Load and passed by value into each component;
// nothing reads ambient state after startup.
type Config struct {
	BaseURL        string
	CandidatePaths []string

	MaxPages       int
	MaxRetries     int
	RetryBaseDelay time.Duration
	RateLimit      time.Duration
	NavTimeout     time.Duration
	StableTimeout  time.Duration
	Headless       bool
	Debug          bool

	// Market defaults used by the field parsers.
	DefaultCurrency string
	KnownCities     []string

	JSONPath string
	CSVPath  string

	DBEnabled  bool
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// nigerianCities are the location names the parser recognizes for the
// NG market. Anything else falls back to the raw card text.
var nigerianCities = []string{
	"Lagos", "Abuja", "Kano", "Ibadan", "Port Harcourt", "Benin", "Jos",
	"Ilorin", "Kaduna", "Oyo", "Enugu", "Abeokuta", "Zaria", "Aba",
	"Maiduguri", "Warri", "Ebute Ikorodu", "Sokoto", "Onitsha", "Calabar",
	"Uyo", "Katsina", "Ado Ekiti", "Gombe", "Minna", "Ikeja",
	"Victoria Island", "Lekki", "Yaba", "Surulere",
}

// Load builds the run configuration from defaults, an optional .env file
// and environment overrides.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		BaseURL: getEnv("SCRAPER_BASE_URL", "https://autochek.africa"),
		CandidatePaths: []string{
			"/ng/cars-for-sale",
			"/cars-for-sale",
			"/",
		},

		MaxPages:       getEnvInt("SCRAPER_MAX_PAGES", 6),
		MaxRetries:     getEnvInt("SCRAPER_MAX_RETRIES", 3),
		RetryBaseDelay: 1 * time.Second,
		RateLimit:      getEnvDuration("SCRAPER_RATE_LIMIT", 1*time.Second),
		NavTimeout:     30 * time.Second,
		StableTimeout:  10 * time.Second,
		Headless:       getEnvBool("SCRAPER_HEADLESS", true),
		Debug:          getEnvBool("SCRAPER_DEBUG", false),

		DefaultCurrency: getEnv("SCRAPER_CURRENCY", "NGN"),
		KnownCities:     nigerianCities,

		JSONPath: getEnv("SCRAPER_JSON_PATH", "output/vehicles.json"),
		CSVPath:  getEnv("SCRAPER_CSV_PATH", "output/vehicles.csv"),

		DBEnabled:  getEnvBool("DB_ENABLED", false),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "autochek_scraper"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
