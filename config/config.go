package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// Components receive it explicitly; nothing reads the environment after Load.
type Config struct {
	DeepLynxURL string
	ContainerID string
	APIKey      string
	APISecret   string

	ShapeFilter       int
	CompFilter        string
	IncludeExampleKey bool
	ExampleLotKey     string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RateLimitMs    int
	MaxRetries     int
	HTTPTimeoutSec int

	CSVOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DeepLynxURL: getEnv("DEEP_LYNX_URL", "http://localhost:8090"),
		ContainerID: getEnv("DEEP_LYNX_CONTAINER_ID", ""),
		APIKey:      getEnv("DEEP_LYNX_API_KEY", ""),
		APISecret:   getEnv("DEEP_LYNX_API_SECRET", ""),

		ShapeFilter:       getEnvInt("SHAPE_FILTER", 6),
		CompFilter:        getEnv("COMP_FILTER", "N"),
		IncludeExampleKey: getEnvBool("INCLUDE_EXAMPLE_KEY", true),
		ExampleLotKey:     getEnv("EXAMPLE_LOT_KEY", "01-52"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "deeplynx"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "deeplynx123"),
		PostgresDB:       getEnv("POSTGRES_DB", "lot_stats"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 30),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/lot_details.csv"),
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
