package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=eventspark port=5432 sslmode=disable TimeZone=UTC"

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const (
	TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
	DATE_PARSE_FORMAT = "2006-01-02"
	CSV_TIME_FORMAT   = "2006-01-02 15:04:05Z"

	MAX_PAGE_SIZE = 100

	DEFAULT_ADMIN_EMAIL    = "admin@eventspark.local"
	DEFAULT_ADMIN_PASSWORD = "Admin123!"
)

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func GetJWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func GetJWTTTL() time.Duration {
	hours, err := strconv.Atoi(GetEnv("JWT_TTL_HOURS", "24"))
	if err != nil || hours < 1 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func GetInventoryRefreshInterval() time.Duration {
	d, err := time.ParseDuration(GetEnv("INVENTORY_REFRESH_INTERVAL", "1m"))
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

func GetPort() string {
	return fmt.Sprintf(":%s", GetEnv("PORT", "9090"))
}

func GetBootstrapAdmin() (email string, password string) {
	return GetEnv("BOOTSTRAP_ADMIN_EMAIL", DEFAULT_ADMIN_EMAIL), GetEnv("BOOTSTRAP_ADMIN_PASSWORD", DEFAULT_ADMIN_PASSWORD)
}
