package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	AppHost     string
	BaseURL     string
	Environment string // "development", "staging", "production"

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Security/JWT
	JWTSecret           string
	UserTokenTTL        time.Duration
	UserRefreshTokenTTL time.Duration

	// Realtime
	HeartbeatInterval time.Duration // advisory cadence for clients; the server does not enforce it
	IdleTimeout       time.Duration // 0 disables server-side presence eviction (the default)

	// HTTP
	CORSOrigins []string
}

func LoadConfig() Config {
	_ = godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "aivy")
	dbURL := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost,
		dbUser,
		dbPassword,
		dbName,
		dbPort,
	)

	userTTL := mustParseDuration(getEnv("USER_TOKEN_TTL", "12h"))
	userRefreshTTL := mustParseDuration(getEnv("USER_REFRESH_TOKEN_TTL", "168h")) // 7 days

	return Config{
		Port:        getEnv("PORT", "8080"),
		AppHost:     getEnv("APP_HOST", "localhost"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		Environment: getEnv("ENVIRONMENT", "production"),

		DatabaseURL: dbURL,
		DBHost:      dbHost,
		DBPort:      dbPort,
		DBUser:      dbUser,
		DBPassword:  dbPassword,
		DBName:      dbName,

		JWTSecret:           getEnv("JWT_SECRET", "secret"),
		UserTokenTTL:        userTTL,
		UserRefreshTokenTTL: userRefreshTTL,

		HeartbeatInterval: mustParseDuration(getEnv("WS_HEARTBEAT_INTERVAL", "30s")),
		IdleTimeout:       mustParseDuration(getEnv("WS_IDLE_TIMEOUT", "0s")),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustParseDuration(str string) time.Duration {
	d, err := time.ParseDuration(str)
	if err != nil {
		log.Printf("Invalid duration '%s', defaulting to 0", str)
		return 0
	}
	return d
}
