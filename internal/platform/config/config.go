package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and passed by value into constructors.
// Request-handling code never reads the environment.
type Config struct {
	ServiceName string
	Env         string
	APIPort     string

	JWTSecret     []byte
	TokenValidity time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitMax    int
	RateLimitWindow time.Duration
	RateLimitStore  string // "memory" or "redis"

	AuthStoreLookup   bool
	AuthLookupTimeout time.Duration

	SweepInterval time.Duration
	SweepLockKey  string
	SweepLockTTL  time.Duration

	AllowedOrigins []string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		ServiceName: getEnv("SERVICE_NAME", "auth"),
		Env:         getEnv("ENV", "dev"),
		APIPort:     getEnv("API_PORT", "8080"),

		JWTSecret:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		TokenValidity: getEnvAsDuration("TOKEN_VALIDITY", 30*24*time.Hour),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "arroyo_seco_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitStore:  getEnv("RATE_LIMIT_STORE", "memory"),

		AuthStoreLookup:   getEnvAsBool("AUTH_STORE_LOOKUP", true),
		AuthLookupTimeout: getEnvAsDuration("AUTH_LOOKUP_TIMEOUT", 3*time.Second),

		SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		SweepLockKey:  getEnv("SESSION_SWEEP_LOCK_KEY", "session_sweep_lock"),
		SweepLockTTL:  getEnvAsDuration("SESSION_SWEEP_LOCK_TTL", 5*time.Minute),

		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "*")),
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg
}

// IsDev gates diagnostics that must never reach production responses.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration for %s, using default %s", key, fallback)
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
