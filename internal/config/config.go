// internal/config/config.go
//
// Runtime configuration, read from the environment after an optional .env
// file has been loaded with godotenv. Every value has a development default
// so the server runs with no configuration at all.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every tunable of the server.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // json | console

	DBPath string
	Store  string // sqlite | memory

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	DailySalt   string
	MaxAttempts int
	WinScore    float64
	SessionTTL  time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		Port:      getEnv("PORT", "5175"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		DBPath: getEnv("DB_PATH", "./data/app.db"),
		Store:  strings.ToLower(getEnv("STORE", "sqlite")),

		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "colortrainer_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",

		DailySalt:   getEnv("DAILY_SALT", "local_dev_salt"),
		MaxAttempts: envInt("MAX_ATTEMPTS", 6),
		WinScore:    envFloat("WIN_SCORE", 98),
		SessionTTL:  envDuration("SESSION_TTL", 24*time.Hour),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		return def
	}
	return f
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a duration, using default")
		return def
	}
	return d
}
