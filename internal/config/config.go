package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	APIBaseURL         string
	APITimeout         time.Duration
	SessionSecret      []byte
	ConfirmSecret      []byte
	SessionTTL         time.Duration
	RedisAddress       string
	RedisPassword      string
	AuditDatabaseURL   string
	CalendarTermStart  time.Time
	CalendarLocation   *time.Location
	CalendarTermWeeks  int
	LoginRatePerMinute int
	CalendarOrigins    []string
	CookieSecure       bool
	TrustedProxies     []string
}

// Load reads the console configuration from the environment. A .env file in
// the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		panic("API_BASE_URL environment variable is required")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		panic("SESSION_SECRET environment variable is required")
	}

	confirmSecret := os.Getenv("CONFIRM_SECRET")
	if confirmSecret == "" {
		confirmSecret = sessionSecret
	}

	loc, err := time.LoadLocation(getEnv("CALENDAR_TIMEZONE", "America/Mexico_City"))
	if err != nil {
		panic("Invalid CALENDAR_TIMEZONE: " + err.Error())
	}

	termStart, err := time.ParseInLocation("2006-01-02", getEnv("CALENDAR_TERM_START", "2025-01-13"), loc)
	if err != nil {
		panic("Invalid CALENDAR_TERM_START: " + err.Error())
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		APIBaseURL:         apiURL,
		APITimeout:         getDuration("API_TIMEOUT", 10*time.Second),
		SessionSecret:      []byte(sessionSecret),
		ConfirmSecret:      []byte(confirmSecret),
		SessionTTL:         getDuration("SESSION_TTL", 8*time.Hour),
		RedisAddress:       getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		AuditDatabaseURL:   os.Getenv("AUDIT_DB_CONNECTION_STRING"),
		CalendarTermStart:  termStart,
		CalendarLocation:   loc,
		CalendarTermWeeks:  getInt("CALENDAR_TERM_WEEKS", 16),
		LoginRatePerMinute: getInt("LOGIN_RATE_PER_MINUTE", 10),
		CalendarOrigins:    strings.Split(getEnv("CALENDAR_ALLOWED_ORIGINS", "*"), ","),
		CookieSecure:       getEnv("COOKIE_SECURE", "false") == "true",
		TrustedProxies:     splitList(os.Getenv("TRUSTED_PROXIES")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic("Invalid " + key + ": " + err.Error())
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		panic("Invalid " + key + ": must be a positive integer")
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
