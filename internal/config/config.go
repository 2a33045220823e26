package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Storefront backend
	StorefrontAPIURL     string
	StorefrontAPITimeout time.Duration

	// Redis
	RedisURL string

	// Drafts
	DraftTTL       time.Duration
	SubmitLockTTL  time.Duration
	EventsCacheTTL time.Duration

	// Uploads
	MaxUploadBytes      int64
	PreviewMaxDimension int

	// Events
	NATSURL string

	// JWT
	JWTSecret string

	// CORS
	AllowedOrigins []string
}

func Load() *Config {
	timeoutSeconds := getEnvInt("STOREFRONT_API_TIMEOUT", 30)
	draftTTLMinutes := getEnvInt("DRAFT_TTL_MINUTES", 60)
	lockSeconds := getEnvInt("SUBMIT_LOCK_SECONDS", 120)
	eventsCacheSeconds := getEnvInt("EVENTS_CACHE_SECONDS", 300)
	maxUploadMB := getEnvInt("MAX_UPLOAD_MB", 20)

	return &Config{
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		StorefrontAPIURL:     strings.TrimSuffix(getEnv("STOREFRONT_API_URL", "http://localhost:5000/api"), "/"),
		StorefrontAPITimeout: time.Duration(timeoutSeconds) * time.Second,

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		DraftTTL:       time.Duration(draftTTLMinutes) * time.Minute,
		SubmitLockTTL:  time.Duration(lockSeconds) * time.Second,
		EventsCacheTTL: time.Duration(eventsCacheSeconds) * time.Second,

		MaxUploadBytes:      int64(maxUploadMB) << 20,
		PreviewMaxDimension: getEnvInt("PREVIEW_MAX_DIMENSION", 320),

		NATSURL: os.Getenv("NATS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
