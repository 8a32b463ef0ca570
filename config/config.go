package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	GinMode     string
	DBUrl       string
	FrontendURL string
	// Comma separated in CORS_ALLOWED_ORIGINS
	CORSAllowedOrigins []string
	// JWT
	JWTSecret    string
	JWTAccessTTL time.Duration
	// Redis
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	// Uploads
	UploadDir        string
	UploadMaxBytes   int64
	StorageDriver    string // "local" or "s3"
	S3Region         string
	S3Bucket         string
	S3AccessKeyID    string
	S3SecretKey      string
	S3Endpoint       string // optional, S3-compatible providers
	S3PublicBaseURL  string
	PublicAssetsPath string
	// Matching
	SuggestionCacheTTL time.Duration
	// Logging
	LogLevel string
	LogFile  string
}

func LoadConfig() (*Config, error) {
	// Local .env only; missing file is fine in production
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:               v.GetString("PORT"),
		GinMode:            v.GetString("GIN_MODE"),
		DBUrl:              v.GetString("DATABASE_URL"),
		FrontendURL:        strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTAccessTTL: time.Duration(v.GetInt("JWT_ACCESS_TTL_HOURS")) * time.Hour,

		RedisURL:      v.GetString("REDIS_URL"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		RateLimitWindowSeconds:   v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		RateLimitLoginThreshold:  v.GetInt("RATE_LIMIT_LOGIN_THRESHOLD"),
		RateLimitGlobalThreshold: v.GetInt("RATE_LIMIT_GLOBAL_THRESHOLD"),
		FailedLoginBlockMinutes:  v.GetInt("FAILED_LOGIN_BLOCK_MINUTES"),
		FailedLoginMaxAttempts:   v.GetInt("FAILED_LOGIN_MAX_ATTEMPTS"),

		UploadDir:        v.GetString("UPLOAD_DIR"),
		UploadMaxBytes:   v.GetInt64("UPLOAD_MAX_BYTES"),
		StorageDriver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
		S3Region:         v.GetString("S3_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3AccessKeyID:    v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretKey:      v.GetString("S3_SECRET_ACCESS_KEY"),
		S3Endpoint:       strings.TrimRight(v.GetString("S3_ENDPOINT"), "/"),
		S3PublicBaseURL:  strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),
		PublicAssetsPath: v.GetString("PUBLIC_ASSETS_PATH"),

		SuggestionCacheTTL: time.Duration(v.GetInt("SUGGESTION_CACHE_TTL_SECONDS")) * time.Second,

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GinMode == "release" && len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWTSecret))
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://lion-connect-frontend.onrender.com")
	v.SetDefault("JWT_ACCESS_TTL_HOURS", 24)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_LOGIN_THRESHOLD", 10)
	v.SetDefault("RATE_LIMIT_GLOBAL_THRESHOLD", 100)
	v.SetDefault("FAILED_LOGIN_BLOCK_MINUTES", 15)
	v.SetDefault("FAILED_LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 16<<20)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("PUBLIC_ASSETS_PATH", "/uploads")
	v.SetDefault("SUGGESTION_CACHE_TTL_SECONDS", 30)
	v.SetDefault("LOG_LEVEL", "info")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
