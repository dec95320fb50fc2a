package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Supabase/hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	// PublicBaseURL is the externally reachable URL for this backend; the
	// OAuth redirect_uri sent to the platform is derived from it.
	// Example: https://your-ngrok-subdomain.ngrok-free.app
	PublicBaseURL string

	// RedisURL is parsed with redis.ParseURL. Holds one-time OAuth state
	// nonces and the shop-list cache.
	RedisURL string

	DB DBConfig

	TikTok TikTokConfig

	// TokenCryptoKey is a base64-encoded 32-byte key. Shop tokens are
	// AES-GCM encrypted with it before they touch the database.
	TokenCryptoKey string

	// ServiceAPIKey gates the non-public endpoints (refresh, listing,
	// products). Empty disables the check; never leave it empty in production.
	ServiceAPIKey string

	// AllowedOrigins is a comma-separated allowlist of origins allowed to call
	// the JSON endpoints from a browser. Example:
	//   https://dashboard.yourapp.com,http://localhost:5173
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type TikTokConfig struct {
	AppKey    string
	AppSecret string

	// APIBaseURL is the signed open-API host. AuthBaseURL hosts the seller
	// consent screen; token endpoints live under APIBaseURL.
	APIBaseURL  string
	AuthBaseURL string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		PublicBaseURL:  env("PUBLIC_BASE_URL", "http://localhost:8080"),
		RedisURL:       env("REDIS_URL", "redis://localhost:6379/0"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "shopauth"),
			User:     env("DB_USER", "shopauth"),
			Password: env("DB_PASSWORD", "shopauth"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		TikTok: TikTokConfig{
			AppKey:      os.Getenv("TIKTOK_APP_KEY"),
			AppSecret:   os.Getenv("TIKTOK_APP_SECRET"),
			APIBaseURL:  env("TIKTOK_API_BASE_URL", "https://open-api.tiktokglobalshop.com"),
			AuthBaseURL: env("TIKTOK_AUTH_BASE_URL", "https://auth.tiktok-shops.com"),
		},
		TokenCryptoKey: os.Getenv("TOKEN_CRYPTO_KEY"),
		ServiceAPIKey:  os.Getenv("SERVICE_API_KEY"),

		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			s := v[start:i]
			start = i + 1
			// trim spaces
			for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
				s = s[1:]
			}
			for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
				s = s[:len(s)-1]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
