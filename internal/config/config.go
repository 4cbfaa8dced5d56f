package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultAdminToken = "dev-admin-token"

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                   string
	DataDir                string
	UploadsDir             string
	UploadsURLPrefix       string
	AdminToken             string
	SessionSecret          string
	SessionIssuer          string
	SessionTTLSeconds      int64
	CorsOrigins            []string
	ContentStore           string
	DatabaseURL            string
	PublishEnabled         bool
	PublishIntervalSeconds int
	Timezone               string
	RateLimitRequests      int
	RateLimitWindowSeconds int
	MaxUploadMB            int64
	SiteConfigPath         string
	LogDir                 string
	LogRetentionDays       int
}

func Load() Config {
	adminToken := envOr("ADMIN_TOKEN", envOr("NEXT_PUBLIC_ADMIN_TOKEN", DefaultAdminToken))
	return Config{
		Port:                   envOr("PORT", "8080"),
		DataDir:                envOr("DATA_DIR", "data"),
		UploadsDir:             envOr("UPLOADS_DIR", "public/uploads"),
		UploadsURLPrefix:       "/" + strings.Trim(envOr("UPLOADS_URL_PREFIX", "/uploads"), "/"),
		AdminToken:             adminToken,
		SessionSecret:          envOr("SESSION_SECRET", adminToken),
		SessionIssuer:          envOr("SESSION_ISSUER", "recruitsite"),
		SessionTTLSeconds:      int64(envOrInt("SESSION_TTL_SECONDS", 604800)),
		CorsOrigins:            parseCSV(envOr("CORS_ORIGINS", "")),
		ContentStore:           strings.ToLower(envOr("CONTENT_STORE", "file")),
		DatabaseURL:            envOr("DATABASE_URL", ""),
		PublishEnabled:         envOrBool("PUBLISH_ENABLED", true),
		PublishIntervalSeconds: envOrInt("PUBLISH_INTERVAL_SECONDS", 900),
		Timezone:               envOr("SITE_TIMEZONE", "UTC"),
		RateLimitRequests:      envOrInt("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindowSeconds: envOrInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		MaxUploadMB:            int64(envOrInt("MAX_UPLOAD_MB", 200)),
		SiteConfigPath:         envOr("SITE_CONFIG", "site.yaml"),
		LogDir:                 envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:       logRetention(envOrInt("LOG_RETENTION_DAYS", 7)),
	}
}

// logRetention keeps between one and seven days of daily log files.
func logRetention(days int) int {
	if days <= 0 || days > 7 {
		return 7
	}
	return days
}

// Location resolves SITE_TIMEZONE, falling back to UTC when it is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UsesDevToken reports whether the admin gate is running on the hardcoded fallback.
func (c Config) UsesDevToken() bool {
	return c.AdminToken == DefaultAdminToken
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
