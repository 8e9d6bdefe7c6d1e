package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	MediaRoot          string
	MediaBaseURL       string
	SiteBaseURL        string
	ProfilesPath       string
	RedisURL           string
	CacheKeyPrefix     string
	GeoIPDBPath        string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	WorkerPollInterval time.Duration
	DisableAVIF        bool
	WatchDebounce      time.Duration
	CORSAllowedOrigins []string
	PagesUpstreamURL   string
	WorkerMetricsAddr  string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	siteBase := strings.TrimRight(getEnv("SITE_BASE_URL", "http://localhost:"+port), "/")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MediaRoot:          getEnv("MEDIA_ROOT", "./media"),
		MediaBaseURL:       strings.TrimRight(getEnv("MEDIA_BASE_URL", siteBase+"/media"), "/"),
		SiteBaseURL:        siteBase,
		ProfilesPath:       os.Getenv("MEDIA_PROFILES_PATH"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CacheKeyPrefix:     getEnv("CACHE_KEY_PREFIX", "storefront:"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		WorkerPollInterval: time.Second * time.Duration(getEnvInt("VARIANT_WORKER_POLL_SECONDS", 2)),
		DisableAVIF:        getEnvBool("MEDIA_DISABLE_AVIF", false),
		WatchDebounce:      time.Millisecond * time.Duration(getEnvInt("MEDIA_WATCH_DEBOUNCE_MS", 750)),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		PagesUpstreamURL:   strings.TrimSpace(os.Getenv("PAGES_UPSTREAM_URL")),
		WorkerMetricsAddr:  strings.TrimSpace(os.Getenv("WORKER_METRICS_ADDR")),
	}

	if strings.TrimSpace(cfg.MediaRoot) == "" {
		return nil, fmt.Errorf("MEDIA_ROOT is required")
	}
	if cfg.WorkerPollInterval <= 0 {
		cfg.WorkerPollInterval = 2 * time.Second
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 750 * time.Millisecond
	}

	return cfg, nil
}

// HasDatabase reports whether the DB-backed components can be enabled.
func (c *Config) HasDatabase() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
