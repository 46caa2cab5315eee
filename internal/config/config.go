// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maeumjangbu/ledger/internal/ocr"
)

type Config struct {
	ListenAddr string
	DBPath     string

	JWT struct {
		Secret string
		TTL    time.Duration
	}

	Gemini struct {
		APIKey  string
		Model   string
		BaseURL string
	}

	OCRRate struct {
		PerSecond float64
		Burst     int
	}

	CORSOrigins       []string
	PrometheusEnabled bool
	TrustedProxies    []string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", ":8080")
	cfg.DBPath = getenvDefault("DB_PATH", "./data/ledger.db")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	ttl, err := getenvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWT.TTL = ttl

	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Gemini.Model = getenvDefault("GEMINI_MODEL", ocr.DefaultModel)
	cfg.Gemini.BaseURL = getenvDefault("GEMINI_BASE_URL", ocr.DefaultBaseURL)

	perSecond, err := getenvFloat("OCR_RATE_PER_SECOND", 1)
	if err != nil {
		return nil, err
	}
	burst, err := getenvInt("OCR_RATE_BURST", 3)
	if err != nil {
		return nil, err
	}
	cfg.OCRRate.PerSecond = perSecond
	cfg.OCRRate.Burst = burst

	cfg.CORSOrigins = getenvList("CORS_ORIGIN")
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
	}
	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", false)
	cfg.TrustedProxies = getenvList("APP_TRUSTED_PROXIES")

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long (got %d)", len(cfg.JWT.Secret))
	}
	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive (got %s)", cfg.JWT.TTL)
	}
	if cfg.OCRRate.PerSecond <= 0 || cfg.OCRRate.Burst <= 0 {
		return nil, errors.New("OCR_RATE_PER_SECOND and OCR_RATE_BURST must be positive")
	}

	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, photo extraction will recognize nothing")
	}
	if len(cfg.TrustedProxies) == 0 {
		slog.Warn("No APP_TRUSTED_PROXIES configured, forwarded client IPs are trusted from any peer")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getenvList(key string) []string {
	if v := os.Getenv(key); v != "" {
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return nil
}
