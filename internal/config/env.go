package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from a .env file (if one exists in
// the working directory) and the process environment. Process environment
// wins over .env, which godotenv guarantees by never overriding set vars.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("CAST_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CAST_TOKEN"); v != "" {
		cfg.CastToken = v
	}
	if v := os.Getenv("CAST_COLLECTION_KEY"); v != "" {
		cfg.CollectionKeyB64 = v
	}
	if v := os.Getenv("CAST_DEVICE_HEIC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DeviceCanHEIC = b
		}
	}
	if v := os.Getenv("CAST_MAX_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWidth = n
		}
	}
	if v := os.Getenv("CAST_MAX_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxHeight = n
		}
	}
	if v := os.Getenv("CAST_SLIDE_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SlideDuration = d
		}
	}
	if v := os.Getenv("CAST_FIRST_SLIDE_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FirstSlideDuration = d
		}
	}
	if v := os.Getenv("CAST_PREVIEW_ADDR"); v != "" {
		cfg.PreviewAddr = v
	}
	if v := os.Getenv("CAST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
