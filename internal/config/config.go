// Package config holds runtime settings for the slideshow binary.
//
// Sources are layered in increasing precedence: defaults, a .env file /
// environment variables, an optional JSON file, then command-line flags.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config holds runtime settings for the slideshow.
//
// CollectionKeyB64 may be left empty; the binary then prompts for it on the
// terminal, since the key is a secret better kept out of files.
type Config struct {
	APIBaseURL       string
	CastToken        string
	CollectionKeyB64 string

	// Device profile fed to the capability oracle. MaxWidth/MaxHeight of
	// zero mean the device has no known resolution ceiling.
	DeviceCanHEIC bool
	MaxWidth      int
	MaxHeight     int

	SlideDuration      time.Duration
	FirstSlideDuration time.Duration

	// PreviewAddr is the listen address of the local slide preview server.
	PreviewAddr string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.SlideDuration = 12 * time.Second
	c.FirstSlideDuration = 2500 * time.Millisecond
	c.PreviewAddr = ":8080"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIBaseURL, validation.Required, is.URL),
		validation.Field(&c.CastToken, validation.Required),
		validation.Field(&c.MaxWidth, validation.Min(0)),
		validation.Field(&c.MaxHeight, validation.Min(0)),
		validation.Field(&c.SlideDuration, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.FirstSlideDuration, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.PreviewAddr, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}
