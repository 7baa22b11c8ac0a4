package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/photocast/internal/flagx"
	"github.com/dmitrijs2005/photocast/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "12s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	CastToken          string         `json:"cast_token"`
	CollectionKey      string         `json:"collection_key"`
	DeviceCanHEIC      *bool          `json:"device_can_heic"`
	MaxWidth           int            `json:"max_width"`
	MaxHeight          int            `json:"max_height"`
	SlideDuration      timex.Duration `json:"slide_duration"`
	FirstSlideDuration timex.Duration `json:"first_slide_duration"`
	PreviewAddr        string         `json:"preview_addr"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is resolved from the -c/-config flags. Absent file or flags means no JSON
// layer. Only set fields override.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.CastToken != "" {
		cfg.CastToken = jc.CastToken
	}
	if jc.CollectionKey != "" {
		cfg.CollectionKeyB64 = jc.CollectionKey
	}
	if jc.DeviceCanHEIC != nil {
		cfg.DeviceCanHEIC = *jc.DeviceCanHEIC
	}
	if jc.MaxWidth > 0 {
		cfg.MaxWidth = jc.MaxWidth
	}
	if jc.MaxHeight > 0 {
		cfg.MaxHeight = jc.MaxHeight
	}
	if jc.SlideDuration.Duration > 0 {
		cfg.SlideDuration = jc.SlideDuration.Duration
	}
	if jc.FirstSlideDuration.Duration > 0 {
		cfg.FirstSlideDuration = jc.FirstSlideDuration.Duration
	}
	if jc.PreviewAddr != "" {
		cfg.PreviewAddr = jc.PreviewAddr
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
