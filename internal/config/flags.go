package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/photocast/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the cast API
//	-t string   cast access token
//	-d int      slide duration in seconds
//	-p string   preview server listen address
//	-l string   log level (debug|info|warn|error)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the cast API")
	fs.StringVar(&cfg.CastToken, "t", cfg.CastToken, "cast access token")
	slideSeconds := fs.Int("d", int(cfg.SlideDuration.Seconds()), "slide duration (in seconds)")
	fs.StringVar(&cfg.PreviewAddr, "p", cfg.PreviewAddr, "preview server listen address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SlideDuration = time.Duration(*slideSeconds) * time.Second
}
