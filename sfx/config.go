package sfx

import (
	"os"
	"strconv"
	"time"
)

// Config controls burst sound playback.
type Config struct {
	Enabled    bool
	SampleRate int
	// Volume is the master volume in [0, 1].
	Volume float64
	// Stereo scales how far bursts are panned toward their screen side.
	Stereo float64
	// MaxVoices caps overlapping pops; bursts beyond it are dropped.
	MaxVoices int
	// Length is the duration of one pop.
	Length time.Duration
}

// DefaultConfig returns the defaults used when no environment overrides
// are set.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		SampleRate: 44100,
		Volume:     0.6,
		Stereo:     0.8,
		MaxVoices:  6,
		Length:     260 * time.Millisecond,
	}
}

// LoadConfig reads overrides from the environment:
//
//	TINSEL_SFX_ENABLED   bool
//	TINSEL_SFX_VOLUME    0-100
//	TINSEL_SAMPLE_RATE   Hz
//
// Malformed values are ignored.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("TINSEL_SFX_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}
	if v := os.Getenv("TINSEL_SFX_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Volume = min(1, max(0, float64(n)/100))
		}
	}
	if v := os.Getenv("TINSEL_SAMPLE_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SampleRate = n
		}
	}
	return cfg
}
