package config

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/courtside/algorithms/stats"
	"github.com/RyanBlaney/courtside/algorithms/windowing"
	"github.com/RyanBlaney/courtside/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. A double underscore separates the
// section from the key: COURTSIDE_AUDIO__TOP_N sets audio.top_n.
const EnvPrefix = "COURTSIDE_"

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. the YAML file at path, when path is not empty
//  3. COURTSIDE_ environment variables
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Debug("Configuration loaded", logging.Fields{
		"component": "config",
		"file":      path,
		"keys":      len(k.Keys()),
	})
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level: %v", err)
	}

	a := c.Audio
	switch {
	case a.WindowSeconds <= 0:
		return invalid("audio.window_seconds must be positive")
	case a.HopSeconds <= 0:
		return invalid("audio.hop_seconds must be positive")
	case a.WhistleLowHz < 0 || a.WhistleHighHz <= a.WhistleLowHz:
		return invalid("audio whistle band [%g, %g] is empty", a.WhistleLowHz, a.WhistleHighHz)
	case a.MinSeparationSeconds < 0:
		return invalid("audio.min_separation_seconds must not be negative")
	case a.Percentile < 0 || a.Percentile > 100:
		return invalid("audio.percentile %g outside [0, 100]", a.Percentile)
	case a.WhistleThreshold < 0 || a.WhistleThreshold > 1:
		return invalid("audio.whistle_threshold %g outside [0, 1]", a.WhistleThreshold)
	}
	if _, err := windowing.New(windowType(a.Taper), 1); err != nil {
		return invalid("audio.taper: %v", err)
	}
	if _, err := stats.ParsePercentileMethod(strings.ToLower(a.PercentileMethod)); err != nil {
		return invalid("audio.percentile_method: %v", err)
	}

	p := c.Plays
	if p.ClutchWindowMinutes < 0 || p.ClutchMarginPoints < 0 || p.RunThresholdPoints <= 0 {
		return invalid("plays thresholds must not be negative and run_threshold_points must be positive")
	}
	if p.FinalQuarter == "" {
		return invalid("plays.final_quarter must not be empty")
	}

	if c.Clips.PreBufferSeconds < 0 || c.Clips.PostBufferSeconds < 0 {
		return invalid("clip buffers must not be negative")
	}
	if c.Clips.Enabled && c.Clips.OutputDir == "" {
		return invalid("clips.output_dir must not be empty")
	}

	if c.Transcode.SampleRate <= 0 {
		return invalid("transcode.sample_rate must be positive")
	}
	if c.Scraper.BaseURL == "" {
		return invalid("scraper.base_url must not be empty")
	}
	if c.Scraper.Retries < 1 {
		return invalid("scraper.retries must be at least 1")
	}
	return nil
}

func windowType(name string) windowing.Type {
	return windowing.Type(strings.ToLower(name))
}

// percentileMethod falls back to linear; Validate rejects unknown names.
func percentileMethod(name string) stats.PercentileMethod {
	m, _ := stats.ParsePercentileMethod(strings.ToLower(name))
	return m
}
