// Package config holds the courtside runtime configuration.
//
// Every section has a DefaultX constructor; Load layers a YAML file and
// COURTSIDE_ environment variables on top of the defaults.
package config

import (
	"time"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/plays"
)

type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" json:"log_level"`

	Audio     AudioConfig     `koanf:"audio" json:"audio"`
	Plays     PlaysConfig     `koanf:"plays" json:"plays"`
	Clips     ClipsConfig     `koanf:"clips" json:"clips"`
	Transcode TranscodeConfig `koanf:"transcode" json:"transcode"`
	Scraper   ScraperConfig   `koanf:"scraper" json:"scraper"`
	Catalog   CatalogConfig   `koanf:"catalog" json:"catalog"`
}

// AudioConfig configures loudness analysis and peak selection.
type AudioConfig struct {
	WindowSeconds float64 `koanf:"window_seconds" json:"window_seconds"`
	HopSeconds    float64 `koanf:"hop_seconds" json:"hop_seconds"`
	WhistleLowHz  float64 `koanf:"whistle_low_hz" json:"whistle_low_hz"`
	WhistleHighHz float64 `koanf:"whistle_high_hz" json:"whistle_high_hz"`
	Taper         string  `koanf:"taper" json:"taper"` // "hamming", "hann", "rectangular"

	TopN                 int     `koanf:"top_n" json:"top_n"`
	MinSeparationSeconds float64 `koanf:"min_separation_seconds" json:"min_separation_seconds"`
	WhistleThreshold     float64 `koanf:"whistle_threshold" json:"whistle_threshold"`
	Percentile           float64 `koanf:"percentile" json:"percentile"`
	PercentileMethod     string  `koanf:"percentile_method" json:"percentile_method"`
}

type PlaysConfig struct {
	ClutchWindowMinutes int    `koanf:"clutch_window_minutes" json:"clutch_window_minutes"`
	ClutchMarginPoints  int    `koanf:"clutch_margin_points" json:"clutch_margin_points"`
	RunThresholdPoints  int    `koanf:"run_threshold_points" json:"run_threshold_points"`
	FinalQuarter        string `koanf:"final_quarter" json:"final_quarter"`
}

// ClipsConfig controls cutting clips around selected peaks.
type ClipsConfig struct {
	Enabled           bool    `koanf:"enabled" json:"enabled"`
	PreBufferSeconds  float64 `koanf:"pre_buffer_seconds" json:"pre_buffer_seconds"`
	PostBufferSeconds float64 `koanf:"post_buffer_seconds" json:"post_buffer_seconds"`
	OutputDir         string  `koanf:"output_dir" json:"output_dir"`
	Compile           bool    `koanf:"compile" json:"compile"`
}

type TranscodeConfig struct {
	FFmpegPath  string        `koanf:"ffmpeg_path" json:"ffmpeg_path"`
	FFprobePath string        `koanf:"ffprobe_path" json:"ffprobe_path"`
	YtDlpPath   string        `koanf:"ytdlp_path" json:"ytdlp_path"`
	SampleRate  int           `koanf:"sample_rate" json:"sample_rate"`
	Timeout     time.Duration `koanf:"timeout" json:"timeout"`
}

type ScraperConfig struct {
	BaseURL   string        `koanf:"base_url" json:"base_url"`
	Retries   int           `koanf:"retries" json:"retries"`
	Timeout   time.Duration `koanf:"timeout" json:"timeout"`
	UserAgent string        `koanf:"user_agent" json:"user_agent"`
}

// CatalogConfig points at the run history database. An empty path disables it.
type CatalogConfig struct {
	Path string `koanf:"path" json:"path"`
}

func DefaultAudioConfig() AudioConfig {
	a := highlights.DefaultAnalyzerConfig()
	s := highlights.DefaultSelectorConfig()
	return AudioConfig{
		WindowSeconds:        a.WindowSeconds,
		HopSeconds:           a.HopSeconds,
		WhistleLowHz:         a.WhistleLowHz,
		WhistleHighHz:        a.WhistleHighHz,
		Taper:                string(a.Taper),
		TopN:                 s.TopN,
		MinSeparationSeconds: s.MinSeparationSeconds,
		WhistleThreshold:     s.WhistleThreshold,
		Percentile:           s.Percentile,
		PercentileMethod:     s.PercentileMethod.String(),
	}
}

func DefaultPlaysConfig() PlaysConfig {
	c := plays.DefaultClassifierConfig()
	return PlaysConfig{
		ClutchWindowMinutes: c.ClutchWindowMinutes,
		ClutchMarginPoints:  c.ClutchMarginPoints,
		RunThresholdPoints:  c.RunThresholdPoints,
		FinalQuarter:        c.FinalQuarter,
	}
}

func DefaultClipsConfig() ClipsConfig {
	return ClipsConfig{
		Enabled:           true,
		PreBufferSeconds:  5,
		PostBufferSeconds: 5,
		OutputDir:         "highlights",
	}
}

func DefaultTranscodeConfig() TranscodeConfig {
	return TranscodeConfig{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		YtDlpPath:   "yt-dlp",
		SampleRate:  22050,
		Timeout:     30 * time.Minute,
	}
}

func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		BaseURL:   "https://comps.basketball.bg",
		Retries:   3,
		Timeout:   10 * time.Second,
		UserAgent: "courtside/1.0",
	}
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		Audio:     DefaultAudioConfig(),
		Plays:     DefaultPlaysConfig(),
		Clips:     DefaultClipsConfig(),
		Transcode: DefaultTranscodeConfig(),
		Scraper:   DefaultScraperConfig(),
	}
}

// Analyzer converts the audio section for highlights.Analyze.
func (c AudioConfig) Analyzer() highlights.AnalyzerConfig {
	return highlights.AnalyzerConfig{
		WindowSeconds: c.WindowSeconds,
		HopSeconds:    c.HopSeconds,
		WhistleLowHz:  c.WhistleLowHz,
		WhistleHighHz: c.WhistleHighHz,
		Taper:         windowType(c.Taper),
	}
}

// Selector converts the audio section for highlights.Select.
func (c AudioConfig) Selector() highlights.SelectorConfig {
	return highlights.SelectorConfig{
		TopN:                 c.TopN,
		MinSeparationSeconds: c.MinSeparationSeconds,
		WhistleThreshold:     c.WhistleThreshold,
		Percentile:           c.Percentile,
		PercentileMethod:     percentileMethod(c.PercentileMethod),
		HopSeconds:           c.HopSeconds,
	}
}

func (c PlaysConfig) Classifier() plays.ClassifierConfig {
	return plays.ClassifierConfig{
		ClutchWindowMinutes: c.ClutchWindowMinutes,
		ClutchMarginPoints:  c.ClutchMarginPoints,
		RunThresholdPoints:  c.RunThresholdPoints,
		FinalQuarter:        c.FinalQuarter,
	}
}
