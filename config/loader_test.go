package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/courtside/algorithms/stats"
	"github.com/RyanBlaney/courtside/algorithms/windowing"
	"github.com/RyanBlaney/courtside/config"
	"github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the detection defaults are in place", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Audio.WindowSeconds, convey.ShouldEqual, 0.5)
				convey.So(cfg.Audio.HopSeconds, convey.ShouldEqual, 0.1)
				convey.So(cfg.Audio.TopN, convey.ShouldEqual, 10)
				convey.So(cfg.Audio.MinSeparationSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.Audio.WhistleThreshold, convey.ShouldEqual, 0.4)
				convey.So(cfg.Plays.ClutchWindowMinutes, convey.ShouldEqual, 2)
				convey.So(cfg.Plays.RunThresholdPoints, convey.ShouldEqual, 8)
				convey.So(cfg.Clips.PreBufferSeconds, convey.ShouldEqual, 5)
				convey.So(cfg.Transcode.SampleRate, convey.ShouldEqual, 22050)
				convey.So(cfg.Scraper.Retries, convey.ShouldEqual, 3)
				convey.So(cfg.Catalog.Path, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfig(t, `
log_level: debug
audio:
  top_n: 5
  taper: hann
  percentile_method: midpoint
plays:
  run_threshold_points: 10
scraper:
  timeout: 3s
catalog:
  path: runs.db
`)
			cfg, err := config.Load(path)

			convey.Convey("Then file values override defaults and the rest stay", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Audio.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.Audio.WindowSeconds, convey.ShouldEqual, 0.5)
				convey.So(cfg.Plays.RunThresholdPoints, convey.ShouldEqual, 10)
				convey.So(cfg.Plays.ClutchMarginPoints, convey.ShouldEqual, 5)
				convey.So(cfg.Scraper.Timeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.Catalog.Path, convey.ShouldEqual, "runs.db")
			})

			convey.Convey("Then the converted detector configs carry them", func() {
				convey.So(cfg.Audio.Analyzer().Taper, convey.ShouldEqual, windowing.TypeHann)
				convey.So(cfg.Audio.Selector().PercentileMethod, convey.ShouldEqual, stats.Midpoint)
				convey.So(cfg.Audio.Selector().HopSeconds, convey.ShouldEqual, 0.1)
				convey.So(cfg.Plays.Classifier().RunThresholdPoints, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When environment variables are set alongside a file", func() {
			path := writeConfig(t, "audio:\n  top_n: 5\n  percentile: 90\n")
			t.Setenv("COURTSIDE_AUDIO__TOP_N", "3")
			t.Setenv("COURTSIDE_LOG_LEVEL", "warn")

			cfg, err := config.Load(path)

			convey.Convey("Then the environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Audio.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.Audio.Percentile, convey.ShouldEqual, 90)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a value is out of range", func() {
			path := writeConfig(t, "audio:\n  percentile: 120\n")
			_, err := config.Load(path)

			convey.Convey("Then the error is ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.So(cfg.Validate(), convey.ShouldBeNil)

		convey.Convey("An inverted whistle band is rejected", func() {
			cfg.Audio.WhistleLowHz, cfg.Audio.WhistleHighHz = 4000, 2000
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("An unknown taper is rejected", func() {
			cfg.Audio.Taper = "triangle"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("An unknown log level is rejected", func() {
			cfg.LogLevel = "chatty"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("A zero run threshold is rejected", func() {
			cfg.Plays.RunThresholdPoints = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Clips may have no output dir when disabled", func() {
			cfg.Clips.Enabled = false
			cfg.Clips.OutputDir = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
