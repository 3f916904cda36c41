package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/courtside/algorithms/stats"
	"github.com/RyanBlaney/courtside/config"
	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/logging"
	"github.com/RyanBlaney/courtside/plays"
	"github.com/RyanBlaney/courtside/report"
	"github.com/RyanBlaney/courtside/scraper"
	"github.com/RyanBlaney/courtside/transcode"
)

type audioOptions struct {
	url      string
	file     string
	features string
	noClips  bool
}

type audioResult struct {
	source    string
	selection highlights.Selection
	clips     []string
	compiled  string
}

// runAudio takes a broadcast from download (or a local file) through
// analysis, selection and optional clip cutting.
func runAudio(ctx context.Context, cfg *config.Config, opts audioOptions) (audioResult, error) {
	logger := logging.WithFields(logging.Fields{"component": "audio_pipeline"})

	source := opts.file
	if opts.url != "" {
		source = filepath.Join(cfg.Clips.OutputDir, fmt.Sprintf("source_%s.mp4", time.Now().Format("20060102_150405")))
		dl := transcode.NewDownloader(cfg.Transcode.YtDlpPath, cfg.Transcode.Timeout)
		if err := dl.Download(ctx, opts.url, source); err != nil {
			return audioResult{}, err
		}
	}
	if source == "" {
		return audioResult{}, errors.New("either --url or --file is required")
	}

	buf, info, err := loadAudio(ctx, cfg, source)
	if err != nil {
		return audioResult{}, err
	}

	start := time.Now()
	frames, err := highlights.Analyze(buf, cfg.Audio.Analyzer())
	if err != nil {
		return audioResult{}, fmt.Errorf("analyze %s: %w", source, err)
	}
	if opts.features != "" {
		if err := writeFeatures(opts.features, frames); err != nil {
			return audioResult{}, err
		}
	}

	logLoudness(frames)

	sel := highlights.SelectDetailed(frames, cfg.Audio.Selector())
	logger.Info("Audio analysed", logging.Fields{
		"frames":     len(frames),
		"candidates": len(sel.Candidates),
		"whistles":   len(sel.Whistles),
		"highlights": len(sel.Highlights),
		"elapsed":    time.Since(start).String(),
	})

	res := audioResult{source: source, selection: sel}
	if opts.noClips || !cfg.Clips.Enabled || info == nil || !info.HasVideo() || len(sel.Highlights) == 0 {
		return res, nil
	}

	cutter := transcode.NewClipCutter(cfg.Transcode.FFmpegPath, cfg.Clips.PreBufferSeconds, cfg.Clips.PostBufferSeconds)
	cutter.Timeout = cfg.Transcode.Timeout
	res.clips, err = cutter.Cut(ctx, source, info.Duration, sel.Highlights, cfg.Clips.OutputDir)
	if err != nil {
		return res, err
	}
	if cfg.Clips.Compile {
		res.compiled, err = cutter.Compile(ctx, res.clips, cfg.Clips.OutputDir)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// loadAudio reads WAV files directly and sends everything else through
// ffmpeg. The MediaInfo is nil for WAV input.
func loadAudio(ctx context.Context, cfg *config.Config, path string) (highlights.SampleBuffer, *transcode.MediaInfo, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		f, err := os.Open(path)
		if err != nil {
			return highlights.SampleBuffer{}, nil, err
		}
		defer f.Close()
		buf, err := transcode.ReadWAV(f)
		return buf, nil, err
	}

	dec := transcode.NewDecoder(&transcode.DecoderConfig{
		TargetSampleRate: cfg.Transcode.SampleRate,
		FFmpegPath:       cfg.Transcode.FFmpegPath,
		FFprobePath:      cfg.Transcode.FFprobePath,
		Timeout:          cfg.Transcode.Timeout,
	})
	info, err := dec.Probe(ctx, path)
	if err != nil {
		return highlights.SampleBuffer{}, nil, err
	}
	transcode.CheckQuality(info)

	buf, err := dec.DecodeFile(ctx, path)
	if err != nil {
		return highlights.SampleBuffer{}, nil, err
	}
	return buf, info, nil
}

func logLoudness(frames []highlights.EnergyFrame) {
	levels := make([]float64, len(frames))
	for i, f := range frames {
		levels[i] = f.RMSDB
	}
	summary, err := stats.NewPercentiles().Summarize(levels)
	if err != nil {
		return
	}
	logging.Debug("Loudness summary", logging.Fields{
		"component": "audio_pipeline",
		"frames":    summary.Count,
		"mean_db":   summary.Mean,
		"median_db": summary.Median,
		"max_db":    summary.Max,
		"stddev_db": summary.StdDev,
	})
}

func writeFeatures(path string, frames []highlights.EnergyFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create feature track: %w", err)
	}
	if err := report.WriteFeatureTrack(f, frames); err != nil {
		_ = f.Close()
		return fmt.Errorf("write feature track: %w", err)
	}
	return f.Close()
}

type playsOptions struct {
	gameID string
	file   string
}

// loadEvents scrapes a game or reads a feed exported by `scrape`.
func loadEvents(ctx context.Context, cfg *config.Config, opts playsOptions) ([]plays.Event, error) {
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return report.ReadEvents(f)
	}
	if opts.gameID == "" {
		return nil, errors.New("either --game-id or --file is required")
	}

	client, err := scraper.New(scraper.Config{
		BaseURL:    cfg.Scraper.BaseURL,
		UserAgent:  cfg.Scraper.UserAgent,
		Retries:    cfg.Scraper.Retries,
		HTTPClient: &http.Client{Timeout: cfg.Scraper.Timeout},
	})
	if err != nil {
		return nil, err
	}
	return client.Scrape(ctx, opts.gameID)
}

func runPlays(ctx context.Context, cfg *config.Config, opts playsOptions) ([]plays.Highlight, error) {
	events, err := loadEvents(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return plays.Classify(events, cfg.Plays.Classifier()), nil
}
