package transcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/courtside/logging"
)

// Downloader fetches broadcast video with yt-dlp.
type Downloader struct {
	YtDlpPath string
	Timeout   time.Duration
}

func NewDownloader(ytDlpPath string, timeout time.Duration) *Downloader {
	if ytDlpPath == "" {
		ytDlpPath = "yt-dlp"
	}
	return &Downloader{YtDlpPath: ytDlpPath, Timeout: timeout}
}

func (d *Downloader) args(url, dest string) []string {
	return []string{
		"--output", dest,
		"--format", "best[ext=mp4]",
		"--no-playlist",
		"--quiet",
		url,
	}
}

// Download saves url to dest, creating the parent directory.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "downloader",
		"url":       url,
		"dest":      dest,
	})

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	start := time.Now()
	logger.Info("Downloading video")
	if _, err := runTool(ctx, d.YtDlpPath, d.args(url, dest)); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	if _, err := os.Stat(dest); err != nil {
		return fmt.Errorf("download %s: output missing: %w", url, err)
	}

	logger.Info("Video downloaded", logging.Fields{"elapsed": time.Since(start).String()})
	return nil
}
