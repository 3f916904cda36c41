package transcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/logging"
)

// ClipWindow returns the start and length of a clip around peak, clamped to
// [0, duration]. A non-positive duration disables the upper clamp.
func ClipWindow(peak, pre, post, duration float64) (start, length float64) {
	start = max(peak-pre, 0)
	end := peak + post
	if duration > 0 {
		end = min(end, duration)
	}
	return start, max(end-start, 0)
}

// ClipCutter cuts stream-copied clips out of a source video.
type ClipCutter struct {
	FFmpegPath        string
	PreBufferSeconds  float64
	PostBufferSeconds float64
	Timeout           time.Duration

	now func() time.Time
}

func NewClipCutter(ffmpegPath string, pre, post float64) *ClipCutter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &ClipCutter{
		FFmpegPath:        ffmpegPath,
		PreBufferSeconds:  pre,
		PostBufferSeconds: post,
		now:               time.Now,
	}
}

// clipName numbers clips from one in selection order.
func clipName(n int, stamp time.Time) string {
	return fmt.Sprintf("highlight_%d_%s.mp4", n, stamp.Format("20060102_150405"))
}

func (c *ClipCutter) stamp() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func cutArgs(video, out string, start, length float64) []string {
	return []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", length),
		"-i", video,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-v", "error",
		out,
	}
}

func (c *ClipCutter) run(ctx context.Context, args []string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	_, err := runTool(ctx, c.FFmpegPath, args)
	return err
}

// Cut writes one clip per highlight into dir and returns the clip paths in
// the same order. duration is the source length in seconds.
func (c *ClipCutter) Cut(ctx context.Context, video string, duration float64, hl []highlights.SelectedHighlight, dir string) ([]string, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "clip_cutter",
		"function":  "Cut",
		"video":     video,
	})

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip dir: %w", err)
	}

	stamp := c.stamp()
	clips := make([]string, 0, len(hl))
	for i, h := range hl {
		start, length := ClipWindow(h.Time, c.PreBufferSeconds, c.PostBufferSeconds, duration)
		if length <= 0 {
			logger.Warn("Skipping empty clip window", logging.Fields{"peak": h.Time})
			continue
		}

		out := filepath.Join(dir, clipName(i+1, stamp))
		if err := c.run(ctx, cutArgs(video, out, start, length)); err != nil {
			return clips, fmt.Errorf("cut clip %d at %.1fs: %w", i+1, h.Time, err)
		}

		logger.Debug("Clip written", logging.Fields{
			"clip":   out,
			"start":  start,
			"length": length,
		})
		clips = append(clips, out)
	}

	logger.Info("Clips cut", logging.Fields{"count": len(clips), "dir": dir})
	return clips, nil
}

// concatList renders an ffmpeg concat demuxer script.
func concatList(clips []string) string {
	var b strings.Builder
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			abs = clip
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return b.String()
}

// Compile joins clips into dir/highlights_compilation_<stamp>.mp4 and returns
// its path.
func (c *ClipCutter) Compile(ctx context.Context, clips []string, dir string) (string, error) {
	if len(clips) == 0 {
		return "", nil
	}

	list := filepath.Join(dir, "clips.txt")
	if err := os.WriteFile(list, []byte(concatList(clips)), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(list)

	out := filepath.Join(dir, fmt.Sprintf("highlights_compilation_%s.mp4", c.stamp().Format("20060102_150405")))
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", list, "-c", "copy", "-v", "error", out}
	if err := c.run(ctx, args); err != nil {
		return "", fmt.Errorf("compile highlights: %w", err)
	}

	logging.Info("Highlight compilation written", logging.Fields{
		"component": "clip_cutter",
		"output":    out,
		"clips":     len(clips),
	})
	return out, nil
}
