package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/logging"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	MaxDuration      time.Duration `json:"max_duration"`
	FFmpegPath       string        `json:"ffmpeg_path"`
	FFprobePath      string        `json:"ffprobe_path"`
	Timeout          time.Duration `json:"timeout"` // per ffmpeg/ffprobe invocation
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 22050,
		MaxDuration:      0, // No limit
		FFmpegPath:       "ffmpeg",
		FFprobePath:      "ffprobe",
		Timeout:          30 * time.Minute,
	}
}

// Decoder turns broadcast media into mono analysis buffers using FFmpeg.
type Decoder struct {
	config *DecoderConfig
}

// MediaInfo holds the stream properties reported by ffprobe.
type MediaInfo struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"` // seconds
	Bitrate    int     `json:"bitrate"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
}

// HasVideo reports whether ffprobe found a video stream.
func (m *MediaInfo) HasVideo() bool {
	return m.Height > 0
}

func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// Probe reads stream properties of a local media file.
func (d *Decoder) Probe(ctx context.Context, filename string) (*MediaInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		filename,
	}

	output, err := d.run(ctx, d.config.FFprobePath, args)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeOutput(output)
}

// DecodeFile decodes the first audio stream of a file to mono samples at the
// configured sample rate.
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (highlights.SampleBuffer, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	logger.Debug("Starting audio file decode")

	info, err := d.Probe(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe media file")
		return highlights.SampleBuffer{}, err
	}
	if info.SampleRate == 0 {
		return highlights.SampleBuffer{}, fmt.Errorf("%w: no audio stream in %s", ErrUnsupportedFormat, filename)
	}

	logger.Debug("Media metadata detected", logging.Fields{
		"input_sample_rate": info.SampleRate,
		"input_channels":    info.Channels,
		"input_codec":       info.Codec,
		"input_duration":    info.Duration,
		"video_height":      info.Height,
	})

	args := append([]string{"-i", filename}, d.buildFFmpegArgs()...)
	args = append(args, "pipe:1")

	logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	output, err := d.run(ctx, d.config.FFmpegPath, args)
	if err != nil {
		logger.Error(err, "Ffmpeg decode failed")
		return highlights.SampleBuffer{}, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return highlights.SampleBuffer{}, fmt.Errorf("no audio samples decoded from %s", filename)
	}

	buf := highlights.SampleBuffer{
		Samples:    samples,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
	}

	logger.Debug("FFmpeg decode completed successfully", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": buf.SampleRate,
		"output_duration":    buf.Duration(),
	})
	return buf, nil
}

// buildFFmpegArgs drops video and emits raw mono float64 little-endian.
func (d *Decoder) buildFFmpegArgs() []string {
	args := []string{
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	return append(args, "-v", "error")
}

// run executes a tool with the configured timeout and returns its stdout.
func (d *Decoder) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}
	return runTool(ctx, bin, args)
}

func runTool(ctx context.Context, bin string, args []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("%s: %w, stderr: %s", bin, err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", bin, err)
	}
	return output, nil
}

func parseProbeOutput(jsonData []byte) (*MediaInfo, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
			BitRate    string `json:"bit_rate"`
			Width      int    `json:"width"`
			Height     int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("%w: no streams found", ErrUnsupportedFormat)
	}

	info := &MediaInfo{}
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "audio":
			if info.SampleRate != 0 {
				continue
			}
			info.SampleRate, _ = strconv.Atoi(stream.SampleRate)
			info.Channels = stream.Channels
			info.Codec = stream.CodecName
			info.Bitrate, _ = strconv.Atoi(stream.BitRate)
			info.Duration, _ = strconv.ParseFloat(stream.Duration, 64)
		case "video":
			if info.Height == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
		}
	}

	// Containers often carry the duration only at format level.
	if info.Duration == 0 {
		info.Duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	}

	return info, nil
}

// bytesToFloat64 converts raw float64 bytes to []float64
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		// Trim to multiple of 8 bytes
		data = data[:len(data)-(len(data)%8)]
	}

	if len(data) == 0 {
		return nil
	}

	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}

// Resolution classes reported for source video.
const (
	ResolutionFullHD = "full_hd"
	ResolutionHD     = "hd"
	ResolutionSD     = "sd"
	ResolutionLow    = "low"
)

// ResolutionClass buckets a video height.
func ResolutionClass(height int) string {
	switch {
	case height >= 1080:
		return ResolutionFullHD
	case height >= 720:
		return ResolutionHD
	case height >= 480:
		return ResolutionSD
	default:
		return ResolutionLow
	}
}

// CheckQuality logs a warning when the source video is below HD.
func CheckQuality(info *MediaInfo) string {
	class := ResolutionClass(info.Height)
	if info.HasVideo() && class != ResolutionFullHD && class != ResolutionHD {
		logging.Warn("Source video is below HD, clips will look soft", logging.Fields{
			"component": "audio_decoder",
			"width":     info.Width,
			"height":    info.Height,
			"class":     class,
		})
	}
	return class
}
