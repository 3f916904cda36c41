package transcode

import (
	"fmt"
	"io"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// ReadWAV decodes an integer PCM WAV stream. Only 16 and 32 bit mono or
// stereo files are accepted; stereo is averaged to mono and samples are
// scaled by the largest positive integer of the bit depth.
func ReadWAV(r io.ReadSeeker) (highlights.SampleBuffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return highlights.SampleBuffer{}, fmt.Errorf("%w: not a valid wav file", ErrUnsupportedFormat)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return highlights.SampleBuffer{}, fmt.Errorf("%w: wav audio format %d", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	var scale float64
	switch decoder.BitDepth {
	case 16:
		scale = 32767
	case 32:
		scale = 2147483647
	default:
		return highlights.SampleBuffer{}, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, decoder.BitDepth)
	}

	channels := int(decoder.NumChans)
	if channels != 1 && channels != 2 {
		return highlights.SampleBuffer{}, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return highlights.SampleBuffer{}, fmt.Errorf("read wav samples: %w", err)
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = max(sum/float64(channels)/scale, -1)
	}

	return highlights.SampleBuffer{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
		Channels:   1,
	}, nil
}
