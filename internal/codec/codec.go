// Package codec decodes uploaded audio files into mono float64 samples and
// encodes rendered buffers as 16-bit PCM WAV.
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
)

var (
	// ErrUnsupportedFormat is returned for containers the codec cannot read.
	ErrUnsupportedFormat = errors.New("codec: unsupported audio format")
	// ErrEmptyAudio is returned when a file decodes to zero samples.
	ErrEmptyAudio = errors.New("codec: audio contains no samples")
	// ErrTooLong is returned when a file holds more frames than allowed.
	ErrTooLong = errors.New("codec: audio exceeds the frame limit")
)

// pcmChunkFrames is the number of frames pulled per read while decoding.
const pcmChunkFrames = 4096

// Format names an audio container.
type Format string

const (
	FormatUnknown Format = ""
	FormatWAV     Format = "wav"
	FormatAIFF    Format = "aiff"
	FormatMP3     Format = "mp3"
	FormatOgg     Format = "ogg"
)

// Audio is a decoded file mixed down to one channel.
type Audio struct {
	Samples    []float64
	SampleRate int
	Channels   int // channel count of the source before mixdown
	Format     Format
}

// Duration returns the length in seconds.
func (a Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// FormatFromName guesses the container from a file extension.
func FormatFromName(name string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "wav", "wave":
		return FormatWAV
	case "aif", "aiff", "aifc":
		return FormatAIFF
	case "mp3":
		return FormatMP3
	case "ogg", "oga":
		return FormatOgg
	default:
		return FormatUnknown
	}
}

// Detect identifies the container from its leading bytes.
func Detect(header []byte) Format {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return FormatWAV
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return FormatAIFF
	case len(header) >= 4 && bytes.Equal(header[:4], []byte("OggS")):
		return FormatOgg
	case len(header) >= 3 && bytes.Equal(header[:3], []byte("ID3")):
		return FormatMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// Decode reads all of r and decodes it. The container is detected from the
// content; hint is used only when detection fails. Decoding stops with
// ErrTooLong as soon as more than maxFrames frames are found (maxFrames <= 0
// disables the bound), and with ctx's error once ctx is done.
func Decode(ctx context.Context, r io.Reader, hint Format, maxFrames int) (Audio, error) {
	data, err := io.ReadAll(contextReader{ctx: ctx, r: r})
	if err != nil {
		return Audio{}, fmt.Errorf("codec: read input: %w", err)
	}
	if len(data) == 0 {
		return Audio{}, ErrEmptyAudio
	}

	format := Detect(data)
	if format == FormatUnknown {
		format = hint
	}

	lim := frameLimit(maxFrames)
	var a Audio
	switch format {
	case FormatWAV:
		a, err = decodeWAV(ctx, data, lim)
	case FormatAIFF:
		a, err = decodeAIFF(ctx, data, lim)
	case FormatMP3:
		a, err = decodeMP3(ctx, data, lim)
	case FormatOgg:
		a, err = decodeOgg(ctx, data, lim)
	default:
		return Audio{}, ErrUnsupportedFormat
	}
	if err != nil {
		return Audio{}, err
	}

	a.Format = format
	if len(a.Samples) == 0 {
		return Audio{}, ErrEmptyAudio
	}
	return a, nil
}

// frameLimit bounds the number of frames a decoder may produce. Zero means
// unbounded.
type frameLimit int

// check fails with ErrTooLong when frames exceeds the limit.
func (l frameLimit) check(frames int64) error {
	if l > 0 && frames > int64(l) {
		return fmt.Errorf("%w: %d frames, limit %d", ErrTooLong, frames, int(l))
	}
	return nil
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// readIntFrames pulls interleaved integer PCM through read until it reports
// no more data, enforcing lim and ctx between chunks.
func readIntFrames(ctx context.Context, read func(*audio.IntBuffer) (int, error), format *audio.Format, channels int, lim frameLimit) ([]int, error) {
	buf := &audio.IntBuffer{Data: make([]int, pcmChunkFrames*channels), Format: format}
	var pcm []int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := read(buf)
		pcm = append(pcm, buf.Data[:n]...)
		if lerr := lim.check(int64(len(pcm) / channels)); lerr != nil {
			return nil, lerr
		}
		if err == io.EOF || (err == nil && n == 0) {
			return pcm, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// mixdown averages interleaved frames of channels values into one channel,
// scaling each value by 1/fullScale.
func mixdown[T int | float32](data []T, channels int, fullScale float64) []float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(data) / channels
	out := make([]float64, frames)
	gain := 1 / (fullScale * float64(channels))
	for i := range out {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		out[i] = sum * gain
	}
	return out
}

// intFullScale returns the magnitude of the most negative value at
// bitDepth. Unknown depths are treated as 16-bit.
func intFullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1))
	default:
		return 32768
	}
}
