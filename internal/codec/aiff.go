package codec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-audio/aiff"
)

func decodeAIFF(ctx context.Context, data []byte, lim frameLimit) (Audio, error) {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return Audio{}, fmt.Errorf("%w: invalid aiff header", ErrUnsupportedFormat)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return Audio{}, fmt.Errorf("%w: unsupported aiff layout", ErrUnsupportedFormat)
	}
	if err := lim.check(int64(dec.NumSampleFrames)); err != nil {
		return Audio{}, err
	}

	channels := max(format.NumChannels, 1)
	pcm, err := readIntFrames(ctx, dec.PCMBuffer, format, channels, lim)
	if err != nil {
		return Audio{}, fmt.Errorf("codec: decode aiff: %w", err)
	}

	return Audio{
		Samples:    mixdown(pcm, channels, intFullScale(int(dec.BitDepth))),
		SampleRate: format.SampleRate,
		Channels:   channels,
	}, nil
}
