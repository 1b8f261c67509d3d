package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

func decodeOgg(ctx context.Context, data []byte, lim frameLimit) (Audio, error) {
	r, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return Audio{}, fmt.Errorf("codec: decode ogg vorbis: %w", err)
	}
	channels := max(r.Channels(), 1)

	// Length is known because the source can seek.
	if err := lim.check(r.Length()); err != nil {
		return Audio{}, err
	}

	buf := make([]float32, pcmChunkFrames*channels)
	var pcm []float32
	for {
		if err := ctx.Err(); err != nil {
			return Audio{}, fmt.Errorf("codec: decode ogg vorbis: %w", err)
		}
		n, err := r.Read(buf)
		pcm = append(pcm, buf[:n]...)
		if lerr := lim.check(int64(len(pcm) / channels)); lerr != nil {
			return Audio{}, lerr
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Audio{}, fmt.Errorf("codec: decode ogg vorbis: %w", err)
		}
		if n == 0 {
			return Audio{}, fmt.Errorf("codec: decode ogg vorbis: %w", io.ErrNoProgress)
		}
	}

	return Audio{
		Samples:    mixdown(pcm, channels, 1),
		SampleRate: r.SampleRate(),
		Channels:   channels,
	}, nil
}
