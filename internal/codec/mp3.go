package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

const (
	// go-mp3 always emits 16-bit little-endian stereo.
	mp3Channels   = 2
	mp3FrameBytes = 2 * mp3Channels
)

func decodeMP3(ctx context.Context, data []byte, lim frameLimit) (Audio, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Audio{}, fmt.Errorf("codec: open mp3: %w", err)
	}

	var src io.Reader = dec
	if lim > 0 {
		if n := dec.Length(); n >= 0 {
			if err := lim.check(n / mp3FrameBytes); err != nil {
				return Audio{}, err
			}
		}
		// One frame past the limit is enough to report it.
		src = io.LimitReader(dec, (int64(lim)+1)*mp3FrameBytes)
	}

	raw, err := io.ReadAll(contextReader{ctx: ctx, r: src})
	if err != nil {
		return Audio{}, fmt.Errorf("codec: decode mp3: %w", err)
	}
	if err := lim.check(int64(len(raw) / mp3FrameBytes)); err != nil {
		return Audio{}, err
	}

	pcm := make([]int, len(raw)/2)
	for i := range pcm {
		pcm[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	return Audio{
		Samples:    mixdown(pcm, mp3Channels, intFullScale(16)),
		SampleRate: dec.SampleRate(),
		Channels:   mp3Channels,
	}, nil
}
