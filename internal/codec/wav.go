package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

func decodeWAV(ctx context.Context, data []byte, lim frameLimit) (Audio, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		// A well-formed header with a zero-length data chunk.
		if dec.Err() == nil && dec.NumChans > 0 && dec.BitDepth >= 8 {
			return Audio{}, ErrEmptyAudio
		}
		return Audio{}, fmt.Errorf("%w: invalid wav header", ErrUnsupportedFormat)
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return Audio{}, fmt.Errorf("%w: wav encoding %d is not integer PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	if err := dec.FwdToPCM(); err != nil {
		return Audio{}, fmt.Errorf("codec: locate wav data: %w", err)
	}
	channels := int(dec.NumChans)
	frameBytes := int64(channels * ((int(dec.BitDepth)-1)/8 + 1))
	if err := lim.check(dec.PCMLen() / frameBytes); err != nil {
		return Audio{}, err
	}

	format := &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)}
	pcm, err := readIntFrames(ctx, dec.PCMBuffer, format, channels, lim)
	if err != nil {
		return Audio{}, fmt.Errorf("codec: decode wav: %w", err)
	}

	// 8-bit WAV is unsigned.
	if dec.BitDepth == 8 {
		for i := range pcm {
			pcm[i] -= 128
		}
	}

	return Audio{
		Samples:    mixdown(pcm, channels, intFullScale(int(dec.BitDepth))),
		SampleRate: int(dec.SampleRate),
		Channels:   channels,
	}, nil
}

// EncodeWAV writes samples as a mono 16-bit PCM WAV file. Samples are
// clipped into [-1, 1].
func EncodeWAV(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("codec: wav sample rate must be > 0: %d", sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, v := range samples {
		v = math.Max(-1, math.Min(1, v))
		buf.Data[i] = int(math.Round(v * math.MaxInt16))
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("codec: encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("codec: finalize wav: %w", err)
	}
	return nil
}

// WAVBytes returns samples encoded as an in-memory WAV file.
func WAVBytes(samples []float64, sampleRate int) ([]byte, error) {
	var ws writerseeker.WriterSeeker
	if err := EncodeWAV(&ws, samples, sampleRate); err != nil {
		return nil, err
	}
	return io.ReadAll(ws.Reader())
}
