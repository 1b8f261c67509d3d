package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-filterd/internal/testutil"
)

func TestWAVRoundTrip(t *testing.T) {
	in := testutil.DeterministicSine(440, 44100, 0.8, 4410)
	data, err := WAVBytes(in, 44100)
	if err != nil {
		t.Fatalf("WAVBytes: %v", err)
	}
	if got := Detect(data); got != FormatWAV {
		t.Fatalf("Detect=%q, want wav", got)
	}

	a, err := Decode(context.Background(), bytes.NewReader(data), FormatUnknown, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.SampleRate != 44100 || a.Channels != 1 || a.Format != FormatWAV {
		t.Fatalf("unexpected header: %+v", a)
	}
	testutil.RequireSliceNearlyEqual(t, a.Samples, in, 2.0/32768)
	if math.Abs(a.Duration()-0.1) > 1e-12 {
		t.Fatalf("duration=%v, want 0.1", a.Duration())
	}
}

func TestWAVBytesPatchesRIFFSizes(t *testing.T) {
	data, err := WAVBytes(make([]float64, 300), 8000)
	if err != nil {
		t.Fatalf("WAVBytes: %v", err)
	}
	if len(data) != 44+600 {
		t.Fatalf("len=%d, want %d", len(data), 44+600)
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); int(got) != len(data)-8 {
		t.Fatalf("RIFF size=%d, want %d", got, len(data)-8)
	}
	if string(data[36:40]) != "data" {
		t.Fatalf("chunk id=%q, want data", data[36:40])
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != 600 {
		t.Fatalf("data size=%d, want 600", got)
	}
}

func TestEncodeWAVClips(t *testing.T) {
	data, err := WAVBytes([]float64{2, -2, 0}, 8000)
	if err != nil {
		t.Fatalf("WAVBytes: %v", err)
	}
	a, err := Decode(context.Background(), bytes.NewReader(data), FormatWAV, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	testutil.RequireUnitRange(t, a.Samples)
	if a.Samples[0] < 0.999 || a.Samples[1] > -0.999 {
		t.Fatalf("clipped values: %v", a.Samples)
	}
}

func TestEncodeWAVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicSine(1000, 48000, 0.5, 480)
	if err := EncodeWAV(f, in, 48000); err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	a, err := Decode(context.Background(), r, FormatFromName(path), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(a.Samples) != len(in) || a.SampleRate != 48000 {
		t.Fatalf("len=%d rate=%d", len(a.Samples), a.SampleRate)
	}
}

func TestEncodeWAVRejectsRate(t *testing.T) {
	if _, err := WAVBytes([]float64{0}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(context.Background(), bytes.NewReader(nil), FormatWAV, 0); !errors.Is(err, ErrEmptyAudio) {
		t.Fatalf("empty input: err=%v", err)
	}
	if _, err := Decode(context.Background(), bytes.NewReader([]byte("not audio at all")), FormatUnknown, 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("garbage: err=%v", err)
	}
	if _, err := Decode(context.Background(), bytes.NewReader([]byte("RIFF\x00\x00\x00\x00WAVEjunk")), FormatUnknown, 0); err == nil {
		t.Fatal("truncated wav: expected error")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		header []byte
		want   Format
	}{
		{[]byte("RIFF\x24\x00\x00\x00WAVEfmt "), FormatWAV},
		{[]byte("FORM\x00\x00\x00\x00AIFFCOMM"), FormatAIFF},
		{[]byte("FORM\x00\x00\x00\x00AIFCCOMM"), FormatAIFF},
		{[]byte("OggS\x00\x02"), FormatOgg},
		{[]byte("ID3\x04\x00"), FormatMP3},
		{[]byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3},
		{[]byte("RIFF\x24\x00\x00\x00AVI "), FormatUnknown},
		{nil, FormatUnknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.header); got != tt.want {
			t.Fatalf("Detect(%q)=%q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestFormatFromName(t *testing.T) {
	tests := map[string]Format{
		"a.wav":        FormatWAV,
		"B.WAVE":       FormatWAV,
		"dir/c.aif":    FormatAIFF,
		"d.aiff":       FormatAIFF,
		"e.mp3":        FormatMP3,
		"f.ogg":        FormatOgg,
		"g.flac":       FormatUnknown,
		"no-extension": FormatUnknown,
	}
	for name, want := range tests {
		if got := FormatFromName(name); got != want {
			t.Fatalf("FormatFromName(%q)=%q, want %q", name, got, want)
		}
	}
}

func TestMixdown(t *testing.T) {
	got := mixdown([]int{32768, 0, -16384, -16384}, 2, 32768)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, -0.5}, 1e-15)

	gotf := mixdown([]float32{0.25, 0.75}, 1, 1)
	testutil.RequireSliceNearlyEqual(t, gotf, []float64{0.25, 0.75}, 1e-7)
}

func TestDecodeFrameLimit(t *testing.T) {
	data, err := WAVBytes(testutil.DeterministicSine(440, 8000, 0.5, 1000), 8000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(context.Background(), bytes.NewReader(data), FormatWAV, 999); !errors.Is(err, ErrTooLong) {
		t.Fatalf("limit 999: err=%v, want ErrTooLong", err)
	}
	a, err := Decode(context.Background(), bytes.NewReader(data), FormatWAV, 1000)
	if err != nil {
		t.Fatalf("limit 1000: %v", err)
	}
	if len(a.Samples) != 1000 {
		t.Fatalf("len=%d, want 1000", len(a.Samples))
	}
}

func TestDecodeCancelled(t *testing.T) {
	data, err := WAVBytes([]float64{0.1, 0.2}, 8000)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decode(ctx, bytes.NewReader(data), FormatWAV, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

// endless yields full buffers of silence forever.
func endless(buf *audio.IntBuffer) (int, error) {
	clear(buf.Data)
	return len(buf.Data), nil
}

func TestReadIntFramesStopsEndlessStream(t *testing.T) {
	format := &audio.Format{NumChannels: 2, SampleRate: 8000}
	_, err := readIntFrames(context.Background(), endless, format, 2, frameLimit(3*pcmChunkFrames+1))
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("err=%v, want ErrTooLong", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	read := func(buf *audio.IntBuffer) (int, error) {
		if calls++; calls == 3 {
			cancel()
		}
		return endless(buf)
	}
	if _, err := readIntFrames(ctx, read, format, 2, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
