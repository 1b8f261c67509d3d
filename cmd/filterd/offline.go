package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/internal/codec"
	"github.com/cwbudde/algo-filterd/internal/engine"
	stattime "github.com/cwbudde/algo-filterd/stats/time"
)

// filterFlags are shared by synth and process.
type filterFlags struct {
	filterType string
	cutoff     float64
	resonance  float64
	stages     int

	lfoRate     float64
	lfoDepth    float64
	lfoWaveform string
	lfoTarget   string
}

func (f *filterFlags) register(cmd *cobra.Command, defaultFilter string) {
	fs := cmd.Flags()
	fs.StringVar(&f.filterType, "filter", defaultFilter, "filter type: lowpass, highpass, bandpass or none")
	fs.Float64Var(&f.cutoff, "cutoff", 1000, "filter cutoff in Hz")
	fs.Float64Var(&f.resonance, "resonance", 0.7, "filter resonance (Q)")
	fs.IntVar(&f.stages, "stages", 1, "number of cascaded filter sections")
	fs.Float64Var(&f.lfoRate, "lfo-rate", 0, "LFO rate in Hz (0 disables the LFO)")
	fs.Float64Var(&f.lfoDepth, "lfo-depth", 0.5, "LFO depth in [0, 1]")
	fs.StringVar(&f.lfoWaveform, "lfo-waveform", "sine", "LFO waveform")
	fs.StringVar(&f.lfoTarget, "lfo-target", "", "LFO target: cutoff, amplitude or frequency")
}

func (f *filterFlags) filter() *engine.FilterSpec {
	if f.filterType == "" || strings.EqualFold(f.filterType, "none") {
		return nil
	}
	return &engine.FilterSpec{
		Type:       f.filterType,
		CutoffHz:   f.cutoff,
		ResonanceQ: f.resonance,
		Stages:     f.stages,
	}
}

func (f *filterFlags) lfo() *engine.LFOSpec {
	if f.lfoRate == 0 {
		return nil
	}
	return &engine.LFOSpec{
		Enabled:  true,
		Waveform: f.lfoWaveform,
		RateHz:   f.lfoRate,
		Depth:    f.lfoDepth,
		Target:   engine.LFOTarget(f.lfoTarget),
	}
}

var (
	synthFreq     float64
	synthDuration float64
	synthWaveform string
	synthRate     float64
	synthRaw      bool
	synthOut      string
	synthFilter   filterFlags
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Render a tone to a WAV file",
	Long: `Render an oscillator through the optional filter and LFO, shape it
with the default envelope and peak-normalize it.

Examples:
  filterd synth -f 110 -w sawtooth --filter lowpass --cutoff 600 --resonance 8 -o bass.wav
  filterd synth -f 440 --lfo-rate 4 --lfo-target amplitude --filter none -o trem.wav`,
	RunE: runSynth,
}

var (
	processIn     string
	processOut    string
	processRate   float64
	processFilter filterFlags
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Filter an audio file",
	Long: `Decode WAV, AIFF, MP3 or Ogg Vorbis input, mix it to mono, filter it
and write a 16-bit WAV file.

Example:
  filterd process -i loop.mp3 --filter bandpass --cutoff 1200 --resonance 4 -o loop_bp.wav`,
	RunE: runProcess,
}

var (
	analyzeIn        string
	analyzeFFT       int
	analyzeWindow    string
	analyzeSmoothing int
	analyzeWeighting string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print spectral statistics of an audio file",
	Long: `Compute the averaged magnitude spectrum of an audio file and print
its level and spectral statistics.

Example:
  filterd analyze -i take.wav --fft 4096 --window blackman`,
	RunE: runAnalyze,
}

func init() {
	fs := synthCmd.Flags()
	fs.Float64VarP(&synthFreq, "frequency", "f", 440, "oscillator frequency in Hz")
	fs.Float64VarP(&synthDuration, "duration", "d", 1, "duration in seconds")
	fs.StringVarP(&synthWaveform, "waveform", "w", "sine", "sine, square, sawtooth or triangle")
	fs.Float64Var(&synthRate, "sample-rate", core.DefaultSampleRate, "sample rate in Hz")
	fs.BoolVar(&synthRaw, "raw", false, "skip the envelope and normalization")
	fs.StringVarP(&synthOut, "output", "o", "out.wav", "output WAV file")
	synthFilter.register(synthCmd, "none")

	fs = processCmd.Flags()
	fs.StringVarP(&processIn, "input", "i", "", "input audio file")
	fs.StringVarP(&processOut, "output", "o", "", "output WAV file (default <input>_filtered.wav)")
	fs.Float64Var(&processRate, "rate", 0, "output sample rate in Hz (0 keeps the input rate)")
	processFilter.register(processCmd, "lowpass")
	_ = processCmd.MarkFlagRequired("input")

	fs = analyzeCmd.Flags()
	fs.StringVarP(&analyzeIn, "input", "i", "", "input audio file")
	fs.IntVar(&analyzeFFT, "fft", engine.DefaultFFTSize, "FFT size (power of two)")
	fs.StringVar(&analyzeWindow, "window", "hann", "analysis window")
	fs.IntVar(&analyzeSmoothing, "smoothing", 0, "1/N-octave smoothing (0 disables)")
	fs.StringVar(&analyzeWeighting, "weighting", "A", "level weighting: A, C or Z")
	_ = analyzeCmd.MarkFlagRequired("input")
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	svc := newService(cfg, logger)

	req := engine.SynthesisRequest{
		Frequency:  synthFreq,
		Duration:   synthDuration,
		Waveform:   synthWaveform,
		SampleRate: synthRate,
		Filter:     synthFilter.filter(),
		LFO:        synthFilter.lfo(),
	}
	if !synthRaw {
		req = engine.DefaultSynthesis(req)
	}

	res, err := svc.Synthesize(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := writeWAVFile(synthOut, res.Samples, res.SampleRate); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d samples, %.3fs at %.0f Hz, %d clipped\n",
		synthOut, len(res.Samples), res.Duration, res.SampleRate, res.Clipped)
	return nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	svc := newService(cfg, logger)

	in, err := readAudio(cmd.Context(), processIn, svc.Limits().MaxSamples)
	if err != nil {
		return err
	}

	res, err := svc.ProcessAudio(cmd.Context(), engine.ProcessRequest{
		InputSamples:     in.Samples,
		SampleRate:       float64(in.SampleRate),
		OutputSampleRate: processRate,
		Filter:           processFilter.filter(),
		LFO:              processFilter.lfo(),
	})
	if err != nil {
		return err
	}

	out := processOut
	if out == "" {
		out = strings.TrimSuffix(processIn, "."+string(in.Format)) + "_filtered.wav"
	}
	if err := writeWAVFile(out, res.Samples, res.SampleRate); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: rms %.2f dB -> %.2f dB, %d clipped, %s\n",
		out, stattime.DB(res.OriginalRMS), stattime.DB(res.ProcessedRMS), res.Clipped, res.Elapsed)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	svc := newService(cfg, logger)

	in, err := readAudio(cmd.Context(), analyzeIn, svc.Limits().MaxSamples)
	if err != nil {
		return err
	}

	res, err := svc.Analyze(cmd.Context(), engine.AnalyzeRequest{
		Samples:          in.Samples,
		SampleRate:       float64(in.SampleRate),
		FFTSize:          analyzeFFT,
		Window:           analyzeWindow,
		SmoothingOctaves: analyzeSmoothing,
		Weighting:        analyzeWeighting,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "file:       %s (%s, %d ch, %d Hz, %.3fs)\n", analyzeIn, in.Format, in.Channels, in.SampleRate, in.Duration())
	fmt.Fprintf(w, "fft:        %d x %d frames\n", res.FFTSize, res.Frames)
	fmt.Fprintf(w, "rms:        %.2f dBFS\n", stattime.DB(res.RMS))
	fmt.Fprintf(w, "rms (%s):    %.2f dBFS\n", res.Weighting, stattime.DB(res.WeightedRMS))
	fmt.Fprintf(w, "peak:       %.2f dBFS\n", stattime.DB(res.Peak))
	fmt.Fprintf(w, "crest:      %.2f\n", res.CrestFactor)
	fmt.Fprintf(w, "dc offset:  %.6f\n", res.DCOffset)
	fmt.Fprintf(w, "clipped:    %d samples\n", res.FullScale)
	fmt.Fprintf(w, "peak freq:  %.1f Hz\n", res.PeakHz)
	fmt.Fprintf(w, "centroid:   %.1f Hz\n", res.CentroidHz)
	fmt.Fprintf(w, "rolloff:    %.1f Hz\n", res.RolloffHz)
	fmt.Fprintf(w, "flatness:   %.4f\n", res.FlatnessRatio)
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning:    %s\n", warning)
	}
	return nil
}

// readAudio decodes the file at path, refusing more than maxFrames frames.
func readAudio(ctx context.Context, path string, maxFrames int) (codec.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return codec.Audio{}, err
	}
	defer f.Close()

	a, err := codec.Decode(ctx, f, codec.FormatFromName(path), maxFrames)
	if err != nil {
		return codec.Audio{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func writeWAVFile(path string, samples []float64, sampleRate float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := codec.EncodeWAV(f, samples, int(math.Round(sampleRate))); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
