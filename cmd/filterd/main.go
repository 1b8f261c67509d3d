// Command filterd runs the filter synthesis service and its offline tools.
//
// Usage:
//
//	filterd serve [--config filterd.json] [--addr :5000]
//	filterd synth -f 440 -d 2 --filter lowpass --cutoff 800 -o tone.wav
//	filterd process -i take.wav --filter highpass --cutoff 120 -o clean.wav
//	filterd analyze -i take.wav --fft 4096
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-filterd/internal/config"
	"github.com/cwbudde/algo-filterd/internal/engine"
	"github.com/cwbudde/algo-filterd/internal/server"
	"github.com/cwbudde/algo-filterd/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
	serveAddr  string
	watchCfg   bool
)

var rootCmd = &cobra.Command{
	Use:   "filterd",
	Short: "Resonant filter synthesis and processing service",
	Long: `filterd synthesizes tones and filters audio through a resonant biquad
with optional LFO modulation. It serves a JSON API and offers the same
operations as offline commands on audio files.`,
	Version:      version.Current(),
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API. Settings come from the config file, then
FILTERD_* environment variables, then flags.

Example:
  filterd serve --config filterd.json --addr :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&watchCfg, "watch", true, "reload limits when the config file changes")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig resolves the effective configuration and logger.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, logger, _, err := loadConfigLevel()
	return cfg, logger, err
}

// loadConfigLevel is loadConfig plus the level variable behind the logger.
func loadConfigLevel() (config.Config, *slog.Logger, *slog.LevelVar, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, level, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, level, nil
}

func newService(cfg config.Config, logger *slog.Logger) *engine.Service {
	return engine.NewService(
		engine.WithLogger(logger),
		engine.WithLimits(cfg.Limits()),
		engine.WithVersion(version.Current()),
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, level, err := loadConfigLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx := cmd.Context()
	srv := server.New(newService(cfg, logger), cfg, logger, server.WithLogLevel(level))

	if watchCfg && configPath != "" {
		w, err := config.NewWatcher(configPath, func(next config.Config) {
			// Flags win over the file on reload too.
			if serveAddr != "" {
				next.Addr = serveAddr
			}
			if logLevel != "" {
				next.LogLevel = logLevel
			}
			if err := srv.Reload(next); err != nil {
				logger.Warn("config reload rejected", "err", err)
			}
		}, logger)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer w.Close()

		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("config watcher stopped", "err", err)
			}
		}()
	}

	logger.Info("filterd starting",
		"version", version.Current(),
		"addr", cfg.Addr,
		"http3_addr", cfg.HTTP3Addr,
		"max_concurrent", cfg.MaxConcurrent)

	return srv.Run(ctx)
}
