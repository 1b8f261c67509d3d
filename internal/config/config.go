// Package config loads filterd settings from defaults, an optional JSON
// file and FILTERD_* environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-filterd/internal/engine"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FILTERD_"

// Duration is a time.Duration that reads and writes JSON strings such
// as "10s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Bare numbers are seconds.
		var sec float64
		if nerr := json.Unmarshal(b, &sec); nerr != nil {
			return fmt.Errorf("duration must be a string like \"10s\" or seconds: %s", b)
		}
		*d = Duration(sec * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds server and engine settings.
type Config struct {
	Addr      string `json:"addr"`
	HTTP3Addr string `json:"http3_addr"` // empty disables HTTP/3
	TLSCert   string `json:"tls_cert"`
	TLSKey    string `json:"tls_key"`
	LogLevel  string `json:"log_level"`

	AllowedOrigin  string   `json:"allowed_origin"`
	MaxConcurrent  int64    `json:"max_concurrent"`
	ProcessTimeout Duration `json:"process_timeout"`
	MaxUploadBytes int64    `json:"max_upload_bytes"`

	MaxDurationSec      float64 `json:"max_duration_sec"`
	MaxSamples          int     `json:"max_samples"`
	MaxStages           int     `json:"max_stages"`
	CoefficientInterval int     `json:"coefficient_interval"`
}

// Default returns the built-in settings.
func Default() Config {
	l := engine.DefaultLimits()
	return Config{
		Addr:                ":5000",
		LogLevel:            "info",
		AllowedOrigin:       "*",
		MaxConcurrent:       8,
		ProcessTimeout:      Duration(10 * time.Second),
		MaxUploadBytes:      64 << 20,
		MaxDurationSec:      l.MaxDurationSec,
		MaxSamples:          l.MaxSamples,
		MaxStages:           l.MaxStages,
		CoefficientInterval: l.CoefficientInterval,
	}
}

// Load returns Default overlaid with the JSON file at path (if path is
// not empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if err := cfg.Decode(f); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays JSON from r onto c. Unknown fields are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// ApplyEnv overlays FILTERD_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("HTTP3_ADDR", &c.HTTP3Addr)
	str("TLS_CERT", &c.TLSCert)
	str("TLS_KEY", &c.TLSKey)
	str("LOG_LEVEL", &c.LogLevel)
	str("ALLOWED_ORIGIN", &c.AllowedOrigin)

	if v, ok := lookup(EnvPrefix + "MAX_CONCURRENT"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_CONCURRENT: %w", EnvPrefix, err)
		}
		c.MaxConcurrent = n
	}
	if v, ok := lookup(EnvPrefix + "PROCESS_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sPROCESS_TIMEOUT: %w", EnvPrefix, err)
		}
		c.ProcessTimeout = Duration(d)
	}
	if v, ok := lookup(EnvPrefix + "MAX_DURATION_SEC"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_DURATION_SEC: %w", EnvPrefix, err)
		}
		c.MaxDurationSec = f
	}
	return nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("config: addr must not be empty")
	}
	if _, err := ResolveLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("config: max_concurrent must be > 0: %d", c.MaxConcurrent)
	}
	if c.ProcessTimeout <= 0 {
		return fmt.Errorf("config: process_timeout must be > 0: %s", time.Duration(c.ProcessTimeout))
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max_upload_bytes must be > 0: %d", c.MaxUploadBytes)
	}
	if c.HTTP3Addr != "" && (c.TLSCert == "" || c.TLSKey == "") {
		return errors.New("config: http3_addr requires tls_cert and tls_key")
	}
	if err := c.Limits().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Limits returns the engine limits carried by c.
func (c Config) Limits() engine.Limits {
	return engine.Limits{
		MaxSamples:          c.MaxSamples,
		MaxDurationSec:      c.MaxDurationSec,
		MaxStages:           c.MaxStages,
		CoefficientInterval: c.CoefficientInterval,
	}
}

// Timeout returns the per-request processing timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.ProcessTimeout)
}

// ResolveLogLevel maps debug, info, warn or error to a slog level.
func ResolveLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// NewLogger returns a text logger writing to w. Its threshold is read from
// the returned LevelVar, which starts at level and may be changed later.
func NewLogger(w io.Writer, level string) (*slog.Logger, *slog.LevelVar, error) {
	lvl, err := ResolveLogLevel(level)
	if err != nil {
		return nil, nil, err
	}
	lv := new(slog.LevelVar)
	lv.Set(lvl)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})), lv, nil
}
