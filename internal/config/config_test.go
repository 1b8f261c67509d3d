package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Fatalf("timeout=%v, want 10s", cfg.Timeout())
	}
	if cfg.Limits().MaxSamples != 30*44100 {
		t.Fatalf("max samples=%d", cfg.Limits().MaxSamples)
	}
}

func TestDecodeOverlaysFile(t *testing.T) {
	cfg := Default()
	err := cfg.Decode(strings.NewReader(`{"addr": ":9000", "process_timeout": "250ms", "max_stages": 2}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Timeout() != 250*time.Millisecond || cfg.MaxStages != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unset fields must keep defaults, log_level=%q", cfg.LogLevel)
	}
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	cfg := Default()
	if err := cfg.Decode(strings.NewReader(`{"adress": ":1"}`)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`1.5`), &d); err != nil {
		t.Fatalf("seconds: %v", err)
	}
	if time.Duration(d) != 1500*time.Millisecond {
		t.Fatalf("got %v, want 1.5s", time.Duration(d))
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &d); err == nil {
		t.Fatal("expected parse error")
	}
	b, err := json.Marshal(Duration(2 * time.Second))
	if err != nil || string(b) != `"2s"` {
		t.Fatalf("marshal=%s err=%v", b, err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FILTERD_ADDR":             "127.0.0.1:7000",
		"FILTERD_LOG_LEVEL":        "debug",
		"FILTERD_MAX_CONCURRENT":   "3",
		"FILTERD_PROCESS_TIMEOUT":  "2s",
		"FILTERD_MAX_DURATION_SEC": "5",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" || cfg.LogLevel != "debug" || cfg.MaxConcurrent != 3 ||
		cfg.Timeout() != 2*time.Second || cfg.MaxDurationSec != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	env["FILTERD_MAX_CONCURRENT"] = "many"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = " " }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"concurrency", func(c *Config) { c.MaxConcurrent = 0 }},
		{"timeout", func(c *Config) { c.ProcessTimeout = 0 }},
		{"upload", func(c *Config) { c.MaxUploadBytes = -1 }},
		{"http3 without tls", func(c *Config) { c.HTTP3Addr = ":443" }},
		{"limits", func(c *Config) { c.MaxStages = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filterd.json")
	if err := os.WriteFile(path, []byte(`{"max_concurrent": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxConcurrent != 2 {
		t.Fatalf("max_concurrent=%d, want 2", cfg.MaxConcurrent)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolveLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ResolveLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("ResolveLogLevel(%q)=%v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ResolveLogLevel("trace"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := NewLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output %q", out)
	}

	level.Set(slog.LevelDebug)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("level change not applied: %q", buf.String())
	}
	if _, _, err := NewLogger(&buf, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
