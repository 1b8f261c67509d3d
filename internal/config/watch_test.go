package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filterd.json")
	if err := os.WriteFile(path, []byte(`{"max_stages": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}

	got := make(chan Config, 4)
	w, err := NewWatcher(path, func(c Config) { got <- c }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Invalid revisions are skipped; the next valid one is delivered.
	if err := os.WriteFile(path, []byte(`{"max_stages": 0}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"max_stages": 3}`), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-got:
			if cfg.MaxStages == 3 {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "filterd.json"), nil, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
