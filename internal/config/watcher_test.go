package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Close()

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://127.0.0.1:9999"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-reloaded:
		require.Equal(t, "http://127.0.0.1:9999/predict_cluster", got.PredictURL())
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not delivered")
	}
}

func TestWatcher_PicksUpFileInMissingDirectory(t *testing.T) {
	clearEnv(t)

	dir := filepath.Join(t.TempDir(), "not-yet", ".ccluster")
	path := filepath.Join(dir, "config.yaml")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Close()

	require.DirExists(t, dir)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://127.0.0.1:7777"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-reloaded:
		require.Equal(t, "http://127.0.0.1:7777", got.API.BaseURL)
	case <-time.After(5 * time.Second):
		t.Fatal("config created after Start was not delivered")
	}
}

func TestWatcher_IgnoresInvalidConfig(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: neon\n"), 0644))

	select {
	case got := <-reloaded:
		t.Fatalf("unexpected reload: %+v", got)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	select {
	case got := <-reloaded:
		t.Fatalf("unexpected reload: %+v", got)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_CloseStopsGoroutine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	w, err := NewWatcher(path, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Close())
}

func TestWatcher_CloseWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"), nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
