package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.Presets["badge"] = "aa-9999"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-w.Updates():
		assert.Equal(t, "aa-9999", got.Presets["badge"])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case <-w.Updates():
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_SkipsInvalidConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("forms: [broken"), 0644))

	select {
	case <-w.Updates():
		t.Fatal("invalid config should not be published")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	w.Stop()
}

func TestWatcher_StopClosesUpdates(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	received := make(chan bool, 1)
	go func() {
		_, ok := <-w.Updates()
		received <- ok
	}()

	w.Stop()
	w.Stop()

	select {
	case ok := <-received:
		assert.False(t, ok, "Updates should be closed, not deliver a config")
	case <-time.After(2 * time.Second):
		t.Fatal("reader still blocked on Updates after Stop")
	}
}
