package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval.Std())
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	ws := t.TempDir()
	cfg := DefaultConfig()
	cfg.APIURL = "http://orchestrator.internal:9000"
	cfg.Theme = "light"
	require.NoError(t, cfg.Save(ws))

	got, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, "http://orchestrator.internal:9000", got.APIURL)
	assert.Equal(t, "light", got.Theme)
}

func TestEnvOverridesFile(t *testing.T) {
	ws := t.TempDir()
	cfg := DefaultConfig()
	cfg.APIURL = "http://from-file:8000"
	require.NoError(t, cfg.Save(ws))

	t.Setenv("GENESIS_API_URL", "http://from-env:8000")
	t.Setenv("GENESIS_POLL_INTERVAL", "10s")

	got, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", got.APIURL)
	assert.Equal(t, 10*time.Second, got.PollInterval.Std())
}

func TestValidateRejectsBadInterval(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(ws+"/.genesis", 0o755))
	require.NoError(t, os.WriteFile(Path(ws), []byte("poll_interval: -1s\n"), 0o644))

	_, err := Load(ws)
	assert.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	ws := t.TempDir()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Save(ws))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, ws, zap.NewNop(), func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to attach before the write.
	time.Sleep(100 * time.Millisecond)
	cfg.Model = "gpt-4o"
	require.NoError(t, cfg.Save(ws))

	select {
	case got := <-changed:
		assert.Equal(t, "gpt-4o", got.Model)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reported the change")
	}
	cancel()
	<-done
}
