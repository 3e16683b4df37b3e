package filewatcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kweyjibo/input-range/internal/config"
	"github.com/kweyjibo/input-range/internal/filewatcher"
	"github.com/kweyjibo/input-range/internal/testutils"
	"github.com/kweyjibo/input-range/internal/utils"
)

func setupFilewatcherTest(t *testing.T) *config.Config {
	configDir := filepath.Join(t.TempDir(), "config")
	return testutils.NewTestConfig(t).
		WithConfigDir(configDir).
		WithHotReload(&config.HotReload{
			UpdateDebounceTimer: utils.IntPtr(50), // 50ms debounce for faster tests
		}).
		Get()
}

func TestFilewatcher_Integration(t *testing.T) {
	tests := []struct {
		name          string
		setupChange   func(*config.Config) error
		changeDesc    string
		validateAfter func(*config.Config, <-chan interface{}) error
	}{
		{
			name: "receives events when the config file changes in flight",
			setupChange: func(cfg *config.Config) error {
				newContent := []byte("[hot_reload]\nupdate_debounce_timer = 50\n")
				return os.WriteFile(cfg.Get().ConfigPath, newContent, 0o600)
			},
			changeDesc: "modified existing config file",
		},
		{
			name: "receives events when files in the config directory change",
			setupChange: func(cfg *config.Config) error {
				testFile := filepath.Join(cfg.Get().ConfigDirPath, "scratch.toml")
				return os.WriteFile(testFile, []byte("[notifications]\ndisabled = true"), 0o600)
			},
			changeDesc: "new file in config directory",
		},
		{
			name: "keeps watching after the config is reloaded",
			setupChange: func(cfg *config.Config) error {
				testFile := filepath.Join(cfg.Get().ConfigDirPath, "scratch.toml")
				return os.WriteFile(testFile, []byte("touched"), 0o600)
			},
			changeDesc: "config edited",
			validateAfter: func(cfg *config.Config, events <-chan interface{}) error {
				drainEvents(t, events)

				testutils.NewTestConfig(t).
					WithConfigPath(cfg.Get().ConfigPath).
					WithControls([]*config.Control{
						{
							Name: "backlight",
							Segments: []*config.SegmentSpec{
								{Delta: utils.JustPtr(2.0), Max: utils.JustPtr(100.0)},
							},
						},
					}).
					WithHotReload(cfg.Get().HotReload).
					FillDefaults().
					SaveToFile()
				drainEvents(t, events)

				require.NoError(t, cfg.Reload(), "cant reload configuration")

				newContent := []byte("rewritten")
				scratch := filepath.Join(cfg.Get().ConfigDirPath, "scratch.toml")
				require.NoError(t, os.WriteFile(scratch, newContent, 0o600))

				select {
				case event := <-events:
					assert.NotNil(t, event, "should receive an event for a file update")
				case <-time.After(500 * time.Millisecond):
					t.Fatalf("no event after waiting")
				}

				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupFilewatcherTest(t)

			service := filewatcher.NewService(cfg, utils.BoolPtr(false))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

			errCh := make(chan error, 1)
			go func() {
				errCh <- service.Run(ctx)
			}()

			time.Sleep(50 * time.Millisecond)

			events := service.Listen()

			require.NoError(t, tt.setupChange(cfg))

			select {
			case event := <-events:
				assert.NotNil(t, event, "should receive event for %s", tt.changeDesc)
			case <-time.After(500 * time.Millisecond):
				t.Fatalf("timeout waiting for event after %s", tt.changeDesc)
			}

			if tt.validateAfter != nil {
				require.NoError(t, tt.validateAfter(cfg, events))
			}

			cancel()

			select {
			case err := <-errCh:
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "context canceled")
			case <-time.After(1 * time.Second):
				t.Fatal("timeout waiting for service to shut down")
			}
		})
	}
}

func drainEvents(t *testing.T, events <-chan interface{}) {
	for {
		t.Log("draining events")
		select {
		case event, ok := <-events:
			require.True(t, ok, "events channel closed")
			t.Log("event received")
			assert.NotNil(t, event, "should receive event")
		case <-time.After(250 * time.Millisecond):
			t.Log("no event, exiting")
			return
		}
	}
}

func TestFilewatcher_DisabledHotReload(t *testing.T) {
	cfg := setupFilewatcherTest(t)
	service := filewatcher.NewService(cfg, utils.BoolPtr(true))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- service.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	scratch := filepath.Join(cfg.Get().ConfigDirPath, "scratch.toml")
	require.NoError(t, os.WriteFile(scratch, []byte("ignored"), 0o600))

	select {
	case <-service.Listen():
		t.Fatal("no events should be emitted while hot reload is disabled")
	case <-time.After(250 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-errCh:
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "context canceled")
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for service to shut down")
	}
}
