package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/kweyjibo/input-range/internal/config"
	"github.com/kweyjibo/input-range/internal/utils"
)

// TestConfig builds configuration files on disk for tests that exercise
// the loader or the compiled binary.
type TestConfig struct {
	cfg     *config.RawConfig
	t       *testing.T
	cfgFile *string
}

func NewTestConfig(t *testing.T) *TestConfig {
	return &TestConfig{cfg: &config.RawConfig{}, t: t}
}

func (t *TestConfig) WithControls(controls []*config.Control) *TestConfig {
	t.cfg.Controls = controls
	return t
}

func (t *TestConfig) WithNotifications(n *config.Notifications) *TestConfig {
	t.cfg.Notifications = n
	return t
}

func (t *TestConfig) WithHotReload(h *config.HotReload) *TestConfig {
	t.cfg.HotReload = h
	return t
}

func (t *TestConfig) WithConfigDir(dir string) *TestConfig {
	require.NoError(t.t, os.MkdirAll(dir, 0o750))

	cfgFile := filepath.Join(dir, "config.toml")
	// nolint:gosec
	if _, err := os.Create(cfgFile); err != nil {
		t.t.Fatalf("Failed to create file: %v", err)
	}
	t.cfgFile = &cfgFile

	return t
}

func (t *TestConfig) WithConfigPath(path string) *TestConfig {
	t.cfgFile = &path
	return t
}

func (t *TestConfig) ConfigPath() string {
	require.NotNil(t.t, t.cfgFile, "cfgFile cant be nil")
	return *t.cfgFile
}

// FillDefaults gives the config a pair of controls when none were set.
func (t *TestConfig) FillDefaults() *TestConfig {
	if t.cfg.Controls == nil {
		t = t.WithControls([]*config.Control{
			{
				Name:    "brightness",
				Label:   utils.StringPtr("Brightness"),
				Unit:    utils.StringPtr("%"),
				Min:     utils.JustPtr(0.0),
				Max:     utils.JustPtr(100.0),
				Initial: utils.JustPtr(20.0),
				Segments: []*config.SegmentSpec{
					{Delta: utils.JustPtr(1.0), Max: utils.JustPtr(20.0)},
					{Delta: utils.JustPtr(5.0), Max: utils.JustPtr(100.0)},
				},
			},
			{
				Name:    "volume",
				Label:   utils.StringPtr("Volume"),
				Unit:    utils.StringPtr("%"),
				Initial: utils.JustPtr(50.0),
				Segments: []*config.SegmentSpec{
					{Delta: utils.JustPtr(5.0), Max: utils.JustPtr(100.0)},
				},
			},
		})
	}
	if t.cfg.HotReload == nil {
		t = t.WithHotReload(&config.HotReload{
			UpdateDebounceTimer: utils.IntPtr(10),
		})
	}
	if t.cfg.Notifications == nil {
		t = t.WithNotifications(&config.Notifications{
			Disabled: utils.BoolPtr(true),
		})
	}
	return t
}

func (t *TestConfig) SaveToFile() *TestConfig {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(t.cfg); err != nil {
		t.t.Fatal("cant encode config: %w", err)
	}
	require.NotNil(t.t, t.cfgFile, "cfgFile cant be nil")
	if err := utils.WriteAtomic(*t.cfgFile, buf.Bytes()); err != nil {
		t.t.Fatal("cant write config: %w", err)
	}
	return t
}

// Get saves the config when needed and loads it back through the
// regular loader.
func (t *TestConfig) Get() *config.Config {
	if t.cfgFile == nil {
		t.WithConfigDir(t.t.TempDir())
	}
	t.FillDefaults().SaveToFile()

	logrus.WithFields(logrus.Fields{"path": *t.cfgFile}).Debug("Creating config")
	cfg, err := config.NewConfig(*t.cfgFile)
	require.NoError(t.t, err, "cant create config")

	return cfg
}
