// Package config handles loading and validation of TOML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/kweyjibo/input-range/internal/steps"
	"github.com/kweyjibo/input-range/internal/utils"
)

// Config wraps the current configuration snapshot and allows hot
// swapping it on reload.
type Config struct {
	mu         sync.RWMutex
	raw        *RawConfig
	configPath string
}

type RawConfig struct {
	Controls      []*Control     `toml:"controls"`
	Notifications *Notifications `toml:"notifications"`
	HotReload     *HotReload     `toml:"hot_reload"`

	ConfigPath    string `toml:"-"`
	ConfigDirPath string `toml:"-"`
}

type Notifications struct {
	Disabled  *bool  `toml:"disabled"`
	TimeoutMs *int32 `toml:"timeout_ms"`
}

type HotReload struct {
	Disabled            *bool `toml:"disabled"`
	UpdateDebounceTimer *int  `toml:"update_debounce_timer"`
}

// Control declares one slider on the panel.
type Control struct {
	Name     string         `toml:"name"`
	Label    *string        `toml:"label"`
	Unit     *string        `toml:"unit"`
	Min      *float64       `toml:"min"`
	Max      *float64       `toml:"max"`
	Initial  *float64       `toml:"initial"`
	Segments []*SegmentSpec `toml:"segments"`
	Apply    *ApplySection  `toml:"apply"`
}

// SegmentSpec is one piece of a control's step table; see steps.Segment.
type SegmentSpec struct {
	Delta *float64 `toml:"delta"`
	Max   *float64 `toml:"max"`
}

type ApplyTargetType int

const (
	NoneTarget ApplyTargetType = iota
	LogindTarget
)

func (e *ApplyTargetType) Value() string {
	switch *e {
	case NoneTarget:
		return "none"
	case LogindTarget:
		return "logind"
	}
	return ""
}

func (e *ApplyTargetType) UnmarshalTOML(value any) error {
	sValue, ok := value.(string)
	if !ok {
		return fmt.Errorf("value %v is not a string type", value)
	}
	for _, enum := range []ApplyTargetType{NoneTarget, LogindTarget} {
		if enum.Value() == sValue {
			*e = enum
			return nil
		}
	}
	return errors.New("invalid enum value")
}

// ApplySection selects the backend that receives committed values.
type ApplySection struct {
	Target    *ApplyTargetType `toml:"target"`
	Subsystem *string          `toml:"subsystem"`
	Device    *string          `toml:"device"`
}

// NewConfig loads the configuration under configPath, creating a
// commented default file first when none exists.
func NewConfig(configPath string) (*Config, error) {
	configPath = os.ExpandEnv(configPath)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logrus.WithField("config_path", configPath).Info("No config file found, creating a default one")
		if err := CreateDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("cant create default config: %w", err)
		}
	}

	cfg := &Config{configPath: configPath}
	if err := cfg.Reload(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the current configuration snapshot.
func (c *Config) Get() *RawConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raw
}

// Reload re-reads and re-validates the config file, swapping the
// snapshot only on success.
func (c *Config) Reload() error {
	raw, err := load(c.configPath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = raw
	return nil
}

func load(configPath string) (*RawConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file %s not found", configPath)
	}

	absDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("cant convert config path to abs: %w", err)
	}

	var raw RawConfig
	if _, err := toml.DecodeFile(configPath, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	raw.ConfigPath = configPath
	raw.ConfigDirPath = absDir

	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &raw, nil
}

func (r *RawConfig) Validate() error {
	if len(r.Controls) == 0 {
		return errors.New("no controls defined")
	}

	seen := map[string]bool{}
	for i, control := range r.Controls {
		if err := control.Validate(); err != nil {
			return fmt.Errorf("control %d (%s) validation failed: %w", i, control.Name, err)
		}
		if seen[control.Name] {
			return fmt.Errorf("duplicate control name %s", control.Name)
		}
		seen[control.Name] = true
	}

	if r.Notifications == nil {
		r.Notifications = &Notifications{}
	}
	if err := r.Notifications.Validate(); err != nil {
		return fmt.Errorf("notifications section validation failed: %w", err)
	}

	if r.HotReload == nil {
		r.HotReload = &HotReload{}
	}
	if err := r.HotReload.Validate(); err != nil {
		return fmt.Errorf("hot reload section validation failed: %w", err)
	}

	return nil
}

func (c *Control) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Label == nil {
		c.Label = utils.StringPtr(c.Name)
	}
	if c.Unit == nil {
		c.Unit = utils.StringPtr("")
	}
	if c.Min == nil {
		c.Min = utils.JustPtr(0.0)
	}
	if c.Max == nil {
		c.Max = utils.JustPtr(100.0)
	}

	table, err := c.Table()
	if err != nil {
		return fmt.Errorf("invalid step table: %w", err)
	}

	if c.Initial == nil {
		c.Initial = c.Min
	}
	clamped := table.Clamp(*c.Initial)
	c.Initial = &clamped

	if c.Apply == nil {
		c.Apply = &ApplySection{}
	}
	if err := c.Apply.Validate(); err != nil {
		return fmt.Errorf("apply section validation failed: %w", err)
	}

	return nil
}

// Table compiles the control's step table. Segment shapes are checked
// inside steps.NewTable so a malformed table is rejected at load time
// rather than producing NaN positions at runtime.
func (c *Control) Table() (*steps.Table, error) {
	segments := make([]steps.Segment, 0, len(c.Segments))
	for i, seg := range c.Segments {
		if seg.Delta == nil || seg.Max == nil {
			return nil, fmt.Errorf("segment %d: delta and max are required", i)
		}
		segments = append(segments, steps.Segment{Delta: *seg.Delta, Max: *seg.Max})
	}

	table, err := steps.NewTable(*c.Min, *c.Max, segments)
	if err != nil {
		return nil, fmt.Errorf("cant compile step table: %w", err)
	}
	return table, nil
}

func (a *ApplySection) Validate() error {
	if a.Target == nil {
		a.Target = utils.JustPtr(NoneTarget)
	}
	if *a.Target == NoneTarget {
		return nil
	}

	if a.Subsystem == nil {
		a.Subsystem = utils.StringPtr("backlight")
	}
	if a.Device == nil || *a.Device == "" {
		return errors.New("device is required for the logind target")
	}
	return nil
}

func (n *Notifications) Validate() error {
	if n.Disabled == nil {
		n.Disabled = utils.BoolPtr(false)
	}
	if n.TimeoutMs == nil {
		n.TimeoutMs = utils.JustPtr(int32(2000))
	}
	return nil
}

func (h *HotReload) Validate() error {
	if h.Disabled == nil {
		h.Disabled = utils.BoolPtr(false)
	}
	if h.UpdateDebounceTimer == nil {
		h.UpdateDebounceTimer = utils.JustPtr(100)
	}
	if *h.UpdateDebounceTimer < 0 {
		return errors.New("update_debounce_timer must not be negative")
	}
	return nil
}
