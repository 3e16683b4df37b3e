package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigContents = `# input-range configuration
#
# Each [[controls]] entry becomes one slider on the panel. Segments define
# a piecewise step table: the value moves by "delta" per step until "max",
# then the next segment takes over. Without segments the control steps
# by 1 over the whole range.

[notifications]
disabled = false
timeout_ms = 2000

[hot_reload]
disabled = false
# debounce for config file change events, in milliseconds
update_debounce_timer = 100

[[controls]]
name = "brightness"
label = "Brightness"
unit = "%"
min = 0
max = 100
initial = 50

# fine control in the dim range, coarse above
[[controls.segments]]
delta = 1
max = 20

[[controls.segments]]
delta = 5
max = 100

# To push committed values to the screen backlight via logind, replace
# the target below and set the device to a name under /sys/class/backlight.
[controls.apply]
target = "none"
# target = "logind"
# subsystem = "backlight"
# device = "intel_backlight"

[[controls]]
name = "volume"
label = "Volume"
unit = "%"
min = 0
max = 150
initial = 100

[[controls.segments]]
delta = 5
max = 100

[[controls.segments]]
delta = 10
max = 150
`

// CreateDefaultConfig writes the commented starter configuration to
// configPath, creating parent directories as needed. It refuses to
// overwrite an existing file.
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s already exists", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("cant create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigContents), 0o644); err != nil {
		return fmt.Errorf("cant write default config: %w", err)
	}

	return nil
}
