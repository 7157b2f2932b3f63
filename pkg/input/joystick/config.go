package joystick

import (
	"flag"

	"github.com/robotalks/analyzer.go/pkg/input"
)

// Config defines the gamepad settings.
type Config struct {
	DeviceIndex int
	Verbose     bool
	Enabled     bool
	OkButton    int
	BackButton  int
	Axis        int
}

var defaultConfig = Config{
	DeviceIndex: -1,
	OkButton:    0,
	BackButton:  1,
	Axis:        0,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enabled, "joystick", defaultConfig.Enabled, "Read keys from a gamepad.")
	flag.IntVar(&defaultConfig.DeviceIndex, "joystick-device", defaultConfig.DeviceIndex, "Gamepad index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "joystick-verbose", defaultConfig.Verbose, "Log gamepad events.")
	flag.IntVar(&defaultConfig.OkButton, "joystick-ok", defaultConfig.OkButton, "Button number of Ok.")
	flag.IntVar(&defaultConfig.BackButton, "joystick-back", defaultConfig.BackButton, "Button number of Back.")
	flag.IntVar(&defaultConfig.Axis, "joystick-axis", defaultConfig.Axis, "Axis number for Left/Right, -1 to disable.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewSource creates a Source using the config.
func (c *Config) NewSource() *Source {
	src := NewSource()
	src.DeviceIndex = c.DeviceIndex
	src.Verbose = c.Verbose
	m := src.Mapping
	for n, key := range m.Buttons {
		if key == input.KeyOk || key == input.KeyBack {
			delete(m.Buttons, n)
		}
	}
	m.Buttons[c.OkButton] = input.KeyOk
	m.Buttons[c.BackButton] = input.KeyBack
	m.Axis = c.Axis
	return src
}
