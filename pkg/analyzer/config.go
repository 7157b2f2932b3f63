package analyzer

import (
	"flag"
	"time"

	"github.com/robotalks/analyzer.go/pkg/hal"
)

// Config defines the applet settings.
type Config struct {
	// CalibrationFile is an optional YAML calibration profile.
	CalibrationFile string
	// SimResistance is the component on the simulated probe, negative
	// leaves it open.
	SimResistance float64
	Interval      time.Duration
	QueueSize     int
}

var defaultConfig = Config{
	SimResistance: 4700,
	Interval:      100 * time.Millisecond,
	QueueSize:     8,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.CalibrationFile, "calibration", defaultConfig.CalibrationFile, "YAML calibration profile.")
	flag.Float64Var(&defaultConfig.SimResistance, "sim-resistance", defaultConfig.SimResistance, "Ohms on the simulated probe, negative for open.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Longest wait for a key before redrawing.")
	flag.IntVar(&defaultConfig.QueueSize, "queue-size", defaultConfig.QueueSize, "Capacity of the key queue.")
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

// Calibration loads the calibration profile, or the default one.
func (c *Config) Calibration() (Calibration, error) {
	if c.CalibrationFile == "" {
		return DefaultCalibration(), nil
	}
	return LoadCalibration(c.CalibrationFile)
}

// NewSimulator creates a simulated probe matching cal.
func (c *Config) NewSimulator(cal Calibration) *hal.Divider {
	d := hal.NewDivider(cal.Reference, cal.Series, cal.Bits)
	if c.SimResistance >= 0 {
		d.Connect(c.SimResistance)
	}
	return d
}
