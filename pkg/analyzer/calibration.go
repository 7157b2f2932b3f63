package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/analyzer.go/pkg/hal"
)

// Calibration describes the analog front-end.
type Calibration struct {
	// Reference is the full scale voltage.
	Reference float64 `yaml:"reference"`
	// Bits is the resolution of the raw samples.
	Bits uint `yaml:"bits"`
	// Series is the known divider resistor in ohms.
	Series float64 `yaml:"series"`
	// ShortBelow is the voltage under which a short is reported.
	ShortBelow float64 `yaml:"short_below"`
	// OpenAbove is the voltage over which OpenResistance is reported.
	OpenAbove      float64 `yaml:"open_above"`
	OpenResistance float64 `yaml:"open_resistance"`
}

// DefaultCalibration is a 12-bit 3.3V channel with a 10k divider.
func DefaultCalibration() Calibration {
	return Calibration{
		Reference:      3.3,
		Bits:           hal.DefaultResolution,
		Series:         10000,
		ShortBelow:     0.01,
		OpenAbove:      3.2,
		OpenResistance: 1.0e7,
	}
}

// LoadCalibration reads a YAML profile. Fields missing from the file
// keep their defaults.
func LoadCalibration(fn string) (Calibration, error) {
	cal := DefaultCalibration()
	data, err := os.ReadFile(fn)
	if err != nil {
		return cal, err
	}
	if err = yaml.Unmarshal(data, &cal); err != nil {
		return DefaultCalibration(), err
	}
	if err = cal.Validate(); err != nil {
		return DefaultCalibration(), fmt.Errorf("%s: %w", fn, err)
	}
	return cal, nil
}

// Validate rejects profiles the estimator can't work with.
func (c Calibration) Validate() error {
	switch {
	case c.Reference <= 0:
		return fmt.Errorf("invalid reference %v V", c.Reference)
	case c.Bits == 0 || c.Bits > 16:
		return fmt.Errorf("invalid resolution %d bits", c.Bits)
	case c.Series <= 0:
		return fmt.Errorf("invalid series resistor %v Ohm", c.Series)
	case c.ShortBelow < 0 || c.OpenAbove <= c.ShortBelow:
		return fmt.Errorf("invalid clamps: short below %v V, open above %v V", c.ShortBelow, c.OpenAbove)
	case c.OpenResistance <= 0:
		return fmt.Errorf("invalid open resistance %v Ohm", c.OpenResistance)
	}
	return nil
}
