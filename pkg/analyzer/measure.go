package analyzer

import (
	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/hal"
)

// Sampler converts one conversion of the ADC into volts.
type Sampler struct {
	ADC         hal.ADC
	Calibration Calibration

	enabled bool
}

// NewSampler creates a Sampler with the default calibration.
func NewSampler(adc hal.ADC) *Sampler {
	return &Sampler{ADC: adc, Calibration: DefaultCalibration()}
}

// MeasureVoltage enables the channel, reads once, disables it, and
// scales the sample to [0, Reference].
func (s *Sampler) MeasureVoltage() float64 {
	s.enabled = true
	s.ADC.Enable()
	raw := s.ADC.Read()
	s.ADC.Disable()
	s.enabled = false

	fullScale := hal.MaxRaw(s.Calibration.Bits)
	if raw > fullScale {
		raw = fullScale
	}
	v := float64(raw) / float64(fullScale) * s.Calibration.Reference
	glog.V(4).Infof("sample raw=%d v=%.4f", raw, v)
	return v
}

// Close disables the channel if a measurement left it enabled.
func (s *Sampler) Close() error {
	if s.enabled {
		s.ADC.Disable()
		s.enabled = false
	}
	return nil
}

// Estimator derives resistance from a voltage sample.
type Estimator struct {
	Sampler *Sampler
}

// MeasureResistance samples once and applies the divider formula,
// clamped to 0 for a short and OpenResistance for an open probe.
func (e *Estimator) MeasureResistance() float64 {
	return e.Calibration().Resistance(e.Sampler.MeasureVoltage())
}

// Calibration returns the calibration of the sampler.
func (e *Estimator) Calibration() Calibration {
	return e.Sampler.Calibration
}

// Resistance converts a divider voltage to ohms.
func (c Calibration) Resistance(v float64) float64 {
	switch {
	case v < c.ShortBelow:
		return 0
	case v > c.OpenAbove:
		return c.OpenResistance
	}
	return (c.Reference - v) * c.Series / v
}
