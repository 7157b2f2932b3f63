package hal

import "math"

// Divider simulates the probe wiring: the component under test from the
// reference rail to the probe, and the series resistor from the probe to
// ground. Read reports the probe voltage as a raw sample.
type Divider struct {
	*SimADC

	Reference float64
	Series    float64
	Bits      uint
}

// NewDivider creates a Divider with nothing connected. An open probe is
// pulled to ground.
func NewDivider(reference, series float64, bits uint) *Divider {
	d := &Divider{
		SimADC:    NewSimADC(0),
		Reference: reference,
		Series:    series,
		Bits:      bits,
	}
	d.Connect(math.Inf(1))
	return d
}

// Connect places a component of the given resistance (ohms) on the probe.
// Zero is a short, +Inf leaves the probe open.
func (d *Divider) Connect(ohms float64) {
	d.Simulate(d.rawFor(ohms))
}

// ApplyVoltage drives the probe with a fixed voltage instead of a component.
func (d *Divider) ApplyVoltage(volts float64) {
	d.Simulate(d.rawForVoltage(volts))
}

func (d *Divider) rawFor(ohms float64) uint16 {
	switch {
	case ohms <= 0:
		return MaxRaw(d.Bits)
	case math.IsInf(ohms, 1):
		return 0
	}
	return d.rawForVoltage(d.Reference * d.Series / (ohms + d.Series))
}

func (d *Divider) rawForVoltage(volts float64) uint16 {
	fullScale := float64(MaxRaw(d.Bits))
	raw := math.Round(volts / d.Reference * fullScale)
	if raw < 0 {
		return 0
	}
	if raw > fullScale {
		return uint16(fullScale)
	}
	return uint16(raw)
}
