//go:build tinygo

package hal

import "machine"

// PinADC samples a machine ADC pin. machine.ADC.Get returns a 16-bit
// left aligned value which is scaled down to Bits.
type PinADC struct {
	Pin  machine.ADC
	Bits uint

	configured bool
}

// NewPinADC creates a PinADC on the given pin.
func NewPinADC(pin machine.Pin, bits uint) *PinADC {
	return &PinADC{Pin: machine.ADC{Pin: pin}, Bits: bits}
}

// Enable implements ADC.
func (a *PinADC) Enable() {
	if !a.configured {
		machine.InitADC()
		a.configured = true
	}
	a.Pin.Configure(machine.ADCConfig{Resolution: uint32(a.Bits)})
}

// Read implements ADC.
func (a *PinADC) Read() uint16 {
	return a.Pin.Get() >> (16 - a.Bits)
}

// Disable implements ADC.
func (a *PinADC) Disable() {
	a.Pin.Pin.Configure(machine.PinConfig{Mode: machine.PinInput})
}
