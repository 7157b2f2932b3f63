// Package hal abstracts the analog front-end the analyzer samples from.
package hal

import "sync"

// ADC is a single analog input channel.
//
// Implementations treat every call as infallible: a failed conversion
// is reported as whatever raw value the hardware produced, usually 0.
type ADC interface {
	// Enable powers up the channel before a conversion.
	Enable()
	// Read performs one conversion and returns the raw sample.
	Read() uint16
	// Disable powers the channel down again.
	Disable()
}

// Default resolution of the analog channel in bits.
const DefaultResolution = 12

// MaxRaw returns the largest raw sample for the given resolution.
func MaxRaw(bits uint) uint16 {
	if bits == 0 || bits > 16 {
		bits = 16
	}
	return uint16(uint32(1)<<bits - 1)
}

// SimADC is a simulated channel returning a programmable raw sample.
type SimADC struct {
	lock     sync.Mutex
	raw      uint16
	enabled  bool
	enables  int
	disables int
	reads    int
}

// NewSimADC creates a SimADC which reads raw.
func NewSimADC(raw uint16) *SimADC {
	return &SimADC{raw: raw}
}

// Simulate sets the next samples returned by Read.
func (a *SimADC) Simulate(raw uint16) {
	a.lock.Lock()
	a.raw = raw
	a.lock.Unlock()
}

// Enable implements ADC.
func (a *SimADC) Enable() {
	a.lock.Lock()
	a.enabled = true
	a.enables++
	a.lock.Unlock()
}

// Read implements ADC.
func (a *SimADC) Read() uint16 {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.reads++
	if !a.enabled {
		return 0
	}
	return a.raw
}

// Disable implements ADC.
func (a *SimADC) Disable() {
	a.lock.Lock()
	a.enabled = false
	a.disables++
	a.lock.Unlock()
}

// Enabled reports whether the channel is currently powered.
func (a *SimADC) Enabled() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.enabled
}

// Counts returns the number of Enable, Read and Disable calls so far.
func (a *SimADC) Counts() (enables, reads, disables int) {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.enables, a.reads, a.disables
}
