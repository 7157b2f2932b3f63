package analyzer

import "fmt"

// Mode is what the analyzer shows and measures.
type Mode int

// Modes, in cycling order.
const (
	ModeVoltage Mode = iota
	ModeResistance
	ModeDiodeTest

	modeCount = iota
)

var modeNames = [modeCount]string{"Voltage", "Resistance", "Diode Test"}

// Modes lists all modes in cycling order.
func Modes() []Mode {
	return []Mode{ModeVoltage, ModeResistance, ModeDiodeTest}
}

// Valid reports whether m is a declared mode.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Next returns the following mode, wrapping to the first.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % modeCount)
}

// Prev returns the preceding mode, wrapping to the last.
func (m Mode) Prev() Mode {
	return Mode((int(m) + modeCount - 1) % modeCount)
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
