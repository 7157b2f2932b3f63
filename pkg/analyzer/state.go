package analyzer

// State is everything the screen shows. It is owned by the loop and
// only changed by the Dispatcher.
type State struct {
	Mode Mode
	// Voltage is the last voltage reading in volts.
	Voltage float64
	// Resistance is the last resistance reading in ohms.
	Resistance float64
	// Testing is set while a measurement is running.
	Testing bool
}

// NewState returns the state at start: voltage mode, no readings.
func NewState() *State {
	return &State{Mode: ModeVoltage}
}
