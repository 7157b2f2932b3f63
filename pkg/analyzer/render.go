package analyzer

import (
	"fmt"

	"github.com/robotalks/analyzer.go/pkg/display"
)

// Screen layout.
const (
	headerX, headerY   = 2, 10
	dividerY           = 12
	modeX, modeY       = 10, 30
	voltageX, readoutY = 20, 60
	resistanceX        = 10
	hintX, hintY       = 10, 30
	hintLineHeight     = 10
	footerX, footerY   = 5, 125
)

// Footer is the control hint line.
const Footer = "< > mode  OK test  BACK exit"

// FormatVoltage formats volts with three decimals.
func FormatVoltage(v float64) string {
	return fmt.Sprintf("%.3f V", v)
}

// FormatResistance formats whole ohms below 1k, else kilo-ohms with two
// decimals.
func FormatResistance(r float64) string {
	if r < 1000 {
		return fmt.Sprintf("%d Ohm", int(r))
	}
	return fmt.Sprintf("%.2f kOhm", r/1000)
}

// Render draws s onto c. It only reads s.
func Render(s State, c display.Canvas) {
	c.Clear()
	c.SetFont(display.FontPrimary)
	if s.Testing {
		c.DrawStr(headerX, headerY, "Testing...")
		c.SetFont(display.FontSecondary)
		c.DrawStr(hintX, hintY, "Connect component")
		c.DrawStr(hintX, hintY+hintLineHeight, "to pins A7 and GND")
	} else {
		c.DrawStr(headerX, headerY, "Component Analyzer")
		c.DrawLine(0, dividerY, c.Width()-1, dividerY)
		c.DrawStr(modeX, modeY, "Mode: "+s.Mode.String())
		switch s.Mode {
		case ModeVoltage:
			c.SetFont(display.FontBigNumbers)
			c.DrawStr(voltageX, readoutY, FormatVoltage(s.Voltage))
		case ModeResistance:
			c.SetFont(display.FontBigNumbers)
			c.DrawStr(resistanceX, readoutY, FormatResistance(s.Resistance))
		case ModeDiodeTest:
		}
	}
	c.SetFont(display.FontSecondary)
	c.DrawStr(footerX, footerY, Footer)
}
