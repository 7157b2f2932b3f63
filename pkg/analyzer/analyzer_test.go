package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/analyzer.go/pkg/display"
	fx "github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/hal"
	"github.com/robotalks/analyzer.go/pkg/input"
)

func press(k input.Key) input.Event { return input.Event{Key: k, Type: input.TypePress} }

func TestModeCycling(t *testing.T) {
	m := ModeVoltage
	for i := 0; i < 3; i++ {
		m = m.Next()
		require.True(t, m.Valid())
	}
	require.Equal(t, ModeVoltage, m)
	require.Equal(t, ModeDiodeTest, ModeVoltage.Prev())
	require.Equal(t, ModeVoltage, ModeDiodeTest.Next())
	for _, mode := range Modes() {
		require.Equal(t, mode, mode.Next().Prev())
	}
	require.Equal(t, "Diode Test", ModeDiodeTest.String())
	require.False(t, Mode(3).Valid())
}

func TestMeasureVoltageLinear(t *testing.T) {
	adc := hal.NewSimADC(0)
	s := NewSampler(adc)
	prev := -1.0
	for r := 0; r <= 4095; r++ {
		adc.Simulate(uint16(r))
		v := s.MeasureVoltage()
		require.InDelta(t, float64(r)/4095*3.3, v, 1e-9)
		require.True(t, v > prev)
		prev = v
	}
	adc.Simulate(0)
	require.Equal(t, 0.0, s.MeasureVoltage())
	adc.Simulate(4095)
	require.InDelta(t, 3.3, s.MeasureVoltage(), 1e-9)
	adc.Simulate(0xffff)
	require.InDelta(t, 3.3, s.MeasureVoltage(), 1e-9)
}

func TestSamplerReleasesChannel(t *testing.T) {
	adc := hal.NewSimADC(100)
	s := NewSampler(adc)
	s.MeasureVoltage()
	enables, reads, disables := adc.Counts()
	require.Equal(t, []int{1, 1, 1}, []int{enables, reads, disables})
	require.False(t, adc.Enabled())

	require.NoError(t, s.Close())
	_, _, disables = adc.Counts()
	require.Equal(t, 1, disables)

	adc.Enable()
	s.enabled = true
	require.NoError(t, s.Close())
	require.False(t, adc.Enabled())
}

func TestResistanceFormula(t *testing.T) {
	cal := DefaultCalibration()
	testCases := []struct {
		v      float64
		expect float64
	}{
		{0, 0},
		{0.009, 0},
		{3.21, 1.0e7},
		{3.3, 1.0e7},
		{1.65, 10000},
		{0.825, 30000},
		{3.2, 312.5},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%.3fV", tc.v), func(t *testing.T) {
			require.InDelta(t, tc.expect, cal.Resistance(tc.v), 1e-6)
		})
	}
}

func TestMeasureResistance(t *testing.T) {
	cal := DefaultCalibration()
	div := hal.NewDivider(cal.Reference, cal.Series, cal.Bits)
	est := &Estimator{Sampler: NewSampler(div)}
	testCases := []struct {
		ohms   float64
		expect float64
		delta  float64
	}{
		{10000, 10000, 10},
		{4700, 4700, 10},
		{470, 470, 2},
		{0, 1.0e7, 0},
	}
	for _, tc := range testCases {
		div.Connect(tc.ohms)
		require.InDelta(t, tc.expect, est.MeasureResistance(), tc.delta, "%v ohms", tc.ohms)
	}
	div.Connect(1e12)
	require.Equal(t, 0.0, est.MeasureResistance())
}

func TestLoadCalibration(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "cal.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("reference: 5.0\nseries: 4700\n"), 0644))
	cal, err := LoadCalibration(fn)
	require.NoError(t, err)
	require.Equal(t, 5.0, cal.Reference)
	require.Equal(t, 4700.0, cal.Series)
	require.Equal(t, uint(12), cal.Bits)
	require.Equal(t, 1.0e7, cal.OpenResistance)

	require.NoError(t, os.WriteFile(fn, []byte("reference: [1"), 0644))
	_, err = LoadCalibration(fn)
	require.Error(t, err)

	_, err = LoadCalibration(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	conf := NewConfig()
	cal, err = conf.Calibration()
	require.NoError(t, err)
	require.Equal(t, DefaultCalibration(), cal)
}

func TestLoadCalibrationRejectsInvalidProfiles(t *testing.T) {
	testCases := []struct {
		name    string
		profile string
	}{
		{"zero reference", "reference: 0\n"},
		{"negative reference", "reference: -3.3\n"},
		{"zero series", "series: 0\n"},
		{"too many bits", "bits: 24\n"},
		{"inverted clamps", "short_below: 3.0\nopen_above: 0.5\n"},
		{"negative short", "short_below: -0.1\n"},
		{"zero open resistance", "open_resistance: 0\n"},
	}
	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fn := filepath.Join(dir, "cal.yaml")
			require.NoError(t, os.WriteFile(fn, []byte(tc.profile), 0644))
			cal, err := LoadCalibration(fn)
			require.Error(t, err)
			require.Equal(t, DefaultCalibration(), cal)
		})
	}
	require.NoError(t, DefaultCalibration().Validate())
}

type recordingADC struct {
	raw uint16
	log *[]string
}

func (a *recordingADC) Enable()      { *a.log = append(*a.log, "enable") }
func (a *recordingADC) Read() uint16 { *a.log = append(*a.log, "read"); return a.raw }
func (a *recordingADC) Disable()     { *a.log = append(*a.log, "disable") }

type recordingFeedback struct {
	log *[]string
}

func (f *recordingFeedback) MeasurementStarted()   { *f.log = append(*f.log, "started") }
func (f *recordingFeedback) MeasurementSucceeded() { *f.log = append(*f.log, "succeeded") }

func newRecordingDispatcher(raw uint16, log *[]string) *Dispatcher {
	d := NewDispatcher(NewSampler(&recordingADC{raw: raw, log: log}))
	d.Feedback = &recordingFeedback{log: log}
	d.Redraw = func(s State) { *log = append(*log, fmt.Sprintf("redraw testing=%v", s.Testing)) }
	d.Observer = ObserverFunc(func(m Measurement) { *log = append(*log, "measured "+m.Mode.String()) })
	return d
}

func TestDispatchMeasurementOrder(t *testing.T) {
	var log []string
	d := newRecordingDispatcher(2048, &log)
	s := NewState()
	require.Equal(t, ActionNone, d.HandleInput(press(input.KeyOk), s))
	require.False(t, s.Testing)
	require.Equal(t, []string{
		"redraw testing=true",
		"started",
		"enable", "read", "disable",
		"succeeded",
		"measured Voltage",
	}, log)

	log = nil
	s.Mode = ModeDiodeTest
	d.HandleInput(press(input.KeyOk), s)
	require.Equal(t, []string{"redraw testing=true", "started", "succeeded"}, log)
	require.False(t, s.Testing)
}

func TestDispatchStaleness(t *testing.T) {
	var log []string
	d := newRecordingDispatcher(2048, &log)
	s := &State{Mode: ModeVoltage, Resistance: 123}
	d.HandleInput(press(input.KeyOk), s)
	require.InDelta(t, 2048.0/4095*3.3, s.Voltage, 1e-9)
	require.Equal(t, 123.0, s.Resistance)

	voltage := s.Voltage
	d.HandleInput(press(input.KeyRight), s)
	require.Equal(t, ModeResistance, s.Mode)
	require.Equal(t, voltage, s.Voltage)
	d.HandleInput(press(input.KeyOk), s)
	require.InDelta(t, 10000, s.Resistance, 10)
	require.Equal(t, voltage, s.Voltage)
}

func TestDispatchKeys(t *testing.T) {
	testCases := []struct {
		name   string
		state  State
		ev     input.Event
		expect State
		action Action
	}{
		{"left wraps", State{Mode: ModeVoltage}, press(input.KeyLeft), State{Mode: ModeDiodeTest}, ActionNone},
		{"right", State{Mode: ModeVoltage}, press(input.KeyRight), State{Mode: ModeResistance}, ActionNone},
		{"right wraps", State{Mode: ModeDiodeTest}, press(input.KeyRight), State{Mode: ModeVoltage}, ActionNone},
		{"release ignored", State{Mode: ModeVoltage}, input.Event{Key: input.KeyRight, Type: input.TypeRelease}, State{Mode: ModeVoltage}, ActionNone},
		{"repeat ignored", State{Mode: ModeVoltage}, input.Event{Key: input.KeyBack, Type: input.TypeRepeat}, State{Mode: ModeVoltage}, ActionNone},
		{"back", State{Mode: ModeResistance}, press(input.KeyBack), State{Mode: ModeResistance}, ActionExit},
		{"back while testing", State{Mode: ModeVoltage, Testing: true}, press(input.KeyBack), State{Mode: ModeVoltage, Testing: true}, ActionExit},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher(NewSampler(hal.NewSimADC(0)))
			s := tc.state
			require.Equal(t, tc.action, d.HandleInput(tc.ev, &s))
			require.Equal(t, tc.expect, s)
		})
	}
}

func TestFormatResistance(t *testing.T) {
	testCases := []struct {
		ohms   float64
		expect string
	}{
		{0, "0 Ohm"},
		{999, "999 Ohm"},
		{999.7, "999 Ohm"},
		{1000, "1.00 kOhm"},
		{4700, "4.70 kOhm"},
		{1.0e7, "10000.00 kOhm"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expect, FormatResistance(tc.ohms))
	}
	require.Equal(t, "1.650 V", FormatVoltage(1.65))
	require.Equal(t, "0.000 V", FormatVoltage(0))
}

func TestRenderVoltage(t *testing.T) {
	r := display.NewRecorder()
	Render(State{Mode: ModeVoltage, Voltage: 1.65}, r)
	require.Equal(t, []display.Op{
		{Kind: display.OpClear},
		{Kind: display.OpSetFont, Font: display.FontPrimary},
		{Kind: display.OpDrawStr, X: 2, Y: 10, Text: "Component Analyzer"},
		{Kind: display.OpDrawLine, X: 0, Y: 12, X1: 127, Y1: 12},
		{Kind: display.OpDrawStr, X: 10, Y: 30, Text: "Mode: Voltage"},
		{Kind: display.OpSetFont, Font: display.FontBigNumbers},
		{Kind: display.OpDrawStr, X: 20, Y: 60, Text: "1.650 V"},
		{Kind: display.OpSetFont, Font: display.FontSecondary},
		{Kind: display.OpDrawStr, X: 5, Y: 125, Text: Footer},
	}, r.Ops)
}

func TestRenderScreens(t *testing.T) {
	testCases := []struct {
		name   string
		state  State
		expect []string
	}{
		{"resistance", State{Mode: ModeResistance, Resistance: 999}, []string{"Component Analyzer", "Mode: Resistance", "999 Ohm", Footer}},
		{"diode test", State{Mode: ModeDiodeTest, Voltage: 1, Resistance: 2}, []string{"Component Analyzer", "Mode: Diode Test", Footer}},
		{"testing", State{Mode: ModeVoltage, Voltage: 1, Testing: true}, []string{"Testing...", "Connect component", "to pins A7 and GND", Footer}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := display.NewRecorder()
			Render(tc.state, r)
			require.Equal(t, tc.expect, r.Texts())
		})
	}
}

func TestRenderIsPure(t *testing.T) {
	for _, mode := range Modes() {
		for _, busy := range []bool{false, true} {
			s := State{Mode: mode, Voltage: 2.5, Resistance: 1234, Testing: busy}
			orig := s
			r1, r2 := display.NewRecorder(), display.NewRecorder()
			Render(s, r1)
			Render(s, r2)
			require.Equal(t, r1.Ops, r2.Ops)
			require.Equal(t, orig, s)
		}
	}
}

func TestAppletLoop(t *testing.T) {
	cal := DefaultCalibration()
	div := hal.NewDivider(cal.Reference, cal.Series, cal.Bits)
	div.Connect(4700)
	sampler := NewSampler(div)
	d := NewDispatcher(sampler)
	var measured []Measurement
	d.Observer = ObserverFunc(func(m Measurement) { measured = append(measured, m) })
	rec := display.NewRecorder()
	applet := NewApplet(d, rec)

	loop := fx.NewLoop()
	loop.Interval = 5 * time.Millisecond
	loop.Add(applet)
	loop.AddCloser(sampler)
	input.Press(loop, input.KeyRight)
	input.Press(loop, input.KeyOk)
	loop.PostMessage(&input.Event{Key: input.KeyBack, Type: input.TypePress})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, loop.Run(ctx))

	require.Equal(t, ModeResistance, applet.State.Mode)
	require.False(t, applet.State.Testing)
	require.InDelta(t, 4700, applet.State.Resistance, 10)
	require.Equal(t, 0.0, applet.State.Voltage)
	require.Len(t, measured, 1)
	require.Equal(t, ModeResistance, measured[0].Mode)
	require.Contains(t, rec.Texts(), "Testing...")
	require.Contains(t, rec.Texts(), "4.70 kOhm")
	require.False(t, div.Enabled())
}
