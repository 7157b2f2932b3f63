package probe

import (
	"flag"
	"os"
	"time"

	"github.com/tarm/serial"
)

// Config defines the serial probe settings.
type Config struct {
	// Device is the serial port, empty when no probe is attached.
	Device  string
	Baud    int
	Timeout time.Duration
}

// Port read timeout, the link re-checks its context at this pace.
const portReadTimeout = 100 * time.Millisecond

var defaultConfig = Config{
	Baud:    115200,
	Timeout: time.Second,
}

func init() {
	if dev := os.Getenv("ANALYZER_PROBE"); dev != "" {
		defaultConfig.Device = dev
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "probe", defaultConfig.Device, "Serial device of the probe, empty to simulate.")
	flag.IntVar(&defaultConfig.Baud, "probe-baud", defaultConfig.Baud, "Baud rate of the probe.")
	flag.DurationVar(&defaultConfig.Timeout, "probe-timeout", defaultConfig.Timeout, "Timeout of a probe command.")
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

// Open opens the serial port and wraps it in an ADC.
func (c *Config) Open() (*ADC, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        c.Device,
		Baud:        c.Baud,
		ReadTimeout: portReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	adc := New(port)
	adc.Timeout = c.Timeout
	adc.closer = port
	return adc, nil
}
