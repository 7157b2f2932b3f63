package env

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/robotalks/analyzer.go/pkg/telemetry"
	"github.com/robotalks/analyzer.go/pkg/telemetry/mqtt"
	"github.com/robotalks/analyzer.go/pkg/telemetry/stream"
	"github.com/robotalks/analyzer.go/pkg/telemetry/websocket"
)

// DefaultType is the device type announced on the broker.
const DefaultType = "analyzer"

// Config provides options to publish telemetry.
type Config struct {
	// URL selects the transport, telemetry is off when empty.
	// e.g. mqtt://host:port/topic-prefix, ws://host:port/path,
	// tcp://host:port or unix:///path/to/socket
	URL  string
	Info telemetry.Info
}

var defaultConfig = Config{
	Info: telemetry.Info{Ref: telemetry.Ref{Type: DefaultType}},
}

func init() {
	if val := os.Getenv("ANALYZER_TELEMETRY_URL"); val != "" {
		defaultConfig.URL = val
	}
	if val := os.Getenv("ANALYZER_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "telemetry", defaultConfig.URL, "Telemetry URL (mqtt, mqtts, ws, wss, tcp, unix)")
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Device type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Device ID, defaults to machine ID")
	flag.StringVar(&defaultConfig.Info.Meta.Description, "description", defaultConfig.Info.Meta.Description, "Device description")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewPublisher creates the publisher for the configured transport.
// It returns nil without error when telemetry is off.
func (c *Config) NewPublisher() (*telemetry.Publisher, error) {
	if c.URL == "" {
		return nil, nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid telemetry URL: %v", err)
	}
	switch u.Scheme {
	case "mqtt", "mqtts":
		info := c.Info
		if info.Ref.ID == "" {
			info.Ref.ID = MachineID()
		}
		if !info.Ref.IsValid() {
			return nil, fmt.Errorf("device type and id must be specified")
		}
		reg, err := mqtt.NewRegistrar(c.URL, info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		p := telemetry.NewPublisher(reg.ReadWriter())
		p.Runners = append(p.Runners, reg)
		return p, nil
	case "ws", "wss":
		rw, err := websocket.Dial(c.URL)
		if err != nil {
			return nil, err
		}
		return telemetry.NewPublisher(rw), nil
	case "tcp":
		rw, err := stream.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return telemetry.NewPublisher(rw), nil
	case "unix":
		rw, err := stream.Dial("unix", u.Path)
		if err != nil {
			return nil, err
		}
		return telemetry.NewPublisher(rw), nil
	default:
		return nil, fmt.Errorf("unknown telemetry URL scheme: %q", strings.ToLower(u.Scheme))
	}
}
