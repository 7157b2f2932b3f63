package env

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robotalks/analyzer.go/pkg/telemetry"
	"github.com/robotalks/analyzer.go/pkg/telemetry/mqtt"
)

// RemoteConfig provides options to reach analyzers through a broker.
type RemoteConfig struct {
	Ref telemetry.Ref

	// BrokerURL specifies the MQTT broker the analyzers announce on.
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL       string
	DiscoverTimeout time.Duration
}

var defaultRemoteConfig = RemoteConfig{
	BrokerURL:       "mqtt://localhost:1883/",
	DiscoverTimeout: mqtt.DefaultDiscoverTimeout,
}

func init() {
	if val := os.Getenv("ANALYZER_TYPE"); val != "" {
		defaultRemoteConfig.Ref.Type = val
	}
	if val := os.Getenv("ANALYZER_ID"); val != "" {
		defaultRemoteConfig.Ref.ID = val
	}
	if val := os.Getenv("ANALYZER_BROKER_URL"); val != "" {
		defaultRemoteConfig.BrokerURL = val
	}
}

// SetupRemoteFlags sets up command line flags.
func SetupRemoteFlags() {
	flag.StringVar(&defaultRemoteConfig.Ref.Type, "analyzer-type", defaultRemoteConfig.Ref.Type, "Analyzer type to connect.")
	flag.StringVar(&defaultRemoteConfig.Ref.ID, "analyzer-id", defaultRemoteConfig.Ref.ID, "Analyzer ID to connect.")
	flag.StringVar(&defaultRemoteConfig.BrokerURL, "broker", defaultRemoteConfig.BrokerURL, "MQTT broker URL.")
	flag.DurationVar(&defaultRemoteConfig.DiscoverTimeout, "discover-timeout", defaultRemoteConfig.DiscoverTimeout, "How long to wait for announcements.")
}

// NewRemoteConfig creates a RemoteConfig with default configurations.
func NewRemoteConfig() *RemoteConfig {
	conf := defaultRemoteConfig
	return &conf
}

func (c *RemoteConfig) checkURL() error {
	u, err := url.Parse(c.BrokerURL)
	if err != nil {
		return fmt.Errorf("invalid broker URL: %v", err)
	}
	switch u.Scheme {
	case "mqtt", "mqtts", "ws", "wss":
		return nil
	default:
		return fmt.Errorf("unknown broker URL scheme: %q", u.Scheme)
	}
}

// Discover lists announced analyzers.
func (c *RemoteConfig) Discover(ctx context.Context) ([]telemetry.Info, error) {
	if err := c.checkURL(); err != nil {
		return nil, err
	}
	return mqtt.Discover(ctx, c.BrokerURL, c.DiscoverTimeout)
}

// Dial attaches to the analyzer ref.
func (c *RemoteConfig) Dial(ref telemetry.Ref) (*mqtt.Remote, error) {
	if !ref.IsValid() {
		return nil, fmt.Errorf("analyzer type and id must be specified")
	}
	if err := c.checkURL(); err != nil {
		return nil, err
	}
	return mqtt.Dial(c.BrokerURL, ref)
}
