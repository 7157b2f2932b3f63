package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/analyzer"
	"github.com/robotalks/analyzer.go/pkg/input"
	"github.com/robotalks/analyzer.go/pkg/telemetry"
	"github.com/robotalks/analyzer.go/pkg/telemetry/env"
	"github.com/robotalks/analyzer.go/pkg/telemetry/msgs"
)

// Conn is an attached analyzer.
type Conn interface {
	Press(input.Key) error
	Measurements() <-chan *msgs.Measurement
	Close() error
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive  bool
	OutputJSON   bool
	AutoConnect  bool
	WatchTimeout time.Duration

	Shell  *ishell.Shell
	Config *env.RemoteConfig
	Ref    telemetry.Ref
	Conn   Conn

	dial func(telemetry.Ref) (Conn, error)
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// DefaultWatchTimeout bounds the wait of watch.
const DefaultWatchTimeout = 10 * time.Second

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&PressCmd,
		&WatchCmd,
		keyCmd(input.KeyLeft, "<"),
		keyCmd(input.KeyRight, ">"),
		keyCmd(input.KeyOk, "o"),
		keyCmd(input.KeyBack, "b"),
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *env.RemoteConfig) *Shell {
	s := &Shell{
		Interactive:  !evalOnly,
		OutputJSON:   outputJSON,
		WatchTimeout: DefaultWatchTimeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.dial = func(ref telemetry.Ref) (Conn, error) {
		remote, err := conf.Dial(ref)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// FormatInfo prints Info into friendly string for display.
func FormatInfo(info telemetry.Info) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	return w.String()
}

// FormatMeasurement prints a measurement event like the analyzer screen.
func FormatMeasurement(m *msgs.Measurement) string {
	ts := time.Unix(0, m.UnixNano).Format("15:04:05.000")
	switch analyzer.Mode(m.Mode) {
	case analyzer.ModeVoltage:
		return fmt.Sprintf("%s %s: %s", ts, m.ModeName, analyzer.FormatVoltage(m.Voltage))
	case analyzer.ModeResistance:
		return fmt.Sprintf("%s %s: %s", ts, m.ModeName, analyzer.FormatResistance(m.Resistance))
	default:
		return fmt.Sprintf("%s %s", ts, m.ModeName)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverAnalyzers discovers analyzers.
func (s *Shell) DiscoverAnalyzers(filter func(telemetry.Info) bool) ([]telemetry.Info, error) {
	infoList, err := s.Config.Discover(context.TODO())
	if err != nil {
		return nil, err
	}
	if filter != nil {
		items := make([]telemetry.Info, 0, len(infoList))
		for _, info := range infoList {
			if filter(info) {
				items = append(items, info)
			}
		}
		infoList = items
	}
	return infoList, nil
}

// SelectAnalyzer discovers analyzers and asks for a choice.
func (s *Shell) SelectAnalyzer(filter func(telemetry.Info) bool) (*telemetry.Info, error) {
	infoList, err := s.DiscoverAnalyzers(filter)
	if err != nil {
		return nil, err
	}
	if len(infoList) == 0 {
		return nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 analyzers discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
		if index < 0 {
			return nil, nil
		}
	}
	return &infoList[index], nil
}

// Connect attaches the analyzer with ref.
func (s *Shell) Connect(ref telemetry.Ref) error {
	conn, err := s.dial(ref)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Ref, s.Conn = ref, conn
	s.setPrompt(fmt.Sprintf("%s > ", ref.Name()))
	return nil
}

// Disconnect detaches current analyzer.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		if err := s.Conn.Close(); err != nil {
			glog.Warningf("disconnect %s: %v", s.Ref.Name(), err)
		}
		s.Conn, s.Ref = nil, telemetry.Ref{}
		s.setPrompt(unconnectedPrompt)
	}
}

// Press presses a key on the attached analyzer.
func (s *Shell) Press(key input.Key) error {
	if s.Conn == nil {
		return fmt.Errorf("not connected")
	}
	return s.Conn.Press(key)
}

// Watch waits for the next measurement event.
func (s *Shell) Watch(timeout time.Duration) (*msgs.Measurement, error) {
	if s.Conn == nil {
		return nil, fmt.Errorf("not connected")
	}
	select {
	case m := <-s.Conn.Measurements():
		return m, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("no measurement in %s", timeout)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Ref.IsValid() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Ref.Name())
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			glog.Exitf("connect %q failed: %v", s.Config.Ref.Name(), err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

func (s *Shell) print(c *ishell.Context, v interface{}, text string) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

func keyCmd(key input.Key, aliases ...string) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    key.String(),
		Aliases: aliases,
		Help:    "press " + key.String(),
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Press(key); err != nil {
				c.Err(err)
			}
		},
	}
}

var (
	// DiscoverCmd discovers analyzers.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list announced analyzers",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.DiscoverAnalyzers(nil)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []telemetry.Info{}
				}
				s.print(c, infoList, "")
				return
			}
			if len(infoList) == 0 {
				c.Println("No analyzers found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd attaches an analyzer.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var ref telemetry.Ref
			if len(c.Args) >= 2 {
				ref.Type, ref.ID = c.Args[0], c.Args[1]
			} else {
				var filter func(telemetry.Info) bool
				if len(c.Args) == 1 {
					filter = func(info telemetry.Info) bool {
						return info.Ref.Type == c.Args[0]
					}
				}
				info, err := s.SelectAnalyzer(filter)
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no analyzer discovered"))
					return
				}
				ref = info.Ref
			}
			if err := s.Connect(ref); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd detaches current analyzer.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "detach current analyzer",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// PressCmd presses keys in order.
	PressCmd = ishell.Cmd{
		Name:    "press",
		Aliases: []string{"p"},
		Help:    "KEY... (back, left, right, ok)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("key expected"))
				return
			}
			for _, arg := range c.Args {
				key, err := input.ParseKey(arg)
				if err != nil {
					c.Err(err)
					return
				}
				if err = s.Press(key); err != nil {
					c.Err(err)
					return
				}
			}
		},
	}

	// WatchCmd prints the next measurements.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[COUNT] print next measurements",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			count := 1
			if len(c.Args) > 0 {
				if _, err := fmt.Sscanf(c.Args[0], "%d", &count); err != nil || count < 1 {
					c.Err(fmt.Errorf("invalid count %q", c.Args[0]))
					return
				}
			}
			for i := 0; i < count; i++ {
				m, err := s.Watch(s.WatchTimeout)
				if err != nil {
					c.Err(err)
					return
				}
				s.print(c, m, FormatMeasurement(m))
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	env.SetupRemoteFlags()
	flag.Parse()
	New(env.NewRemoteConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
