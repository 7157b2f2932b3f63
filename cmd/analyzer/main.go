package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/analyzer.go/pkg/analyzer"
	"github.com/robotalks/analyzer.go/pkg/display"
	"github.com/robotalks/analyzer.go/pkg/feedback"
	"github.com/robotalks/analyzer.go/pkg/framework"
	"github.com/robotalks/analyzer.go/pkg/hal"
	"github.com/robotalks/analyzer.go/pkg/hal/probe"
	"github.com/robotalks/analyzer.go/pkg/input"
	"github.com/robotalks/analyzer.go/pkg/input/joystick"
	env "github.com/robotalks/analyzer.go/pkg/telemetry/env"
)

func init() {
	analyzer.SetupFlags()
	probe.SetupFlags()
	joystick.SetupFlags()
	env.Default().Info.Meta.Description = "Component Analyzer"
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf := analyzer.NewConfig()
	cal, err := conf.Calibration()
	if err != nil {
		glog.Exitf("calibration: %v", err)
	}

	loop := framework.NewLoop()
	loop.Interval = conf.Interval
	loop.QueueSize = conf.QueueSize

	fb := display.NewFramebuffer(display.DefaultWidth, display.DefaultHeight, os.Stdout)
	loop.AddCloser(fb)

	kbd, err := input.OpenKeyboard(os.Stdin)
	if err != nil {
		glog.Exitf("keyboard: %v", err)
	}
	loop.AddCloser(kbd).AddRunnable(kbd)
	if js := joystick.NewConfig(); js.Enabled {
		loop.AddRunnable(js.NewSource())
	}

	var adc hal.ADC
	if pc := probe.NewConfig(); pc.Device != "" {
		p, err := pc.Open()
		if err != nil {
			glog.Exitf("probe %s: %v", pc.Device, err)
		}
		loop.AddCloser(p).AddRunnable(p)
		adc = p
	} else {
		glog.Info("no probe, simulating")
		adc = conf.NewSimulator(cal)
	}
	sampler := analyzer.NewSampler(adc)
	sampler.Calibration = cal
	loop.AddCloser(sampler)

	dispatcher := analyzer.NewDispatcher(sampler)
	dispatcher.Feedback = feedback.Multi{feedback.Log{}, feedback.NewBell(os.Stdout)}

	pub, err := env.NewConfig().NewPublisher()
	if err != nil {
		glog.Exitf("telemetry: %v", err)
	}
	if pub != nil {
		dispatcher.Observer = pub
		loop.Add(pub)
	}

	loop.Add(analyzer.NewApplet(dispatcher, fb))
	err = framework.NewRunner().HandleSignals().Go(framework.NamedRun("loop", loop)).Wait()
	glog.Flush()
	if err != nil {
		glog.Exit(err)
	}
}
