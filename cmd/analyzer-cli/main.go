package main

import (
	"github.com/robotalks/analyzer.go/pkg/cli/sh"
)

func main() {
	sh.Main()
}
