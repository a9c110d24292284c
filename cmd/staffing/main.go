package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"staffing/internal/config"
)

var (
	runServer          = run
	loadConfig         = config.Load
	exitProcess        = os.Exit
	signalNotify       = signal.Notify
	signalStop         = signal.Stop
	newShutdownContext = context.WithTimeout
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitProcess(1)
	}
}
