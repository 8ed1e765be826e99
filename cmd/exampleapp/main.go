// Package main is a simple example app that emits records to see log
// rotation, retention and background compression in action.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golift.io/baklog"
	"golift.io/baklog/retention"
)

// ///////////////////////////////////////////////////////////////////////// //

/* This is a simple example app to write logs and watch them rotate. */

// Usage, rotation only:
//   go run ./cmd/exampleapp
//
// Usage, rotation with background compression:
//   go run ./cmd/exampleapp compress
//
// Usage, rotation with an aggressive retention sweep:
//   go run ./cmd/exampleapp compress delete

const (
	logFileSize     = 64 * 1024 // 64 kilobytes.
	logDir          = "/tmp/baklog-example"
	bytesPerLogLine = 500
	timeBetweenLogs = 5 * time.Millisecond
)

// ///////////////////////////////////////////////////////////////////////// //

func main() {
	settings := baklog.NewSettings()
	settings.SetMaxSize(logFileSize)
	settings.SetCompress(isArg("compress"))
	settings.SetDeleteOld(isArg("delete"))

	if isArg("delete") {
		settings.SetAge(0, retention.Days) // sweep everything, aggressively.
	}

	bus := baklog.NewBus()

	logger, err := baklog.New(&baklog.Config{
		Dir:     logDir,
		Source:  bus,
		Policy:  settings,
		Workers: 2,
	})
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	makeLogs(bus)
}

// Write fake logs!
func makeLogs(bus *baklog.Bus) {
	logLine := strings.Repeat("_", bytesPerLogLine)

	ticker := time.NewTicker(timeBetweenLogs)
	for range ticker.C {
		fmt.Print(".")
		bus.Emit(baklog.Info, logLine)
	}
}

// seems easy, but flag is better.
func isArg(arg string) bool {
	for _, a := range os.Args {
		if strings.EqualFold(a, arg) {
			return true
		}
	}

	return false
}
