//go:build linux || darwin

package main

import (
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

// enableCrashTraceback makes a crashing sobek or sqlite call leave a core
// dump when GEOPROMPT_CORE_DUMPS is set.
func enableCrashTraceback() {
	if os.Getenv("GEOPROMPT_CORE_DUMPS") == "" {
		return
	}
	debug.SetTraceback("crash")

	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_CORE, &limit); err != nil || limit.Cur >= limit.Max {
		return
	}
	limit.Cur = limit.Max
	_ = unix.Setrlimit(unix.RLIMIT_CORE, &limit)
}
