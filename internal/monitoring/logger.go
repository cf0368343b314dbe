// Package monitoring carries process-wide diagnostics for the simulator.
package monitoring

import "log"

// Logf is the package-level diagnostic logger used by world mutation and
// placement paths. It defaults to log.Printf; SetLogger can redirect it and
// Mute silences it (useful in tests).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil function installs a no-op
// logger, equivalent to Mute.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Mute()
		return
	}
	Logf = f
}

// Mute installs a no-op logger.
func Mute() {
	Logf = func(string, ...interface{}) {}
}
